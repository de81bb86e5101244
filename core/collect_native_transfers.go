package core

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type nativeTransfersCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members:       []Datatype{DatatypeNativeTransfers},
		ByBlock:       nativeTransfersCollector{},
		ByTransaction: nativeTransfersCollector{},
	})
}

func (nativeTransfersCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	n, ok := params[DimBlockNumber].(uint64)
	if !ok {
		return nil, &CollectError{Reason: "native transfers collector requires a single block number param"}
	}
	return source.Fetcher.TraceBlock(ctx, n)
}

func (nativeTransfersCollector) ExtractByTransaction(ctx context.Context, params Params, source *Source) (any, error) {
	hash, ok := params[DimTransactionHash].([]byte)
	if !ok {
		return nil, &CollectError{Reason: "native transfers collector requires a single transaction hash param"}
	}
	return source.Fetcher.TraceTransaction(ctx, common.BytesToHash(hash))
}

func (nativeTransfersCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	return nativeTransfersCollector{}.transform(resp, dfs)
}

func (nativeTransfersCollector) TransformByTransaction(resp any, dfs map[Datatype]*DataFrame) error {
	return nativeTransfersCollector{}.transform(resp, dfs)
}

// transform emits one row per call/create trace that moved a non-zero
// value, skipping reverted (errored) traces entirely — a reverted call
// never actually transferred value regardless of what its action claims.
func (nativeTransfersCollector) transform(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[DatatypeNativeTransfers]
	if !ok {
		return nil
	}
	traces, ok := resp.([]RawTrace)
	if !ok {
		return &CollectError{Reason: "native_transfers transform expected a []RawTrace response"}
	}
	for _, t := range traces {
		if t.Error != "" || (t.Type != "call" && t.Type != "create") {
			continue
		}
		var action parityAction
		if len(t.Action) == 0 {
			continue
		}
		if err := json.Unmarshal(t.Action, &action); err != nil {
			return &CollectError{Reason: "malformed trace action", Err: err}
		}
		if action.Value == "" {
			continue
		}
		valueBytes := hexToBigBytes(action.Value)
		if new(big.Int).SetBytes(valueBytes).Sign() == 0 {
			continue
		}
		to := action.To
		if to == "" {
			to = action.Address // create: the new contract is the recipient
		}
		if action.From == "" || to == "" {
			continue
		}

		blockNumber := t.BlockNumber
		var txHash []byte
		if t.TransactionHash != nil {
			txHash = t.TransactionHash.Bytes()
		}
		from := hexutil.MustDecode(padHex(action.From))
		toAddr := hexutil.MustDecode(padHex(to))

		row := RowValues{
			"block_number": func() any { return blockNumber },
			"from_address": func() any { return from },
			"to_address":   func() any { return toAddr },
		}
		if txHash != nil {
			row["transaction_hash"] = func() any { return txHash }
		}
		AddU256Column(row, df, "value", NewU256FromBytes(valueBytes))
		df.AppendRow(row)
	}
	return nil
}
