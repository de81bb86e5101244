package core

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

type addressAppearancesCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members: []Datatype{DatatypeAddressAppearances},
		ByBlock: addressAppearancesCollector{},
	})
}

type addressAppearancesResponse struct {
	blockNumber uint64
	block       *gethtypes.Header
	txs         []*gethtypes.Transaction
	logs        []gethtypes.Log
	traces      []RawTrace
}

func (addressAppearancesCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	n, ok := params[DimBlockNumber].(uint64)
	if !ok {
		return nil, &CollectError{Reason: "address_appearances collector requires a single block number param"}
	}
	block, err := source.Fetcher.GetBlockWithTxs(ctx, n)
	if err != nil {
		return nil, err
	}
	traces, err := source.Fetcher.TraceBlock(ctx, n)
	if err != nil {
		return nil, err
	}
	header, err := source.Fetcher.GetBlock(ctx, n)
	if err != nil {
		return nil, err
	}
	var logs []gethtypes.Log
	if rs, err := source.Fetcher.GetBlockReceipts(ctx, n); err == nil {
		for _, r := range rs {
			for _, l := range r.Logs {
				logs = append(logs, *l)
			}
		}
	}
	return addressAppearancesResponse{
		blockNumber: n,
		block:       header,
		txs:         block.Transactions(),
		logs:        logs,
		traces:      traces,
	}, nil
}

// appearance pairs one address with how it was seen, deduplicated per
// (address, kind, transaction hash): the same address seen the same way in
// two different transactions of a block emits two rows.
type appearance struct {
	address string
	txHash  []byte
	kind    string
}

func (addressAppearancesCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[DatatypeAddressAppearances]
	if !ok {
		return nil
	}
	r, ok := resp.(addressAppearancesResponse)
	if !ok {
		return &CollectError{Reason: "address_appearances transform expected an addressAppearancesResponse"}
	}

	seen := make(map[string]bool)
	var rows []appearance
	emit := func(addr common.Address, txHash []byte, kind string) {
		key := addr.Hex() + "|" + kind + "|" + string(txHash)
		if seen[key] {
			return
		}
		seen[key] = true
		rows = append(rows, appearance{address: addr.Hex(), txHash: txHash, kind: kind})
	}

	if r.block != nil {
		emit(r.block.Coinbase, nil, "block_author")
	}
	for _, tx := range r.txs {
		var signer gethtypes.Signer
		if tx.ChainId() != nil && tx.ChainId().Sign() > 0 {
			signer = gethtypes.LatestSignerForChainID(tx.ChainId())
		} else {
			signer = gethtypes.HomesteadSigner{}
		}
		from, _ := gethtypes.Sender(signer, tx)
		hash := tx.Hash().Bytes()
		emit(from, hash, "tx_sender")
		if to := tx.To(); to != nil {
			emit(*to, hash, "tx_recipient")
		}
	}
	for _, l := range r.logs {
		emit(l.Address, l.TxHash.Bytes(), "log_address")
	}
	for _, t := range r.traces {
		if t.Error != "" || len(t.Action) == 0 {
			continue
		}
		var action parityAction
		if err := json.Unmarshal(t.Action, &action); err != nil {
			continue
		}
		var txHash []byte
		if t.TransactionHash != nil {
			txHash = t.TransactionHash.Bytes()
		}
		if action.From != "" {
			emit(common.HexToAddress(action.From), txHash, "trace_from")
		}
		to := action.To
		if to == "" {
			to = action.Address
		}
		if to != "" {
			emit(common.HexToAddress(to), txHash, "trace_to")
		}
	}

	blockNumber := r.blockNumber
	for _, a := range rows {
		addrBytes := common.HexToAddress(a.address).Bytes()
		txHash := a.txHash
		kind := a.kind
		row := RowValues{
			"address":         func() any { return addrBytes },
			"block_number":    func() any { return blockNumber },
			"appearance_type": func() any { return kind },
		}
		if txHash != nil {
			row["transaction_hash"] = func() any { return txHash }
		}
		df.AppendRow(row)
	}
	return nil
}
