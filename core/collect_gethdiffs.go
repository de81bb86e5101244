package core

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// gethAccountState is one address's prestateTracer diffMode snapshot —
// only the fields that tracer actually touched are populated.
type gethAccountState struct {
	Balance *string           `json:"balance"`
	Nonce   *uint64           `json:"nonce"`
	Code    *string           `json:"code"`
	Storage map[string]string `json:"storage"`
}

// gethPrestateDiff is debug_trace*'s prestateTracer {"diffMode": true}
// result shape: accounts as they were before the call, and only the
// fields that changed, as they were after.
type gethPrestateDiff struct {
	Pre  map[string]gethAccountState `json:"pre"`
	Post map[string]gethAccountState `json:"post"`
}

// gethBlockTraceEntry is one element of debug_traceBlockByNumber's array
// response: the transaction hash alongside its tracer result.
type gethBlockTraceEntry struct {
	TxHash common.Hash     `json:"txHash"`
	Result json.RawMessage `json:"result"`
}

var prestateDiffModeConfig = json.RawMessage(`{"diffMode":true}`)

func prestateDiffOptions() GethTraceOptions {
	return GethTraceOptions{Tracer: "prestateTracer", TracerConfig: prestateDiffModeConfig}
}

type gethDiffsCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members: []Datatype{
			DatatypeGethBalanceDiffs, DatatypeGethCodeDiffs,
			DatatypeGethNonceDiffs, DatatypeGethStorageDiffs,
		},
		ByBlock:       gethDiffsCollector{},
		ByTransaction: gethDiffsCollector{},
	})
}

func (gethDiffsCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	n, ok := params[DimBlockNumber].(uint64)
	if !ok {
		return nil, &CollectError{Reason: "geth diffs collector requires a single block number param"}
	}
	raw, err := source.Fetcher.DebugTraceBlockByNumber(ctx, n, prestateDiffOptions())
	if err != nil {
		return nil, err
	}
	var entries []gethBlockTraceEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &CollectError{Reason: "malformed debug_traceBlockByNumber response", Err: err}
	}
	return gethDiffBatch{blockNumber: &n, entries: entries}, nil
}

func (gethDiffsCollector) ExtractByTransaction(ctx context.Context, params Params, source *Source) (any, error) {
	hash, ok := params[DimTransactionHash].([]byte)
	if !ok {
		return nil, &CollectError{Reason: "geth diffs collector requires a single transaction hash param"}
	}
	h := common.BytesToHash(hash)
	raw, err := source.Fetcher.DebugTraceTransaction(ctx, h, prestateDiffOptions())
	if err != nil {
		return nil, err
	}
	return gethDiffBatch{entries: []gethBlockTraceEntry{{TxHash: h, Result: raw}}}, nil
}

type gethDiffBatch struct {
	blockNumber *uint64
	entries     []gethBlockTraceEntry
}

func (gethDiffsCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	return gethDiffsCollector{}.transform(resp, dfs)
}

func (gethDiffsCollector) TransformByTransaction(resp any, dfs map[Datatype]*DataFrame) error {
	return gethDiffsCollector{}.transform(resp, dfs)
}

func (gethDiffsCollector) transform(resp any, dfs map[Datatype]*DataFrame) error {
	batch, ok := resp.(gethDiffBatch)
	if !ok {
		return &CollectError{Reason: "geth diffs transform expected a gethDiffBatch response"}
	}
	for _, entry := range batch.entries {
		var diff gethPrestateDiff
		if err := json.Unmarshal(entry.Result, &diff); err != nil {
			return &CollectError{Reason: "malformed prestateTracer diffMode result", Err: err}
		}
		txHash := entry.TxHash.Bytes()

		for addrHex, postState := range diff.Post {
			preState := diff.Pre[addrHex]
			addr := common.HexToAddress(addrHex).Bytes()

			if df, ok := dfs[DatatypeGethBalanceDiffs]; ok && postState.Balance != nil {
				from := gethQuantityOrZero(preState.Balance)
				to := gethQuantityOrZero(postState.Balance)
				row := baseDiffRow(batch.blockNumber, txHash, addr, nil)
				AddU256Column(row, df, "from_value", NewU256FromBytes(from))
				AddU256Column(row, df, "to_value", NewU256FromBytes(to))
				df.AppendRow(row)
			}
			if df, ok := dfs[DatatypeGethNonceDiffs]; ok && postState.Nonce != nil {
				var fromNonce uint64
				if preState.Nonce != nil {
					fromNonce = *preState.Nonce
				}
				row := baseDiffRow(batch.blockNumber, txHash, addr, nil)
				AddU256Column(row, df, "from_value", NewU256FromUint64(fromNonce))
				AddU256Column(row, df, "to_value", NewU256FromUint64(*postState.Nonce))
				df.AppendRow(row)
			}
			if df, ok := dfs[DatatypeGethCodeDiffs]; ok && postState.Code != nil {
				var fromCode []byte
				if preState.Code != nil {
					fromCode = hexutil.MustDecode(padHex(*preState.Code))
				}
				row := baseDiffRow(batch.blockNumber, txHash, addr, nil)
				toCode := hexutil.MustDecode(padHex(*postState.Code))
				row["from_value"] = func() any { return fromCode }
				row["to_value"] = func() any { return toCode }
				df.AppendRow(row)
			}
			if df, ok := dfs[DatatypeGethStorageDiffs]; ok {
				for slotHex, toVal := range postState.Storage {
					slot := hexutil.MustDecode(padHex(slotHex))
					fromVal := preState.Storage[slotHex]
					row := baseDiffRow(batch.blockNumber, txHash, addr, slot)
					from := gethHexOrZero(&fromVal)
					to := gethHexOrZero(&toVal)
					row["from_value"] = func() any { return from }
					row["to_value"] = func() any { return to }
					df.AppendRow(row)
				}
			}
		}
	}
	return nil
}

// gethHexOrZero decodes an optional fixed-width hex field (32-byte storage
// values) treating a nil or empty field as a concrete 32-byte zero.
func gethHexOrZero(hex *string) []byte {
	if hex == nil || *hex == "" {
		return zero32()
	}
	return hexutil.MustDecode(padHex(*hex))
}

// gethQuantityOrZero decodes an optional hex-quantity field (compact,
// possibly odd-length, as produced by hexutil.Big) to its big-endian byte
// form, treating a nil or empty field as a concrete 32-byte zero.
func gethQuantityOrZero(hex *string) []byte {
	if hex == nil || *hex == "" {
		return zero32()
	}
	return hexToBigBytes(*hex)
}
