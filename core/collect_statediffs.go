package core

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// parityAccountDiff is one address's entry in a trace_replay* stateDiff
// map: each field is itself a Diff union (Same/Born/Died/Changed), decoded
// lazily since its shape depends on which of the three cases it is.
type parityAccountDiff struct {
	Balance json.RawMessage            `json:"balance"`
	Code    json.RawMessage            `json:"code"`
	Nonce   json.RawMessage            `json:"nonce"`
	Storage map[string]json.RawMessage `json:"storage"`
}

type parityChanged struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// decodedDiff holds a Diff union folded into its two sides; zero bytes on
// whichever side the union didn't carry a value for (spec.md §9: "using
// zero for missing side").
type decodedDiff struct {
	from []byte
	to   []byte
}

// foldDiff decodes one of Parity's Diff values — "=" (Same), {"+": v}
// (Born), {"-": v} (Died), or {"*": {"from": a, "to": b}} (Changed) — into
// a (from, to) pair of raw hex-decoded byte slices.
func foldDiff(raw json.RawMessage) (decodedDiff, bool) {
	if len(raw) == 0 {
		return decodedDiff{}, false
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "=" {
			return decodedDiff{}, false
		}
	}
	var born map[string]string
	if err := json.Unmarshal(raw, &born); err == nil {
		if v, ok := born["+"]; ok {
			return decodedDiff{from: zero32(), to: hexutil.MustDecode(padHex(v))}, true
		}
		if v, ok := born["-"]; ok {
			return decodedDiff{from: hexutil.MustDecode(padHex(v)), to: zero32()}, true
		}
	}
	var changed struct {
		Star parityChanged `json:"*"`
	}
	if err := json.Unmarshal(raw, &changed); err == nil && (changed.Star.From != "" || changed.Star.To != "") {
		return decodedDiff{
			from: hexutil.MustDecode(padHex(changed.Star.From)),
			to:   hexutil.MustDecode(padHex(changed.Star.To)),
		}, true
	}
	return decodedDiff{}, false
}

// zero32 is the "missing side" value for a Born/Died diff: a concrete
// 32-byte zero rather than a null, matching the fold's documented
// "zero for missing side" semantics.
func zero32() []byte { return make([]byte, 32) }

type stateDiffsCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members: []Datatype{
			DatatypeBalanceDiffs, DatatypeCodeDiffs, DatatypeNonceDiffs, DatatypeStorageDiffs,
		},
		ByBlock:       stateDiffsCollector{},
		ByTransaction: stateDiffsCollector{},
	})
}

// stateDiffBatch carries the block number alongside its trace_replay*
// results — RawReplayResult itself has no blockNumber field, so the block
// context has to travel separately from extract to transform.
type stateDiffBatch struct {
	blockNumber *uint64
	results     []RawReplayResult
}

func (stateDiffsCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	n, ok := params[DimBlockNumber].(uint64)
	if !ok {
		return nil, &CollectError{Reason: "state diffs collector requires a single block number param"}
	}
	results, err := source.Fetcher.TraceReplayBlockTransactions(ctx, n, []string{"stateDiff"})
	if err != nil {
		return nil, err
	}
	return stateDiffBatch{blockNumber: &n, results: results}, nil
}

func (stateDiffsCollector) ExtractByTransaction(ctx context.Context, params Params, source *Source) (any, error) {
	hash, ok := params[DimTransactionHash].([]byte)
	if !ok {
		return nil, &CollectError{Reason: "state diffs collector requires a single transaction hash param"}
	}
	result, err := source.Fetcher.TraceReplayTransaction(ctx, common.BytesToHash(hash), []string{"stateDiff"})
	if err != nil {
		return nil, err
	}
	return stateDiffBatch{results: []RawReplayResult{*result}}, nil
}

func (stateDiffsCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	return stateDiffsCollector{}.transform(resp, dfs)
}

func (stateDiffsCollector) TransformByTransaction(resp any, dfs map[Datatype]*DataFrame) error {
	return stateDiffsCollector{}.transform(resp, dfs)
}

func (stateDiffsCollector) transform(resp any, dfs map[Datatype]*DataFrame) error {
	batch, ok := resp.(stateDiffBatch)
	if !ok {
		return &CollectError{Reason: "state diffs transform expected a stateDiffBatch response"}
	}
	for _, result := range batch.results {
		txHash := result.TransactionHash.Bytes()
		for addrHex, raw := range result.StateDiff {
			var diff parityAccountDiff
			if err := json.Unmarshal(raw, &diff); err != nil {
				return &CollectError{Reason: "malformed state diff entry", Err: err}
			}
			addr := common.HexToAddress(addrHex).Bytes()

			if df, ok := dfs[DatatypeBalanceDiffs]; ok {
				appendU256DiffRow(df, batch.blockNumber, txHash, addr, nil, diff.Balance)
			}
			if df, ok := dfs[DatatypeNonceDiffs]; ok {
				appendU256DiffRow(df, batch.blockNumber, txHash, addr, nil, diff.Nonce)
			}
			if df, ok := dfs[DatatypeCodeDiffs]; ok {
				appendBinaryDiffRow(df, batch.blockNumber, txHash, addr, nil, diff.Code)
			}
			if df, ok := dfs[DatatypeStorageDiffs]; ok {
				for slotHex, slotRaw := range diff.Storage {
					slot := hexutil.MustDecode(padHex(slotHex))
					appendBinaryDiffRow(df, batch.blockNumber, txHash, addr, slot, slotRaw)
				}
			}
		}
	}
	return nil
}

func appendU256DiffRow(df *DataFrame, blockNumber *uint64, txHash, addr, slot []byte, raw json.RawMessage) {
	d, changed := foldDiff(raw)
	if !changed {
		return
	}
	row := baseDiffRow(blockNumber, txHash, addr, slot)
	AddU256Column(row, df, "from_value", NewU256FromBytes(d.from))
	AddU256Column(row, df, "to_value", NewU256FromBytes(d.to))
	df.AppendRow(row)
}

func appendBinaryDiffRow(df *DataFrame, blockNumber *uint64, txHash, addr, slot []byte, raw json.RawMessage) {
	d, changed := foldDiff(raw)
	if !changed {
		return
	}
	row := baseDiffRow(blockNumber, txHash, addr, slot)
	row["from_value"] = func() any { return d.from }
	row["to_value"] = func() any { return d.to }
	df.AppendRow(row)
}

// baseDiffRow builds the shared columns for one diff row. block_number is
// left unset (null) when the extract path couldn't supply one, which is
// the case for trace_replayTransaction — it has no block-number field.
func baseDiffRow(blockNumber *uint64, txHash, addr, slot []byte) RowValues {
	row := RowValues{
		"transaction_hash": func() any { return txHash },
		"address":          func() any { return addr },
	}
	if blockNumber != nil {
		n := *blockNumber
		row["block_number"] = func() any { return n }
	}
	if slot != nil {
		row["slot"] = func() any { return slot }
	}
	return row
}
