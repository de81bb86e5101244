package core

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
)

type blocksCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members: []Datatype{DatatypeBlocks},
		ByBlock: blocksCollector{},
	})
}

func (blocksCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	n, ok := params[DimBlockNumber].(uint64)
	if !ok {
		return nil, &CollectError{Reason: "blocks collector requires a single block number param"}
	}
	return source.Fetcher.GetBlock(ctx, n)
}

func (blocksCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[DatatypeBlocks]
	if !ok {
		return nil
	}
	h, ok := resp.(*types.Header)
	if !ok || h == nil {
		return &CollectError{Reason: "blocks transform expected a *types.Header response"}
	}
	row := RowValues{
		"hash":              func() any { return h.Hash().Bytes() },
		"parent_hash":       func() any { return h.ParentHash.Bytes() },
		"author":            func() any { return h.Coinbase.Bytes() },
		"state_root":        func() any { return h.Root.Bytes() },
		"transactions_root": func() any { return h.TxHash.Bytes() },
		"receipts_root":     func() any { return h.ReceiptHash.Bytes() },
		"number":            func() any { return h.Number.Uint64() },
		"gas_used":          func() any { return h.GasUsed },
		"gas_limit":         func() any { return h.GasLimit },
		"extra_data":        func() any { return h.Extra },
		"logs_bloom":        func() any { return h.Bloom.Bytes() },
		"timestamp":         func() any { return h.Time },
		"size":              func() any { return uint64(h.Size()) },
	}
	if h.Difficulty != nil {
		AddU256Column(row, df, "total_difficulty", NewU256FromBig(h.Difficulty))
	}
	if h.BaseFee != nil {
		AddU256Column(row, df, "base_fee_per_gas", NewU256FromBig(h.BaseFee))
	}
	df.AppendRow(row)
	return nil
}
