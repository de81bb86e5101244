package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

type logsCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members: []Datatype{DatatypeLogs},
		ByBlock: logsCollector{},
	})
}

func (logsCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	from, to, err := blockWindowFromParams(params)
	if err != nil {
		return nil, err
	}

	filter := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
	}

	if addr, ok := params[DimAddress].([]byte); ok {
		filter.Addresses = []common.Address{common.BytesToAddress(addr)}
	} else if len(source.LogFilter.Addresses) > 0 {
		for _, a := range source.LogFilter.Addresses {
			filter.Addresses = append(filter.Addresses, common.BytesToAddress(a))
		}
	}

	filter.Topics = buildTopicFilter(params, source.LogFilter)

	return source.Fetcher.GetLogs(ctx, filter)
}

func buildTopicFilter(params Params, cfg LogFilterConfig) [][]common.Hash {
	pick := func(dim Dim, static [][]byte) []common.Hash {
		if v, ok := params[dim].([]byte); ok {
			return []common.Hash{common.BytesToHash(v)}
		}
		if len(static) == 0 {
			return nil
		}
		out := make([]common.Hash, len(static))
		for i, v := range static {
			out[i] = common.BytesToHash(v)
		}
		return out
	}
	topics := [][]common.Hash{
		pick(DimTopic0, cfg.Topic0),
		pick(DimTopic1, cfg.Topic1),
		pick(DimTopic2, cfg.Topic2),
		pick(DimTopic3, cfg.Topic3),
	}
	// trim trailing all-nil positions so filters with only topic0 set don't
	// force-match empty topic1-3, per eth_getLogs semantics (nil = any).
	last := -1
	for i, t := range topics {
		if t != nil {
			last = i
		}
	}
	return topics[:last+1]
}

func blockWindowFromParams(params Params) (uint64, uint64, error) {
	if w, ok := params[DimBlockNumber].(BlockWindow); ok {
		return w[0], w[1], nil
	}
	if n, ok := params[DimBlockNumber].(uint64); ok {
		return n, n, nil
	}
	return 0, 0, &CollectError{Reason: "logs collector requires a block number or block window param"}
}

func (logsCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[DatatypeLogs]
	if !ok {
		return nil
	}
	logs, ok := resp.([]gethtypes.Log)
	if !ok {
		return &CollectError{Reason: "logs transform expected a []types.Log response"}
	}
	for _, log := range logs {
		if log.Removed {
			continue
		}
		if len(log.Topics) > 4 {
			return &CollectError{Reason: "log has more than 4 topics"}
		}
		l := log
		row := RowValues{
			"block_number":     func() any { return l.BlockNumber },
			"transaction_hash": func() any { return l.TxHash.Bytes() },
			"log_index":        func() any { return uint32(l.Index) },
			"address":          func() any { return l.Address.Bytes() },
			"data":             func() any { return l.Data },
		}
		for i, name := range []string{"topic0", "topic1", "topic2", "topic3"} {
			if i < len(l.Topics) {
				topic := l.Topics[i]
				row[name] = func() any { return topic.Bytes() }
			}
		}
		df.AppendRow(row)
	}
	return nil
}
