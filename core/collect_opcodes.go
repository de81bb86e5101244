package core

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// structLogEntry is one step of the default struct-logger trace produced
// by debug_traceTransaction with no tracer set.
type structLogEntry struct {
	Pc      uint32 `json:"pc"`
	Op      string `json:"op"`
	Gas     uint64 `json:"gas"`
	GasCost uint64 `json:"gasCost"`
	Depth   uint32 `json:"depth"`
}

type structLoggerResult struct {
	StructLogs []structLogEntry `json:"structLogs"`
}

type opcodesCollector struct {
	datatype Datatype
}

func init() {
	registerCollector(collectorRegistration{
		Members:       []Datatype{DatatypeVmTraces},
		ByTransaction: opcodesCollector{datatype: DatatypeVmTraces},
	})
	registerCollector(collectorRegistration{
		Members:       []Datatype{DatatypeGethOpcodes},
		ByTransaction: opcodesCollector{datatype: DatatypeGethOpcodes},
	})
}

type opcodesResponse struct {
	blockNumber uint64
	txHash      []byte
	result      structLoggerResult
}

func (c opcodesCollector) ExtractByTransaction(ctx context.Context, params Params, source *Source) (any, error) {
	hash, ok := params[DimTransactionHash].([]byte)
	if !ok {
		return nil, &CollectError{Reason: "opcodes collector requires a single transaction hash param"}
	}
	h := common.BytesToHash(hash)
	raw, err := source.Fetcher.DebugTraceTransaction(ctx, h, GethTraceOptions{DisableStorage: true})
	if err != nil {
		return nil, err
	}
	var result structLoggerResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &CollectError{Reason: "malformed debug_traceTransaction struct-logger response", Err: err}
	}
	var blockNumber uint64
	if receipt, rerr := source.Fetcher.GetTransactionReceipt(ctx, h); rerr == nil && receipt != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}
	return opcodesResponse{blockNumber: blockNumber, txHash: hash, result: result}, nil
}

func (c opcodesCollector) TransformByTransaction(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[c.datatype]
	if !ok {
		return nil
	}
	r, ok := resp.(opcodesResponse)
	if !ok {
		return &CollectError{Reason: "opcodes transform expected an opcodesResponse"}
	}
	blockNumber := r.blockNumber
	txHash := r.txHash
	for _, step := range r.result.StructLogs {
		s := step
		row := RowValues{
			"block_number":     func() any { return blockNumber },
			"transaction_hash": func() any { return txHash },
			"pc":               func() any { return s.Pc },
			"op":               func() any { return s.Op },
			"gas":              func() any { return s.Gas },
			"gas_cost":         func() any { return s.GasCost },
			"depth":            func() any { return s.Depth },
		}
		df.AppendRow(row)
	}
	return nil
}
