package core

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

type contractsCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members: []Datatype{DatatypeContracts},
		ByBlock: contractsCollector{},
	})
}

func (contractsCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	n, ok := params[DimBlockNumber].(uint64)
	if !ok {
		return nil, &CollectError{Reason: "contracts collector requires a single block number param"}
	}
	return source.Fetcher.TraceBlock(ctx, n)
}

func (contractsCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[DatatypeContracts]
	if !ok {
		return nil
	}
	traces, ok := resp.([]RawTrace)
	if !ok {
		return &CollectError{Reason: "contracts transform expected a []RawTrace response"}
	}

	// deployer = top-level tx origin; find it once per transaction by
	// locating the trace with an empty traceAddress.
	deployerByTx := make(map[string]string)
	for _, t := range traces {
		if t.Error != "" || len(t.TraceAddress) != 0 {
			continue
		}
		var action parityAction
		if len(t.Action) == 0 {
			continue
		}
		if err := json.Unmarshal(t.Action, &action); err != nil {
			continue
		}
		if t.TransactionHash != nil {
			deployerByTx[t.TransactionHash.Hex()] = action.From
		}
	}

	createIndex := make(map[string]uint32)
	for _, t := range traces {
		if t.Type != "create" || t.Error != "" {
			continue
		}
		var action parityAction
		if err := json.Unmarshal(t.Action, &action); err != nil {
			return &CollectError{Reason: "malformed create action", Err: err}
		}
		var result parityResult
		if len(t.Result) == 0 || string(t.Result) == "null" {
			continue
		}
		if err := json.Unmarshal(t.Result, &result); err != nil {
			return &CollectError{Reason: "malformed create result", Err: err}
		}
		if result.Address == "" {
			continue
		}

		blockNumber := t.BlockNumber
		contractAddr := hexutil.MustDecode(padHex(result.Address))
		factory := hexutil.MustDecode(padHex(action.From))
		initCode := hexutil.MustDecode(padHex(action.Init))
		code := hexutil.MustDecode(padHex(result.Code))
		initCodeHash := crypto.Keccak256(initCode)
		codeHash := crypto.Keccak256(code)

		var deployer []byte
		var txHashBytes []byte
		if t.TransactionHash != nil {
			txHashBytes = t.TransactionHash.Bytes()
			if d, ok := deployerByTx[t.TransactionHash.Hex()]; ok && d != "" {
				deployer = hexutil.MustDecode(padHex(d))
			}
		}
		if deployer == nil {
			deployer = factory
		}

		key := strconv.FormatUint(blockNumber, 10)
		idx := createIndex[key]
		createIndex[key] = idx + 1

		row := RowValues{
			"block_number":     func() any { return blockNumber },
			"contract_address": func() any { return contractAddr },
			"deployer":         func() any { return deployer },
			"factory":          func() any { return factory },
			"init_code":        func() any { return initCode },
			"code":             func() any { return code },
			"init_code_hash":   func() any { return initCodeHash },
			"code_hash":        func() any { return codeHash },
			"create_index":     func() any { return idx },
		}
		if txHashBytes != nil {
			row["transaction_hash"] = func() any { return txHashBytes }
		}
		df.AppendRow(row)
	}
	return nil
}
