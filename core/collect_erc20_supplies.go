package core

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// erc20TotalSupplySelector is the 4-byte selector for totalSupply().
var erc20TotalSupplySelector = crypto.Keccak256([]byte("totalSupply()"))[:4]

type erc20SuppliesCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members: []Datatype{DatatypeErc20Supplies},
		ByBlock: erc20SuppliesCollector{},
	})
}

type erc20SupplyQuery struct {
	blockNumber uint64
	contract    common.Address
}

func (erc20SuppliesCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	n, ok := params[DimBlockNumber].(uint64)
	if !ok {
		return nil, &CollectError{Reason: "erc20_supplies collector requires a single block number param"}
	}
	addr, ok := params[DimContract].([]byte)
	if !ok {
		return nil, &CollectError{Reason: "erc20_supplies collector requires a contract param"}
	}
	contract := common.BytesToAddress(addr)
	out, err := source.Fetcher.Call(ctx, ethereum.CallMsg{To: &contract, Data: erc20TotalSupplySelector}, n)
	if err != nil {
		return nil, err
	}
	return erc20SupplyResult{query: erc20SupplyQuery{blockNumber: n, contract: contract}, raw: out}, nil
}

type erc20SupplyResult struct {
	query erc20SupplyQuery
	raw   []byte
}

func (erc20SuppliesCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[DatatypeErc20Supplies]
	if !ok {
		return nil
	}
	result, ok := resp.(erc20SupplyResult)
	if !ok {
		return &CollectError{Reason: "erc20_supplies transform expected an erc20SupplyResult response"}
	}
	if len(result.raw) == 0 {
		// a reverting or non-ERC20 contract returns empty data; skip rather
		// than fail the whole chunk.
		return nil
	}
	blockNumber := result.query.blockNumber
	contract := result.query.contract.Bytes()
	row := RowValues{
		"block_number": func() any { return blockNumber },
		"erc20":        func() any { return contract },
	}
	AddU256Column(row, df, "total_supply", NewU256FromBytes(result.raw))
	df.AppendRow(row)
	return nil
}
