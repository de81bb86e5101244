package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// erc20TransferSignature is keccak256("Transfer(address,address,uint256)").
var erc20TransferSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

type erc20TransfersCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members: []Datatype{DatatypeErc20Transfers},
		ByBlock: erc20TransfersCollector{},
	})
}

func (erc20TransfersCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	from, to, err := blockWindowFromParams(params)
	if err != nil {
		return nil, err
	}
	filter := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Topics:    [][]common.Hash{{erc20TransferSignature}},
	}
	if addr, ok := params[DimContract].([]byte); ok {
		filter.Addresses = []common.Address{common.BytesToAddress(addr)}
	} else if len(source.LogFilter.Addresses) > 0 {
		for _, a := range source.LogFilter.Addresses {
			filter.Addresses = append(filter.Addresses, common.BytesToAddress(a))
		}
	}
	return source.Fetcher.GetLogs(ctx, filter)
}

func (erc20TransfersCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[DatatypeErc20Transfers]
	if !ok {
		return nil
	}
	logs, ok := resp.([]gethtypes.Log)
	if !ok {
		return &CollectError{Reason: "erc20_transfers transform expected a []types.Log response"}
	}
	for _, log := range logs {
		if log.Removed {
			continue
		}
		if len(log.Topics) != 3 || len(log.Data) != 32 {
			continue
		}
		l := log
		row := RowValues{
			"block_number":     func() any { return l.BlockNumber },
			"transaction_hash": func() any { return l.TxHash.Bytes() },
			"log_index":        func() any { return uint32(l.Index) },
			"erc20":            func() any { return l.Address.Bytes() },
			"from_address":     func() any { return common.BytesToAddress(l.Topics[1].Bytes()).Bytes() },
			"to_address":       func() any { return common.BytesToAddress(l.Topics[2].Bytes()).Bytes() },
		}
		AddU256Column(row, df, "value", NewU256FromBytes(l.Data))
		df.AppendRow(row)
	}
	return nil
}
