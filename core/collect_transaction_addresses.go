package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

type transactionAddressesCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members:       []Datatype{DatatypeTransactionAddresses},
		ByBlock:       transactionAddressesCollector{},
		ByTransaction: transactionAddressesCollector{},
	})
}

// transactionAddressesCollector reuses the transactions collector's
// extract path (same block/receipt fetch, same txWithReceipt shape) since
// every address role it reports comes straight out of the transaction and
// its receipt.
func (transactionAddressesCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	return transactionsCollector{}.ExtractByBlock(ctx, params, source)
}

func (transactionAddressesCollector) ExtractByTransaction(ctx context.Context, params Params, source *Source) (any, error) {
	return transactionsCollector{}.ExtractByTransaction(ctx, params, source)
}

func (transactionAddressesCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	return transactionAddressesCollector{}.transform(resp, dfs)
}

func (transactionAddressesCollector) TransformByTransaction(resp any, dfs map[Datatype]*DataFrame) error {
	return transactionAddressesCollector{}.transform(resp, dfs)
}

// addressRole names one position a transaction's address list carries,
// long-format: one row per (address, role) pair rather than one row per
// transaction (spec's "long-format address-role rows").
const (
	roleSender    = "sender"
	roleRecipient = "recipient"
	roleContract  = "contract_deployed"
)

func (transactionAddressesCollector) transform(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[DatatypeTransactionAddresses]
	if !ok {
		return nil
	}
	r, ok := resp.(*transactionsResponse)
	if !ok {
		return &CollectError{Reason: "transaction_addresses transform expected a transactionsResponse"}
	}
	for _, item := range r.txs {
		tx := item.tx
		var signer gethtypes.Signer
		if tx.ChainId() != nil && tx.ChainId().Sign() > 0 {
			signer = gethtypes.LatestSignerForChainID(tx.ChainId())
		} else {
			signer = gethtypes.HomesteadSigner{}
		}
		from, _ := gethtypes.Sender(signer, tx)
		blockNumber := item.blockNumber
		txHash := tx.Hash().Bytes()

		appendAddressRow(df, blockNumber, txHash, from.Bytes(), roleSender)
		if to := tx.To(); to != nil {
			appendAddressRow(df, blockNumber, txHash, to.Bytes(), roleRecipient)
		} else if item.receipt != nil && item.receipt.ContractAddress != (common.Address{}) {
			appendAddressRow(df, blockNumber, txHash, item.receipt.ContractAddress.Bytes(), roleContract)
		}
	}
	return nil
}

func appendAddressRow(df *DataFrame, blockNumber uint64, txHash, addr []byte, role string) {
	row := RowValues{
		"block_number":     func() any { return blockNumber },
		"transaction_hash": func() any { return txHash },
		"address":          func() any { return addr },
		"address_role":     func() any { return role },
	}
	df.AppendRow(row)
}
