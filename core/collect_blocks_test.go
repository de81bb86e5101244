package core

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
)

func TestBlocksCollectorTransformByBlock(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	df := NewDataFrame(table)

	header := &types.Header{
		Number:     big.NewInt(100),
		GasUsed:    21000,
		GasLimit:   30000000,
		Time:       1700000000,
		Difficulty: big.NewInt(0),
		BaseFee:    big.NewInt(7),
	}

	c := blocksCollector{}
	if err := c.TransformByBlock(header, map[Datatype]*DataFrame{DatatypeBlocks: df}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if df.NRows() != 1 {
		t.Fatalf("expected 1 row, got %d", df.NRows())
	}
	if !df.HasColumn("base_fee_per_gas_string") {
		t.Fatalf("expected default U256 fan-out to populate base_fee_per_gas_string")
	}
}

func TestBlocksCollectorTransformByBlockRejectsWrongType(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	df := NewDataFrame(table)
	c := blocksCollector{}
	if err := c.TransformByBlock("not-a-header", map[Datatype]*DataFrame{DatatypeBlocks: df}); err == nil {
		t.Fatalf("expected an error for a non-header response")
	}
}

func TestBlocksCollectorExtractByBlockRequiresBlockNumberParam(t *testing.T) {
	c := blocksCollector{}
	if _, err := c.ExtractByBlock(nil, Params{}, &Source{}); err == nil {
		t.Fatalf("expected an error when the block number param is missing")
	}
}
