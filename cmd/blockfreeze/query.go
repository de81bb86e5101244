package main

import (
	"context"
	"fmt"

	"blockfreeze/core"
)

// dimFlagSpec pairs one binary dimension with the CLI tokens the user gave
// it and the default parquet column name ParseBinaryTokens falls back to
// for bare "path.parquet" tokens (no ":column" suffix).
type dimFlagSpec struct {
	dim           core.Dim
	tokens        []string
	defaultColumn string
}

func binaryDimSpecs(f *cliFlags) []dimFlagSpec {
	return []dimFlagSpec{
		{core.DimTransactionHash, f.txs, "transaction_hash"},
		{core.DimAddress, f.address, "address"},
		{core.DimToAddress, f.toAddress, "to_address"},
		{core.DimContract, f.contract, "contract"},
		{core.DimCallData, f.callData, "call_data"},
		{core.DimSlot, f.slot, "slot"},
		{core.DimTopic0, f.topic0, "topic0"},
		{core.DimTopic1, f.topic1, "topic1"},
		{core.DimTopic2, f.topic2, "topic2"},
		{core.DimTopic3, f.topic3, "topic3"},
	}
}

// buildBasePartition parses every populated dimension flag into a single,
// not-yet-expanded Partition: one NumberChunk list for blocks (already
// chunked per chunk-size/n-chunks/align) and one grouped BinaryChunk list
// per populated binary dimension. Every collector's Params lookup reads
// straight from this partition's slots (via ParamSets), so a filter value
// like --address always reaches the collector whether or not the caller
// also partitions output by it.
func buildBasePartition(ctx context.Context, f *cliFlags, latest core.LatestBlockFunc) (*core.Partition, error) {
	p := core.NewPartition()

	// Only default the block dimension to the full chain range when the
	// caller gave us no other way to parametrize a query: an explicit
	// --blocks token always wins, and a --txs-only query (no --blocks)
	// leaves the block dimension unpopulated so ParamSets doesn't cross
	// the transaction-hash dimension against a full-chain block range.
	if len(f.blocks) > 0 || len(f.txs) == 0 {
		blockTokens := f.blocks
		if len(blockTokens) == 0 {
			blockTokens = []string{":"}
		}
		base, err := core.ParseBlockTokens(ctx, blockTokens, latest)
		if err != nil {
			return nil, err
		}

		var chunks []core.NumberChunk
		switch {
		case f.nChunks > 0:
			chunks = base.SubchunkByCount(f.nChunks)
		case f.chunkSize > 0:
			chunks = base.SubchunkBySize(f.chunkSize)
		default:
			chunks = []core.NumberChunk{base}
		}
		if f.align {
			var aligned []core.NumberChunk
			for _, c := range chunks {
				if a, ok := c.Align(f.chunkSize); ok {
					aligned = append(aligned, a)
				}
			}
			chunks = aligned
		}
		if len(chunks) == 0 {
			return nil, &core.ParseError{Reason: "block range produced no chunks after alignment"}
		}
		if err := p.SetNumberChunks(core.DimBlockNumber, chunks, nil); err != nil {
			return nil, err
		}
	}

	for _, spec := range binaryDimSpecs(f) {
		if len(spec.tokens) == 0 {
			continue
		}
		chunk, labels, err := core.ParseBinaryTokens(spec.tokens, spec.defaultColumn)
		if err != nil {
			return nil, err
		}
		grouped, groupedLabels := groupBinaryChunksByLabel(chunk, labels)
		if err := p.SetBinaryChunks(spec.dim, grouped, groupedLabels); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// resolvePartitionBy turns --partition-by's dimension-name tokens into Dims,
// falling back to base's DefaultPartitionBy when the flag was omitted.
func resolvePartitionBy(f *cliFlags, base *core.Partition) ([]core.Dim, error) {
	if len(f.partitionBy) == 0 {
		return base.DefaultPartitionBy(), nil
	}
	dims := make([]core.Dim, 0, len(f.partitionBy))
	for _, tok := range f.partitionBy {
		d, err := core.ParseDim(tok)
		if err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	return dims, nil
}

// buildSchemaRequest translates the schema-related flags into one
// SchemaRequest for dt.
func buildSchemaRequest(f *cliFlags, dt core.Datatype) (core.SchemaRequest, error) {
	req := core.SchemaRequest{
		Datatype:       dt,
		IncludeColumns: f.includeColumns,
		ExcludeColumns: f.excludeColumns,
		Hex:            f.hex,
	}
	if len(f.columns) == 1 && f.columns[0] == "all" {
		req.AllColumns = true
	} else {
		req.Columns = f.columns
	}
	for _, tok := range f.u256Types {
		r, err := core.ParseU256Representation(tok)
		if err != nil {
			return core.SchemaRequest{}, err
		}
		req.U256Representations = append(req.U256Representations, r)
	}
	if len(f.sort) > 0 {
		req.SortColumns = f.sort
	}
	return req, nil
}

// buildQuery resolves datatypes, schemas, and partitions into a core.Query,
// applying the reorg buffer before the final partition-by expansion.
func buildQuery(ctx context.Context, f *cliFlags, datatypes []core.Datatype, latest core.LatestBlockFunc) (*core.Query, error) {
	base, err := buildBasePartition(ctx, f, latest)
	if err != nil {
		return nil, err
	}

	partitionBy, err := resolvePartitionBy(f, base)
	if err != nil {
		return nil, err
	}

	filtered := []*core.Partition{base}
	if f.reorgBuffer > 0 {
		filtered, err = core.ApplyReorgBuffer(ctx, filtered, f.reorgBuffer, latest)
		if err != nil {
			return nil, err
		}
		if len(filtered) == 0 {
			return nil, &core.ParseError{Reason: "reorg buffer filtered out the entire block range"}
		}
	}

	var partitions []*core.Partition
	for _, p := range filtered {
		expanded, err := p.Expand(partitionBy)
		if err != nil {
			return nil, err
		}
		partitions = append(partitions, expanded...)
	}

	schemas := make(map[core.Datatype]*core.Table, len(datatypes))
	for _, dt := range datatypes {
		req, err := buildSchemaRequest(f, dt)
		if err != nil {
			return nil, err
		}
		table, err := core.ResolveSchema(req)
		if err != nil {
			return nil, fmt.Errorf("resolve schema for %s: %w", dt, err)
		}
		schemas[dt] = table
	}

	timeDim := core.TimeDimensionBlocks
	if len(f.txs) > 0 {
		timeDim = core.TimeDimensionTransactions
	}

	return &core.Query{
		Partitions:    partitions,
		PartitionedBy: partitionBy,
		Schemas:       schemas,
		TimeDimension: timeDim,
	}, nil
}
