package core

import (
	"context"
	"os"
	"testing"
)

func blocksQuery(t *testing.T, nPartitions int) *Query {
	t.Helper()
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var partitions []*Partition
	for i := 0; i < nPartitions; i++ {
		p := NewPartition()
		lo := uint64(i * 10)
		if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(lo, lo+9)}, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		partitions = append(partitions, p)
	}
	return &Query{
		Partitions:    partitions,
		PartitionedBy: []Dim{DimBlockNumber},
		Schemas:       map[Datatype]*Table{DatatypeBlocks: table},
		TimeDimension: TimeDimensionBlocks,
	}
}

func TestFreezeDryRunPlansWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	query := blocksQuery(t, 2)
	output := &FileOutput{OutputDir: dir, Prefix: "ethereum", Format: FormatCSV}
	source := &Source{MaxConcurrentChunks: 2}
	env := NewExecutionEnv(true, false, "", false, false, nil)

	summary, err := Freeze(context.Background(), query, source, output, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Completed) != 0 {
		t.Fatalf("expected dry run to complete nothing, got %d", len(summary.Completed))
	}
	entries, rerr := os.ReadDir(dir)
	if rerr != nil {
		t.Fatalf("unexpected error reading dir: %v", rerr)
	}
	if len(entries) != 0 {
		t.Fatalf("expected dry run to write no files, found %v", entries)
	}
}

func TestFreezeSkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	query := blocksQuery(t, 1)
	output := &FileOutput{OutputDir: dir, Prefix: "ethereum", Format: FormatCSV}

	label, err := query.Partitions[0].Label(query.PartitionedBy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	existingPath := output.Path(DatatypeBlocks, label)
	if err := os.WriteFile(existingPath, []byte("stub"), 0o644); err != nil {
		t.Fatalf("unexpected error pre-creating output: %v", err)
	}

	source := &Source{MaxConcurrentChunks: 1}
	env := NewExecutionEnv(true, false, "", false, false, nil)

	summary, err := Freeze(context.Background(), query, source, output, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Skipped) != 1 {
		t.Fatalf("expected 1 skipped partition (output already exists), got %d", len(summary.Skipped))
	}
}

func TestFreezeOverwriteDoesNotSkip(t *testing.T) {
	dir := t.TempDir()
	query := blocksQuery(t, 1)
	output := &FileOutput{OutputDir: dir, Prefix: "ethereum", Format: FormatCSV, Overwrite: true}

	label, err := query.Partitions[0].Label(query.PartitionedBy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	existingPath := output.Path(DatatypeBlocks, label)
	if err := os.WriteFile(existingPath, []byte("stub"), 0o644); err != nil {
		t.Fatalf("unexpected error pre-creating output: %v", err)
	}

	source := &Source{MaxConcurrentChunks: 1}
	env := NewExecutionEnv(true, false, "", false, false, nil)

	summary, err := Freeze(context.Background(), query, source, output, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Skipped) != 0 {
		t.Fatalf("expected --overwrite to bypass skip classification, got %d skipped", len(summary.Skipped))
	}
}

func TestQueryGroupsDeduplicatesMultiDatatypeMembers(t *testing.T) {
	table1, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBalanceDiffs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	table2, err := ResolveSchema(SchemaRequest{Datatype: DatatypeCodeDiffs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	query := &Query{
		Schemas: map[Datatype]*Table{
			DatatypeBalanceDiffs: table1,
			DatatypeCodeDiffs:    table2,
		},
	}
	groups := queryGroups(query)
	if len(groups) != 1 {
		t.Fatalf("expected balance_diffs and code_diffs to share one state-diff collector registration, got %d", len(groups))
	}
	members := membersInQuery(groups[0], query)
	if len(members) != 2 {
		t.Fatalf("expected both requested members to be included, got %d", len(members))
	}
}
