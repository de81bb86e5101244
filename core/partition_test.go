package core

import "testing"

func TestPartitionSetNumberChunksRejectsBinaryDim(t *testing.T) {
	p := NewPartition()
	err := p.SetNumberChunks(DimAddress, []NumberChunk{NewNumberRange(0, 1)}, nil)
	if err == nil {
		t.Fatalf("expected error setting number chunks on a binary dimension")
	}
}

func TestPartitionSetBinaryChunksRejectsNumberDim(t *testing.T) {
	p := NewPartition()
	err := p.SetBinaryChunks(DimBlockNumber, []BinaryChunk{NewBinaryValues([][]byte{{0x01}})}, nil)
	if err == nil {
		t.Fatalf("expected error setting binary chunks on a numeric dimension")
	}
}

func TestPartitionSetChunksRejectsMismatchedLabels(t *testing.T) {
	p := NewPartition()
	lbl := "a"
	err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(0, 1), NewNumberRange(2, 3)}, []*string{&lbl})
	if err == nil {
		t.Fatalf("expected error on label/chunk count mismatch")
	}
}

func TestPartitionValidateRequiresOneDim(t *testing.T) {
	p := NewPartition()
	if err := p.Validate(); err == nil {
		t.Fatalf("expected validate to fail on empty partition")
	}
}

func TestPartitionExpandCrossProduct(t *testing.T) {
	p := NewPartition()
	if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(0, 9), NewNumberRange(10, 19)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addrLabel := "a"
	if err := p.SetBinaryChunks(DimAddress, []BinaryChunk{NewBinaryValues([][]byte{{0x01}})}, []*string{&addrLabel}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expanded, err := p.Expand([]Dim{DimBlockNumber})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expanded) != 2 {
		t.Fatalf("expected 2 partitions after expanding 2 block chunks, got %d", len(expanded))
	}
	for _, ep := range expanded {
		if ep.NChunks(DimBlockNumber) != 1 {
			t.Fatalf("expected each expanded partition to carry exactly one block chunk")
		}
		if ep.NChunks(DimAddress) != 1 {
			t.Fatalf("expected the unexpanded address dimension to be preserved")
		}
	}
}

func TestPartitionExpandUnpopulatedDimErrors(t *testing.T) {
	p := NewPartition()
	if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(0, 9)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Expand([]Dim{DimAddress}); err == nil {
		t.Fatalf("expected error expanding by an unpopulated dimension")
	}
}

func TestPartitionLabelUsesUserLabelThenStub(t *testing.T) {
	p := NewPartition()
	lbl := "mychunk"
	if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(100, 199)}, []*string{&lbl}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, err := p.Label([]Dim{DimBlockNumber})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "mychunk" {
		t.Fatalf("expected label to use the user-supplied label, got %q", label)
	}

	p2 := NewPartition()
	if err := p2.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(100, 199)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label2, err := p2.Label([]Dim{DimBlockNumber})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label2 != "00000100_to_00000199" {
		t.Fatalf("expected label to fall back to the chunk stub, got %q", label2)
	}
}

func TestPartitionLabelRequiresSingleChunk(t *testing.T) {
	p := NewPartition()
	if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(0, 9), NewNumberRange(10, 19)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Label([]Dim{DimBlockNumber}); err == nil {
		t.Fatalf("expected error labeling a dimension with more than one chunk")
	}
}

func TestPartitionParamSetsCrossProduct(t *testing.T) {
	p := NewPartition()
	if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(0, 1)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.SetBinaryChunks(DimAddress, []BinaryChunk{NewBinaryValues([][]byte{{0x01}, {0x02}})}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sets, err := p.ParamSets(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 4 {
		t.Fatalf("expected 2 blocks * 2 addresses = 4 param sets, got %d", len(sets))
	}
	for _, s := range sets {
		if _, ok := s[DimBlockNumber]; !ok {
			t.Fatalf("expected every param set to carry a block number")
		}
		if _, ok := s[DimAddress]; !ok {
			t.Fatalf("expected every param set to carry an address")
		}
	}
}

func TestPartitionParamSetsWindowedBlocks(t *testing.T) {
	p := NewPartition()
	if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(0, 24)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sets, err := p.ParamSets(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 3 {
		t.Fatalf("expected 3 windows of size 10 over 25 blocks, got %d", len(sets))
	}
	w, ok := sets[0][DimBlockNumber].(BlockWindow)
	if !ok {
		t.Fatalf("expected a BlockWindow value, got %T", sets[0][DimBlockNumber])
	}
	if w != (BlockWindow{0, 9}) {
		t.Fatalf("expected first window [0,9], got %v", w)
	}
}

func TestPartitionDefaultPartitionByFallsBackToBlockNumber(t *testing.T) {
	p := NewPartition()
	if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(0, 9)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := p.DefaultPartitionBy()
	if len(got) != 1 || got[0] != DimBlockNumber {
		t.Fatalf("expected default partition-by [BlockNumber], got %v", got)
	}
}

func TestPartitionDefaultPartitionByPrefersTransactionHash(t *testing.T) {
	p := NewPartition()
	if err := p.SetBinaryChunks(DimTransactionHash, []BinaryChunk{NewBinaryValues([][]byte{{0x01}})}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := p.DefaultPartitionBy()
	if len(got) != 1 || got[0] != DimTransactionHash {
		t.Fatalf("expected default partition-by [TransactionHash], got %v", got)
	}
}

func TestPartitionStatsRollup(t *testing.T) {
	p := NewPartition()
	if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(0, 9), NewNumberRange(10, 19)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats := p.Stats()
	if len(stats) != 1 {
		t.Fatalf("expected 1 dimension of stats, got %d", len(stats))
	}
	if stats[0].Total != 20 {
		t.Fatalf("expected total 20, got %d", stats[0].Total)
	}
	if stats[0].NChunks != 2 {
		t.Fatalf("expected 2 chunks, got %d", stats[0].NChunks)
	}
}
