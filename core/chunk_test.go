package core

import "testing"

func TestNumberChunkRangeSize(t *testing.T) {
	c := NewNumberRange(100, 109)
	if got := c.Size(); got != 10 {
		t.Fatalf("expected size 10, got %d", got)
	}
	min, ok := c.MinValue()
	if !ok || min != 100 {
		t.Fatalf("expected min 100, got %d ok=%v", min, ok)
	}
	max, ok := c.MaxValue()
	if !ok || max != 109 {
		t.Fatalf("expected max 109, got %d ok=%v", max, ok)
	}
}

func TestNumberChunkEmptyRange(t *testing.T) {
	c := NewNumberRange(10, 5)
	if got := c.Size(); got != 0 {
		t.Fatalf("expected size 0 for inverted range, got %d", got)
	}
	if _, ok := c.MinValue(); ok {
		t.Fatalf("expected no min for empty range")
	}
}

func TestNumberChunkValues(t *testing.T) {
	c := NewNumberValues([]uint64{5, 1, 3})
	if got := c.Size(); got != 3 {
		t.Fatalf("expected size 3, got %d", got)
	}
	min, _ := c.MinValue()
	max, _ := c.MaxValue()
	if min != 1 || max != 5 {
		t.Fatalf("expected min=1 max=5, got min=%d max=%d", min, max)
	}
}

func TestNumberChunkSubchunkBySize(t *testing.T) {
	c := NewNumberRange(0, 24)
	got := c.SubchunkBySize(10)
	if len(got) != 3 {
		t.Fatalf("expected 3 subchunks, got %d", len(got))
	}
	if got[0].Size() != 10 || got[1].Size() != 10 || got[2].Size() != 5 {
		t.Fatalf("unexpected subchunk sizes: %d %d %d", got[0].Size(), got[1].Size(), got[2].Size())
	}
	min, _ := got[2].MinValue()
	max, _ := got[2].MaxValue()
	if min != 20 || max != 24 {
		t.Fatalf("expected last subchunk [20,24], got [%d,%d]", min, max)
	}
}

func TestNumberChunkSubchunkByCount(t *testing.T) {
	c := NewNumberRange(0, 9)
	got := c.SubchunkByCount(4)
	if len(got) != 4 {
		t.Fatalf("expected 4 subchunks, got %d", len(got))
	}
	var total uint64
	for _, sc := range got {
		total += sc.Size()
	}
	if total != 10 {
		t.Fatalf("expected subchunks to cover all 10 elements, got %d", total)
	}
}

func TestNumberChunkAlign(t *testing.T) {
	c := NewNumberRange(103, 209)
	aligned, ok := c.Align(100)
	if !ok {
		t.Fatalf("expected alignment to succeed")
	}
	min, _ := aligned.MinValue()
	max, _ := aligned.MaxValue()
	if min != 200 || max != 200 {
		t.Fatalf("expected aligned range [200,200], got [%d,%d]", min, max)
	}
}

func TestNumberChunkAlignDropsWhenNothingRemains(t *testing.T) {
	c := NewNumberRange(10, 90)
	_, ok := c.Align(100)
	if ok {
		t.Fatalf("expected alignment to drop a sub-multiple range")
	}
}

func TestNumberChunkStubRange(t *testing.T) {
	c := NewNumberRange(1000, 1999)
	stub, err := c.Stub()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub != "00001000_to_00001999" {
		t.Fatalf("unexpected stub: %q", stub)
	}
}

func TestNumberChunkStubValuesIsStable(t *testing.T) {
	c1 := NewNumberValues([]uint64{5, 1, 3})
	c2 := NewNumberValues([]uint64{3, 5, 1})
	stub1, err := c1.Stub()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stub2, err := c2.Stub()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub1 != stub2 {
		t.Fatalf("expected stub to be order-independent, got %q vs %q", stub1, stub2)
	}
}

func TestNumberChunkStubEmptyErrors(t *testing.T) {
	c := NewNumberValues(nil)
	if _, err := c.Stub(); err == nil {
		t.Fatalf("expected error stubbing an empty chunk")
	}
}

func TestNumberChunkRequestWindows(t *testing.T) {
	c := NewNumberRange(0, 24)
	windows := c.RequestWindows(10)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	if windows[2] != [2]uint64{20, 24} {
		t.Fatalf("unexpected last window: %v", windows[2])
	}
}

func TestBinaryChunkDedup(t *testing.T) {
	c := NewBinaryValues([][]byte{{0x01}, {0x02}, {0x01}})
	if got := c.Size(); got != 2 {
		t.Fatalf("expected dedup to leave 2 values, got %d", got)
	}
}

func TestBinaryChunkMinMax(t *testing.T) {
	c := NewBinaryValues([][]byte{{0x03}, {0x01}, {0x02}})
	min, ok := c.MinValue()
	if !ok || min[0] != 0x01 {
		t.Fatalf("expected min 0x01, got %v ok=%v", min, ok)
	}
	max, ok := c.MaxValue()
	if !ok || max[0] != 0x03 {
		t.Fatalf("expected max 0x03, got %v ok=%v", max, ok)
	}
}

func TestBinaryChunkSubchunkBySize(t *testing.T) {
	c := NewBinaryValues([][]byte{{0x01}, {0x02}, {0x03}, {0x04}, {0x05}})
	got := c.SubchunkBySize(2)
	if len(got) != 3 {
		t.Fatalf("expected 3 subchunks, got %d", len(got))
	}
	if got[2].Size() != 1 {
		t.Fatalf("expected last subchunk to hold 1 value, got %d", got[2].Size())
	}
}

func TestBinaryChunkStub(t *testing.T) {
	c := NewBinaryValues([][]byte{{0xaa}, {0xbb}})
	stub, err := c.Stub()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub[:6] != "mixed_" {
		t.Fatalf("expected stub to start with mixed_, got %q", stub)
	}
}

func TestBinaryChunkStubEmptyErrors(t *testing.T) {
	c := NewBinaryValues(nil)
	if _, err := c.Stub(); err == nil {
		t.Fatalf("expected error stubbing an empty chunk")
	}
}
