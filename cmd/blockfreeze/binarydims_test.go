package main

import (
	"testing"

	"blockfreeze/core"
)

func strp(s string) *string { return &s }

func TestGroupBinaryChunksByLabelAllUntagged(t *testing.T) {
	chunk := core.NewBinaryValues([][]byte{{0x01}, {0x02}, {0x03}})
	chunks, labels := groupBinaryChunksByLabel(chunk, []*string{nil, nil, nil})
	if len(chunks) != 1 {
		t.Fatalf("expected all untagged values to collapse to 1 chunk, got %d", len(chunks))
	}
	if len(labels) != 1 || labels[0] != nil {
		t.Fatalf("expected a single nil label, got %v", labels)
	}
	if chunks[0].Size() != 3 {
		t.Fatalf("expected the shared chunk to carry all 3 values, got %d", chunks[0].Size())
	}
}

func TestGroupBinaryChunksByLabelGroupsSameLabel(t *testing.T) {
	labelA := strp("a")
	labelB := strp("b")
	chunk := core.NewBinaryValues([][]byte{{0x01}, {0x02}, {0x03}, {0x04}})
	chunks, labels := groupBinaryChunksByLabel(chunk, []*string{labelA, labelB, labelA, nil})
	if len(chunks) != 3 {
		t.Fatalf("expected 3 distinct buckets (a, b, nil), got %d", len(chunks))
	}
	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}
	if labels[0] == nil || *labels[0] != "a" {
		t.Fatalf("expected first bucket label 'a' (first-seen order), got %v", labels[0])
	}
	if chunks[0].Size() != 2 {
		t.Fatalf("expected label 'a' bucket to hold 2 values, got %d", chunks[0].Size())
	}
}

func TestGroupBinaryChunksByLabelEmpty(t *testing.T) {
	chunk := core.NewBinaryValues(nil)
	chunks, labels := groupBinaryChunksByLabel(chunk, nil)
	if chunks != nil || labels != nil {
		t.Fatalf("expected nil/nil for an empty chunk, got %v %v", chunks, labels)
	}
}
