package core

import "testing"

func TestUsesBlockRangesOnlyLogs(t *testing.T) {
	for dt := DatatypeBlocks; dt <= DatatypeGethOpcodes; dt++ {
		spec := dt.Spec()
		if spec == nil {
			continue
		}
		want := dt == DatatypeLogs
		if spec.UsesBlockRanges != want {
			t.Fatalf("%s: expected UsesBlockRanges=%v, got %v", spec.Name, want, spec.UsesBlockRanges)
		}
	}
}
