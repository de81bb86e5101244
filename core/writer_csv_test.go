package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCSVCellTextRendersBinaryUnprefixedAndHexPrefixed(t *testing.T) {
	raw := []byte{0xab, 0xcd}
	if got := csvCellText(ColumnBinary, raw); got != "abcd" {
		t.Fatalf("expected unprefixed hex for ColumnBinary, got %q", got)
	}
	if got := csvCellText(ColumnHex, raw); got != "0xabcd" {
		t.Fatalf("expected 0x-prefixed hex for ColumnHex, got %q", got)
	}
}

func TestCSVCellTextNullRendersEmpty(t *testing.T) {
	if got := csvCellText(ColumnUInt64, nil); got != "" {
		t.Fatalf("expected empty string for a null cell, got %q", got)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks, Columns: []string{"number", "hash"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	df := NewDataFrame(table)
	df.AppendRow(RowValues{
		"number": func() any { return uint64(42) },
		"hash":   func() any { return []byte{0x01, 0x02} },
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := WriteCSV(path, df); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error reading output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a header line plus one data line, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "42") || !strings.Contains(lines[1], "0102") {
		t.Fatalf("expected data row to contain 42 and hex 0102, got %q", lines[1])
	}
}
