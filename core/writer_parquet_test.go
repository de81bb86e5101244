package core

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestBuildParquetRowTypeOneFieldPerColumn(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks, Columns: []string{"number", "hash"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	df := NewDataFrame(table)
	rowType, fields := buildParquetRowType(df)
	if rowType.NumField() != len(df.Columns) {
		t.Fatalf("expected %d struct fields, got %d", len(df.Columns), rowType.NumField())
	}
	if len(fields) != len(df.Columns) {
		t.Fatalf("expected %d parquetField entries, got %d", len(df.Columns), len(fields))
	}
}

func TestParquetCellValueNilBecomesZeroPointer(t *testing.T) {
	goType := reflect.TypeOf(uint64(0))
	v := parquetCellValue(ColumnUInt64, goType, nil)
	if !v.IsNil() {
		t.Fatalf("expected a nil pointer for a null cell")
	}
}

func TestParquetCellValueHexPrefixesAndBinaryPassesThrough(t *testing.T) {
	strType := reflect.TypeOf("")
	raw := []byte{0xab, 0xcd}

	hexVal := parquetCellValue(ColumnHex, strType, raw)
	if hexVal.Elem().String() != "0xabcd" {
		t.Fatalf("expected 0x-prefixed hex, got %q", hexVal.Elem().String())
	}

	binVal := parquetCellValue(ColumnBinary, strType, raw)
	if binVal.Elem().String() != string(raw) {
		t.Fatalf("expected raw bytes carried through as a string, got %q", binVal.Elem().String())
	}
}

func TestWriteParquetProducesNonEmptyFile(t *testing.T) {
	table, err := ResolveSchema(SchemaRequest{Datatype: DatatypeBlocks, Columns: []string{"number", "hash"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	df := NewDataFrame(table)
	df.AppendRow(RowValues{
		"number": func() any { return uint64(1) },
		"hash":   func() any { return []byte{0x01, 0x02} },
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "out.parquet")
	out := &FileOutput{ParquetCompression: Compression{Name: "snappy"}}
	if err := WriteParquet(path, df, out, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error stat-ing output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected a non-empty parquet file")
	}
}
