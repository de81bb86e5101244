package core

import (
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

// ParseBinaryTokens resolves a list of CLI tokens for a byte-string
// dimension into a deduplicated BinaryChunk plus a parallel label slice
// (nil entries where no label applies). Each token is one of:
//
//   - a raw 0x-prefixed hex value
//   - a Parquet file path, optionally suffixed ":column" (defaults to
//     defaultColumn)
//   - a glob pattern expanding to one or more Parquet files
//
// Values read from a file carry a label derived from the filename: the tail
// after the last "__" with the ".parquet" extension stripped, or no label
// if the filename has no "__" separator.
func ParseBinaryTokens(tokens []string, defaultColumn string) (BinaryChunk, []*string, error) {
	var values [][]byte
	var labels []*string

	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X"):
			v, err := hex.DecodeString(strings.TrimPrefix(tok[2:], "0x"))
			if err != nil {
				return BinaryChunk{}, nil, &ParseError{Token: tok, Reason: "invalid hex value"}
			}
			values = append(values, v)
			labels = append(labels, nil)

		default:
			path, column := splitColumnSuffix(tok, defaultColumn)
			matches, err := filepath.Glob(path)
			if err != nil || len(matches) == 0 {
				return BinaryChunk{}, nil, &ParseError{Token: tok, Reason: "no files matched glob/path"}
			}
			for _, file := range matches {
				fileValues, err := readParquetColumn(file, column)
				if err != nil {
					return BinaryChunk{}, nil, &ParseError{Token: file, Reason: "could not read parquet column " + column}
				}
				label := labelFromFilename(file)
				for _, v := range fileValues {
					values = append(values, v)
					labels = append(labels, label)
				}
			}
		}
	}

	chunk := NewBinaryValues(values)
	return chunk, dedupeLabels(values, labels), nil
}

// splitColumnSuffix splits "path:column" into its path and column name,
// falling back to defaultColumn when no ":column" suffix is present.
func splitColumnSuffix(tok, defaultColumn string) (string, string) {
	idx := strings.LastIndex(tok, ":")
	// guard against Windows drive letters / bare paths with no column suffix
	if idx <= 1 || idx == len(tok)-1 {
		return tok, defaultColumn
	}
	return tok[:idx], tok[idx+1:]
}

// labelFromFilename derives a label from the filename tail after the last
// "__", stripping a trailing ".parquet" extension. Returns nil if the
// filename has no "__" separator.
func labelFromFilename(path string) *string {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, "__")
	if idx < 0 {
		return nil
	}
	tail := base[idx+2:]
	tail = strings.TrimSuffix(tail, filepath.Ext(tail))
	return &tail
}

// dedupeLabels mirrors NewBinaryValues' deduplication over the parallel
// label slice so that label[i] still describes values[i] after dedup.
func dedupeLabels(values [][]byte, labels []*string) []*string {
	seen := make(map[string]struct{}, len(values))
	out := make([]*string, 0, len(values))
	for i, v := range values {
		key := string(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, labels[i])
	}
	return out
}

// readParquetColumn opens a Parquet file and reads every value of the named
// column as raw bytes. Hex-encoded string columns are hex-decoded; binary
// columns are passed through unchanged.
func readParquetColumn(path, column string) ([][]byte, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetColumnReader(fr, 4)
	if err != nil {
		return nil, err
	}
	defer pr.ReadStop()

	numRows := int(pr.GetNumRows())
	raw, _, _, err := pr.ReadColumnByPath(pathForColumn(column), numRows)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(raw))
	for _, cell := range raw {
		switch v := cell.(type) {
		case []byte:
			out = append(out, v)
		case string:
			if strings.HasPrefix(v, "0x") {
				if b, err := hex.DecodeString(v[2:]); err == nil {
					out = append(out, b)
					continue
				}
			}
			out = append(out, []byte(v))
		}
	}
	return out, nil
}

// pathForColumn builds the dotted root-relative column path expected by
// parquet-go's ReadColumnByPath for a single top-level, non-nested column.
func pathForColumn(column string) string {
	return "parquet_go_root." + column
}
