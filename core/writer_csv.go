package core

import (
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
)

// csvCellText renders one boxed cell as a UTF-8 string, the representation
// every CSV cell needs regardless of its logical type. A null cell renders
// as "" (CSV has no other way to spell absence).
//
// Binary columns can't carry raw bytes through a UTF-8 text file, so both
// binary encodings render as hex here; ColumnHex keeps its "0x" prefix,
// plain ColumnBinary renders unprefixed, preserving the two encodings as
// visibly distinct even though neither can be the literal raw bytes the
// spec's Parquet path emits.
func csvCellText(ct ColumnType, v any) string {
	if v == nil {
		return ""
	}
	switch ct {
	case ColumnBoolean:
		return strconv.FormatBool(v.(bool))
	case ColumnUInt32:
		return strconv.FormatUint(uint64(v.(uint32)), 10)
	case ColumnUInt64:
		return strconv.FormatUint(v.(uint64), 10)
	case ColumnInt32:
		return strconv.FormatInt(int64(v.(int32)), 10)
	case ColumnInt64:
		return strconv.FormatInt(v.(int64), 10)
	case ColumnFloat32:
		return strconv.FormatFloat(float64(v.(float32)), 'f', -1, 32)
	case ColumnFloat64:
		return strconv.FormatFloat(v.(float64), 'f', -1, 64)
	case ColumnString:
		return v.(string)
	case ColumnHex:
		return "0x" + hex.EncodeToString(v.([]byte))
	default: // ColumnBinary
		return hex.EncodeToString(v.([]byte))
	}
}

// WriteCSV renders a DataFrame as standard comma-separated UTF-8 text with
// a header row, one line per buffered row.
func WriteCSV(path string, df *DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(df.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	n := df.NRows()
	record := make([]string, len(df.Columns))
	for i := 0; i < n; i++ {
		for ci, name := range df.Columns {
			col := df.Data[name]
			record[ci] = csvCellText(col.Type, col.Values[i])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
