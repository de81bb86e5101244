package core

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// jsonCellValue renders one boxed cell as the value json.Marshal should see
// for this row's field: numeric and boolean columns stay native JSON
// numbers/booleans so downstream readers don't have to re-parse strings,
// while binary columns render as hex text for the same UTF-8-safety reason
// as the CSV writer. A null cell becomes JSON null.
func jsonCellValue(ct ColumnType, v any) any {
	if v == nil {
		return nil
	}
	switch ct {
	case ColumnHex:
		return "0x" + hex.EncodeToString(v.([]byte))
	case ColumnBinary:
		return hex.EncodeToString(v.([]byte))
	default:
		return v
	}
}

// WriteJSONLines renders a DataFrame as one JSON object per row,
// newline-separated. Each row is encoded from a map, so keys appear in
// alphabetical order, not in the resolved column order.
func WriteJSONLines(path string, df *DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open json file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)

	n := df.NRows()
	for i := 0; i < n; i++ {
		row := make(map[string]any, len(df.Columns))
		for _, name := range df.Columns {
			col := df.Data[name]
			row[name] = jsonCellValue(col.Type, col.Values[i])
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("write json row: %w", err)
		}
	}
	return w.Flush()
}
