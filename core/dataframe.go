package core

import (
	"bytes"
	"sort"
)

// ColumnData is one column's values, boxed so a single column buffer can
// serve every ColumnType; a nil entry represents a null/missing value
// (SPEC_FULL.md §4.4: "the row stores a null when a requested column's
// value is absent from the response").
type ColumnData struct {
	Type   ColumnType
	Values []any
}

// NewColumnData preallocates a column buffer with a small starting
// capacity (spec.md §4.5: "preallocated with a small capacity; 100 is
// adequate").
func NewColumnData(ct ColumnType) *ColumnData {
	return &ColumnData{Type: ct, Values: make([]any, 0, 100)}
}

// Append adds one value (or nil for a null) to the column.
func (c *ColumnData) Append(v any) {
	c.Values = append(c.Values, v)
}

// Len returns the number of rows currently buffered.
func (c *ColumnData) Len() int { return len(c.Values) }

// DataFrame is a materialized, column-major table for one partition's one
// datatype, ready to be written to a file.
type DataFrame struct {
	Columns []string
	Data    map[string]*ColumnData
	Schema  *Table
}

// NewDataFrame allocates an empty DataFrame with one ColumnData per column
// in the resolved Table.
func NewDataFrame(table *Table) *DataFrame {
	df := &DataFrame{
		Columns: append([]string(nil), table.Columns...),
		Data:    make(map[string]*ColumnData, len(table.Columns)),
		Schema:  table,
	}
	for _, name := range table.Columns {
		df.Data[name] = NewColumnData(table.ColumnType(name))
	}
	return df
}

// NRows returns the row count (0 if the frame has no columns).
func (df *DataFrame) NRows() int {
	if len(df.Columns) == 0 {
		return 0
	}
	return df.Data[df.Columns[0]].Len()
}

// RowValues is the per-column closure table a collector's transform step
// builds for one row: only columns present in the map are computed,
// enforcing "only fill requested columns that the schema asked for"
// uniformly across every collector (SPEC_FULL.md §9 "Response->column
// dispatch").
type RowValues map[string]func() any

// AppendRow evaluates row's closures (only for columns this DataFrame
// actually carries) and appends one value — or nil — to every column.
func (df *DataFrame) AppendRow(row RowValues) {
	for _, name := range df.Columns {
		col := df.Data[name]
		if fn, ok := row[name]; ok {
			col.Append(fn())
		} else {
			col.Append(nil)
		}
	}
}

// BroadcastChainID fills the chain_id column (if the schema requested it)
// with the same value for every currently-buffered row.
func (df *DataFrame) BroadcastChainID(chainID uint64) {
	col, ok := df.Data[chainIDCol]
	if !ok {
		return
	}
	for i := range col.Values {
		col.Values[i] = chainID
	}
}

// Sort reorders every column in lockstep by the named sort columns
// (ascending, nulls first). An empty/nil list is a no-op, matching
// "sort=[] disables sorting".
func (df *DataFrame) Sort(columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	for _, c := range columns {
		if _, ok := df.Data[c]; !ok {
			return &SchemaError{Column: c, Reason: "sort column not present in resolved schema"}
		}
	}
	n := df.NRows()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := idx[i], idx[j]
		for _, c := range columns {
			vals := df.Data[c].Values
			cmp := compareCell(vals[a], vals[b])
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	for _, name := range df.Columns {
		col := df.Data[name]
		reordered := make([]any, n)
		for newPos, oldPos := range idx {
			reordered[newPos] = col.Values[oldPos]
		}
		col.Values = reordered
	}
	return nil
}

// compareCell orders two boxed cell values of matching ColumnType; nil
// (null) sorts before any concrete value.
func compareCell(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	switch av := a.(type) {
	case uint64:
		bv := b.(uint64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case uint32:
		bv := b.(uint32)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case int64:
		bv := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case int32:
		bv := b.(int32)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case float32:
		bv := b.(float32)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case bool:
		bv := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case []byte:
		return bytes.Compare(av, b.([]byte))
	default:
		return 0
	}
}
