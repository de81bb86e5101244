package core

import (
	"github.com/sirupsen/logrus"
)

// SchemaRequest captures every CLI-facing knob that feeds schema
// resolution for one datatype (SPEC_FULL.md §4.5).
type SchemaRequest struct {
	Datatype             Datatype
	Columns               []string // explicit --columns override; empty means "use defaults/all"
	AllColumns            bool     // --columns all
	IncludeColumns        []string
	ExcludeColumns        []string
	Hex                   bool
	U256Representations   []U256Representation // empty defaults to {Binary, String, F64}
	SortColumns           []string             // nil = datatype default; ["none"] = disabled
}

var defaultU256Representations = []U256Representation{U256Binary, U256String, U256F64}

// ResolveSchema runs the seven-step resolution algorithm from
// SPEC_FULL.md §4.5 and returns the fully materialized Table for one
// datatype.
func ResolveSchema(req SchemaRequest) (*Table, error) {
	spec := req.Datatype.Spec()
	if spec == nil {
		return nil, &ParseError{Reason: "unknown datatype in schema request"}
	}

	// Step 1: base column set.
	var base []string
	switch {
	case len(req.Columns) > 0:
		base = append([]string(nil), req.Columns...)
	case req.AllColumns:
		base = append([]string(nil), spec.ColumnOrder...)
	default:
		base = append([]string(nil), spec.DefaultColumns...)
	}

	selected := newOrderedSet(base)

	// Step 2: include_columns, with the "all wins" rule — if AllColumns was
	// requested alongside excludes, the excludes are ignored with a warning
	// rather than honored (spec.md's own recommended resolution of the
	// ambiguous columns=all/exclude interaction).
	excludeIgnored := req.AllColumns && len(req.ExcludeColumns) > 0
	if excludeIgnored {
		logrus.WithFields(logrus.Fields{
			"datatype": spec.Name,
			"excluded": req.ExcludeColumns,
		}).Warn("columns=all overrides exclude_columns; exclusion ignored")
	}
	for _, c := range req.IncludeColumns {
		if !excludeIgnored && containsString(req.ExcludeColumns, c) {
			return nil, &SchemaError{Column: c, Reason: "column is both included and excluded"}
		}
		selected.add(c)
	}

	// Step 3: exclude_columns.
	if !excludeIgnored {
		for _, c := range req.ExcludeColumns {
			selected.remove(c)
		}
	}

	// Step 6 (validated early, before the U256 fan-out renames columns):
	// every include/exclude entry must exist in the datatype's catalog.
	for _, c := range req.IncludeColumns {
		if _, ok := spec.ColumnTypes[c]; !ok {
			return nil, &SchemaError{Column: c, Reason: "not a valid column for this datatype"}
		}
	}
	for _, c := range req.ExcludeColumns {
		if _, ok := spec.ColumnTypes[c]; !ok {
			return nil, &SchemaError{Column: c, Reason: "not a valid column for this datatype"}
		}
	}

	encoding := EncodingBinary
	if req.Hex {
		encoding = EncodingHex
	}
	reprs := req.U256Representations
	if len(reprs) == 0 {
		reprs = defaultU256Representations
	}

	// Step 4 + 5: type lookup, Hex rewrite, UInt256 fan-out, in catalog
	// order so output column order is deterministic.
	var columns []string
	types := make(map[string]ColumnType)
	for _, name := range spec.ColumnOrder {
		if !selected.has(name) {
			continue
		}
		ct, ok := spec.ColumnTypes[name]
		if !ok {
			return nil, &SchemaError{Column: name, Reason: "not a valid column for this datatype"}
		}
		if ct == ColumnBinary && encoding == EncodingHex {
			ct = ColumnHex
		}
		if ct == ColumnUInt256 {
			for _, r := range reprs {
				physical := name + r.suffix()
				columns = append(columns, physical)
				types[physical] = u256PhysicalType(r)
			}
			continue
		}
		columns = append(columns, name)
		types[name] = ct
	}

	// Step 7: sort order.
	sortColumns := spec.DefaultSort
	if req.SortColumns != nil {
		if len(req.SortColumns) == 1 && req.SortColumns[0] == "none" {
			sortColumns = nil
		} else {
			sortColumns = req.SortColumns
		}
	}

	return &Table{
		Datatype:            req.Datatype,
		Columns:              columns,
		Types:                 types,
		BinaryEncoding:       encoding,
		U256Representations:  reprs,
		SortColumns:          sortColumns,
	}, nil
}

func u256PhysicalType(r U256Representation) ColumnType {
	switch r {
	case U256Binary:
		return ColumnBinary
	case U256String, U256Decimal128:
		return ColumnString
	case U256F32:
		return ColumnFloat32
	case U256F64:
		return ColumnFloat64
	case U256U32:
		return ColumnUInt32
	case U256U64:
		return ColumnUInt64
	default:
		return ColumnString
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// orderedSet preserves first-insertion order while supporting O(1)
// membership/removal, used to track the selected-column set through the
// include/exclude resolution steps.
type orderedSet struct {
	order []string
	set   map[string]bool
}

func newOrderedSet(initial []string) *orderedSet {
	s := &orderedSet{set: make(map[string]bool, len(initial))}
	for _, v := range initial {
		s.add(v)
	}
	return s
}

func (s *orderedSet) add(v string) {
	if s.set[v] {
		return
	}
	s.set[v] = true
	s.order = append(s.order, v)
}

func (s *orderedSet) remove(v string) {
	if !s.set[v] {
		return
	}
	delete(s.set, v)
	for i, o := range s.order {
		if o == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *orderedSet) has(v string) bool { return s.set[v] }
