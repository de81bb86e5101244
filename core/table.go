package core

// ColumnType is the logical type of one resolved schema column.
type ColumnType int

const (
	ColumnBoolean ColumnType = iota
	ColumnUInt32
	ColumnUInt64
	ColumnUInt256
	ColumnInt32
	ColumnInt64
	ColumnFloat32
	ColumnFloat64
	ColumnString
	ColumnBinary
	ColumnHex
)

func (t ColumnType) String() string {
	switch t {
	case ColumnBoolean:
		return "boolean"
	case ColumnUInt32:
		return "uint32"
	case ColumnUInt64:
		return "uint64"
	case ColumnUInt256:
		return "uint256"
	case ColumnInt32:
		return "int32"
	case ColumnInt64:
		return "int64"
	case ColumnFloat32:
		return "float32"
	case ColumnFloat64:
		return "float64"
	case ColumnString:
		return "string"
	case ColumnBinary:
		return "binary"
	case ColumnHex:
		return "hex"
	default:
		return "unknown"
	}
}

// BinaryEncoding selects how byte-string columns are materialized.
type BinaryEncoding int

const (
	EncodingBinary BinaryEncoding = iota
	EncodingHex
)

// U256Representation is one physical column flavor a UInt256 column can
// fan out into.
type U256Representation int

const (
	U256Binary U256Representation = iota
	U256String
	U256F32
	U256F64
	U256U32
	U256U64
	U256Decimal128
)

func (r U256Representation) suffix() string {
	switch r {
	case U256Binary:
		return "_binary"
	case U256String:
		return "_string"
	case U256F32:
		return "_f32"
	case U256F64:
		return "_f64"
	case U256U32:
		return "_u32"
	case U256U64:
		return "_u64"
	case U256Decimal128:
		return "_d128"
	default:
		return ""
	}
}

// ParseU256Representation resolves a CLI token (e.g. "string", "f64") to a
// U256Representation.
func ParseU256Representation(token string) (U256Representation, error) {
	switch token {
	case "binary":
		return U256Binary, nil
	case "string":
		return U256String, nil
	case "f32":
		return U256F32, nil
	case "f64":
		return U256F64, nil
	case "u32":
		return U256U32, nil
	case "u64":
		return U256U64, nil
	case "decimal128", "d128":
		return U256Decimal128, nil
	default:
		return 0, &ParseError{Token: token, Reason: "unknown u256 representation"}
	}
}

// Table is the fully-resolved schema for one datatype in a Query: the
// ordered physical column list (after UInt256 representation fan-out),
// each column's logical type, the binary encoding, which U256
// representations are materialized, and the sort order to apply before
// writing (empty = sorting disabled).
type Table struct {
	Datatype            Datatype
	Columns             []string
	Types               map[string]ColumnType
	BinaryEncoding      BinaryEncoding
	U256Representations []U256Representation
	SortColumns         []string
	LogEventDecoder     *LogEventDecoder
}

// LogEventDecoder optionally decodes a log's ABI-encoded data field using a
// known event signature, populating additional decoded columns. Left nil
// unless --event-signature is given.
type LogEventDecoder struct {
	Signature string
	ArgNames  []string
	ArgTypes  []string
}

// ColumnType looks up the logical type of a resolved column, defaulting to
// ColumnString for columns outside the Types map (shouldn't happen for a
// correctly resolved Table, but keeps callers panic-free).
func (t *Table) ColumnType(name string) ColumnType {
	if ct, ok := t.Types[name]; ok {
		return ct
	}
	return ColumnString
}

// HasColumn reports whether name is present in the resolved column list.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
