package core

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// U256 wraps a 256-bit unsigned integer, the representation every UInt256
// schema column is carried in internally before materialization fans it out
// into one or more physical representations (SPEC_FULL.md §4.5 step 5).
type U256 struct {
	inner *uint256.Int
}

// NewU256FromBytes builds a U256 from a big-endian byte slice (e.g. a 32-byte
// RPC response field).
func NewU256FromBytes(b []byte) U256 {
	return U256{inner: new(uint256.Int).SetBytes(b)}
}

// NewU256FromUint64 builds a U256 from a plain uint64.
func NewU256FromUint64(v uint64) U256 {
	return U256{inner: new(uint256.Int).SetUint64(v)}
}

// NewU256FromBig builds a U256 from a *big.Int, as returned by go-ethereum
// header/transaction fields (Difficulty, BaseFee, Value, ...).
func NewU256FromBig(v *big.Int) U256 {
	if v == nil {
		return U256{inner: new(uint256.Int)}
	}
	i, _ := uint256.FromBig(v)
	return U256{inner: i}
}

// NewU256FromDecimalString parses a base-10 string (as returned by many
// JSON-RPC hex-to-decimal conveniences, or already-decoded big.Int.String())
// into a U256.
func NewU256FromDecimalString(s string) (U256, error) {
	i, overflow := uint256.FromDecimal(s)
	if overflow {
		return U256{}, &CollectError{Reason: "u256 value overflows 256 bits: " + s}
	}
	return U256{inner: i}, nil
}

// Bytes returns the 32-byte big-endian representation.
func (u U256) Bytes() []byte {
	if u.inner == nil {
		return make([]byte, 32)
	}
	b := u.inner.Bytes32()
	return b[:]
}

// String returns the base-10 decimal string representation.
func (u U256) String() string {
	if u.inner == nil {
		return "0"
	}
	return u.inner.Dec()
}

// AsFloat32 / AsFloat64 go through a decimal-string parse rather than a
// bitcast, to preserve the value's decimal precision semantics (SPEC_FULL.md
// §9: "Float variants go through decimal-string parse, not bitcast").
func (u U256) AsFloat64() float64 {
	d, err := decimal.NewFromString(u.String())
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func (u U256) AsFloat32() float32 {
	return float32(u.AsFloat64())
}

// AsUint64 / AsUint32 saturate to the respective type's maximum when the
// value overflows, matching the lossy-but-defined semantics expected of a
// narrowing representation column.
func (u U256) AsUint64() uint64 {
	if u.inner == nil {
		return 0
	}
	if !u.inner.IsUint64() {
		return ^uint64(0)
	}
	return u.inner.Uint64()
}

func (u U256) AsUint32() uint32 {
	v := u.AsUint64()
	if v > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}

// AsDecimal128 returns a shopspring/decimal.Decimal, the representation
// backing the "_d128" column suffix — grounded on dolthub/dolt's own use of
// shopspring/decimal for arbitrary-precision numeric columns.
func (u U256) AsDecimal128() decimal.Decimal {
	d, err := decimal.NewFromString(u.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Materialize renders every requested representation of u into a map keyed
// by the representation's column suffix, ready to be written under
// "<column>_binary", "<column>_string", etc.
func (u U256) Materialize(reprs []U256Representation) map[string]any {
	out := make(map[string]any, len(reprs))
	for _, r := range reprs {
		out[r.suffix()] = u.RowValue(r)
	}
	return out
}

// RowValue renders the single requested representation's physical value.
func (u U256) RowValue(r U256Representation) any {
	switch r {
	case U256Binary:
		return u.Bytes()
	case U256String:
		return u.String()
	case U256F32:
		return u.AsFloat32()
	case U256F64:
		return u.AsFloat64()
	case U256U32:
		return u.AsUint32()
	case U256U64:
		return u.AsUint64()
	case U256Decimal128:
		return u.AsDecimal128().String()
	default:
		return nil
	}
}

// AddU256Column sets row[base+suffix] for every U256 representation the
// DataFrame's schema requested for the "base" logical column, skipping
// representations the schema didn't select. value is evaluated once per
// row, not once per representation.
func AddU256Column(row RowValues, df *DataFrame, base string, value U256) {
	for _, r := range df.Schema.U256Representations {
		name := base + r.suffix()
		if !df.HasColumn(name) {
			continue
		}
		v := value.RowValue(r)
		row[name] = func() any { return v }
	}
}

// HasColumn reports whether the DataFrame carries the named column.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.Data[name]
	return ok
}
