package core

import (
	"math/big"
	"testing"
)

func TestU256FromUint64RoundTrip(t *testing.T) {
	u := NewU256FromUint64(12345)
	if u.String() != "12345" {
		t.Fatalf("expected decimal string 12345, got %q", u.String())
	}
	if u.AsUint64() != 12345 {
		t.Fatalf("expected AsUint64 12345, got %d", u.AsUint64())
	}
}

func TestU256FromBytesRoundTrip(t *testing.T) {
	u := NewU256FromUint64(42)
	u2 := NewU256FromBytes(u.Bytes())
	if u2.String() != "42" {
		t.Fatalf("expected round trip through Bytes() to preserve value, got %q", u2.String())
	}
}

func TestU256FromBigNil(t *testing.T) {
	u := NewU256FromBig(nil)
	if u.String() != "0" {
		t.Fatalf("expected nil big.Int to produce zero, got %q", u.String())
	}
}

func TestU256FromBig(t *testing.T) {
	u := NewU256FromBig(big.NewInt(999))
	if u.String() != "999" {
		t.Fatalf("expected 999, got %q", u.String())
	}
}

func TestU256FromDecimalString(t *testing.T) {
	u, err := NewU256FromDecimalString("1000000000000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.String() != "1000000000000000000" {
		t.Fatalf("unexpected value: %q", u.String())
	}
}

func TestU256FromDecimalStringOverflowErrors(t *testing.T) {
	huge := "1" + stringsRepeat("0", 80)
	if _, err := NewU256FromDecimalString(huge); err == nil {
		t.Fatalf("expected overflow error for a value exceeding 256 bits")
	}
}

func stringsRepeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func TestU256AsUint64SaturatesOnOverflow(t *testing.T) {
	u, err := NewU256FromDecimalString("99999999999999999999999999999999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.AsUint64() != ^uint64(0) {
		t.Fatalf("expected AsUint64 to saturate to max uint64, got %d", u.AsUint64())
	}
}

func TestU256AsUint32Saturates(t *testing.T) {
	u := NewU256FromUint64(1 << 40)
	if u.AsUint32() != ^uint32(0) {
		t.Fatalf("expected AsUint32 to saturate, got %d", u.AsUint32())
	}
}

func TestU256AsFloat64(t *testing.T) {
	u := NewU256FromUint64(100)
	if u.AsFloat64() != 100.0 {
		t.Fatalf("expected 100.0, got %v", u.AsFloat64())
	}
}

func TestU256AsDecimal128(t *testing.T) {
	u := NewU256FromUint64(7)
	if got := u.AsDecimal128().String(); got != "7" {
		t.Fatalf("expected decimal \"7\", got %q", got)
	}
}

func TestU256MaterializeSelectedRepresentations(t *testing.T) {
	u := NewU256FromUint64(256)
	out := u.Materialize([]U256Representation{U256String, U256U64})
	if out["_string"] != "256" {
		t.Fatalf("expected _string suffix to hold \"256\", got %v", out["_string"])
	}
	if out["_u64"] != uint64(256) {
		t.Fatalf("expected _u64 suffix to hold 256, got %v", out["_u64"])
	}
	if len(out) != 2 {
		t.Fatalf("expected exactly 2 materialized representations, got %d", len(out))
	}
}

func TestParseU256RepresentationRoundTrip(t *testing.T) {
	for _, tok := range []string{"binary", "string", "f32", "f64", "u32", "u64", "decimal128"} {
		if _, err := ParseU256Representation(tok); err != nil {
			t.Fatalf("unexpected error parsing %q: %v", tok, err)
		}
	}
}

func TestParseU256RepresentationUnknownErrors(t *testing.T) {
	if _, err := ParseU256Representation("nonsense"); err == nil {
		t.Fatalf("expected error for an unknown u256 representation token")
	}
}
