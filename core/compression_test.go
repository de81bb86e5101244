package core

import "testing"

func TestParseCompressionBareCodec(t *testing.T) {
	c, err := ParseCompression([]string{"snappy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "snappy" || c.Level != 0 {
		t.Fatalf("unexpected compression: %+v", c)
	}
}

func TestParseCompressionBareCodecRejectsLevel(t *testing.T) {
	if _, err := ParseCompression([]string{"snappy", "5"}); err == nil {
		t.Fatalf("expected error passing a level to a bare codec")
	}
}

func TestParseCompressionLeveledCodec(t *testing.T) {
	c, err := ParseCompression([]string{"gzip", "6"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "gzip" || c.Level != 6 {
		t.Fatalf("unexpected compression: %+v", c)
	}
}

func TestParseCompressionLeveledCodecRequiresLevel(t *testing.T) {
	if _, err := ParseCompression([]string{"gzip"}); err == nil {
		t.Fatalf("expected error when a leveled codec is missing its level")
	}
}

func TestParseCompressionLevelOutOfRange(t *testing.T) {
	if _, err := ParseCompression([]string{"gzip", "99"}); err == nil {
		t.Fatalf("expected error for an out-of-range gzip level")
	}
}

func TestParseCompressionUnknownCodec(t *testing.T) {
	if _, err := ParseCompression([]string{"lzma"}); err == nil {
		t.Fatalf("expected error for an unknown compression codec")
	}
}

func TestParseCompressionEmptyTokens(t *testing.T) {
	if _, err := ParseCompression(nil); err == nil {
		t.Fatalf("expected error when no compression token is given")
	}
}
