package core

import "strconv"

// Compression is the resolved --compression grammar: a bare codec name, or
// a leveled codec (gzip/brotli/zstd) with its validated level.
type Compression struct {
	Name  string
	Level int
}

var bareCompressionCodecs = map[string]bool{
	"uncompressed": true,
	"snappy":       true,
	"lzo":          true,
	"lz4":          true,
}

var leveledCompressionRanges = map[string][2]int{
	"gzip":   {1, 9},
	"brotli": {0, 11},
	"zstd":   {1, 22},
}

// ParseCompression parses the "--compression NAME[ LEVEL]" grammar from a
// pre-split token list (e.g. ["gzip", "6"] or ["snappy"]).
func ParseCompression(tokens []string) (Compression, error) {
	if len(tokens) == 0 {
		return Compression{}, &ParseError{Reason: "no compression token given"}
	}
	name := tokens[0]

	if bareCompressionCodecs[name] {
		if len(tokens) > 1 {
			return Compression{}, &ParseError{Token: name, Reason: "codec does not take a level"}
		}
		return Compression{Name: name}, nil
	}

	bounds, leveled := leveledCompressionRanges[name]
	if !leveled {
		return Compression{}, &ParseError{Token: name, Reason: "unknown compression codec"}
	}
	if len(tokens) < 2 {
		return Compression{}, &ParseError{Token: name, Reason: "missing required level for leveled codec"}
	}
	level, err := strconv.Atoi(tokens[1])
	if err != nil {
		return Compression{}, &ParseError{Token: tokens[1], Reason: "compression level must be an integer"}
	}
	if level < bounds[0] || level > bounds[1] {
		return Compression{}, &ParseError{Token: tokens[1], Reason: "compression level out of range for " + name}
	}
	return Compression{Name: name, Level: level}, nil
}
