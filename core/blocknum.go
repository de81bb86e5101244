package core

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// LatestBlockFunc resolves the chain's current head, used whenever a block
// spec token names "latest" or leaves one side of a range open.
type LatestBlockFunc func(ctx context.Context) (uint64, error)

// ParseBlockTokens parses the compact block-number grammar described in
// SPEC_FULL.md §4.1 (bare integers with K/M/B suffixes and '_' separators,
// "latest", and the A:B / A: / :B / -N:B / A:+N range forms) into a single
// NumberChunk.
//
// A single token containing a colon produces a Range chunk; anything else
// (a bare number, or more than one token) produces a Values chunk that is
// the union of every parsed token.
func ParseBlockTokens(ctx context.Context, tokens []string, latest LatestBlockFunc) (NumberChunk, error) {
	if len(tokens) == 0 {
		return NumberChunk{}, &ParseError{Reason: "no block tokens given"}
	}
	if len(tokens) == 1 {
		return parseBlockToken(ctx, tokens[0], true, latest)
	}
	var values []uint64
	for _, tok := range tokens {
		chunk, err := parseBlockToken(ctx, tok, false, latest)
		if err != nil {
			return NumberChunk{}, err
		}
		values = append(values, chunk.Numbers()...)
	}
	return NewNumberValues(values), nil
}

type rangePosition int

const (
	rangeNone rangePosition = iota
	rangeFirst
	rangeLast
)

func parseBlockToken(ctx context.Context, token string, asRange bool, latest LatestBlockFunc) (NumberChunk, error) {
	token = strings.ReplaceAll(token, "_", "")
	parts := strings.Split(token, ":")

	switch len(parts) {
	case 1:
		n, err := parseBlockNumber(ctx, parts[0], rangeNone, latest)
		if err != nil {
			return NumberChunk{}, err
		}
		return NewNumberValues([]uint64{n}), nil

	case 2:
		first, second := parts[0], parts[1]
		var start, end uint64
		var err error
		switch {
		case strings.HasPrefix(first, "-"):
			end, err = parseBlockNumber(ctx, second, rangeLast, latest)
			if err != nil {
				return NumberChunk{}, err
			}
			n, perr := strconv.ParseUint(first[1:], 10, 64)
			if perr != nil {
				return NumberChunk{}, &ParseError{Token: token, Reason: "invalid -N offset"}
			}
			if n > end {
				return NumberChunk{}, &ParseError{Token: token, Reason: "start block underflow"}
			}
			start = end - n
		case strings.HasPrefix(second, "+"):
			start, err = parseBlockNumber(ctx, first, rangeFirst, latest)
			if err != nil {
				return NumberChunk{}, err
			}
			n, perr := strconv.ParseUint(second[1:], 10, 64)
			if perr != nil {
				return NumberChunk{}, &ParseError{Token: token, Reason: "invalid +N offset"}
			}
			end = start + n
		default:
			start, err = parseBlockNumber(ctx, first, rangeFirst, latest)
			if err != nil {
				return NumberChunk{}, err
			}
			end, err = parseBlockNumber(ctx, second, rangeLast, latest)
			if err != nil {
				return NumberChunk{}, err
			}
		}

		if end <= start {
			return NumberChunk{}, &ParseError{Token: token, Reason: "end block must be greater than start block"}
		}
		if asRange {
			return NewNumberRange(start, end), nil
		}
		values := make([]uint64, 0, end-start+1)
		for n := start; n <= end; n++ {
			values = append(values, n)
		}
		return NewNumberValues(values), nil

	default:
		return NumberChunk{}, &ParseError{Token: token, Reason: "expected block_number or start:end"}
	}
}

func parseBlockNumber(ctx context.Context, ref string, pos rangePosition, latest LatestBlockFunc) (uint64, error) {
	switch {
	case ref == "latest":
		if latest == nil {
			return 0, &ParseError{Token: ref, Reason: "\"latest\" requires a chain connection"}
		}
		n, err := latest(ctx)
		if err != nil {
			return 0, &RPCError{Err: err}
		}
		return n, nil

	case ref == "" && pos == rangeFirst:
		return 0, nil

	case ref == "" && pos == rangeLast:
		if latest == nil {
			return 0, &ParseError{Token: ref, Reason: "open-ended range requires a chain connection"}
		}
		n, err := latest(ctx)
		if err != nil {
			return 0, &RPCError{Err: err}
		}
		return n, nil

	case ref == "" && pos == rangeNone:
		return 0, &ParseError{Token: ref, Reason: "empty block token"}

	case hasSuffixFold(ref, "b"):
		return parseScaledBlockNumber(ref, 1e9)

	case hasSuffixFold(ref, "m"):
		return parseScaledBlockNumber(ref, 1e6)

	case hasSuffixFold(ref, "k"):
		return parseScaledBlockNumber(ref, 1e3)

	default:
		f, err := strconv.ParseFloat(ref, 64)
		if err != nil {
			return 0, &ParseError{Token: ref, Reason: "could not parse block number"}
		}
		return uint64(f), nil
	}
}

func parseScaledBlockNumber(ref string, scale float64) (uint64, error) {
	base := ref[:len(ref)-1]
	f, err := strconv.ParseFloat(base, 64)
	if err != nil {
		return 0, &ParseError{Token: ref, Reason: "could not parse scaled block number"}
	}
	return uint64(math.Round(scale * f)), nil
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) == 0 {
		return false
	}
	return strings.EqualFold(s[len(s)-1:], suffix)
}
