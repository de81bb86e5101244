package core

import "sort"

// PartitionOutcome records one (partition, meta-datatype group) task's
// result: the label it was filed under, the output paths it targeted (or
// would have targeted, for skipped/dry-run entries), and the error it
// failed with, if any.
type PartitionOutcome struct {
	Label string
	Paths map[Datatype]string
	Err   error
}

// FreezeSummary is the aggregate result of one freeze run (SPEC_FULL.md
// §4.6: "Output: FreezeSummary { completed, skipped, errored }").
type FreezeSummary struct {
	Completed []PartitionOutcome
	Skipped   []PartitionOutcome
	Errored   []PartitionOutcome
}

// ErrorCount pairs a distinct error message with how many errored
// partitions produced it, for the summary's "most frequent errors" line.
type ErrorCount struct {
	Message string
	Count   int
}

// TopErrors returns up to n distinct error messages ordered by descending
// frequency (ties broken by first occurrence), the shape the CLI's
// user-visible summary renders (spec.md §7: "the summary lists up to two
// most-frequent error messages with counts").
func (s *FreezeSummary) TopErrors(n int) []ErrorCount {
	order := make([]string, 0, len(s.Errored))
	counts := make(map[string]int, len(s.Errored))
	for _, o := range s.Errored {
		if o.Err == nil {
			continue
		}
		msg := o.Err.Error()
		if counts[msg] == 0 {
			order = append(order, msg)
		}
		counts[msg]++
	}
	out := make([]ErrorCount, len(order))
	for i, msg := range order {
		out[i] = ErrorCount{Message: msg, Count: counts[msg]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Strict reports whether this run should be treated as a failure: any
// partition errored and the caller requested strict mode (spec.md §6 exit
// code policy).
func (s *FreezeSummary) Strict(strict bool) bool {
	return strict && len(s.Errored) > 0
}
