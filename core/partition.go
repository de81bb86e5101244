package core

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// dimSlot holds the chunk list (and optional parallel labels) for a single
// dimension of a Partition. Exactly one of numbers/binary is populated,
// selected by Dim.IsBinary().
type dimSlot struct {
	numbers []NumberChunk
	binary  []BinaryChunk
	labels  []*string
}

func (s *dimSlot) nChunks() int {
	if s == nil {
		return 0
	}
	if len(s.numbers) > 0 {
		return len(s.numbers)
	}
	return len(s.binary)
}

// Partition is a cross-product cell of chunks over the query's active
// dimensions: one optional chunk list (plus optional parallel labels) per
// Dim. At least one dimension must be populated.
type Partition struct {
	slots map[Dim]*dimSlot
}

// NewPartition returns an empty partition ready to have dimensions set on
// it via SetNumberChunks / SetBinaryChunks.
func NewPartition() *Partition {
	return &Partition{slots: make(map[Dim]*dimSlot)}
}

// SetNumberChunks populates the (necessarily BlockNumber) dimension with
// chunks and an optional parallel label list.
func (p *Partition) SetNumberChunks(dim Dim, chunks []NumberChunk, labels []*string) error {
	if dim.IsBinary() {
		return &ParseError{Reason: fmt.Sprintf("dimension %s is not numeric", dim)}
	}
	if labels != nil && len(labels) != len(chunks) {
		return &ParseError{Reason: "label count must match chunk count"}
	}
	p.slots[dim] = &dimSlot{numbers: chunks, labels: labels}
	return nil
}

// SetBinaryChunks populates a byte-string dimension with chunks and an
// optional parallel label list.
func (p *Partition) SetBinaryChunks(dim Dim, chunks []BinaryChunk, labels []*string) error {
	if !dim.IsBinary() {
		return &ParseError{Reason: fmt.Sprintf("dimension %s is not binary", dim)}
	}
	if labels != nil && len(labels) != len(chunks) {
		return &ParseError{Reason: "label count must match chunk count"}
	}
	p.slots[dim] = &dimSlot{binary: chunks, labels: labels}
	return nil
}

// NumberChunks returns the chunk list for a numeric dimension, or nil if
// unset.
func (p *Partition) NumberChunks(dim Dim) []NumberChunk {
	if s, ok := p.slots[dim]; ok {
		return s.numbers
	}
	return nil
}

// BinaryChunks returns the chunk list for a binary dimension, or nil if
// unset.
func (p *Partition) BinaryChunks(dim Dim) []BinaryChunk {
	if s, ok := p.slots[dim]; ok {
		return s.binary
	}
	return nil
}

// Dims returns the populated dimensions in AllDims canonical order.
func (p *Partition) Dims() []Dim {
	var out []Dim
	for _, d := range AllDims {
		if _, ok := p.slots[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// NChunks returns the number of chunks populated on dim (0 if unset).
func (p *Partition) NChunks(dim Dim) int {
	return p.slots[dim].nChunks()
}

// Validate enforces the partition invariants: at least one dimension
// populated, and label length matching chunk count wherever labels are set
// (already checked at Set time, re-checked here for partitions built by
// other means, e.g. clone/expand).
func (p *Partition) Validate() error {
	if len(p.slots) == 0 {
		return &ParseError{Reason: "partition has no populated dimensions"}
	}
	for dim, s := range p.slots {
		if s.labels != nil && len(s.labels) != s.nChunks() {
			return &ParseError{Reason: fmt.Sprintf("dimension %s: label count must match chunk count", dim)}
		}
	}
	return nil
}

// clone makes a shallow copy of the partition's dimension map (the dimSlots
// themselves are replaced, not mutated, by Expand).
func (p *Partition) clone() *Partition {
	np := NewPartition()
	for d, s := range p.slots {
		cp := *s
		np.slots[d] = &cp
	}
	return np
}

// Expand fully cross-expands the partition along dims, producing one
// Partition per combination with exactly one chunk on each expanded
// dimension; dimensions not in dims are preserved unchanged. This implements
// the Rust `partition!`/`label_partition!` macros as a plain fold over
// dimensions (SPEC_FULL.md §9: iterator-based builders, not codegen).
func (p *Partition) Expand(dims []Dim) ([]*Partition, error) {
	result := []*Partition{p.clone()}
	for _, dim := range dims {
		slot, ok := p.slots[dim]
		if !ok {
			return nil, &CollectError{Reason: fmt.Sprintf("cannot partition by %s: dimension not populated", dim)}
		}
		var next []*Partition
		n := slot.nChunks()
		for _, base := range result {
			for i := 0; i < n; i++ {
				np := base.clone()
				label := labelAt(slot.labels, i)
				if dim.IsBinary() {
					np.slots[dim] = &dimSlot{binary: []BinaryChunk{slot.binary[i]}, labels: single(label)}
				} else {
					np.slots[dim] = &dimSlot{numbers: []NumberChunk{slot.numbers[i]}, labels: single(label)}
				}
				next = append(next, np)
			}
		}
		result = next
	}
	return result, nil
}

func labelAt(labels []*string, i int) *string {
	if labels == nil || i >= len(labels) {
		return nil
	}
	return labels[i]
}

func single(s *string) []*string {
	return []*string{s}
}

// Label concatenates this partition's label pieces (in partitionedBy order)
// with "__". Each piece is the dimension's user-supplied label if present,
// otherwise the sole chunk's stub().
func (p *Partition) Label(partitionedBy []Dim) (string, error) {
	pieces, err := p.LabelPieces(partitionedBy)
	if err != nil {
		return "", err
	}
	return strings.Join(pieces, "__"), nil
}

// LabelPieces returns the individual label/stub fragments in partitionedBy
// order, before joining.
func (p *Partition) LabelPieces(partitionedBy []Dim) ([]string, error) {
	pieces := make([]string, 0, len(partitionedBy))
	for _, dim := range partitionedBy {
		slot, ok := p.slots[dim]
		if !ok {
			return nil, &CollectError{Reason: fmt.Sprintf("dimension %s missing for labeling", dim)}
		}
		if slot.nChunks() != 1 {
			return nil, &CollectError{Reason: fmt.Sprintf("dimension %s must have exactly one chunk to label (call Expand first)", dim)}
		}
		if len(slot.labels) == 1 && slot.labels[0] != nil {
			pieces = append(pieces, *slot.labels[0])
			continue
		}
		var stub string
		var err error
		if dim.IsBinary() {
			stub, err = slot.binary[0].Stub()
		} else {
			stub, err = slot.numbers[0].Stub()
		}
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, stub)
	}
	return pieces, nil
}

// Params is one concrete set of RPC parameters derived from a partition: a
// value (or block window) for each of the partition's populated
// dimensions. Values are uint64 for DimBlockNumber (or [2]uint64 for a
// windowed block range) and []byte for every other dimension.
type Params map[Dim]any

// BlockWindow is the value type stored under DimBlockNumber in a Params map
// when the block dimension was expanded into ranges rather than individual
// numbers.
type BlockWindow [2]uint64

// ParamSets enumerates the cross product of every populated dimension's
// values. When DimBlockNumber is populated, it expands according to
// innerRequestSize: windows of that size if non-zero, or individual block
// numbers if innerRequestSize == 0. SPEC_FULL.md §9 fixes innerRequestSize as
// the sole knob; per-block iteration is simply innerRequestSize == 1.
func (p *Partition) ParamSets(innerRequestSize uint64) ([]Params, error) {
	sets := []Params{{}}
	for _, dim := range p.Dims() {
		slot := p.slots[dim]
		var values []any
		if dim == DimBlockNumber {
			for _, chunk := range slot.numbers {
				if innerRequestSize > 0 {
					for _, w := range chunk.RequestWindows(innerRequestSize) {
						values = append(values, BlockWindow(w))
					}
				} else {
					for _, n := range chunk.Numbers() {
						values = append(values, n)
					}
				}
			}
		} else {
			for _, chunk := range slot.binary {
				for _, v := range chunk.Values() {
					values = append(values, v)
				}
			}
		}
		if len(values) == 0 {
			return nil, &CollectError{Reason: fmt.Sprintf("dimension %s has no values to parametrize", dim)}
		}
		var next []Params
		for _, base := range sets {
			for _, v := range values {
				np := make(Params, len(base)+1)
				for k, bv := range base {
					np[k] = bv
				}
				np[dim] = v
				next = append(next, np)
			}
		}
		sets = next
	}
	return sets, nil
}

// DimStats summarizes one dimension of a partition for reporting.
type DimStats struct {
	Dim       Dim
	NChunks   int
	Total     uint64
	Min, Max  string
	ChunkSize uint64
}

// Stats rolls up min/max/total/n_chunks/chunk_size per populated dimension.
func (p *Partition) Stats() []DimStats {
	dims := p.Dims()
	out := make([]DimStats, 0, len(dims))
	for _, dim := range dims {
		slot := p.slots[dim]
		st := DimStats{Dim: dim, NChunks: slot.nChunks()}
		if dim == DimBlockNumber {
			var total uint64
			var min, max uint64
			haveBound := false
			for _, c := range slot.numbers {
				total += c.Size()
				if lo, ok := c.MinValue(); ok {
					if !haveBound || lo < min {
						min = lo
					}
				}
				if hi, ok := c.MaxValue(); ok {
					if !haveBound || hi > max {
						max = hi
					}
					haveBound = true
				}
			}
			st.Total = total
			st.Min = fmt.Sprintf("%d", min)
			st.Max = fmt.Sprintf("%d", max)
			if st.NChunks > 0 {
				st.ChunkSize = total / uint64(st.NChunks)
			}
		} else {
			var total uint64
			var min, max []byte
			for _, c := range slot.binary {
				total += c.Size()
				if lo, ok := c.MinValue(); ok && (min == nil || compareBytes(lo, min) < 0) {
					min = lo
				}
				if hi, ok := c.MaxValue(); ok && (max == nil || compareBytes(hi, max) > 0) {
					max = hi
				}
			}
			st.Total = total
			st.Min = "0x" + hex.EncodeToString(min)
			st.Max = "0x" + hex.EncodeToString(max)
			if st.NChunks > 0 {
				st.ChunkSize = total / uint64(st.NChunks)
			}
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dim < out[j].Dim })
	return out
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

// DefaultPartitionBy chooses the partition dimensions when the caller did
// not pass --partition-by: every labeled dimension with more than one
// chunk; if none qualify and transactions are present, TransactionHash;
// otherwise BlockNumber.
func (p *Partition) DefaultPartitionBy() []Dim {
	var multi []Dim
	for _, dim := range p.Dims() {
		slot := p.slots[dim]
		if slot.labels != nil && slot.nChunks() > 1 {
			multi = append(multi, dim)
		}
	}
	if len(multi) > 0 {
		return multi
	}
	if _, ok := p.slots[DimTransactionHash]; ok {
		return []Dim{DimTransactionHash}
	}
	return []Dim{DimBlockNumber}
}
