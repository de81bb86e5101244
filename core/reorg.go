package core

import "context"

// ApplyReorgBuffer drops, in place, every block-dimension chunk whose max
// value falls within reorgBuffer of the current chain head, returning the
// surviving partitions (SPEC_FULL.md §4.6 "reorg buffer": "drop any
// block-dimension chunk whose max_value > head − reorg_buffer").
// Transaction-dimension partitions pass through unchanged. A partition left
// with no populated dimension after filtering is dropped entirely.
func ApplyReorgBuffer(ctx context.Context, partitions []*Partition, reorgBuffer uint64, latest LatestBlockFunc) ([]*Partition, error) {
	if reorgBuffer == 0 {
		return partitions, nil
	}
	head, err := latest(ctx)
	if err != nil {
		return nil, &RPCError{Err: err}
	}
	var cutoff uint64
	if head > reorgBuffer {
		cutoff = head - reorgBuffer
	}

	out := make([]*Partition, 0, len(partitions))
	for _, p := range partitions {
		slot, ok := p.slots[DimBlockNumber]
		if !ok {
			out = append(out, p)
			continue
		}

		var chunks []NumberChunk
		var labels []*string
		for i, c := range slot.numbers {
			if max, ok := c.MaxValue(); ok && max > cutoff {
				continue
			}
			chunks = append(chunks, c)
			if slot.labels != nil {
				labels = append(labels, slot.labels[i])
			}
		}

		if len(chunks) == 0 {
			delete(p.slots, DimBlockNumber)
		} else {
			var lbls []*string
			if slot.labels != nil {
				lbls = labels
			}
			p.slots[DimBlockNumber] = &dimSlot{numbers: chunks, labels: lbls}
		}

		if len(p.slots) > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}
