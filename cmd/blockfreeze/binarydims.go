package main

import "blockfreeze/core"

// groupBinaryChunksByLabel reconciles core.ParseBinaryTokens' per-value
// label slice with core.Partition.SetBinaryChunks' per-chunk label
// contract: values sharing a label (e.g. multiple addresses read from the
// same labeled Parquet file) become one BinaryChunk, and untagged values
// from every token collapse into a single shared chunk with a nil label.
// This grouping is CLI-layer glue rather than a core concern — core never
// has to reconcile the two shapes itself.
func groupBinaryChunksByLabel(chunk core.BinaryChunk, labels []*string) ([]core.BinaryChunk, []*string) {
	values := chunk.Values()
	if len(values) == 0 {
		return nil, nil
	}

	order := make([]*string, 0)
	seen := make(map[string]bool)
	buckets := make(map[string][][]byte)
	key := func(l *string) string {
		if l == nil {
			return ""
		}
		return "L:" + *l
	}

	for i, v := range values {
		var label *string
		if i < len(labels) {
			label = labels[i]
		}
		k := key(label)
		if !seen[k] {
			seen[k] = true
			order = append(order, label)
		}
		buckets[k] = append(buckets[k], v)
	}

	chunks := make([]core.BinaryChunk, 0, len(order))
	outLabels := make([]*string, 0, len(order))
	for _, label := range order {
		chunks = append(chunks, core.NewBinaryValues(buckets[key(label)]))
		outLabels = append(outLabels, label)
	}
	return chunks, outLabels
}
