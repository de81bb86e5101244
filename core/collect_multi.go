package core

// ResolveDatatypeTokens expands a list of CLI-facing datatype tokens into
// their concrete Datatype set. A token may name a single datatype or a
// MultiDatatype bundle (e.g. "state_diffs" expands to its four members);
// bundles are resolved here rather than given their own extract path,
// since every bundle's members are already collected from a single RPC
// call by their own CollectByBlock/CollectByTransaction registration —
// "blocks_and_transactions" is the one bundle whose members don't share an
// extract, and runs as two independent (cheap) calls per chunk instead of
// a shared one.
//
// Duplicate tokens (e.g. a bundle and one of its own members) collapse to
// one entry, preserving first-occurrence order.
func ResolveDatatypeTokens(tokens []string) ([]Datatype, error) {
	seen := make(map[Datatype]bool)
	var out []Datatype
	add := func(dt Datatype) {
		if !seen[dt] {
			seen[dt] = true
			out = append(out, dt)
		}
	}
	for _, token := range tokens {
		if multi, ok := ParseMultiDatatype(token); ok {
			for _, dt := range multi.Members {
				add(dt)
			}
			continue
		}
		dt, err := ParseDatatype(token)
		if err != nil {
			return nil, err
		}
		add(dt)
	}
	return out, nil
}
