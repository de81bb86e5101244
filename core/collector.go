package core

import "context"

// CollectByBlock is implemented by every datatype collectible indexed by
// block number. Extract is the only side-effecting step (network I/O
// through the fetcher); Transform is pure and only fills columns the
// resolved schemas request (SPEC_FULL.md §4.4).
type CollectByBlock interface {
	ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error)
	TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error
}

// CollectByTransaction is implemented by every datatype collectible
// indexed by transaction hash.
type CollectByTransaction interface {
	ExtractByTransaction(ctx context.Context, params Params, source *Source) (any, error)
	TransformByTransaction(resp any, dfs map[Datatype]*DataFrame) error
}

// collectorRegistration is one datatype's entry in the dispatch table: at
// least one of ByBlock/ByTransaction is non-nil, and Members lists every
// Datatype whose DataFrame this collector's Transform populates (more than
// one for a MultiDatatype bundle sharing a single extract).
type collectorRegistration struct {
	Members    []Datatype
	ByBlock    CollectByBlock
	ByTransaction CollectByTransaction
}

// collectorRegistry is the closed, compile-time dispatch table (SPEC_FULL.md
// §9: "dispatch is a match on the enum... not runtime-loaded plugins").
// Populated by each collect_*.go file's init().
var collectorRegistry []collectorRegistration

func registerCollector(reg collectorRegistration) {
	collectorRegistry = append(collectorRegistry, reg)
}

// CollectorFor returns the registration whose Members include dt, or nil if
// the datatype has no collector wired (a programming error — every
// Datatype constant must have exactly one registration).
func CollectorFor(dt Datatype) *collectorRegistration {
	for i := range collectorRegistry {
		for _, m := range collectorRegistry[i].Members {
			if m == dt {
				return &collectorRegistry[i]
			}
		}
	}
	return nil
}
