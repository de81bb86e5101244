package core

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// groupTask is one (partition, meta-datatype group) unit of work: a group
// is one collector registration and the subset of its Members the query
// actually asked for, so a MultiDatatype bundle sharing a single extract
// (e.g. the four state_diffs members) still issues that extract once per
// partition (SPEC_FULL.md §4.6 step 1: "for each (partition,
// MetaDatatype) pair").
type groupTask struct {
	reg       *collectorRegistration
	members   []Datatype
	partition *Partition
	label     string
	paths     map[Datatype]string
}

// queryGroups returns the distinct collector registrations backing the
// query's datatypes, in the query's deterministic datatype order.
func queryGroups(query *Query) []*collectorRegistration {
	seen := make(map[*collectorRegistration]bool)
	var groups []*collectorRegistration
	for _, dt := range query.Datatypes() {
		reg := CollectorFor(dt)
		if reg == nil || seen[reg] {
			continue
		}
		seen[reg] = true
		groups = append(groups, reg)
	}
	return groups
}

// membersInQuery intersects a registration's Members with the datatypes the
// query actually resolved a schema for (a bundle's registration may cover
// datatypes the user didn't request).
func membersInQuery(reg *collectorRegistration, query *Query) []Datatype {
	var members []Datatype
	for _, dt := range reg.Members {
		if _, ok := query.Schemas[dt]; ok {
			members = append(members, dt)
		}
	}
	sortDatatypes(members)
	return members
}

// Freeze runs the full extraction pipeline for query against source,
// writing files per output and reporting through env (SPEC_FULL.md §4.6).
// The returned FreezeSummary is always non-nil, even when the returned
// error is non-nil (a Fatal error aborts the run but whatever completed or
// was classified before the abort is preserved for the caller's report).
func Freeze(ctx context.Context, query *Query, source *Source, output *FileOutput, env *ExecutionEnv) (*FreezeSummary, error) {
	summary := &FreezeSummary{}
	groups := queryGroups(query)

	var tasks []groupTask
	for _, p := range query.Partitions {
		label, err := p.Label(query.PartitionedBy)
		if err != nil {
			return summary, err
		}
		for _, reg := range groups {
			members := membersInQuery(reg, query)
			if len(members) == 0 {
				continue
			}
			paths := make(map[Datatype]string, len(members))
			for _, dt := range members {
				paths[dt] = output.Path(dt, label)
			}
			task := groupTask{reg: reg, members: members, partition: p, label: label, paths: paths}

			allExist := true
			for _, path := range paths {
				if !output.Exists(path) {
					allExist = false
					break
				}
			}
			if allExist && !output.Overwrite {
				summary.Skipped = append(summary.Skipped, PartitionOutcome{Label: label, Paths: paths})
				continue
			}
			tasks = append(tasks, task)
		}
	}

	if env.Dry {
		logrus.WithFields(logrus.Fields{
			"planned": len(tasks),
			"skipped": len(summary.Skipped),
		}).Info("dry run: plan computed, no files written")
		env.Finish()
		return summary, nil
	}

	maxConcurrentChunks := source.MaxConcurrentChunks
	if maxConcurrentChunks <= 0 {
		maxConcurrentChunks = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	chunkSem := semaphore.NewWeighted(maxConcurrentChunks)
	var mu sync.Mutex

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := chunkSem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer chunkSem.Release(1)

			outcome, fatal := runGroupPartition(gctx, task, query, source, output)
			env.Bar.Inc()
			if fatal != nil {
				return fatal
			}

			mu.Lock()
			if outcome.Err != nil {
				summary.Errored = append(summary.Errored, outcome)
			} else {
				summary.Completed = append(summary.Completed, outcome)
			}
			mu.Unlock()
			return nil
		})
	}

	runErr := g.Wait()
	env.Bar.Done()
	env.Finish()
	return summary, runErr
}

// runGroupPartition executes one group's extract/transform/write cycle for
// one partition. Its first return value is always populated (even on
// failure, so the caller can classify it into errored); its second return
// value is non-nil only for a Fatal error, which aborts the whole run.
func runGroupPartition(ctx context.Context, task groupTask, query *Query, source *Source, output *FileOutput) (PartitionOutcome, error) {
	outcome := PartitionOutcome{Label: task.label, Paths: task.paths}

	byTransaction := query.TimeDimension == TimeDimensionTransactions
	if byTransaction && task.reg.ByTransaction == nil {
		outcome.Err = &CollectError{Reason: "datatype does not support transaction-indexed partitioning"}
		return outcome, nil
	}
	if !byTransaction && task.reg.ByBlock == nil {
		outcome.Err = &CollectError{Reason: "datatype does not support block-indexed partitioning"}
		return outcome, nil
	}

	innerRequestSize := uint64(0)
	if !byTransaction && task.members[0].Spec().UsesBlockRanges {
		innerRequestSize = source.InnerRequestSize
	}
	paramSets, err := task.partition.ParamSets(innerRequestSize)
	if err != nil {
		outcome.Err = err
		return outcome, nil
	}

	// Inner fan-out: one task per Params, bounded only by the fetcher's own
	// semaphore (SPEC_FULL.md §4.6 step 4b). Extract errors are captured
	// per param set rather than failing the inner group, so a Fatal error
	// from one call doesn't hide the others' results.
	type extractResult struct {
		resp any
		err  error
	}
	results := make([]extractResult, len(paramSets))
	ig, igctx := errgroup.WithContext(ctx)
	for i, params := range paramSets {
		i, params := i, params
		ig.Go(func() error {
			var resp any
			var err error
			if byTransaction {
				resp, err = task.reg.ByTransaction.ExtractByTransaction(igctx, params, source)
			} else {
				resp, err = task.reg.ByBlock.ExtractByBlock(igctx, params, source)
			}
			results[i] = extractResult{resp: resp, err: err}
			return nil
		})
	}
	_ = ig.Wait()

	dfs := make(map[Datatype]*DataFrame, len(task.members))
	for _, dt := range task.members {
		dfs[dt] = NewDataFrame(query.Schemas[dt])
	}

	for _, r := range results {
		if r.err != nil {
			var fatal *FatalError
			if errors.As(r.err, &fatal) {
				return outcome, r.err
			}
			outcome.Err = r.err
			continue
		}
		var terr error
		if byTransaction {
			terr = task.reg.ByTransaction.TransformByTransaction(r.resp, dfs)
		} else {
			terr = task.reg.ByBlock.TransformByBlock(r.resp, dfs)
		}
		if terr != nil {
			outcome.Err = terr
		}
	}
	if outcome.Err != nil {
		return outcome, nil
	}

	for _, dt := range task.members {
		df := dfs[dt]
		df.BroadcastChainID(source.ChainID)
		if err := df.Sort(df.Schema.SortColumns); err != nil {
			outcome.Err = err
			return outcome, nil
		}
		path := task.paths[dt]
		if err := WriteAtomic(path, func(tmp string) error {
			return writeDataFrame(tmp, df, output)
		}); err != nil {
			outcome.Err = err
			return outcome, nil
		}
	}
	return outcome, nil
}

// writeDataFrame dispatches to the format-specific writer named by
// output.Format.
func writeDataFrame(path string, df *DataFrame, output *FileOutput) error {
	switch output.Format {
	case FormatCSV:
		return WriteCSV(path, df)
	case FormatJSON:
		return WriteJSONLines(path, df)
	default:
		rowGroupSize := output.RowGroupSizeFor(uint64(df.NRows()))
		return WriteParquet(path, df, output, rowGroupSize)
	}
}
