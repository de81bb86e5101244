package core

import "time"

// ExecutionEnv is the run-scoped execution context: timing, dry-run/report
// flags, and the progress bar. Constructed once per freeze run; TEnd is
// filled in when the run completes.
type ExecutionEnv struct {
	TStart    time.Time
	TEnd      time.Time
	Dry       bool
	Report    bool
	ReportDir string
	Verbose   bool
	Strict    bool // exit nonzero if any partition errored
	Bar       Bar
}

// NewExecutionEnv starts the clock and defaults Bar to a no-op bar when
// none is supplied.
func NewExecutionEnv(dry, report bool, reportDir string, verbose, strict bool, bar Bar) *ExecutionEnv {
	if bar == nil {
		bar = NewNoopBar()
	}
	return &ExecutionEnv{
		TStart:    time.Now(),
		Dry:       dry,
		Report:    report,
		ReportDir: reportDir,
		Verbose:   verbose,
		Strict:    strict,
		Bar:       bar,
	}
}

// Finish stamps TEnd; call once the run (successful or not) completes.
func (e *ExecutionEnv) Finish() {
	e.TEnd = time.Now()
}
