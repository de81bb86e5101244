package main

import (
	"fmt"

	"blockfreeze/core"
)

// buildFileOutput translates the output-related flags into a FileOutput,
// defaulting the filename prefix to the chain's canonical name.
func buildFileOutput(f *cliFlags, chainID uint64) (*core.FileOutput, error) {
	if f.csv && f.json {
		return nil, &core.ParseError{Reason: "--csv and --json are mutually exclusive"}
	}
	format := core.FormatParquet
	switch {
	case f.csv:
		format = core.FormatCSV
	case f.json:
		format = core.FormatJSON
	}

	compression, err := core.ParseCompression(f.compression)
	if err != nil {
		return nil, err
	}

	prefix := f.networkName
	if prefix == "" {
		prefix = core.ChainName(chainID)
	}

	out := &core.FileOutput{
		OutputDir:          f.outputDir,
		Prefix:             prefix,
		Format:             format,
		Suffix:             f.fileSuffix,
		Overwrite:          f.overwrite,
		ParquetStatistics:  !f.noStats,
		ParquetCompression: compression,
	}
	if f.rowGroupSize > 0 {
		v := f.rowGroupSize
		out.RowGroupSize = &v
	}
	if f.nRowGroups > 0 {
		v := f.nRowGroups
		out.NRowGroups = &v
	}
	return out, nil
}

// printSummary writes the user-visible end-of-run summary to stdout:
// counts per outcome, plus the top two most-frequent error messages
// (spec.md §7: "the summary lists up to two most-frequent error messages
// with counts").
func printSummary(summary *core.FreezeSummary) {
	fmt.Printf("completed: %d, skipped: %d, errored: %d\n",
		len(summary.Completed), len(summary.Skipped), len(summary.Errored))
	for _, ec := range summary.TopErrors(2) {
		fmt.Printf("  %dx %s\n", ec.Count, ec.Message)
	}
}
