// Command blockfreeze extracts blockchain data over JSON-RPC into
// Parquet/CSV/JSON files, one per (partition, datatype) pair.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"blockfreeze/core"
	"blockfreeze/pkg/config"
	"blockfreeze/pkg/xlog"
)

func main() {
	f := &cliFlags{}
	root := &cobra.Command{
		Use:   "blockfreeze <datatype...>",
		Short: "Extract blockchain data to Parquet, CSV, or JSON files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f, args)
		},
	}
	registerFlags(root, f)

	if err := root.ExecuteContext(context.Background()); err != nil {
		logrus.WithError(err).Error("blockfreeze failed")
		os.Exit(1)
	}
}

// run is the single entry point shared by the root command: resolve
// configuration, connect, build the query, freeze, report, and choose the
// process exit code.
func run(ctx context.Context, f *cliFlags, datatypeTokens []string) error {
	_ = godotenv.Load()
	if _, err := config.LoadFromEnv(); err != nil {
		logrus.WithError(err).Warn("no config file loaded, proceeding with flags and environment only")
	}
	xlog.Setup(viper.GetString("logging.level"))

	datatypes, err := core.ResolveDatatypeTokens(datatypeTokens)
	if err != nil {
		return err
	}

	rpcURL := resolveRPCURL(f.rpc)
	fetcher, err := core.NewFetcher(ctx, core.FetcherConfig{
		RPCURL:                rpcURL,
		MaxConcurrentRequests: f.maxConcurrentReqs,
		RequestsPerSecond:     f.requestsPerSecond,
		MaxRetries:            f.maxRetries,
		InitialBackoffMS:      f.initialBackoffMS,
	})
	if err != nil {
		return err
	}

	chainID, err := fetcher.ChainID(ctx)
	if err != nil {
		return err
	}

	query, err := buildQuery(ctx, f, datatypes, fetcher.LatestBlockNumber)
	if err != nil {
		return err
	}

	output, err := buildFileOutput(f, chainID)
	if err != nil {
		return err
	}

	source := &core.Source{
		Fetcher:             fetcher,
		ChainID:             chainID,
		InnerRequestSize:    f.innerRequestSize,
		MaxConcurrentChunks: f.maxConcurrentChks,
		RPCURL:              rpcURL,
		Labels:              callLabels(f),
	}

	stopMetrics := serveMetrics(f.metricsAddr)
	defer stopMetrics(ctx)

	var bar core.Bar
	if f.verbose {
		bar = core.NewStderrBar("freeze", len(query.Partitions))
	}
	env := core.NewExecutionEnv(f.dry, !f.noReport, f.reportDir, f.verbose, f.strict, bar)

	summary, runErr := core.Freeze(ctx, query, source, output, env)
	recordSummary(summary)

	printSummary(summary)

	if !f.noReport && !f.dry {
		report := core.BuildReport(summary, env, queryConfigEcho(f))
		path, werr := core.WriteReport(report, f.reportDir, f.outputDir)
		if werr != nil {
			logrus.WithError(werr).Error("failed to write run report")
		} else {
			logrus.WithField("path", path).Info("wrote run report")
		}
	}

	if runErr != nil {
		return runErr
	}
	if summary.Strict(f.strict) {
		return fmt.Errorf("%d partition(s) errored", len(summary.Errored))
	}
	return nil
}

// resolveRPCURL picks the --rpc flag over $ETH_RPC_URL, prefixing
// "http://" onto any URL given without a scheme (spec.md §6).
func resolveRPCURL(flag string) string {
	url := flag
	if url == "" {
		url = os.Getenv("ETH_RPC_URL")
	}
	if url != "" && !strings.Contains(url, "://") {
		url = "http://" + url
	}
	return url
}

// callLabels stashes the eth_call-oriented flags (no current collector
// consumes them directly; they exist for a future generic eth_call
// collector) on Source.Labels so the information isn't dropped.
func callLabels(f *cliFlags) map[string]string {
	labels := make(map[string]string)
	if f.function != "" {
		labels["function"] = f.function
	}
	if len(f.inputs) > 0 {
		labels["inputs"] = strings.Join(f.inputs, ",")
	}
	if f.eventSig != "" {
		labels["event_signature"] = f.eventSig
	}
	if len(f.fromAddress) > 0 {
		labels["from_address"] = strings.Join(f.fromAddress, ",")
		logrus.Warn("--from-address has no filtering effect: from_address is an output column only, not a queryable dimension")
	}
	return labels
}

// queryConfigEcho is the value echoed back into the report's "config"
// field: the flags that materially shaped this run's output.
func queryConfigEcho(f *cliFlags) any {
	return map[string]any{
		"blocks":       f.blocks,
		"chunk_size":   f.chunkSize,
		"n_chunks":     f.nChunks,
		"partition_by": f.partitionBy,
		"output_dir":   f.outputDir,
		"overwrite":    f.overwrite,
		"compression":  f.compression,
	}
}
