package main

import "github.com/spf13/cobra"

// cliFlags holds every flag recognized by the root command, named and typed
// to mirror the CLI surface (section 6): block/tx/filter tokens as string
// slices (repeatable or comma-separated), everything else a scalar.
type cliFlags struct {
	blocks      []string
	txs         []string
	align       bool
	reorgBuffer uint64

	includeColumns []string
	excludeColumns []string
	columns        []string
	u256Types      []string
	hex            bool
	sort           []string

	rpc               string
	networkName       string
	requestsPerSecond float64
	maxRetries        int
	initialBackoffMS  int
	maxConcurrentReqs int64
	maxConcurrentChks int64
	innerRequestSize  uint64

	dry         bool
	chunkSize   uint64
	nChunks     uint64
	partitionBy []string

	outputDir    string
	fileSuffix   string
	overwrite    bool
	csv          bool
	json         bool
	rowGroupSize uint64
	nRowGroups   uint64
	noStats      bool
	compression  []string

	reportDir string
	noReport  bool
	strict    bool
	verbose   bool

	address     []string
	toAddress   []string
	fromAddress []string
	contract    []string
	callData    []string
	function    string
	inputs      []string
	slot        []string
	topic0      []string
	topic1      []string
	topic2      []string
	topic3      []string
	eventSig    string

	metricsAddr string
}

func registerFlags(cmd *cobra.Command, f *cliFlags) {
	fs := cmd.Flags()

	fs.StringSliceVar(&f.blocks, "blocks", nil, "block number tokens (e.g. 0:1000, latest, 17M:)")
	fs.StringSliceVar(&f.txs, "txs", nil, "transaction hash tokens or parquet file references")
	fs.BoolVar(&f.align, "align", false, "align block ranges to the chunk size")
	fs.Uint64Var(&f.reorgBuffer, "reorg-buffer", 0, "drop chunks within N blocks of the chain head")

	fs.StringSliceVar(&f.includeColumns, "include-columns", nil, "extra columns to add to the default set")
	fs.StringSliceVar(&f.excludeColumns, "exclude-columns", nil, "columns to drop from the default set")
	fs.StringSliceVar(&f.columns, "columns", nil, "explicit column set, overriding defaults (\"all\" for every column)")
	fs.StringSliceVar(&f.u256Types, "u256-types", nil, "uint256 representations to materialize (binary,string,f32,f64,u32,u64,decimal128)")
	fs.BoolVar(&f.hex, "hex", false, "render binary columns as 0x-prefixed hex instead of raw bytes")
	fs.StringSliceVar(&f.sort, "sort", nil, "sort columns, or \"none\" to disable sorting")

	fs.StringVar(&f.rpc, "rpc", "", "JSON-RPC endpoint URL (defaults to $ETH_RPC_URL)")
	fs.StringVar(&f.networkName, "network-name", "", "network name used as the output file prefix")
	fs.Float64Var(&f.requestsPerSecond, "requests-per-second", 0, "RPC rate limit (0 = unlimited)")
	fs.IntVar(&f.maxRetries, "max-retries", 5, "max transport retries per request")
	fs.IntVar(&f.initialBackoffMS, "initial-backoff", 500, "initial retry backoff in milliseconds")
	fs.Int64Var(&f.maxConcurrentReqs, "max-concurrent-requests", 4, "max in-flight RPC requests")
	fs.Int64Var(&f.maxConcurrentChks, "max-concurrent-chunks", 4, "max (partition, datatype-group) tasks in flight")
	fs.Uint64Var(&f.innerRequestSize, "inner-request-size", 1, "blocks per inner RPC request window")

	fs.BoolVar(&f.dry, "dry", false, "compute the run plan and exit without writing files")
	fs.Uint64Var(&f.chunkSize, "chunk-size", 1000, "blocks per output chunk")
	fs.Uint64Var(&f.nChunks, "n-chunks", 0, "split the block range into exactly N chunks (overrides chunk-size)")
	fs.StringSliceVar(&f.partitionBy, "partition-by", nil, "dimensions to partition output by")

	fs.StringVar(&f.outputDir, "output-dir", ".", "directory to write output files to")
	fs.StringVar(&f.fileSuffix, "file-suffix", "", "extra suffix appended to output filenames")
	fs.BoolVar(&f.overwrite, "overwrite", false, "overwrite existing output files")
	fs.BoolVar(&f.csv, "csv", false, "write CSV instead of Parquet")
	fs.BoolVar(&f.json, "json", false, "write newline-delimited JSON instead of Parquet")
	fs.Uint64Var(&f.rowGroupSize, "row-group-size", 0, "explicit parquet row group size")
	fs.Uint64Var(&f.nRowGroups, "n-row-groups", 0, "target number of parquet row groups per file")
	fs.BoolVar(&f.noStats, "no-stats", false, "disable parquet column statistics")
	fs.StringSliceVar(&f.compression, "compression", []string{"snappy"}, "parquet compression, e.g. \"gzip 6\"")

	fs.StringVar(&f.reportDir, "report-dir", "", "directory for the run report (defaults to output-dir)")
	fs.BoolVar(&f.noReport, "no-report", false, "skip writing the run report file")
	fs.BoolVar(&f.strict, "strict", false, "exit nonzero if any partition errored")
	fs.BoolVar(&f.verbose, "verbose", false, "print a progress line per completed task")

	fs.StringSliceVar(&f.address, "address", nil, "log/contract address filter or partition values")
	fs.StringSliceVar(&f.toAddress, "to-address", nil, "transaction to-address filter or partition values")
	fs.StringSliceVar(&f.fromAddress, "from-address", nil, "transaction from-address filter or partition values")
	fs.StringSliceVar(&f.contract, "contract", nil, "erc20/contract address filter or partition values")
	fs.StringSliceVar(&f.callData, "call-data", nil, "call data filter or partition values")
	fs.StringVar(&f.function, "function", "", "function signature for eth_call-based collectors")
	fs.StringSliceVar(&f.inputs, "inputs", nil, "ABI-encoded inputs for eth_call-based collectors")
	fs.StringSliceVar(&f.slot, "slot", nil, "storage slot filter or partition values")
	fs.StringSliceVar(&f.topic0, "topic0", nil, "log topic0 filter or partition values")
	fs.StringSliceVar(&f.topic1, "topic1", nil, "log topic1 filter or partition values")
	fs.StringSliceVar(&f.topic2, "topic2", nil, "log topic2 filter or partition values")
	fs.StringSliceVar(&f.topic3, "topic3", nil, "log topic3 filter or partition values")
	fs.StringVar(&f.eventSig, "event-signature", "", "event signature to decode log data against")

	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "address to serve prometheus /metrics on (disabled if empty)")
}
