package core

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// FetcherConfig bundles the connection and flow-control parameters needed
// to build a Fetcher.
type FetcherConfig struct {
	RPCURL                string
	MaxConcurrentRequests int64
	RequestsPerSecond     float64
	MaxRetries            int
	InitialBackoffMS      int
}

// Fetcher is the rate- and concurrency-limited RPC call surface every
// collector issues requests through. Every exported method acquires the
// semaphore, then waits for a rate token, then issues the call — in that
// order, per SPEC_FULL.md §4.3 — so the semaphore bounds in-flight requests
// while the limiter bounds the issue rate.
type Fetcher struct {
	client  *rpc.Client
	eth     *ethclient.Client
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewFetcher dials the RPC endpoint and returns a ready-to-use Fetcher.
// Retries/backoff are configured on the dialer's transport, never
// re-implemented above it (SPEC_FULL.md §9).
func NewFetcher(ctx context.Context, cfg FetcherConfig) (*Fetcher, error) {
	client, err := rpc.DialOptions(ctx, cfg.RPCURL, rpc.WithHTTPClient(newRetryingHTTPClient(cfg.MaxRetries, cfg.InitialBackoffMS)))
	if err != nil {
		return nil, &RPCError{Err: err}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	concurrency := cfg.MaxConcurrentRequests
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Fetcher{
		client:  client,
		eth:     ethclient.NewClient(client),
		sem:     semaphore.NewWeighted(concurrency),
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// throttle acquires the concurrency permit then the rate token, in that
// order, returning promptly with ctx.Err() if ctx is cancelled at either
// suspension point (SPEC_FULL.md §4.3 cancellation policy).
func (f *Fetcher) throttle(ctx context.Context) (release func(), err error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		f.sem.Release(1)
		return nil, err
	}
	return func() { f.sem.Release(1) }, nil
}

// call issues a raw JSON-RPC verb through the throttle, wrapping transport
// failures as ProviderError.
func (f *Fetcher) call(ctx context.Context, method string, result any, args ...any) error {
	release, err := f.throttle(ctx)
	if err != nil {
		return err
	}
	defer release()
	if err := f.client.CallContext(ctx, result, method, args...); err != nil {
		return &ProviderError{Method: method, Err: err}
	}
	return nil
}

// ChainID returns the chain id. It is called once at startup, right after
// the fetcher is built, so a failure is reported as an RPCError wrapping the
// underlying ProviderError.
func (f *Fetcher) ChainID(ctx context.Context) (uint64, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return 0, err
	}
	defer release()
	id, err := f.eth.ChainID(ctx)
	if err != nil {
		return 0, &RPCError{Err: &ProviderError{Method: "eth_chainId", Err: err}}
	}
	return id.Uint64(), nil
}

// LatestBlockNumber resolves the chain head, used by ParseBlockTokens and
// the reorg buffer.
func (f *Fetcher) LatestBlockNumber(ctx context.Context) (uint64, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return 0, err
	}
	defer release()
	n, err := f.eth.BlockNumber(ctx)
	if err != nil {
		return 0, &ProviderError{Method: "eth_blockNumber", Err: err}
	}
	return n, nil
}

// GetBlock fetches a block without transaction bodies.
func (f *Fetcher) GetBlock(ctx context.Context, number uint64) (*types.Header, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	h, err := f.eth.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return nil, &ProviderError{Method: "eth_getBlockByNumber", Err: err}
	}
	return h, nil
}

// GetBlockWithTxs fetches a block including its full transaction bodies.
func (f *Fetcher) GetBlockWithTxs(ctx context.Context, number uint64) (*types.Block, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	b, err := f.eth.BlockByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return nil, &ProviderError{Method: "eth_getBlockByNumber", Err: err}
	}
	return b, nil
}

// RawBlockReceipts is the result of a get_block_receipts RPC call: one
// receipt per transaction in block order.
type RawBlockReceipts []*types.Receipt

// GetBlockReceipts calls the (non-standard but widely-supported)
// eth_getBlockReceipts verb, preferred over per-transaction receipt
// fetches (SPEC_FULL.md Open Question 3). The transactions collector calls
// it for every block, whether or not gas_used is in the schema.
func (f *Fetcher) GetBlockReceipts(ctx context.Context, number uint64) (RawBlockReceipts, error) {
	var receipts RawBlockReceipts
	tag := rpc.BlockNumber(number).String()
	if err := f.call(ctx, "eth_getBlockReceipts", &receipts, tag); err != nil {
		return nil, err
	}
	return receipts, nil
}

// GetTransaction fetches a single transaction by hash.
func (f *Fetcher) GetTransaction(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return nil, false, err
	}
	defer release()
	tx, isPending, err := f.eth.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, false, &ProviderError{Method: "eth_getTransactionByHash", Err: err}
	}
	return tx, isPending, nil
}

// GetTransactionReceipt is the per-transaction fallback used when
// get_block_receipts is unavailable (best-effort, per SPEC_FULL.md §9
// Open Question 3).
func (f *Fetcher) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	r, err := f.eth.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, &ProviderError{Method: "eth_getTransactionReceipt", Err: err}
	}
	return r, nil
}

// GetLogs issues one eth_getLogs call for a single window.
func (f *Fetcher) GetLogs(ctx context.Context, filter ethereum.FilterQuery) ([]types.Log, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	logs, err := f.eth.FilterLogs(ctx, filter)
	if err != nil {
		return nil, &ProviderError{Method: "eth_getLogs", Err: err}
	}
	return logs, nil
}

// RawTrace is one parity-style Action/Result trace frame, kept as raw JSON
// since its Action/Result shape is a tagged union the collector decodes.
type RawTrace struct {
	Action       json.RawMessage `json:"action"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	TraceAddress []int           `json:"traceAddress"`
	Subtraces    int             `json:"subtraces"`
	Type         string          `json:"type"`
	BlockNumber  uint64          `json:"blockNumber"`
	TransactionHash *common.Hash `json:"transactionHash"`
}

// TraceBlock issues trace_block for a whole block.
func (f *Fetcher) TraceBlock(ctx context.Context, number uint64) ([]RawTrace, error) {
	var traces []RawTrace
	tag := rpc.BlockNumber(number).String()
	if err := f.call(ctx, "trace_block", &traces, tag); err != nil {
		return nil, err
	}
	return traces, nil
}

// TraceTransaction issues trace_transaction for a single transaction.
func (f *Fetcher) TraceTransaction(ctx context.Context, hash common.Hash) ([]RawTrace, error) {
	var traces []RawTrace
	if err := f.call(ctx, "trace_transaction", &traces, hash); err != nil {
		return nil, err
	}
	return traces, nil
}

// RawStateDiff is one trace_replay* response's stateDiff field: address ->
// per-field diff, each either "=" (Same), {"+": v} (Born), {"-": v} (Died),
// or {"*": {"from": a, "to": b}} (Changed).
type RawStateDiff map[string]json.RawMessage

// RawReplayResult is the decoded trace_replay_block_transactions /
// trace_replay_transaction response for one transaction.
type RawReplayResult struct {
	TransactionHash common.Hash  `json:"transactionHash"`
	StateDiff       RawStateDiff `json:"stateDiff"`
}

// TraceReplayBlockTransactions issues trace_replayBlockTransactions with
// the given trace types (typically just ["stateDiff"]).
func (f *Fetcher) TraceReplayBlockTransactions(ctx context.Context, number uint64, traceTypes []string) ([]RawReplayResult, error) {
	var results []RawReplayResult
	tag := rpc.BlockNumber(number).String()
	if err := f.call(ctx, "trace_replayBlockTransactions", &results, tag, traceTypes); err != nil {
		return nil, err
	}
	return results, nil
}

// TraceReplayTransaction issues trace_replayTransaction for a single
// transaction hash.
func (f *Fetcher) TraceReplayTransaction(ctx context.Context, hash common.Hash, traceTypes []string) (*RawReplayResult, error) {
	var result RawReplayResult
	if err := f.call(ctx, "trace_replayTransaction", &result, hash, traceTypes); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBalance / GetCode / GetStorageAt / GetTransactionCount read account
// state at a given block.
func (f *Fetcher) GetBalance(ctx context.Context, addr common.Address, block uint64) (*big.Int, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	v, err := f.eth.BalanceAt(ctx, addr, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, &ProviderError{Method: "eth_getBalance", Err: err}
	}
	return v, nil
}

func (f *Fetcher) GetCode(ctx context.Context, addr common.Address, block uint64) ([]byte, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	v, err := f.eth.CodeAt(ctx, addr, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, &ProviderError{Method: "eth_getCode", Err: err}
	}
	return v, nil
}

func (f *Fetcher) GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash, block uint64) ([]byte, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	v, err := f.eth.StorageAt(ctx, addr, slot, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, &ProviderError{Method: "eth_getStorageAt", Err: err}
	}
	return v, nil
}

func (f *Fetcher) GetTransactionCount(ctx context.Context, addr common.Address, block uint64) (uint64, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return 0, err
	}
	defer release()
	v, err := f.eth.NonceAt(ctx, addr, new(big.Int).SetUint64(block))
	if err != nil {
		return 0, &ProviderError{Method: "eth_getTransactionCount", Err: err}
	}
	return v, nil
}

// Call issues eth_call against the given message at a specific block
// (used by the Erc20Supplies collector's totalSupply() reads).
func (f *Fetcher) Call(ctx context.Context, msg ethereum.CallMsg, block uint64) ([]byte, error) {
	release, err := f.throttle(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	v, err := f.eth.CallContract(ctx, msg, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, &ProviderError{Method: "eth_call", Err: err}
	}
	return v, nil
}

// GethTraceOptions configures a debug_trace* call. Tracer == "" requests
// the default struct-logger (opcode) trace.
type GethTraceOptions struct {
	Tracer         string          `json:"tracer,omitempty"`
	TracerConfig   json.RawMessage `json:"tracerConfig,omitempty"`
	DisableStorage bool            `json:"disableStorage,omitempty"`
	DisableStack   bool            `json:"disableStack,omitempty"`
}

// DebugTraceBlockByNumber issues debug_traceBlockByNumber. Its response
// shape depends on Tracer and is decoded by the caller (collect_gethdiffs.go
// for prestateTracer diffMode).
func (f *Fetcher) DebugTraceBlockByNumber(ctx context.Context, number uint64, opts GethTraceOptions) (json.RawMessage, error) {
	var raw json.RawMessage
	tag := rpc.BlockNumber(number).String()
	if err := f.call(ctx, "debug_traceBlockByNumber", &raw, tag, opts); err != nil {
		return nil, err
	}
	return raw, nil
}

// DebugTraceTransaction issues debug_traceTransaction.
func (f *Fetcher) DebugTraceTransaction(ctx context.Context, hash common.Hash, opts GethTraceOptions) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := f.call(ctx, "debug_traceTransaction", &raw, hash, opts); err != nil {
		return nil, err
	}
	return raw, nil
}
