package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// rpcStubServer answers JSON-RPC 2.0 requests with a canned result per
// method name, letting Freeze exercise a real Fetcher (and therefore the
// real ParamSets -> ExtractByBlock wiring) without a live node.
func rpcStubServer(t *testing.T, results map[string]json.RawMessage) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("unexpected error decoding RPC request: %v", err)
		}
		result, ok := results[req.Method]
		if !ok {
			t.Fatalf("stub server received unexpected RPC method %q", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := struct {
			Version string          `json:"jsonrpc"`
			ID      json.RawMessage `json:"id"`
			Result  json.RawMessage `json:"result"`
		}{Version: "2.0", ID: req.ID, Result: result}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("unexpected error encoding RPC response: %v", err)
		}
	}))
}

func singleBlockQuery(t *testing.T, dt Datatype, blockNumber uint64) *Query {
	t.Helper()
	table, err := ResolveSchema(SchemaRequest{Datatype: dt})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := NewPartition()
	if err := p.SetNumberChunks(DimBlockNumber, []NumberChunk{NewNumberRange(blockNumber, blockNumber)}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &Query{
		Partitions:    []*Partition{p},
		PartitionedBy: []Dim{DimBlockNumber},
		Schemas:       map[Datatype]*Table{dt: table},
		TimeDimension: TimeDimensionBlocks,
	}
}

// TestContractsCollectorThroughFreezeWithDefaultInnerRequestSize mirrors a
// default-flag invocation (--inner-request-size defaults to 1, a non-zero
// value) against a non-ranged datatype: ParamSets must hand ExtractByBlock a
// plain uint64, not a BlockWindow, or the contracts collector's type
// assertion fails on every partition.
func TestContractsCollectorThroughFreezeWithDefaultInnerRequestSize(t *testing.T) {
	txHash := "0x1122334411223344112233441122334411223344112233441122334411223344"[:66]
	traces := []map[string]any{
		{
			"action": map[string]any{
				"from": "0x1111111111111111111111111111111111111111",
				"init": "0x6001600101",
			},
			"result": map[string]any{
				"address": "0x2222222222222222222222222222222222222222",
				"code":    "0x6001",
			},
			"error":           "",
			"traceAddress":    []int{},
			"subtraces":       0,
			"type":            "create",
			"blockNumber":     100,
			"transactionHash": txHash,
		},
	}
	tracesJSON, err := json.Marshal(traces)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	server := rpcStubServer(t, map[string]json.RawMessage{"trace_block": tracesJSON})
	defer server.Close()

	fetcher, err := NewFetcher(context.Background(), FetcherConfig{RPCURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error dialing stub server: %v", err)
	}

	query := singleBlockQuery(t, DatatypeContracts, 100)
	source := &Source{Fetcher: fetcher, InnerRequestSize: 1, MaxConcurrentChunks: 1, ChainID: 1}
	output := &FileOutput{OutputDir: t.TempDir(), Prefix: "ethereum", Format: FormatCSV}
	env := NewExecutionEnv(false, false, "", false, false, nil)

	summary, err := Freeze(context.Background(), query, source, output, env)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(summary.Errored) != 0 {
		t.Fatalf("expected no errored partitions, got %+v", summary.Errored)
	}
	if len(summary.Completed) != 1 {
		t.Fatalf("expected 1 completed partition, got %d", len(summary.Completed))
	}
}
