package core

import "testing"

func TestResolveDatatypeTokensSingle(t *testing.T) {
	dts, err := ResolveDatatypeTokens([]string{"blocks"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dts) != 1 || dts[0] != DatatypeBlocks {
		t.Fatalf("expected [DatatypeBlocks], got %v", dts)
	}
}

func TestResolveDatatypeTokensAlias(t *testing.T) {
	dts, err := ResolveDatatypeTokens([]string{"txs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dts) != 1 || dts[0] != DatatypeTransactions {
		t.Fatalf("expected alias \"txs\" to resolve to DatatypeTransactions, got %v", dts)
	}
}

func TestResolveDatatypeTokensBundleExpands(t *testing.T) {
	dts, err := ResolveDatatypeTokens([]string{"state_diffs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dts) != 4 {
		t.Fatalf("expected state_diffs to expand to 4 member datatypes, got %d", len(dts))
	}
}

func TestResolveDatatypeTokensDedupesBundleAndMember(t *testing.T) {
	dts, err := ResolveDatatypeTokens([]string{"blocks", "blocks_and_transactions"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dts) != 2 {
		t.Fatalf("expected blocks + blocks_and_transactions to dedupe to 2 entries, got %d: %v", len(dts), dts)
	}
	if dts[0] != DatatypeBlocks {
		t.Fatalf("expected first-occurrence order to keep DatatypeBlocks first, got %v", dts)
	}
}

func TestResolveDatatypeTokensUnknownErrors(t *testing.T) {
	if _, err := ResolveDatatypeTokens([]string{"not_a_datatype"}); err == nil {
		t.Fatalf("expected error for an unknown datatype token")
	}
}
