package core

import (
	"context"
	"testing"

	"golang.org/x/time/rate"
)

func TestNewFetcherDefaultsConcurrencyAndRate(t *testing.T) {
	f, err := NewFetcher(context.Background(), FetcherConfig{RPCURL: "http://127.0.0.1:0"})
	if err != nil {
		t.Fatalf("unexpected error dialing (no network call happens until a request is issued): %v", err)
	}
	if f.sem == nil {
		t.Fatalf("expected a non-nil semaphore")
	}
	if f.limiter.Limit() != rate.Inf {
		t.Fatalf("expected an unbounded rate limiter when RequestsPerSecond is unset, got %v", f.limiter.Limit())
	}
}

func TestNewFetcherHonorsRequestsPerSecond(t *testing.T) {
	f, err := NewFetcher(context.Background(), FetcherConfig{RPCURL: "http://127.0.0.1:0", RequestsPerSecond: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.limiter.Limit() != rate.Limit(5) {
		t.Fatalf("expected a rate limit of 5, got %v", f.limiter.Limit())
	}
}
