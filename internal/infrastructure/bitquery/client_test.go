package bitquery_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/bitquery"
)

const testMint = "So11111111111111111111111111111111111111112"

func tradeJSON(sig, buyer, blockTime string) string {
	return fmt.Sprintf(`{
		"Block": {"Time": %q},
		"Transaction": {"Signature": %q, "Signer": %q},
		"Trade": {
			"Account": {"Address": %q},
			"Amount": "1.5",
			"Price": 0.1,
			"PriceInUSD": "0.1",
			"Side": {
				"Amount": "0.25",
				"AmountInUSD": "42.5",
				"Currency": {"Symbol": "SOL", "MintAddress": %q}
			}
		}
	}`, blockTime, sig, buyer, buyer, testMint)
}

func tradesBody(trades ...string) string {
	return fmt.Sprintf(`{"data":{"Solana":{"DEXTradeByTokens":[%s]}}}`, strings.Join(trades, ","))
}

func newTestClient(url string, batchSize int) *bitquery.Client {
	return bitquery.NewClient(bitquery.Config{
		URL:        url,
		APIKey:     "test-key",
		BatchSize:  batchSize,
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RPS:        1000, // no pacing in tests
	})
}

func TestFetchPagePagination(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header: %q", got)
		}

		n := atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			fmt.Fprint(w, tradesBody(
				tradeJSON("sig1", "wallet1", "2025-08-01T10:00:02Z"),
				tradeJSON("sig2", "wallet2", "2025-08-01T10:00:01Z"),
			))
			return
		}
		fmt.Fprint(w, tradesBody(
			tradeJSON("sig3", "wallet3", "2025-08-01T10:00:00Z"),
		))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)
	ctx := context.Background()

	trades, next, more, err := client.FetchPage(ctx, testMint, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades on first page, got %d", len(trades))
	}
	if !more {
		t.Error("expected more pages after a full batch")
	}
	wantCursor := time.Date(2025, 8, 1, 10, 0, 1, 0, time.UTC)
	if !next.Equal(wantCursor) {
		t.Errorf("expected cursor %v, got %v", wantCursor, next)
	}
	if trades[0].Buyer != "wallet1" || trades[0].Signature != "sig1" {
		t.Errorf("unexpected first trade: %+v", trades[0])
	}
	if trades[0].PaidUSD != 42.5 {
		t.Errorf("expected PaidUSD 42.5, got %f", trades[0].PaidUSD)
	}
	if trades[0].Amount != 1.5 {
		t.Errorf("expected Amount 1.5, got %f", trades[0].Amount)
	}

	trades, _, more, err = client.FetchPage(ctx, testMint, next)
	if err != nil {
		t.Fatalf("unexpected error on second page: %v", err)
	}
	if len(trades) != 1 || more {
		t.Errorf("expected short final page, got %d trades (more=%v)", len(trades), more)
	}
}

func TestFetchPageEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tradesBody())
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)

	trades, _, more, err := client.FetchPage(context.Background(), testMint, time.Time{})
	if err != nil {
		t.Fatalf("a token with zero buys must not be an error, got: %v", err)
	}
	if len(trades) != 0 || more {
		t.Errorf("expected empty final page, got %d trades (more=%v)", len(trades), more)
	}
}

func TestAuthenticationErrorNotRetried(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)

	err := client.Probe(context.Background(), testMint)
	if !errors.Is(err, bitquery.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got: %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Errorf("authentication failures must not be retried, saw %d requests", n)
	}
}

func TestRateLimitRetried(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, tradesBody())
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)

	if err := client.Probe(context.Background(), testMint); err != nil {
		t.Fatalf("expected retry to succeed, got: %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != 2 {
		t.Errorf("expected 2 requests (1 throttled + 1 retry), saw %d", n)
	}
}

func TestMalformedResponse(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		fmt.Fprint(w, "definitely not json")
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)

	err := client.Probe(context.Background(), testMint)
	if !errors.Is(err, bitquery.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got: %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Errorf("malformed responses must not be retried, saw %d requests", n)
	}
}

func TestGraphQLAuthErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"Unauthorized: api key missing or invalid"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)

	err := client.Probe(context.Background(), testMint)
	if !errors.Is(err, bitquery.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication from GraphQL error payload, got: %v", err)
	}
}

func TestCursorAppearsInFollowupQuery(t *testing.T) {
	var sawBefore atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1<<16)
		n, _ := r.Body.Read(buf)
		if strings.Contains(string(buf[:n]), `before`) {
			sawBefore.Store(true)
		}
		fmt.Fprint(w, tradesBody())
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)

	cursor := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	if _, _, _, err := client.FetchPage(context.Background(), testMint, cursor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawBefore.Load() {
		t.Error("expected the request query to carry the before-cursor")
	}
}
