// Package bitquery implements the TradeSource interface against the Bitquery
// streaming GraphQL API over HTTPS.
package bitquery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"go.uber.org/ratelimit"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/repository"
)

// DefaultURL is the Bitquery streaming GraphQL endpoint.
const DefaultURL = "https://streaming.bitquery.io/graphql"

// Error taxonomy. Callers branch on these with errors.Is.
var (
	// ErrAuthentication means the API rejected the key; never retried.
	ErrAuthentication = errors.New("bitquery: authentication failed")
	// ErrRateLimited means the API throttled us; retried with backoff.
	ErrRateLimited = errors.New("bitquery: rate limited")
	// ErrMalformedResponse means the response JSON had an unexpected shape.
	ErrMalformedResponse = errors.New("bitquery: malformed response")
)

// retryDelays is the escalating backoff between retry attempts.
var retryDelays = []time.Duration{
	500 * time.Millisecond,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
}

// Config holds the client settings.
type Config struct {
	URL        string
	APIKey     string
	BatchSize  int           // trades requested per page
	Timeout    time.Duration // per-request HTTP timeout
	MaxRetries int           // attempts per request for retryable failures
	RPS        int           // polite request pacing toward the API
}

// Client issues one paginated GraphQL request at a time.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimit.Limiter
}

// Ensure Client implements the TradeSource interface.
var _ repository.TradeSource = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: ratelimit.New(cfg.RPS),
	}
}

// Probe validates the API key and token address with a limit-1 query.
func (c *Client) Probe(ctx context.Context, token string) error {
	_, err := c.do(ctx, buildProbeQuery(token))
	return err
}

// FetchPage returns one batch of buy trades older than the cursor, newest
// first. A page shorter than the batch size ends the sequence.
func (c *Client) FetchPage(ctx context.Context, token string, cursor time.Time) ([]*model.BuyTrade, time.Time, bool, error) {
	resp, err := c.do(ctx, buildTradesQuery(token, cursor, c.cfg.BatchSize))
	if err != nil {
		return nil, time.Time{}, false, err
	}

	records := resp.Data.Solana.DEXTradeByTokens
	trades := make([]*model.BuyTrade, 0, len(records))
	var next time.Time
	for _, rec := range records {
		trade, err := rec.toModel(token)
		if err != nil {
			return nil, time.Time{}, false, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		trades = append(trades, trade)
		next = trade.Timestamp
	}

	more := len(records) == c.cfg.BatchSize
	return trades, next, more, nil
}

// do sends one GraphQL request, retrying transient failures with escalating
// backoff. Authentication and malformed-response errors are never retried.
func (c *Client) do(ctx context.Context, query string) (*tradesResponse, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := retryDelays[min(attempt-1, len(retryDelays)-1)]
			log.Printf("Retrying Bitquery request in %s (attempt %d/%d) after: %v", delay, attempt+1, c.cfg.MaxRetries, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.doOnce(ctx, query)
		if err == nil {
			return resp, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doOnce(ctx context.Context, query string) (*tradesResponse, error) {
	c.limiter.Take()

	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bitquery: network error: %w", err)
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (HTTP %d)", ErrAuthentication, httpResp.StatusCode)
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w (HTTP 429)", ErrRateLimited)
	case httpResp.StatusCode >= 500:
		return nil, fmt.Errorf("bitquery: server error (HTTP %d)", httpResp.StatusCode)
	case httpResp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("bitquery: unexpected status %d", httpResp.StatusCode)
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("bitquery: reading response: %w", err)
	}

	var resp tradesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(resp.Errors) > 0 {
		for _, gqlErr := range resp.Errors {
			if gqlErr.isAuthError() {
				return nil, fmt.Errorf("%w: %s", ErrAuthentication, gqlErr.Message)
			}
		}
		return nil, fmt.Errorf("bitquery: API error: %s", joinErrorMessages(resp.Errors))
	}

	if resp.Data == nil {
		return nil, fmt.Errorf("%w: missing data field", ErrMalformedResponse)
	}
	return &resp, nil
}

// isRetryable reports whether the request should be attempted again.
// Rate limiting, transport failures and 5xx responses are transient;
// bad credentials and unparseable payloads are not.
func isRetryable(err error) bool {
	if errors.Is(err, ErrAuthentication) || errors.Is(err, ErrMalformedResponse) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func (r tradeRecord) toModel(token string) (*model.BuyTrade, error) {
	ts, err := time.Parse(blockTimeLayout, r.Block.Time)
	if err != nil {
		// Some datasets include fractional seconds.
		ts, err = time.Parse(time.RFC3339, r.Block.Time)
		if err != nil {
			return nil, fmt.Errorf("parsing block time %q: %w", r.Block.Time, err)
		}
	}

	buyer := r.Trade.Account.Address
	return &model.BuyTrade{
		ID:         r.Transaction.Signature + ":" + buyer,
		Token:      token,
		Buyer:      buyer,
		Signer:     r.Transaction.Signer,
		Signature:  r.Transaction.Signature,
		Amount:     r.Trade.Amount.Float64(),
		PaidAmount: r.Trade.Side.Amount.Float64(),
		PaidUSD:    r.Trade.Side.AmountInUSD.Float64(),
		PriceUSD:   r.Trade.PriceInUSD.Float64(),
		PaidSymbol: r.Trade.Side.Currency.Symbol,
		PaidMint:   r.Trade.Side.Currency.MintAddress,
		Timestamp:  ts,
	}, nil
}
