// Package repository defines all the repository interfaces used by domain services.
// Following the dependency inversion principle, domain logic depends on these interfaces,
// and infrastructure implementations provide concrete implementations.
package repository

import (
	"context"
	"time"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
)

// TradeSource is the read boundary to the external trade data provider.
// Implementations issue one request at a time; callers drive pagination.
type TradeSource interface {
	// Probe validates the credentials and the token address without fetching
	// trade data. It must fail with the provider's authentication error before
	// any export output is created.
	Probe(ctx context.Context, token string) error

	// FetchPage returns up to one batch of buy trades strictly older than the
	// cursor, newest first. A zero cursor means "start from the latest trade".
	// next is the cursor for the following page and more reports whether
	// another page may remain. An empty page with more == false is the normal
	// end of data, not an error.
	FetchPage(ctx context.Context, token string, cursor time.Time) (trades []*model.BuyTrade, next time.Time, more bool, err error)
}

// BuyerSetCache caches per-token buyer indexes between runs.
// This is used for fast reuse of recently fetched data; implementations
// should prioritize speed over durability.
type BuyerSetCache interface {
	// SaveBuyerIndex stores the buyer index for a token with the cache's TTL.
	SaveBuyerIndex(ctx context.Context, token string, index model.BuyerIndex) error

	// GetBuyerIndex retrieves the cached buyer index for a token.
	// It returns nil (not an error) when the token is not cached.
	GetBuyerIndex(ctx context.Context, token string) (model.BuyerIndex, error)
}

// TradeArchive persists fetched trades durably for historical analysis.
// Implementations should prioritize durability over speed.
type TradeArchive interface {
	// SaveTrades persists a batch of fetched trades.
	SaveTrades(ctx context.Context, trades []*model.BuyTrade) error

	// GetTradesSince retrieves archived trades for a token at or after the
	// given unix timestamp, oldest first.
	GetTradesSince(ctx context.Context, token string, since int64) ([]*model.BuyTrade, error)
}

// TradePublisher pushes fetched trade batches to downstream consumers.
type TradePublisher interface {
	PublishTrades(ctx context.Context, trades []*model.BuyTrade) error
	Close() error
}
