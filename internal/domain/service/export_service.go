package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/repository"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/useCases"
)

// ErrContextCancelled is returned when the context is cancelled mid-run.
var ErrContextCancelled = errors.New("context cancelled during export")

// ExportService drives the linear pipeline: probe -> fetch pages -> dedupe ->
// archive/cache/publish (optional) -> export. One request is in flight at a
// time; suspension happens only at the trade source's request boundaries.
type ExportService struct {
	Source   repository.TradeSource
	Exporter useCases.TradeExporter
	Analyzer useCases.BuyerAnalyzer
	Progress useCases.ProgressReporter

	// Optional sinks; any of these may be nil. Failures here are logged and
	// do not abort the run.
	Cache     repository.BuyerSetCache
	Archive   repository.TradeArchive
	Publisher repository.TradePublisher

	DedupCache map[string]struct{} // guards against duplicates at page boundaries
}

func NewExportService(source repository.TradeSource, exporter useCases.TradeExporter, analyzer useCases.BuyerAnalyzer, progress useCases.ProgressReporter) *ExportService {
	return &ExportService{
		Source:     source,
		Exporter:   exporter,
		Analyzer:   analyzer,
		Progress:   progress,
		DedupCache: make(map[string]struct{}),
	}
}

// Probe validates credentials and token without touching the filesystem.
func (s *ExportService) Probe(ctx context.Context, token string) error {
	return s.Source.Probe(ctx, token)
}

// FetchAllTrades pulls every buy trade for the token across all pages.
// A token with zero buys yields an empty slice, not an error.
func (s *ExportService) FetchAllTrades(ctx context.Context, token string) ([]*model.BuyTrade, int, error) {
	var (
		all    []*model.BuyTrade
		cursor time.Time
		calls  int
		batch  int
	)

	for {
		if ctx.Err() != nil {
			return nil, calls, ErrContextCancelled
		}

		batch++
		trades, next, more, err := s.Source.FetchPage(ctx, token, cursor)
		calls++
		if err != nil {
			return nil, calls, fmt.Errorf("fetching batch #%d: %w", batch, err)
		}

		fresh := s.dedupe(trades)
		all = append(all, fresh...)
		s.Progress.BatchFetched(batch, len(fresh), len(all))

		s.feedSinks(ctx, fresh)

		if !more || len(trades) == 0 {
			break
		}
		cursor = next
	}

	return all, calls, nil
}

// ExportToken runs the full single-token pipeline and returns a summary of the
// files written. The trade source is probed first so an invalid key fails
// before any output file is created.
func (s *ExportService) ExportToken(ctx context.Context, token, prefix string) (*model.ExportSummary, error) {
	if err := s.Probe(ctx, token); err != nil {
		return nil, err
	}

	trades, calls, err := s.FetchAllTrades(ctx, token)
	if err != nil {
		return nil, err
	}

	chunks, combined, err := s.Exporter.ExportTrades(trades, prefix)
	if err != nil {
		return nil, fmt.Errorf("exporting %s: %w", token, err)
	}
	s.Progress.FileWritten(combined, len(trades))

	index := s.Analyzer.BuildIndex(trades)
	s.cacheIndex(ctx, token, index)

	return &model.ExportSummary{
		Token:        token,
		TotalTrades:  len(trades),
		UniqueBuyers: len(index),
		APICalls:     calls,
		ChunkFiles:   chunks,
		CombinedFile: combined,
	}, nil
}

// BuyerIndexFor returns the buyer index for a token, preferring a cached index
// from a recent run over a fresh fetch.
func (s *ExportService) BuyerIndexFor(ctx context.Context, token string) (model.BuyerIndex, error) {
	if s.Cache != nil {
		index, err := s.Cache.GetBuyerIndex(ctx, token)
		if err != nil {
			log.Printf("Buyer set cache lookup failed for %s: %v", token, err)
		} else if index != nil {
			s.Progress.Info(fmt.Sprintf("Using cached buyer set for %s (%d wallets)", token, len(index)))
			return index, nil
		}
	}

	trades, _, err := s.FetchAllTrades(ctx, token)
	if err != nil {
		return nil, err
	}
	index := s.Analyzer.BuildIndex(trades)
	s.cacheIndex(ctx, token, index)
	return index, nil
}

// CommonBuyers computes the wallets that bought every one of the given tokens.
// At least two tokens are required; a disjoint result is empty, not an error.
func (s *ExportService) CommonBuyers(ctx context.Context, tokens []string) ([]model.CommonBuyer, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("common-buyer analysis needs at least 2 tokens, got %d", len(tokens))
	}

	indexes := make([]model.BuyerIndex, 0, len(tokens))
	for _, token := range tokens {
		index, err := s.BuyerIndexFor(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("building buyer set for %s: %w", token, err)
		}
		indexes = append(indexes, index)
	}

	return s.Analyzer.CommonBuyers(indexes), nil
}

// dedupe filters out trades already seen in this run. Pagination cursors are
// block timestamps, so a trade sharing the boundary timestamp can appear on
// two consecutive pages.
func (s *ExportService) dedupe(trades []*model.BuyTrade) []*model.BuyTrade {
	fresh := make([]*model.BuyTrade, 0, len(trades))
	for _, trade := range trades {
		if trade == nil {
			continue
		}
		if _, exists := s.DedupCache[trade.ID]; exists {
			continue
		}
		s.DedupCache[trade.ID] = struct{}{}
		fresh = append(fresh, trade)
	}
	return fresh
}

// feedSinks hands a fetched batch to the optional archive and publisher.
// Sink errors are logged but never abort the export.
func (s *ExportService) feedSinks(ctx context.Context, trades []*model.BuyTrade) {
	if len(trades) == 0 {
		return
	}
	if s.Archive != nil {
		if err := s.Archive.SaveTrades(ctx, trades); err != nil {
			log.Printf("Error archiving %d trades: %v", len(trades), err)
		}
	}
	if s.Publisher != nil {
		if err := s.Publisher.PublishTrades(ctx, trades); err != nil {
			log.Printf("Error publishing %d trades: %v", len(trades), err)
		}
	}
}

func (s *ExportService) cacheIndex(ctx context.Context, token string, index model.BuyerIndex) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.SaveBuyerIndex(ctx, token, index); err != nil {
		log.Printf("Error caching buyer set for %s: %v", token, err)
	}
}
