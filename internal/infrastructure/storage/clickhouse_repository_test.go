package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/storage"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/pkg/utils"
)

// Integration test, needs a local ClickHouse. Skipped when none is reachable.
func newTestArchive(t *testing.T) *storage.ClickHouseRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping ClickHouse integration test in short mode")
	}

	repo, err := storage.NewClickHouseRepository(storage.ClickHouseConfig{
		Addr:    "localhost:9000",
		Timeout: 2,
	})
	if err != nil {
		t.Skipf("ClickHouse not available: %v", err)
	}

	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndGetTrades(t *testing.T) {
	repo := newTestArchive(t)
	ctx := context.Background()

	gen := utils.NewTradeGenerator()
	token := "test-archive-mint"
	trades := gen.GenerateBuyTrades(token, 3, []string{"w1", "w2"})

	if err := repo.SaveTrades(ctx, trades); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	since := trades[len(trades)-1].Timestamp.Add(-time.Second).Unix()
	got, err := repo.GetTradesSince(ctx, token, since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) < 3 {
		t.Errorf("expected at least the 3 saved trades, got %d", len(got))
	}
}

func TestSaveTradesEmpty(t *testing.T) {
	repo := newTestArchive(t)

	if err := repo.SaveTrades(context.Background(), nil); err != nil {
		t.Errorf("saving zero trades must be a no-op, got: %v", err)
	}
}
