package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/repository"
)

// ClickHouseRepository implements the TradeArchive interface using ClickHouse
// as the backend database. Every fetched buy trade is archived so later runs
// can analyze history without re-pulling it from the API.
type ClickHouseRepository struct {
	conn driver.Conn
}

type ClickHouseConfig struct {
	Addr     string
	Username string
	Password string
	Timeout  int
}

func NewClickHouseRepository(cfg ClickHouseConfig) (*ClickHouseRepository, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: time.Duration(cfg.Timeout) * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	// Check the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	// Ensure tables exist
	if err := createTablesIfNotExist(conn); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &ClickHouseRepository{conn: conn}, nil
}

// Ensure ClickHouseRepository implements the TradeArchive interface.
var _ repository.TradeArchive = (*ClickHouseRepository)(nil)

func createTablesIfNotExist(conn driver.Conn) error {
	return conn.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS buy_trades (
			id String,
			token String,
			buyer String,
			signer String,
			signature String,
			amount Float64,
			paid_amount Float64,
			paid_usd Float64,
			price_usd Float64,
			paid_symbol String,
			paid_mint String,
			timestamp DateTime,
			fetched_at DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree()
		ORDER BY (token, timestamp, id)
	`)
}

// SaveTrades persists a fetched batch in a single insert.
func (r *ClickHouseRepository) SaveTrades(ctx context.Context, trades []*model.BuyTrade) error {
	if len(trades) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, `
		INSERT INTO buy_trades (
			id, token, buyer, signer, signature,
			amount, paid_amount, paid_usd, price_usd,
			paid_symbol, paid_mint, timestamp
		)
	`)
	if err != nil {
		return err
	}

	for _, t := range trades {
		if err := batch.Append(
			t.ID,
			t.Token,
			t.Buyer,
			t.Signer,
			t.Signature,
			t.Amount,
			t.PaidAmount,
			t.PaidUSD,
			t.PriceUSD,
			t.PaidSymbol,
			t.PaidMint,
			t.Timestamp,
		); err != nil {
			return err
		}
	}

	return batch.Send()
}

// GetTradesSince retrieves archived trades for a token after the given
// unix timestamp, oldest first.
func (r *ClickHouseRepository) GetTradesSince(ctx context.Context, token string, since int64) ([]*model.BuyTrade, error) {
	query := `
		SELECT id, token, buyer, signer, signature,
		       amount, paid_amount, paid_usd, price_usd,
		       paid_symbol, paid_mint, timestamp
		FROM buy_trades
		WHERE token = ? AND timestamp >= fromUnixTimestamp(?)
		ORDER BY timestamp
	`

	rows, err := r.conn.Query(ctx, query, token, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*model.BuyTrade
	for rows.Next() {
		trade := new(model.BuyTrade)
		if err := rows.Scan(
			&trade.ID,
			&trade.Token,
			&trade.Buyer,
			&trade.Signer,
			&trade.Signature,
			&trade.Amount,
			&trade.PaidAmount,
			&trade.PaidUSD,
			&trade.PriceUSD,
			&trade.PaidSymbol,
			&trade.PaidMint,
			&trade.Timestamp,
		); err != nil {
			return nil, err
		}
		results = append(results, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Close terminates the ClickHouse connection.
func (r *ClickHouseRepository) Close() error {
	return r.conn.Close()
}
