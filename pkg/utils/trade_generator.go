package utils

import (
	"time"

	"github.com/google/uuid"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
)

// TradeGenerator provides methods to generate test buy-trade data
type TradeGenerator struct{}

// NewTradeGenerator creates a new trade generator
func NewTradeGenerator() *TradeGenerator {
	return &TradeGenerator{}
}

// GenerateBuyTrades creates a specified number of test buy trades for a token,
// cycling through the given buyer wallets. Timestamps descend from now, one
// second apart, matching the newest-first order the API returns.
func (g *TradeGenerator) GenerateBuyTrades(token string, count int, buyers []string) []*model.BuyTrade {
	if len(buyers) == 0 {
		buyers = []string{"wallet-a", "wallet-b", "wallet-c"}
	}

	now := time.Now().UTC().Truncate(time.Second)
	trades := make([]*model.BuyTrade, count)
	for i := 0; i < count; i++ {
		sig := uuid.New().String()
		buyer := buyers[i%len(buyers)]
		trades[i] = &model.BuyTrade{
			ID:         sig + ":" + buyer,
			Token:      token,
			Buyer:      buyer,
			Signer:     buyer,
			Signature:  sig,
			Amount:     float64(1 + i%10),
			PaidAmount: 0.5 + float64(i%5)*0.1,
			PaidUSD:    float64(100 + i*10),
			PriceUSD:   0.01,
			PaidSymbol: "SOL",
			PaidMint:   "So11111111111111111111111111111111111111112",
			Timestamp:  now.Add(-time.Duration(i) * time.Second),
		}
	}

	return trades
}
