package dto

import (
	"time"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
)

// TradeDTO is the wire representation of a buy trade used when publishing
// fetched batches to downstream consumers.
type TradeDTO struct {
	ID         string    `json:"id"`
	Token      string    `json:"token"`
	Buyer      string    `json:"buyer"`
	Signer     string    `json:"signer"`
	Signature  string    `json:"signature"`
	Amount     float64   `json:"amount"`
	PaidAmount float64   `json:"paid_amount"`
	PaidUSD    float64   `json:"paid_usd"`
	PriceUSD   float64   `json:"price_usd"`
	PaidSymbol string    `json:"paid_symbol"`
	PaidMint   string    `json:"paid_mint"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToModel converts a TradeDTO to a domain model
func (dto *TradeDTO) ToModel() *model.BuyTrade {
	return &model.BuyTrade{
		ID:         dto.ID,
		Token:      dto.Token,
		Buyer:      dto.Buyer,
		Signer:     dto.Signer,
		Signature:  dto.Signature,
		Amount:     dto.Amount,
		PaidAmount: dto.PaidAmount,
		PaidUSD:    dto.PaidUSD,
		PriceUSD:   dto.PriceUSD,
		PaidSymbol: dto.PaidSymbol,
		PaidMint:   dto.PaidMint,
		Timestamp:  dto.Timestamp,
	}
}

// FromModel creates a TradeDTO from a domain model
func FromModel(trade *model.BuyTrade) *TradeDTO {
	return &TradeDTO{
		ID:         trade.ID,
		Token:      trade.Token,
		Buyer:      trade.Buyer,
		Signer:     trade.Signer,
		Signature:  trade.Signature,
		Amount:     trade.Amount,
		PaidAmount: trade.PaidAmount,
		PaidUSD:    trade.PaidUSD,
		PriceUSD:   trade.PriceUSD,
		PaidSymbol: trade.PaidSymbol,
		PaidMint:   trade.PaidMint,
		Timestamp:  trade.Timestamp,
	}
}

func FromModels(trades []*model.BuyTrade) []*TradeDTO {
	dtos := make([]*TradeDTO, len(trades))
	for i, trade := range trades {
		dtos[i] = FromModel(trade)
	}
	return dtos
}
