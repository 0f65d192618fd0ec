// Package service provides implementations of domain services that implement core business logic.
// This package depends only on domain models and repository interfaces (not implementations).
package service

import (
	"sort"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
)

// BuyerService implements BuyerAnalyzer with pure in-memory set operations.
// All methods are side-effect free; results depend only on the inputs.
type BuyerService struct{}

func NewBuyerService() *BuyerService {
	return &BuyerService{}
}

// BuildIndex aggregates trades into a per-wallet buyer index. Wallet addresses
// are unique identifiers, so membership is unambiguous.
func (s *BuyerService) BuildIndex(trades []*model.BuyTrade) model.BuyerIndex {
	index := make(model.BuyerIndex)
	for _, trade := range trades {
		if trade == nil || trade.Buyer == "" {
			continue
		}
		stats := index[trade.Buyer]
		stats.Wallet = trade.Buyer
		stats.Buys++
		stats.TotalUSD += trade.PaidUSD
		index[trade.Buyer] = stats
	}
	return index
}

// Intersect returns the wallets present in every input set. The operation is
// commutative and idempotent; an empty result is a valid outcome, not an error.
// Intersecting zero sets yields an empty set.
func (s *BuyerService) Intersect(sets ...model.BuyerSet) model.BuyerSet {
	result := make(model.BuyerSet)
	if len(sets) == 0 {
		return result
	}

	// Iterate the smallest set and test membership in the rest.
	smallest := sets[0]
	for _, set := range sets[1:] {
		if len(set) < len(smallest) {
			smallest = set
		}
	}

outer:
	for wallet := range smallest {
		for _, set := range sets {
			if !set.Contains(wallet) {
				continue outer
			}
		}
		result[wallet] = struct{}{}
	}
	return result
}

// CommonBuyers intersects the buyer sets of all indexes and returns the common
// wallets with their buy counts and USD volume summed across all tokens,
// ordered by total buys (descending), then wallet address for a stable output.
func (s *BuyerService) CommonBuyers(indexes []model.BuyerIndex) []model.CommonBuyer {
	sets := make([]model.BuyerSet, len(indexes))
	for i, index := range indexes {
		sets[i] = index.Set()
	}

	common := s.Intersect(sets...)

	buyers := make([]model.CommonBuyer, 0, len(common))
	for wallet := range common {
		buyer := model.CommonBuyer{Wallet: wallet, TokensBought: len(indexes)}
		for _, index := range indexes {
			stats := index[wallet]
			buyer.TotalBuys += stats.Buys
			buyer.TotalUSD += stats.TotalUSD
		}
		buyers = append(buyers, buyer)
	}

	sort.Slice(buyers, func(i, j int) bool {
		if buyers[i].TotalBuys != buyers[j].TotalBuys {
			return buyers[i].TotalBuys > buyers[j].TotalBuys
		}
		return buyers[i].Wallet < buyers[j].Wallet
	})
	return buyers
}
