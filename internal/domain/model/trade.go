package model

import "time"

// BuyTrade represents a single successful DEX buy of a tracked token,
// exactly as returned by the trade data provider. Trades are immutable
// once fetched.
type BuyTrade struct {
	ID         string // signature + buyer, used for deduplication across page boundaries
	Token      string // mint address of the bought token
	Buyer      string // wallet that received the token
	Signer     string // transaction signer
	Signature  string
	Amount     float64 // amount of the token bought
	PaidAmount float64 // amount of the quote currency paid (usually SOL)
	PaidUSD    float64
	PriceUSD   float64
	PaidSymbol string
	PaidMint   string
	Timestamp  time.Time
}

// BuyerSet is the set of unique wallet addresses that bought a token.
type BuyerSet map[string]struct{}

// Contains reports whether the wallet is a member of the set.
func (s BuyerSet) Contains(wallet string) bool {
	_, ok := s[wallet]
	return ok
}

// BuyerStats aggregates a single wallet's buys of one token.
type BuyerStats struct {
	Wallet   string  `json:"wallet"`
	Buys     int     `json:"buys"`
	TotalUSD float64 `json:"total_usd"`
}

// BuyerIndex maps wallet address to that wallet's aggregated buys of one token.
type BuyerIndex map[string]BuyerStats

// Set derives the plain buyer set from the index.
func (idx BuyerIndex) Set() BuyerSet {
	set := make(BuyerSet, len(idx))
	for wallet := range idx {
		set[wallet] = struct{}{}
	}
	return set
}

// CommonBuyer is a wallet present in the buyer set of every compared token.
type CommonBuyer struct {
	Wallet       string
	TokensBought int     // number of compared tokens this wallet bought (always == len(tokens))
	TotalBuys    int     // buys summed across the compared tokens
	TotalUSD     float64 // USD volume summed across the compared tokens
}

// ExportSummary describes the outcome of a single-token export run.
type ExportSummary struct {
	Token        string
	TotalTrades  int
	UniqueBuyers int
	APICalls     int
	ChunkFiles   []string
	CombinedFile string
}
