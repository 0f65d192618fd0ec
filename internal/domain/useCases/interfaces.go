package useCases

import (
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
)

// BuyerAnalyzer defines the interface for buyer set construction and
// cross-token intersection.
type BuyerAnalyzer interface {
	BuildIndex(trades []*model.BuyTrade) model.BuyerIndex
	Intersect(sets ...model.BuyerSet) model.BuyerSet
	CommonBuyers(indexes []model.BuyerIndex) []model.CommonBuyer
}

// TradeExporter defines the interface for writing fetched records to local files.
type TradeExporter interface {
	// ExportTrades writes trades to chunked CSV files named <prefix>_fileN.csv
	// plus a combined <prefix>_ALL_COMBINED.csv, and returns the paths.
	ExportTrades(trades []*model.BuyTrade, prefix string) (chunks []string, combined string, err error)

	// ExportCommonBuyers writes the common-buyers report to the given file name.
	ExportCommonBuyers(buyers []model.CommonBuyer, name string) (string, error)
}

// ProgressReporter defines an interface for pushing fetch/export progress to
// the user-facing layer.
type ProgressReporter interface {
	BatchFetched(batch int, count int, totalSoFar int)
	FileWritten(path string, records int)
	Info(msg string)
}
