// Package export writes fetched records to local CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/useCases"
)

// tradeHeader matches the column layout consumers of the exported files expect.
var tradeHeader = []string{
	"Timestamp",
	"Buyer_Wallet",
	"Token_Amount",
	"Amount_Paid_SOL",
	"Amount_Paid_USD",
	"Transaction_Signature",
	"Signer",
}

var commonBuyersHeader = []string{
	"Buyer_Wallet",
	"Tokens_Bought",
	"Total_Buys",
	"Total_USD",
}

// CSVExporter implements TradeExporter. Existing files are overwritten.
type CSVExporter struct {
	outputDir      string
	recordsPerFile int
}

// Ensure CSVExporter implements the TradeExporter interface.
var _ useCases.TradeExporter = (*CSVExporter)(nil)

func NewCSVExporter(outputDir string, recordsPerFile int) *CSVExporter {
	if outputDir == "" {
		outputDir = "."
	}
	if recordsPerFile <= 0 {
		recordsPerFile = 20000
	}
	return &CSVExporter{outputDir: outputDir, recordsPerFile: recordsPerFile}
}

// ExportTrades writes trades into chunk files of at most recordsPerFile rows
// each, then combines all chunks into <prefix>_ALL_COMBINED.csv. With zero
// trades it still writes a valid header-only combined file.
func (e *CSVExporter) ExportTrades(trades []*model.BuyTrade, prefix string) ([]string, string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating output dir: %w", err)
	}

	var chunks []string
	for i := 0; i < len(trades); i += e.recordsPerFile {
		end := min(i+e.recordsPerFile, len(trades))
		path := filepath.Join(e.outputDir, fmt.Sprintf("%s_file%d.csv", prefix, len(chunks)+1))
		if err := e.writeTradeFile(path, trades[i:end]); err != nil {
			return nil, "", err
		}
		log.Printf("Saved %d records to: %s", end-i, path)
		chunks = append(chunks, path)
	}

	combined := filepath.Join(e.outputDir, prefix+"_ALL_COMBINED.csv")
	if err := e.combineFiles(chunks, combined); err != nil {
		return nil, "", err
	}
	return chunks, combined, nil
}

// ExportCommonBuyers writes the common-buyers report. An empty buyer list
// produces a header-only file rather than an error.
func (e *CSVExporter) ExportCommonBuyers(buyers []model.CommonBuyer, name string) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(e.outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(commonBuyersHeader); err != nil {
		return "", fmt.Errorf("writing header to %s: %w", path, err)
	}
	for _, b := range buyers {
		row := []string{
			b.Wallet,
			strconv.Itoa(b.TokensBought),
			strconv.Itoa(b.TotalBuys),
			formatAmount(b.TotalUSD),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing %s: %w", path, err)
	}
	return path, nil
}

func (e *CSVExporter) writeTradeFile(path string, trades []*model.BuyTrade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tradeHeader); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	for _, t := range trades {
		row := []string{
			t.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
			t.Buyer,
			formatAmount(t.Amount),
			formatAmount(t.PaidAmount),
			formatAmount(t.PaidUSD),
			t.Signature,
			t.Signer,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// combineFiles concatenates the data rows of every chunk under one header.
func (e *CSVExporter) combineFiles(chunks []string, combined string) error {
	out, err := os.Create(combined)
	if err != nil {
		return fmt.Errorf("creating %s: %w", combined, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(tradeHeader); err != nil {
		return fmt.Errorf("writing header to %s: %w", combined, err)
	}

	for _, chunk := range chunks {
		if err := e.appendChunk(w, chunk); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", combined, err)
	}
	return nil
}

func (e *CSVExporter) appendChunk(w *csv.Writer, chunk string) error {
	in, err := os.Open(chunk)
	if err != nil {
		return fmt.Errorf("opening %s: %w", chunk, err)
	}
	defer in.Close()

	r := csv.NewReader(in)
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("reading %s: %w", chunk, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue // skip the chunk's header
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("combining %s: %w", chunk, err)
		}
	}
	return nil
}

// formatAmount keeps full precision without scientific notation surprises
// for the typical token amount magnitudes.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
