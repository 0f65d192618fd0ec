package cli

import (
	"fmt"
	"io"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/useCases"
)

// ConsoleProgress implements ProgressReporter by writing fetch/export
// progress lines to the terminal.
type ConsoleProgress struct {
	out io.Writer
}

// Ensure ConsoleProgress implements the ProgressReporter interface.
var _ useCases.ProgressReporter = (*ConsoleProgress)(nil)

func NewConsoleProgress(out io.Writer) *ConsoleProgress {
	return &ConsoleProgress{out: out}
}

func (c *ConsoleProgress) BatchFetched(batch int, count int, totalSoFar int) {
	fmt.Fprintf(c.out, "Fetching batch #%d... %d trades (total %d)\n", batch, count, totalSoFar)
}

func (c *ConsoleProgress) FileWritten(path string, records int) {
	fmt.Fprintf(c.out, "   Saved %d records to: %s\n", records, path)
}

func (c *ConsoleProgress) Info(msg string) {
	fmt.Fprintln(c.out, msg)
}
