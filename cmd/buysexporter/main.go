package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/config"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/app"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/handlers/cli"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/bitquery"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/keystore"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/lib/logger/handlers/slogpretty"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const divider = "======================================================================"

func main() {
	cfg := config.LoadConfig()
	log := setupLogger(cfg.Env)

	// Create cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutting down...")
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		if errors.Is(err, bitquery.ErrAuthentication) {
			log.Error("Authentication failed. Please check your Bitquery API key.")
		}
		log.Error(fmt.Sprintf("Run failed: %v", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	fmt.Println(divider)
	fmt.Println("solana token buy transactions exporter - by willzy")
	fmt.Println(divider)
	fmt.Println()

	ks := keystore.New(cfg.KeystorePath)
	prompter := cli.NewPrompter(os.Stdin, os.Stdout)

	apiKey, isNew, err := prompter.APIKey(ks.Load())
	if err != nil {
		return err
	}
	if isNew {
		if err := ks.Save(apiKey); err != nil {
			log.Warn(fmt.Sprintf("Could not save API key: %v", err))
		} else {
			fmt.Println("API key saved for future use")
		}
	}
	fmt.Println()

	tokens, err := prompter.TokenAddresses()
	if err != nil {
		return err
	}

	outputDir, err := prompter.OutputDir(cfg.OutputDir)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(divider)

	progress := cli.NewConsoleProgress(os.Stdout)
	appCtx := app.NewApp(ctx, cfg, apiKey, outputDir, progress)
	defer appCtx.Cleanup()

	svc := appCtx.ExportService

	// Validate the key and every token before anything is written locally.
	fmt.Println("Checking token buy transactions...")
	for _, token := range tokens {
		if err := svc.Probe(ctx, token); err != nil {
			return fmt.Errorf("validating token %s: %w", shortAddr(token), err)
		}
	}
	fmt.Println("Token found!")
	fmt.Println()

	if len(tokens) == 1 {
		fmt.Println("This will fetch ALL buy transactions for this token and save them to CSV files.")
	} else {
		fmt.Printf("This will fetch buy transactions for %d tokens and compute their common buyers.\n", len(tokens))
	}
	fmt.Println(divider)

	start, err := prompter.Confirm("\nStart fetching? (yes/no): ")
	if err != nil {
		return err
	}
	if !start {
		fmt.Println("Cancelled by user.")
		return nil
	}

	fmt.Println()
	fmt.Println(divider)
	fmt.Println("starting to fetch...")
	fmt.Println(divider)
	fmt.Println()

	if len(tokens) == 1 {
		summary, err := svc.ExportToken(ctx, tokens[0], "token_buys")
		if err != nil {
			return err
		}
		printSummary(summary)
		return nil
	}

	buyers, err := svc.CommonBuyers(ctx, tokens)
	if err != nil {
		return err
	}

	path, err := svc.Exporter.ExportCommonBuyers(buyers, "common_buyers.csv")
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(divider)
	fmt.Println("COMMON BUYERS ANALYSIS COMPLETE!")
	fmt.Println(divider)
	fmt.Printf("Tokens compared: %d\n", len(tokens))
	fmt.Printf("Wallets that bought all of them: %d\n", len(buyers))
	fmt.Printf("Report written to: %s\n", path)
	return nil
}

func printSummary(summary *model.ExportSummary) {
	fmt.Println()
	fmt.Println(divider)
	fmt.Println("EXPORT COMPLETE!")
	fmt.Println(divider)
	fmt.Printf("Token: %s\n", summary.Token)
	fmt.Printf("Total buy transactions fetched: %d\n", summary.TotalTrades)
	fmt.Printf("Unique buyer wallets: %d\n", summary.UniqueBuyers)
	fmt.Printf("Total API calls made: %d\n", summary.APICalls)
	fmt.Println("\nFiles created:")
	for i, f := range summary.ChunkFiles {
		fmt.Printf("   %d. %s\n", i+1, f)
	}
	fmt.Printf("   %d. %s  MASTER FILE\n", len(summary.ChunkFiles)+1, summary.CombinedFile)
	fmt.Println(divider)
}

// shortAddr abbreviates a mint address for log and error messages.
func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + ".." + addr[len(addr)-4:]
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stderr)

	return slog.New(handler)
}
