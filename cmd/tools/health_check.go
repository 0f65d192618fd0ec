package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/config"
	redisrepo "github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/cache"
	chrepo "github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/storage"
)

// Connectivity check utility for the exporter's external collaborators.

func main() {
	fmt.Println("buys exporter health check")
	fmt.Println("--------------------------")

	cfg := config.LoadConfig()

	if err := checkBitquery(cfg.BitqueryURL); err != nil {
		log.Fatalf("Bitquery endpoint check failed: %v", err)
	}
	fmt.Println("Bitquery endpoint is reachable")

	if cfg.RedisAddr != "" {
		checkRedis(cfg)
	} else {
		fmt.Println("Redis not configured, skipping")
	}

	if cfg.ClickhouseAddr != "" {
		checkClickHouse(cfg)
	} else {
		fmt.Println("ClickHouse not configured, skipping")
	}
}

// checkBitquery sends an unauthenticated request; any HTTP response proves the
// endpoint is reachable (an auth rejection is still a healthy endpoint).
func checkBitquery(url string) error {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(url, "application/json", bytes.NewBufferString(`{"query":"{ __typename }"}`))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	fmt.Printf("Bitquery responded with HTTP %d\n", resp.StatusCode)
	return nil
}

func checkRedis(cfg *config.Config) {
	repo := redisrepo.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 0)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := repo.Ping(ctx); err != nil {
		fmt.Printf("Redis at %s is NOT healthy: %v\n", cfg.RedisAddr, err)
		return
	}
	fmt.Printf("Redis at %s is healthy\n", cfg.RedisAddr)
}

func checkClickHouse(cfg *config.Config) {
	repo, err := chrepo.NewClickHouseRepository(chrepo.ClickHouseConfig{
		Addr:     cfg.ClickhouseAddr,
		Username: cfg.ClickhouseUsername,
		Password: cfg.ClickhousePassword,
		Timeout:  cfg.ClickhouseTimeout,
	})
	if err != nil {
		fmt.Printf("ClickHouse at %s is NOT healthy: %v\n", cfg.ClickhouseAddr, err)
		return
	}
	defer repo.Close()
	fmt.Printf("ClickHouse at %s is healthy\n", cfg.ClickhouseAddr)
}
