package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/config"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/service"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/useCases"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/bitquery"
	redisrepo "github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/cache"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/export"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/queue"
	chrepo "github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/infrastructure/storage"
)

// AppContext holds all app dependencies
type AppContext struct {
	Config        *config.Config
	RunID         string
	ExportService *service.ExportService

	cache     *redisrepo.RedisRepository
	archive   *chrepo.ClickHouseRepository
	publisher *queue.KafkaPublisher
}

// NewApp initializes the app context with all dependencies. The Redis cache,
// ClickHouse archive and Kafka publisher are optional: when unreachable or
// unconfigured the app logs a warning and runs the plain pipeline without them.
func NewApp(ctx context.Context, cfg *config.Config, apiKey string, outputDir string, progress useCases.ProgressReporter) *AppContext {
	app := &AppContext{
		Config: cfg,
		RunID:  uuid.New().String(),
	}

	source := bitquery.NewClient(bitquery.Config{
		URL:        cfg.BitqueryURL,
		APIKey:     apiKey,
		BatchSize:  cfg.BatchSize,
		Timeout:    time.Duration(cfg.HTTPTimeout) * time.Second,
		MaxRetries: cfg.MaxRetries,
		RPS:        cfg.RequestsPerSec,
	})

	exporter := export.NewCSVExporter(outputDir, cfg.RecordsPerFile)
	analyzer := service.NewBuyerService()

	svc := service.NewExportService(source, exporter, analyzer, progress)

	// Optional buyer-set cache (Redis)
	if cfg.RedisAddr != "" {
		ttl := time.Duration(cfg.CacheTTLMin) * time.Minute
		redisRepo := redisrepo.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, ttl)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := redisRepo.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Printf("Warning: Redis unreachable at %s: %v. Continuing without buyer-set cache.", cfg.RedisAddr, err)
			_ = redisRepo.Close()
		} else {
			app.cache = redisRepo
			svc.Cache = redisRepo
			log.Println("Redis buyer-set cache initialized")
		}
	}

	// Optional trade archive (ClickHouse)
	if cfg.ClickhouseAddr != "" {
		chConfig := chrepo.ClickHouseConfig{
			Addr:     cfg.ClickhouseAddr,
			Username: cfg.ClickhouseUsername,
			Password: cfg.ClickhousePassword,
			Timeout:  cfg.ClickhouseTimeout,
		}
		clickhouseRepo, err := chrepo.NewClickHouseRepository(chConfig)
		if err != nil {
			log.Printf("Warning: Failed to connect to ClickHouse: %v. Continuing without trade archive.", err)
		} else {
			app.archive = clickhouseRepo
			svc.Archive = clickhouseRepo
			log.Println("ClickHouse trade archive initialized")
		}
	}

	// Optional trade publishing (Kafka)
	if len(cfg.KafkaBrokers) > 0 {
		app.publisher = queue.NewKafkaPublisher(queue.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		svc.Publisher = app.publisher
		log.Printf("Kafka publisher initialized (topic %s)", cfg.KafkaTopic)
	}

	app.ExportService = svc
	return app
}

// Cleanup performs graceful shutdown of all components
func (a *AppContext) Cleanup() {
	if a.publisher != nil {
		log.Println("Closing Kafka publisher...")
		if err := a.publisher.Close(); err != nil {
			log.Printf("Error closing Kafka publisher: %v", err)
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			log.Printf("Error closing ClickHouse connection: %v", err)
		}
	}
}
