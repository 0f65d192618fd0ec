package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all app configuration
type Config struct {
	// Environment
	Env   string
	Debug bool

	// Bitquery API
	BitqueryURL    string
	BatchSize      int
	HTTPTimeout    int // seconds
	MaxRetries     int
	RequestsPerSec int

	// Export
	OutputDir      string
	RecordsPerFile int
	KeystorePath   string

	// Redis (optional buyer-set cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTLMin   int

	// ClickHouse (optional trade archive)
	ClickhouseAddr     string
	ClickhouseUsername string
	ClickhousePassword string
	ClickhouseTimeout  int

	// Kafka (optional trade publishing)
	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig loads configuration from environment variables, with optional .env file
func LoadConfig() *Config {
	// Load .env file if it exists; missing file just means plain env vars.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Environment
		Env:   getEnv("ENV", "local"),
		Debug: getEnvAsBool("DEBUG", false),

		// Bitquery API
		BitqueryURL:    getEnv("BITQUERY_URL", "https://streaming.bitquery.io/graphql"),
		BatchSize:      getEnvAsInt("BATCH_SIZE", 10000),
		HTTPTimeout:    getEnvAsInt("HTTP_TIMEOUT_SECONDS", 30),
		MaxRetries:     getEnvAsInt("MAX_RETRIES", 3),
		RequestsPerSec: getEnvAsInt("REQUESTS_PER_SECOND", 1),

		// Export
		OutputDir:      getEnv("OUTPUT_DIR", "."),
		RecordsPerFile: getEnvAsInt("RECORDS_PER_FILE", 20000),
		KeystorePath:   getEnv("KEYSTORE_PATH", "config.json"),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTLMin:   getEnvAsInt("CACHE_TTL_MINUTES", 30),

		// ClickHouse
		ClickhouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickhouseUsername: getEnv("CLICKHOUSE_USERNAME", ""),
		ClickhousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickhouseTimeout:  getEnvAsInt("CLICKHOUSE_TIMEOUT", 10),

		// Kafka
		KafkaBrokers: getEnvAsSlice("KAFKA_BROKERS", nil, ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "token-buys"),
	}

	return cfg
}

// Helper functions for parsing environment variables
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string, sep string) []string {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal
	}
	return strings.Split(valStr, sep)
}
