package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/app/dto"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/repository"
)

// KafkaConfig holds Kafka connection configuration
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher implements TradePublisher using Kafka. Fetched trade batches
// are published for downstream consumers (indexers, alerting, analytics).
type KafkaPublisher struct {
	writer *kafka.Writer
}

// Ensure KafkaPublisher implements the TradePublisher interface.
var _ repository.TradePublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a new Kafka publisher
func NewKafkaPublisher(config KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{}, // hash-based partitioning keeps per-token ordering
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaPublisher{writer: writer}
}

// PublishTrades sends a batch of buy trades to Kafka. The token mint address
// is the message key so trades for the same token land on the same partition.
func (p *KafkaPublisher) PublishTrades(ctx context.Context, trades []*model.BuyTrade) error {
	if len(trades) == 0 {
		return nil
	}

	msgSlice := make([]kafka.Message, len(trades))
	for i, trade := range trades {
		data, err := json.Marshal(dto.FromModel(trade))
		if err != nil {
			return err
		}
		msgSlice[i] = kafka.Message{
			Key:   []byte(trade.Token),
			Value: data,
			Time:  time.Now(),
		}
	}
	return p.writer.WriteMessages(ctx, msgSlice...)
}

// Close closes the publisher
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
