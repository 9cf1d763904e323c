package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/reviewflow/internal/models"
)

// Producer publishes scored reviews transactionally, one batch per
// transaction.
type Producer struct {
	producer *kafka.Producer
	topic    string
}

func NewProducer(ctx context.Context, cfg KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      cfg.TransactionID,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	if err := p.InitTransactions(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("[KafkaClient] Failed to init transactions: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p, topic: cfg.Topic}, nil
}

func (p *Producer) Name() string {
	return "kafka:" + p.topic
}

// Write publishes a batch of scored reviews keyed by record index.
func (p *Producer) Write(ctx context.Context, reviews []models.ScoredReview) error {
	if len(reviews) == 0 {
		return nil
	}

	if err := p.producer.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] failed to begin transaction: %w", err)
	}

	for _, review := range reviews {
		msg, err := newScoredReviewMessage(p.topic, review)
		if err != nil {
			return p.abort(ctx, err)
		}

		for i := 0; i < MAX_RETRIES; i++ {
			err = p.producer.Produce(msg, nil)
			if err == nil {
				break
			}
			slog.Warn("[KafkaClient] Failed to produce message, retrying...",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()))
			time.Sleep(RETRY_DELAY)
		}
		if err != nil {
			return p.abort(ctx, err)
		}
	}

	var commitErr error
	for i := 0; i < MAX_RETRIES; i++ {
		commitErr = p.producer.CommitTransaction(ctx)
		if commitErr == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", commitErr.Error()))
	}
	if commitErr != nil {
		return fmt.Errorf("[KafkaClient] failed to commit transaction after %d retries: %w", MAX_RETRIES, commitErr)
	}

	slog.Debug("[KafkaClient] Published scored reviews transactionally",
		slog.String("topic", p.topic),
		slog.Int("count", len(reviews)))
	return nil
}

func (p *Producer) abort(ctx context.Context, cause error) error {
	if abortErr := p.producer.AbortTransaction(ctx); abortErr != nil {
		return fmt.Errorf("[KafkaClient] failed to abort transaction after %v: %w", cause, abortErr)
	}
	return fmt.Errorf("[KafkaClient] transaction aborted: %w", cause)
}

func (p *Producer) Close() error {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(FLUSH_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
	return nil
}

func newScoredReviewMessage(topic string, review models.ScoredReview) (*kafka.Message, error) {
	value, err := json.Marshal(review)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scored review %d: %w", review.Index, err)
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(strconv.Itoa(review.Index)),
		Value:          value,
	}, nil
}
