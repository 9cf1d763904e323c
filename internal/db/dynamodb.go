package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/reviewflow/internal/models"
)

const (
	maxBatchSize   = 25
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
)

// BatchWriter is the slice of *dynamodb.Client the store needs.
type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// SeverityStore writes scored reviews to a DynamoDB table keyed by
// review_index.
type SeverityStore struct {
	client  BatchWriter
	table   string
	backoff time.Duration
}

func NewSeverityStore(client BatchWriter, table string) *SeverityStore {
	return &SeverityStore{client: client, table: table, backoff: initialBackoff}
}

func (s *SeverityStore) Name() string {
	return "dynamodb:" + s.table
}

func (s *SeverityStore) Write(ctx context.Context, reviews []models.ScoredReview) error {
	for i := 0; i < len(reviews); i += maxBatchSize {
		if err := ctx.Err(); err != nil {
			slog.Warn("[DynamoDB] context canceled")
			return err
		}

		end := min(i+maxBatchSize, len(reviews))
		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, review := range reviews[i:end] {
			item, err := attributevalue.MarshalMap(review)
			if err != nil {
				return fmt.Errorf("[DynamoDB] failed to marshal review %d: %w", review.Index, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.batchWrite(ctx, writeRequests); err != nil {
			return err
		}
	}

	slog.Debug("[DynamoDB] Stored scored reviews",
		slog.String("table", s.table),
		slog.Int("count", len(reviews)))
	return nil
}

func (s *SeverityStore) batchWrite(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write scored reviews: %w", err)
	}

	retryCount := 0
	backoff := s.backoff
	for len(out.UnprocessedItems) > 0 && retryCount < maxRetries {
		time.Sleep(backoff)
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed items...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.table])))

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error %w", err)
		}
		retryCount++
	}

	if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
		return fmt.Errorf("[DynamoDB] %d items were not written after %d retries", remaining, maxRetries)
	}
	return nil
}
