package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/earlysigns/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	limit  int
}

// NewRedisStore keeps per-user history in a Redis list capped at limit.
func NewRedisStore(client *redis.Client, limit int) Store {
	return &redisStore{client: client, limit: limit}
}

func (s *redisStore) key(userID int64) string {
	return fmt.Sprintf("user:%d:screenings", userID)
}

func (s *redisStore) Push(ctx context.Context, userID int64, entry models.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key(userID), data)
	pipe.LTrim(ctx, s.key(userID), 0, int64(s.limit-1))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *redisStore) Recent(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	items, err := s.client.LRange(ctx, s.key(userID), 0, int64(s.limit-1)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]models.HistoryEntry, 0, len(items))
	for _, item := range items {
		var e models.HistoryEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
