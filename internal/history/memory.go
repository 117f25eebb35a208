package history

import (
	"context"
	"sync"

	"github.com/earlysigns/backend/internal/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// maxTrackedUsers bounds how many users the in-memory store remembers.
// Least recently active users are evicted first.
const maxTrackedUsers = 1024

type memoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache[int64, []models.HistoryEntry]
	limit int
}

// NewMemoryStore is the fallback when no Redis is configured. History is
// lost on restart, which is acceptable for development setups.
func NewMemoryStore(limit int) Store {
	cache, err := lru.New[int64, []models.HistoryEntry](maxTrackedUsers)
	if err != nil {
		// lru.New only errors on a non-positive size.
		panic(err)
	}
	return &memoryStore{cache: cache, limit: limit}
}

func (s *memoryStore) Push(ctx context.Context, userID int64, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, _ := s.cache.Get(userID)
	entries := make([]models.HistoryEntry, 0, len(existing)+1)
	entries = append(entries, entry)
	entries = append(entries, existing...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	s.cache.Add(userID, entries)
	return nil
}

func (s *memoryStore) Recent(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.cache.Get(userID)
	if !ok {
		return nil, nil
	}
	out := make([]models.HistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}
