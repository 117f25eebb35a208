// Package history keeps each user's most recent screenings in a short,
// newest-first list for the dashboard. The backing store is Redis when one
// is configured, otherwise an in-process cache.
package history

import (
	"context"

	"github.com/earlysigns/backend/internal/models"
)

type Store interface {
	// Push prepends an entry to the user's list, trimming it to the cap.
	Push(ctx context.Context, userID int64, entry models.HistoryEntry) error
	// Recent returns the user's list, newest first.
	Recent(ctx context.Context, userID int64) ([]models.HistoryEntry, error)
}
