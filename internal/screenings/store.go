package screenings

import (
	"database/sql"
	"fmt"

	"github.com/earlysigns/backend/internal/models"
	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert persists a scored screening and fills in its database ID.
func (s *Store) Insert(screening *models.Screening) error {
	err := s.db.QueryRow(
		`INSERT INTO screenings (reference, user_id, child_age, child_gender, responses,
		         total_score, risk_percentage, risk_level, confidence, recommendation, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		screening.Reference, screening.UserID, screening.ChildAge, screening.ChildGender,
		pq.Array(screening.Responses), screening.TotalScore, screening.RiskPercentage,
		screening.RiskLevel, screening.Confidence, screening.Recommendation, screening.CreatedAt,
	).Scan(&screening.ID)
	if err != nil {
		return fmt.Errorf("insert screening: %w", err)
	}
	return nil
}

// GetByReference returns nil without error when no screening matches.
func (s *Store) GetByReference(reference string) (*models.Screening, error) {
	var screening models.Screening
	err := s.db.QueryRow(
		`SELECT id, reference, user_id, child_age, child_gender, responses,
		        total_score, risk_percentage, risk_level, confidence, recommendation, created_at
		 FROM screenings WHERE reference = $1`,
		reference,
	).Scan(&screening.ID, &screening.Reference, &screening.UserID, &screening.ChildAge,
		&screening.ChildGender, pq.Array(&screening.Responses), &screening.TotalScore,
		&screening.RiskPercentage, &screening.RiskLevel, &screening.Confidence,
		&screening.Recommendation, &screening.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get screening: %w", err)
	}
	return &screening, nil
}

// ListByUser returns one page of a user's screenings, newest first, plus the
// total count across all pages.
func (s *Store) ListByUser(userID int64, limit, offset int) ([]models.ScreeningSummary, int, error) {
	var total int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM screenings WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count screenings: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT reference, child_age, child_gender, total_score, risk_percentage, risk_level, created_at
		 FROM screenings WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list screenings: %w", err)
	}
	defer rows.Close()

	var summaries []models.ScreeningSummary
	for rows.Next() {
		var sum models.ScreeningSummary
		if err := rows.Scan(&sum.Reference, &sum.ChildAge, &sum.ChildGender,
			&sum.TotalScore, &sum.RiskPercentage, &sum.RiskLevel, &sum.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan screening: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, total, rows.Err()
}

// UserStats aggregates one user's screenings for their dashboard.
func (s *Store) UserStats(userID int64) (*models.UserStats, error) {
	stats := &models.UserStats{LevelCounts: make(map[string]int)}

	var avg sql.NullFloat64
	var last sql.NullTime
	err := s.db.QueryRow(
		`SELECT COUNT(*), AVG(risk_percentage), MAX(created_at)
		 FROM screenings WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalScreenings, &avg, &last)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	if avg.Valid {
		stats.AvgRiskPercentage = avg.Float64
	}
	if last.Valid {
		stats.LastScreeningAt = &last.Time
	}

	rows, err := s.db.Query(
		`SELECT risk_level, COUNT(*) FROM screenings WHERE user_id = $1 GROUP BY risk_level`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard level counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("scan level count: %w", err)
		}
		stats.LevelCounts[level] = count
	}
	return stats, rows.Err()
}
