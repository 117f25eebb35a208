package admin

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/earlysigns/backend/internal/models"
	"github.com/earlysigns/backend/internal/scoring"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListUsers returns one page of accounts with their screening counts,
// optionally filtered by status. Newest accounts first, so fresh
// registrations surface at the top of the approval queue.
func (s *Store) ListUsers(status string, limit, offset int) ([]models.AdminUser, int, error) {
	var total int
	var err error
	if status != "" {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE status = $1`, status).Scan(&total)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	selectCols := `u.id, u.email, u.name, u.status, u.is_admin, u.created_at, COUNT(sc.id)`
	var rows *sql.Rows
	if status != "" {
		rows, err = s.db.Query(
			fmt.Sprintf(`SELECT %s FROM users u
			 LEFT JOIN screenings sc ON sc.user_id = u.id
			 WHERE u.status = $1
			 GROUP BY u.id
			 ORDER BY u.created_at DESC LIMIT $2 OFFSET $3`, selectCols),
			status, limit, offset,
		)
	} else {
		rows, err = s.db.Query(
			fmt.Sprintf(`SELECT %s FROM users u
			 LEFT JOIN screenings sc ON sc.user_id = u.id
			 GROUP BY u.id
			 ORDER BY u.created_at DESC LIMIT $1 OFFSET $2`, selectCols),
			limit, offset,
		)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.AdminUser
	for rows.Next() {
		var u models.AdminUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Status, &u.IsAdmin,
			&u.CreatedAt, &u.ScreeningCount); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// UpdateStatus sets an account's status and reports whether the account
// exists. Setting the same status twice is a no-op that still returns true.
func (s *Store) UpdateStatus(userID int64, status models.UserStatus) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, userID,
	)
	if err != nil {
		return false, fmt.Errorf("update user status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update user status: %w", err)
	}
	return affected > 0, nil
}

// Stats aggregates users and screenings across the whole service.
func (s *Store) Stats() (*models.AdminStats, error) {
	stats := &models.AdminStats{
		Screenings: models.ScreeningCounts{
			LevelCounts: make(map[string]int),
			AgeBands:    make(map[string]int),
			Genders:     make(map[string]int),
		},
	}

	err := s.db.QueryRow(
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		 FROM users`,
	).Scan(&stats.Users.Total, &stats.Users.Pending, &stats.Users.Approved, &stats.Users.Rejected)
	if err != nil {
		return nil, fmt.Errorf("admin user stats: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('week', CURRENT_DATE)),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', CURRENT_DATE)),
			COALESCE(AVG(risk_percentage), 0),
			COALESCE(AVG(total_score), 0)
		 FROM screenings`,
	).Scan(&stats.Screenings.Total, &stats.Screenings.Today, &stats.Screenings.ThisWeek,
		&stats.Screenings.ThisMonth, &stats.Screenings.AvgRiskPercentage,
		&stats.Screenings.AvgTotalScore)
	if err != nil {
		return nil, fmt.Errorf("admin screening stats: %w", err)
	}

	if err := s.levelCounts(stats.Screenings.LevelCounts); err != nil {
		return nil, err
	}
	if err := s.demographics(stats.Screenings.AgeBands, stats.Screenings.Genders); err != nil {
		return nil, err
	}

	trend, err := s.dailyTrend()
	if err != nil {
		return nil, err
	}
	stats.Screenings.DailyTrend = trend

	return stats, nil
}

func (s *Store) levelCounts(counts map[string]int) error {
	rows, err := s.db.Query(`SELECT risk_level, COUNT(*) FROM screenings GROUP BY risk_level`)
	if err != nil {
		return fmt.Errorf("admin level counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return fmt.Errorf("scan level count: %w", err)
		}
		counts[level] = count
	}
	return rows.Err()
}

// demographics groups screenings into the scorer's age bands and by gender.
// Band boundaries live in the scoring package, so ages are grouped there
// rather than in SQL.
func (s *Store) demographics(ageBands, genders map[string]int) error {
	rows, err := s.db.Query(
		`SELECT child_age, child_gender, COUNT(*)
		 FROM screenings GROUP BY child_age, child_gender`,
	)
	if err != nil {
		return fmt.Errorf("admin demographics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var age, count int
		var gender string
		if err := rows.Scan(&age, &gender, &count); err != nil {
			return fmt.Errorf("scan demographics: %w", err)
		}
		ageBands[scoring.AgeBand(age)] += count
		genders[gender] += count
	}
	return rows.Err()
}

// dailyTrend counts submissions per day over the last seven days, zero
// filling days without any.
func (s *Store) dailyTrend() ([]models.DailyCount, error) {
	rows, err := s.db.Query(
		`SELECT created_at::date AS day, COUNT(*)
		 FROM screenings
		 WHERE created_at >= CURRENT_DATE - INTERVAL '6 days'
		 GROUP BY day`,
	)
	if err != nil {
		return nil, fmt.Errorf("admin daily trend: %w", err)
	}
	defer rows.Close()

	byDay := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan daily trend: %w", err)
		}
		byDay[day.Format("2006-01-02")] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trend := make([]models.DailyCount, 0, 7)
	for i := 6; i >= 0; i-- {
		date := time.Now().UTC().AddDate(0, 0, -i).Format("2006-01-02")
		trend = append(trend, models.DailyCount{Date: date, Count: byDay[date]})
	}
	return trend, nil
}
