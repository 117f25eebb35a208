package models

import "time"

// ── Admin Types ───────────────────────────────────────

// AdminUser is the user row as seen in the admin console, with a count of
// the screenings the account has submitted.
type AdminUser struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Status         UserStatus `json:"status"`
	IsAdmin        bool       `json:"is_admin"`
	ScreeningCount int        `json:"screening_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

type AdminUserListResponse struct {
	Users    []AdminUser `json:"users"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

type AdminStats struct {
	Users      UserCounts      `json:"users"`
	Screenings ScreeningCounts `json:"screenings"`
}

type UserCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type ScreeningCounts struct {
	Total             int            `json:"total"`
	Today             int            `json:"today"`
	ThisWeek          int            `json:"this_week"`
	ThisMonth         int            `json:"this_month"`
	AvgRiskPercentage float64        `json:"avg_risk_percentage"`
	AvgTotalScore     float64        `json:"avg_total_score"`
	LevelCounts       map[string]int `json:"level_counts"`
	AgeBands          map[string]int `json:"age_bands"`
	Genders           map[string]int `json:"genders"`
	DailyTrend        []DailyCount   `json:"daily_trend"`
}

// DailyCount is one day in the submissions trend. Days with no screenings
// are present with a zero count.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ── Experiment Types ──────────────────────────────────

// ExperimentRequest configures a training run over the bundled reference
// dataset. The seed makes the run reproducible.
type ExperimentRequest struct {
	Seed         int64   `json:"seed"`
	TestFraction float64 `json:"test_fraction"`
}

type ExperimentResponse struct {
	Seed         int64         `json:"seed"`
	TestFraction float64       `json:"test_fraction"`
	TrainSize    int           `json:"train_size"`
	TestSize     int           `json:"test_size"`
	Models       []ModelReport `json:"models"`
	Note         string        `json:"note"`
}

// ModelReport carries test-set metrics plus the train-set accuracy, so
// overfitting is visible in the comparison.
type ModelReport struct {
	Name          string  `json:"name"`
	TrainAccuracy float64 `json:"train_accuracy"`
	Accuracy      float64 `json:"accuracy"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
}
