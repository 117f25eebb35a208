package models

import "time"

// ── Core Structs ───────────────────────────────────────

// Screening is a persisted questionnaire submission with its computed result.
// Responses holds the numeric score per question in questionnaire order.
type Screening struct {
	ID             int64     `json:"id"`
	Reference      string    `json:"reference"`
	UserID         int64     `json:"user_id"`
	ChildAge       int       `json:"child_age"`
	ChildGender    string    `json:"child_gender"`
	Responses      []int64   `json:"responses"`
	TotalScore     int       `json:"total_score"`
	RiskPercentage float64   `json:"risk_percentage"`
	RiskLevel      string    `json:"risk_level"`
	Confidence     float64   `json:"confidence"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}

type ScreeningAnswer struct {
	Question string `json:"question"`
	Response string `json:"response"`
	Score    int    `json:"score"`
}

// ── Request Types ─────────────────────────────────────

type SubmitScreeningRequest struct {
	ChildAge    int      `json:"child_age"`
	ChildGender string   `json:"child_gender"`
	Responses   []string `json:"responses"`
}

// ── Response Types ────────────────────────────────────

type ScreeningResponse struct {
	Reference      string            `json:"reference"`
	ChildAge       int               `json:"child_age"`
	ChildGender    string            `json:"child_gender"`
	TotalScore     int               `json:"total_score"`
	RiskPercentage float64           `json:"risk_percentage"`
	RiskLevel      string            `json:"risk_level"`
	Confidence     float64           `json:"confidence"`
	Recommendation string            `json:"recommendation"`
	Breakdown      []ScreeningAnswer `json:"breakdown"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ScreeningSummary is the list-view shape: no breakdown or recommendation.
type ScreeningSummary struct {
	Reference      string    `json:"reference"`
	ChildAge       int       `json:"child_age"`
	ChildGender    string    `json:"child_gender"`
	TotalScore     int       `json:"total_score"`
	RiskPercentage float64   `json:"risk_percentage"`
	RiskLevel      string    `json:"risk_level"`
	CreatedAt      time.Time `json:"created_at"`
}

type ScreeningListResponse struct {
	Screenings []ScreeningSummary `json:"screenings"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
}

// DashboardStats is the dashboard payload: aggregates over the bundled
// reference cohort for the charts, plus the caller's own screening summary.
type DashboardStats struct {
	Cohort CohortStats `json:"cohort"`
	User   UserStats   `json:"user"`
}

// CohortStats describes the reference dataset shipped with the app. The
// level distribution comes from running every cohort row through the same
// scorer user submissions go through.
type CohortStats struct {
	Size              int            `json:"size"`
	PositiveRate      float64        `json:"positive_rate"`
	MeanTotalScore    float64        `json:"mean_total_score"`
	QuestionMeans     []float64      `json:"question_means"`
	LevelDistribution map[string]int `json:"level_distribution"`
	AgeBands          map[string]int `json:"age_bands"`
	Genders           map[string]int `json:"genders"`
}

type UserStats struct {
	TotalScreenings   int            `json:"total_screenings"`
	AvgRiskPercentage float64        `json:"avg_risk_percentage"`
	LevelCounts       map[string]int `json:"level_counts"`
	LastScreeningAt   *time.Time     `json:"last_screening_at,omitempty"`
}

// ── Chatbot Types ─────────────────────────────────────

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}
