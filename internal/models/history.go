package models

import "time"

// HistoryEntry is one item in a user's recent-screenings list. The list is
// kept short and ordered newest first, so entries carry only what the
// dashboard card shows.
type HistoryEntry struct {
	Reference      string    `json:"reference"`
	ChildAge       int       `json:"child_age"`
	ChildGender    string    `json:"child_gender"`
	TotalScore     int       `json:"total_score"`
	RiskPercentage float64   `json:"risk_percentage"`
	RiskLevel      string    `json:"risk_level"`
	CreatedAt      time.Time `json:"created_at"`
}

type HistoryListResponse struct {
	Screenings []HistoryEntry `json:"screenings"`
	Total      int            `json:"total"`
}
