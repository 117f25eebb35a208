package screenings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/earlysigns/backend/internal/history"
	"github.com/earlysigns/backend/internal/metrics"
	"github.com/earlysigns/backend/internal/models"
	"github.com/earlysigns/backend/internal/scoring"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	ErrNotFound  = errors.New("screening not found")
	ErrForbidden = errors.New("screening belongs to another user")
)

// Broadcaster receives an anonymized event for every completed screening.
// The live hub implements it; a nil broadcaster disables the feed.
type Broadcaster interface {
	ScreeningScored(riskLevel string, totalScore int, ageBand string)
}

type Service struct {
	store       *Store
	history     history.Store
	metrics     *metrics.Metrics
	broadcaster Broadcaster
	cohort      *models.CohortStats
}

// NewService wires the screening flow together. cohort holds the bundled
// reference dataset aggregates computed once at startup; it never changes
// while the server runs.
func NewService(store *Store, hist history.Store, m *metrics.Metrics, b Broadcaster, cohort *models.CohortStats) *Service {
	return &Service{store: store, history: hist, metrics: m, broadcaster: b, cohort: cohort}
}

// Submit scores a questionnaire and persists the result. The history push
// and the live broadcast are best effort; once the screening row is written
// the submission succeeds.
func (s *Service) Submit(ctx context.Context, userID int64, req models.SubmitScreeningRequest) (*models.ScreeningResponse, error) {
	input, err := buildInput(req)
	if err != nil {
		return nil, err
	}

	result, err := scoring.Score(input)
	if err != nil {
		return nil, err
	}

	screening := &models.Screening{
		Reference:      uuid.NewString(),
		UserID:         userID,
		ChildAge:       req.ChildAge,
		ChildGender:    string(input.Gender),
		Responses:      responseScores(result.Breakdown),
		TotalScore:     result.TotalScore,
		RiskPercentage: result.RiskPercentage,
		RiskLevel:      string(result.RiskLevel),
		Confidence:     result.Confidence,
		Recommendation: result.Recommendation,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Insert(screening); err != nil {
		return nil, err
	}

	entry := models.HistoryEntry{
		Reference:      screening.Reference,
		ChildAge:       screening.ChildAge,
		ChildGender:    screening.ChildGender,
		TotalScore:     screening.TotalScore,
		RiskPercentage: screening.RiskPercentage,
		RiskLevel:      screening.RiskLevel,
		CreatedAt:      screening.CreatedAt,
	}
	if err := s.history.Push(ctx, userID, entry); err != nil {
		log.Printf("WARN: history push for screening %s failed: %v", screening.Reference, err)
	}

	if s.metrics != nil {
		s.metrics.ScreeningsScored.WithLabelValues(screening.RiskLevel).Inc()
	}
	if s.broadcaster != nil {
		s.broadcaster.ScreeningScored(screening.RiskLevel, screening.TotalScore, scoring.AgeBand(screening.ChildAge))
	}

	return buildResponse(screening, mapBreakdown(result.Breakdown)), nil
}

// GetByReference returns one screening. Only the owner and admins may see it.
func (s *Service) GetByReference(reference string, userID int64, isAdmin bool) (*models.ScreeningResponse, error) {
	screening, err := s.store.GetByReference(reference)
	if err != nil {
		return nil, err
	}
	if screening == nil {
		return nil, ErrNotFound
	}
	if screening.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}
	return buildResponse(screening, storedBreakdown(screening.Responses)), nil
}

// List returns one page of the user's screenings.
func (s *Service) List(userID int64, page, pageSize int) (*models.ScreeningListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	summaries, total, err := s.store.ListByUser(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.ScreeningSummary{}
	}
	return &models.ScreeningListResponse{
		Screenings: summaries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Recent returns the capped recent-screenings list from the history store.
func (s *Service) Recent(ctx context.Context, userID int64) (*models.HistoryListResponse, error) {
	entries, err := s.history.Recent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("recent screenings: %w", err)
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return &models.HistoryListResponse{Screenings: entries, Total: len(entries)}, nil
}

// Dashboard combines the fixed cohort aggregates with the caller's own
// screening summary.
func (s *Service) Dashboard(userID int64) (*models.DashboardStats, error) {
	userStats, err := s.store.UserStats(userID)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{User: *userStats}
	if s.cohort != nil {
		stats.Cohort = *s.cohort
	}
	return stats, nil
}

// buildInput parses the raw request into a scoring input. All parse errors
// wrap scoring.ErrInvalidInput, so handlers can map them to one status.
func buildInput(req models.SubmitScreeningRequest) (scoring.Input, error) {
	gender, err := scoring.ParseGender(req.ChildGender)
	if err != nil {
		return scoring.Input{}, err
	}

	responses := make([]scoring.ResponseValue, 0, len(req.Responses))
	for i, raw := range req.Responses {
		response, err := scoring.ParseResponse(raw)
		if err != nil {
			return scoring.Input{}, fmt.Errorf("question %d: %w", i+1, err)
		}
		responses = append(responses, response)
	}

	return scoring.Input{Age: req.ChildAge, Gender: gender, Responses: responses}, nil
}

func responseScores(breakdown []scoring.QuestionScore) []int64 {
	scores := make([]int64, len(breakdown))
	for i, qs := range breakdown {
		scores[i] = int64(qs.Score)
	}
	return scores
}

func mapBreakdown(breakdown []scoring.QuestionScore) []models.ScreeningAnswer {
	answers := make([]models.ScreeningAnswer, len(breakdown))
	for i, qs := range breakdown {
		answers[i] = models.ScreeningAnswer{
			Question: qs.Question,
			Response: string(qs.Response),
			Score:    qs.Score,
		}
	}
	return answers
}

// storedBreakdown rebuilds the per-question view from persisted scores. The
// score-to-response mapping is one to one, so no extra columns are needed.
func storedBreakdown(responses []int64) []models.ScreeningAnswer {
	questions := scoring.Questions()
	categories := scoring.Categories()

	answers := make([]models.ScreeningAnswer, 0, len(responses))
	for i, score := range responses {
		if i >= len(questions) || score < 0 || int(score) >= len(categories) {
			break
		}
		answers = append(answers, models.ScreeningAnswer{
			Question: questions[i].Text,
			Response: string(categories[score]),
			Score:    int(score),
		})
	}
	return answers
}

func buildResponse(screening *models.Screening, breakdown []models.ScreeningAnswer) *models.ScreeningResponse {
	return &models.ScreeningResponse{
		Reference:      screening.Reference,
		ChildAge:       screening.ChildAge,
		ChildGender:    screening.ChildGender,
		TotalScore:     screening.TotalScore,
		RiskPercentage: screening.RiskPercentage,
		RiskLevel:      screening.RiskLevel,
		Confidence:     screening.Confidence,
		Recommendation: screening.Recommendation,
		Breakdown:      breakdown,
		CreatedAt:      screening.CreatedAt,
	}
}
