package screenings

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/earlysigns/backend/internal/middleware"
	"github.com/earlysigns/backend/internal/models"
	"github.com/earlysigns/backend/internal/scoring"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Questions handles GET /api/v1/questions
// The catalogue is fixed, so this endpoint is public and cacheable.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": scoring.Questions(),
		"responses": scoring.Categories(),
	})
}

// Submit handles POST /api/v1/screenings
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.SubmitScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		log.Printf("[screenings] submit error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save screening"})
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/v1/screenings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	query := r.URL.Query()
	page := intQueryParam(query, "page", 1)
	pageSize := intQueryParam(query, "page_size", defaultPageSize)

	resp, err := h.service.List(userID, page, pageSize)
	if err != nil {
		log.Printf("[screenings] list error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load screenings"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Recent handles GET /api/v1/screenings/recent
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.service.Recent(r.Context(), userID)
	if err != nil {
		log.Printf("[screenings] recent error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load recent screenings"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetByReference handles GET /api/v1/screenings/{reference}
func (h *Handler) GetByReference(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	reference := mux.Vars(r)["reference"]
	resp, err := h.service.GetByReference(reference, userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Screening not found"})
		case errors.Is(err, ErrForbidden):
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "You do not have access to this screening"})
		default:
			log.Printf("[screenings] get error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load screening"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Dashboard handles GET /api/v1/dashboard/stats
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	stats, err := h.service.Dashboard(userID)
	if err != nil {
		log.Printf("[screenings] dashboard error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load dashboard stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
