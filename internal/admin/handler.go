// Package admin implements the approval console: user review, service-wide
// statistics, and the model experiment endpoint.
package admin

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/earlysigns/backend/internal/dataset"
	"github.com/earlysigns/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	store   *Store
	dataset *dataset.Dataset
}

func NewHandler(store *Store, ds *dataset.Dataset) *Handler {
	return &Handler{store: store, dataset: ds}
}

// ListUsers handles GET /api/v1/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := strings.ToLower(query.Get("status"))
	switch status {
	case "", string(models.StatusPending), string(models.StatusApproved), string(models.StatusRejected):
	default:
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown status filter"})
		return
	}

	page := intQueryParam(query, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := intQueryParam(query, "page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := h.store.ListUsers(status, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Printf("[admin] list users error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load users"})
		return
	}
	if users == nil {
		users = []models.AdminUser{}
	}

	writeJSON(w, http.StatusOK, models.AdminUserListResponse{
		Users:    users,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// ApproveUser handles POST /api/v1/admin/users/{id}/approve
func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.StatusApproved)
}

// RejectUser handles POST /api/v1/admin/users/{id}/reject
func (h *Handler) RejectUser(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.StatusRejected)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status models.UserStatus) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid user id"})
		return
	}

	found, err := h.store.UpdateStatus(id, status)
	if err != nil {
		log.Printf("[admin] update status error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update user"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "status": status})
}

// Stats handles GET /api/v1/admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		log.Printf("[admin] stats error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// RunExperiment handles POST /api/v1/admin/experiments
func (h *Handler) RunExperiment(w http.ResponseWriter, r *http.Request) {
	var req models.ExperimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := runExperiment(h.dataset, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, resp)
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
