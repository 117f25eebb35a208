package chatbot

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/earlysigns/backend/internal/models"
)

// Handler exposes the chat endpoint.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Reply(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Message must not be empty"})
			return
		}
		log.Printf("[chatbot] reply error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to answer message"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
