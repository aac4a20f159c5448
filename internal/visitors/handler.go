package visitors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/futurito/concierge-ai/pkg/logging"
)

// Handler handles HTTP requests for registered visitors
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new visitors handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListVisitorsResponse is the response for listing visitors
type ListVisitorsResponse struct {
	Visitors []*Visitor `json:"visitors"`
	Count    int        `json:"count"`
}

// ListVisitors handles GET /visitors requests
func (h *Handler) ListVisitors(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list visitors", "error", err)
		http.Error(w, "failed to list visitors", http.StatusInternalServerError)
		return
	}

	response := ListVisitorsResponse{
		Visitors: visitors,
		Count:    len(visitors),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetVisitor handles GET /visitors/{conversationID} requests
func (h *Handler) GetVisitor(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if conversationID == "" {
		http.Error(w, "missing conversation_id", http.StatusBadRequest)
		return
	}

	visitor, err := h.repo.GetByConversationID(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, ErrVisitorNotFound) {
			http.Error(w, "visitor not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get visitor", "error", err, "conversation_id", conversationID)
		http.Error(w, "failed to get visitor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(visitor)
}
