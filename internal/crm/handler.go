package crm

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/futurito/concierge-ai/internal/visitors"
	"github.com/futurito/concierge-ai/pkg/logging"
)

// Handler exposes admin operations against the CRM.
type Handler struct {
	repo    visitors.Repository
	handoff *Handoff
	logger  *logging.Logger
}

func NewHandler(repo visitors.Repository, handoff *Handoff, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, handoff: handoff, logger: logger}
}

// UploadRequest is the body for POST /crm/upload. With a deal_id the
// visitor refreshes that existing deal instead of opening a new one.
type UploadRequest struct {
	ConversationID string `json:"conversation_id"`
	DealID         int    `json:"deal_id,omitempty"`
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	ConversationID string `json:"conversation_id"`
	DealID         int    `json:"deal_id"`
}

// Upload handles POST /crm/upload: it pushes an already-registered visitor
// to the CRM synchronously, for records whose original hand-off failed.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ConversationID) == "" {
		http.Error(w, "conversation_id is required", http.StatusBadRequest)
		return
	}

	visitor, err := h.repo.GetByConversationID(r.Context(), req.ConversationID)
	if err != nil {
		if errors.Is(err, visitors.ErrVisitorNotFound) {
			http.Error(w, "visitor not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load visitor for upload", "conversation_id", req.ConversationID, "error", err)
		http.Error(w, "failed to load visitor", http.StatusInternalServerError)
		return
	}

	dealID := req.DealID
	if dealID > 0 {
		err = h.handoff.Refresh(r.Context(), visitor.ToRecord(), dealID)
	} else {
		dealID, err = h.handoff.Deliver(r.Context(), visitor.ToRecord())
	}
	if err != nil {
		h.logger.Error("crm upload failed", "conversation_id", req.ConversationID, "error", err)
		http.Error(w, "crm upload failed", http.StatusBadGateway)
		return
	}

	h.logger.Info("crm upload delivered", "conversation_id", req.ConversationID, "deal_id", dealID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UploadResponse{ConversationID: req.ConversationID, DealID: dealID})
}
