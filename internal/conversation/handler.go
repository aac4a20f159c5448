package conversation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futurito/concierge-ai/pkg/logging"
)

const (
	headerConversationID = "X-Conversation-Id"
	headerContext        = "X-Contexto"
)

// Handler exposes the chat pipeline over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// ChatRequest is the body for POST /chat and POST /cart/resolve.
type ChatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /chat requests.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.ProcessMessage(r.Context(), ProcessInput{
		ConversationID: r.Header.Get(headerConversationID),
		Message:        req.Message,
		ContextName:    r.Header.Get(headerContext),
		Channel:        "web",
	})
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to process message", "error", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(headerConversationID, result.ConversationID)
	json.NewEncoder(w).Encode(result)
}

// ResetResponse is the body returned by POST /chat/reset.
type ResetResponse struct {
	ConversationID string `json:"conversation_id"`
}

// Reset handles POST /chat/reset requests.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	conversationID, err := h.service.Reset(r.Context(), r.Header.Get(headerContext))
	if err != nil {
		h.logger.Error("failed to reset conversation", "error", err)
		http.Error(w, "failed to reset conversation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(headerConversationID, conversationID)
	json.NewEncoder(w).Encode(ResetResponse{ConversationID: conversationID})
}

// HistoryResponse is the body returned by GET /chat/history.
type HistoryResponse struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []ChatMessage `json:"messages"`
}

// History handles GET /chat/history requests.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	conversationID := r.Header.Get(headerConversationID)
	if conversationID == "" {
		http.Error(w, "missing conversation id", http.StatusBadRequest)
		return
	}

	messages, err := h.service.History(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			http.Error(w, "conversation not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load history", "conversation_id", conversationID, "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HistoryResponse{ConversationID: conversationID, Messages: messages})
}

// ContextsResponse is the body returned by GET /contexts.
type ContextsResponse struct {
	Contexts []string `json:"contexts"`
}

// Contexts handles GET /contexts requests.
func (h *Handler) Contexts(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ContextNames()
	if err != nil {
		h.logger.Error("failed to list contexts", "error", err)
		http.Error(w, "failed to list contexts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ContextsResponse{Contexts: names})
}

// Session handles GET /session requests.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	conversationID := r.Header.Get(headerConversationID)
	if conversationID == "" {
		http.Error(w, "missing conversation id", http.StatusBadRequest)
		return
	}

	info, err := h.service.Session(r.Context(), conversationID)
	if err != nil {
		h.logger.Error("failed to inspect session", "conversation_id", conversationID, "error", err)
		http.Error(w, "failed to inspect session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// ResolveCart handles POST /cart/resolve requests.
func (h *Handler) ResolveCart(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resolution := h.service.ResolveCatalogIntent(r.Context(), req.Message)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resolution)
}
