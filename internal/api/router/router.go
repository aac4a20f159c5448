package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/futurito/concierge-ai/internal/channels/whatsapp"
	"github.com/futurito/concierge-ai/internal/conversation"
	"github.com/futurito/concierge-ai/internal/crm"
	httpmiddleware "github.com/futurito/concierge-ai/internal/http/middleware"
	"github.com/futurito/concierge-ai/internal/visitors"
	"github.com/futurito/concierge-ai/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	VisitorsHandler     *visitors.Handler
	CRMHandler          *crm.Handler
	WhatsAppAdapter     *whatsapp.Adapter
	MetricsHandler      http.Handler
	APIKey              string
	AdminAuthSecret     string
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health, metrics, webhooks)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.WhatsAppAdapter != nil {
			public.Get("/whatsapp/webhook", cfg.WhatsAppAdapter.HandleVerification)
			public.Post("/whatsapp/webhook", cfg.WhatsAppAdapter.HandleWebhook)
		}
	})

	// Chat endpoints (API key protected)
	if cfg.ConversationHandler != nil {
		r.Group(func(chat chi.Router) {
			chat.Use(httpmiddleware.APIKey(cfg.APIKey))
			chat.Post("/chat", cfg.ConversationHandler.Chat)
			chat.Post("/chat/reset", cfg.ConversationHandler.Reset)
			chat.Get("/chat/history", cfg.ConversationHandler.History)
			chat.Get("/session", cfg.ConversationHandler.Session)
			chat.Get("/contexts", cfg.ConversationHandler.Contexts)
			chat.Post("/cart/resolve", cfg.ConversationHandler.ResolveCart)
		})
	}

	// Admin endpoints (JWT protected)
	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		if cfg.VisitorsHandler != nil {
			admin.Get("/visitors", cfg.VisitorsHandler.ListVisitors)
			admin.Get("/visitors/{conversationID}", cfg.VisitorsHandler.GetVisitor)
		}
		if cfg.CRMHandler != nil {
			admin.Post("/crm/upload", cfg.CRMHandler.Upload)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
