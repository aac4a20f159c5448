package whatsapp

import (
	"context"
	"net/http"
	"time"

	"github.com/futurito/concierge-ai/internal/conversation"
	"github.com/futurito/concierge-ai/pkg/logging"
)

const replyTimeout = 30 * time.Second

// Sender is the outbound surface the adapter needs.
type Sender interface {
	SendTextMessage(ctx context.Context, to, text string) (*SendResponse, error)
}

// Adapter is the WhatsApp channel adapter. Inbound messages are run
// through the conversation pipeline with the sender's phone number as the
// conversation id, and the reply is sent back over the Cloud API.
type Adapter struct {
	sender  Sender
	service *conversation.Service
	webhook *WebhookHandler
	logger  *logging.Logger
}

// AdapterConfig configures a WhatsApp adapter.
type AdapterConfig struct {
	AccessToken   string
	PhoneNumberID string
	AppSecret     string
	VerifyToken   string
	ContextName   string
}

// NewAdapter creates a WhatsApp adapter wired to the conversation service.
func NewAdapter(cfg AdapterConfig, service *conversation.Service, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	a := &Adapter{
		sender:  NewClient(cfg.AccessToken, cfg.PhoneNumberID),
		service: service,
		logger:  logger,
	}
	a.webhook = NewWebhookHandler(cfg.VerifyToken, cfg.AppSecret, func(msg ParsedInboundMessage) {
		a.handleInbound(msg, cfg.ContextName)
	})
	return a
}

// SetSender overrides the outbound client (useful for testing).
func (a *Adapter) SetSender(sender Sender) {
	a.sender = sender
}

// HandleVerification handles GET /whatsapp/webhook (Meta challenge).
func (a *Adapter) HandleVerification(w http.ResponseWriter, r *http.Request) {
	a.webhook.HandleVerification(w, r)
}

// HandleWebhook handles POST /whatsapp/webhook (inbound messages).
func (a *Adapter) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	a.webhook.HandleInbound(w, r)
}

func (a *Adapter) handleInbound(msg ParsedInboundMessage, contextName string) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	result, err := a.service.ProcessMessage(ctx, conversation.ProcessInput{
		ConversationID: conversationID(msg.From),
		Message:        msg.Text,
		ContextName:    contextName,
		Channel:        "whatsapp",
	})
	if err != nil {
		a.logger.Error("whatsapp: failed to process message",
			"from", msg.From,
			"error", err,
		)
		return
	}

	if _, err := a.sender.SendTextMessage(ctx, msg.From, result.Reply); err != nil {
		a.logger.Error("whatsapp: failed to send reply",
			"to", msg.From,
			"error", err,
		)
	}
}

func conversationID(phone string) string {
	return "whatsapp:" + phone
}
