package whatsapp

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futurito/concierge-ai/internal/conversation"
	"github.com/futurito/concierge-ai/pkg/logging"
)

type captureSender struct {
	to   string
	text string
}

func (c *captureSender) SendTextMessage(ctx context.Context, to, text string) (*SendResponse, error) {
	c.to = to
	c.text = text
	return &SendResponse{}, nil
}

type staticLLM struct{}

func (staticLLM) Complete(ctx context.Context, req conversation.LLMRequest) (conversation.LLMResponse, error) {
	return conversation.LLMResponse{Text: "Hola desde Futurito"}, nil
}

func TestAdapterRepliesToInbound(t *testing.T) {
	svc := conversation.NewService(conversation.Deps{
		Logger: logging.New("error"),
		LLM:    staticLLM{},
	})
	adapter := NewAdapter(AdapterConfig{
		AccessToken:   "token",
		PhoneNumberID: "12345",
		AppSecret:     testAppSecret,
		VerifyToken:   "futurito123",
	}, svc, logging.New("error"))

	sender := &captureSender{}
	adapter.SetSender(sender)

	body := inboundPayload()
	req := httptest.NewRequest(http.MethodPost, "/whatsapp/webhook", bytes.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign(body))
	rec := httptest.NewRecorder()
	adapter.HandleWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if sender.to != "521555000111" {
		t.Errorf("reply sent to %q", sender.to)
	}
	if sender.text != "Hola desde Futurito" {
		t.Errorf("reply text = %q", sender.text)
	}
}
