package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futurito/concierge-ai/internal/profile"
	"github.com/futurito/concierge-ai/pkg/logging"
)

const handoffTimeout = 15 * time.Second

// Client is the narrow surface the hand-off needs from a CRM.
type Client interface {
	CreatePerson(ctx context.Context, person Person) (int, error)
	CreateDeal(ctx context.Context, deal Deal) (int, error)
	UpdateDeal(ctx context.Context, dealID int, deal Deal) error
}

// Handoff pushes finalized visitor records into the CRM. Delivery is
// fire-and-forget: a failure is logged and dropped, never propagated back
// into the conversation flow, and never rolls back the accumulator clear
// that produced the record.
type Handoff struct {
	client     Client
	pipelineID int
	logger     *logging.Logger
}

// NewHandoff creates a CRM hand-off service.
func NewHandoff(client Client, pipelineID int, logger *logging.Logger) *Handoff {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handoff{client: client, pipelineID: pipelineID, logger: logger}
}

// Deliver sends the record's contact fields and visit reason to the CRM
// synchronously. It returns the created deal id for callers that want it.
func (h *Handoff) Deliver(ctx context.Context, record *profile.Record) (int, error) {
	if h.client == nil {
		return 0, fmt.Errorf("crm: no client configured")
	}

	personID, err := h.client.CreatePerson(ctx, Person{
		Name:  record.Name(),
		Email: record.Email(),
		Phone: record.Phone(),
	})
	if err != nil {
		return 0, fmt.Errorf("crm: create person: %w", err)
	}

	title := strings.TrimSpace(record.VisitReason())
	if title == "" {
		title = "Nueva visita"
	}

	dealID, err := h.client.CreateDeal(ctx, Deal{
		Title:      title,
		PipelineID: h.pipelineID,
		PersonID:   personID,
	})
	if err != nil {
		return 0, fmt.Errorf("crm: create deal: %w", err)
	}

	return dealID, nil
}

// Refresh re-sends the record's contact fields against an existing deal:
// the person is created anew and the deal's title and person are updated
// in place, instead of opening a second deal for the same visit.
func (h *Handoff) Refresh(ctx context.Context, record *profile.Record, dealID int) error {
	if h.client == nil {
		return fmt.Errorf("crm: no client configured")
	}

	personID, err := h.client.CreatePerson(ctx, Person{
		Name:  record.Name(),
		Email: record.Email(),
		Phone: record.Phone(),
	})
	if err != nil {
		return fmt.Errorf("crm: create person: %w", err)
	}

	title := strings.TrimSpace(record.VisitReason())
	if title == "" {
		title = "Nueva visita"
	}

	if err := h.client.UpdateDeal(ctx, dealID, Deal{Title: title, PersonID: personID}); err != nil {
		return fmt.Errorf("crm: update deal %d: %w", dealID, err)
	}
	return nil
}

// DeliverAsync runs Deliver in the background. The outcome is logged; the
// caller does not wait and cannot fail because of it.
func (h *Handoff) DeliverAsync(record *profile.Record) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), handoffTimeout)
		defer cancel()

		dealID, err := h.Deliver(ctx, record)
		if err != nil {
			h.logger.Error("crm handoff failed",
				"conversation_id", record.ConversationID,
				"error", err,
			)
			return
		}
		h.logger.Info("crm handoff delivered",
			"conversation_id", record.ConversationID,
			"deal_id", dealID,
		)
	}()
}
