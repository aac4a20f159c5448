package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/futurito/concierge-ai/internal/catalog"
	"github.com/futurito/concierge-ai/internal/extraction"
	"github.com/futurito/concierge-ai/internal/observability/metrics"
	"github.com/futurito/concierge-ai/internal/profile"
	"github.com/futurito/concierge-ai/internal/visitors"
	"github.com/futurito/concierge-ai/pkg/logging"
)

// Registrar is the visitor persistence sink the service writes completed
// profiles to.
type Registrar interface {
	Upsert(ctx context.Context, visitor *visitors.Visitor) error
}

// Notifier pushes a finalized record to the CRM in the background.
type Notifier interface {
	DeliverAsync(record *profile.Record)
}

// Deps holds the collaborators the Service needs. LLM, transcripts,
// interactions, registrar and notifier are optional; missing ones degrade
// to logged no-ops rather than failures.
type Deps struct {
	Logger        *logging.Logger
	Accumulator   *profile.Accumulator
	Registrar     Registrar
	Notifier      Notifier
	CatalogSource catalog.Source
	LLM           LLMClient
	History       *HistoryStore
	Transcripts   *TranscriptStore
	Interactions  *InteractionCounter
	Contexts      *ContextStore
	Metrics       *metrics.ConciergeMetrics
	Model         string
}

// Service coordinates the chat pipeline: entity extraction, profile
// accumulation, catalog resolution, LLM replies and the persistence and
// CRM side effects of a completed profile.
type Service struct {
	logger      *logging.Logger
	accumulator *profile.Accumulator
	registrar   Registrar
	notifier    Notifier
	source      catalog.Source
	llm         LLMClient
	history     *HistoryStore
	transcripts *TranscriptStore
	counter     *InteractionCounter
	contexts    *ContextStore
	metrics     *metrics.ConciergeMetrics
	model       string
}

func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	accumulator := deps.Accumulator
	if accumulator == nil {
		accumulator = profile.NewAccumulator()
	}
	return &Service{
		logger:      logger,
		accumulator: accumulator,
		registrar:   deps.Registrar,
		notifier:    deps.Notifier,
		source:      deps.CatalogSource,
		llm:         deps.LLM,
		history:     deps.History,
		transcripts: deps.Transcripts,
		counter:     deps.Interactions,
		contexts:    deps.Contexts,
		metrics:     deps.Metrics,
		model:       deps.Model,
	}
}

// ExtractAndMerge runs entity extraction over the utterance and folds the
// result into the conversation's accumulated profile. When the merge
// completes the profile, the returned record has already been persisted to
// the visitor repository and queued for CRM hand-off; side-effect failures
// are logged and never surface here.
func (s *Service) ExtractAndMerge(ctx context.Context, conversationID, utterance string) *profile.Record {
	partial := extraction.Extract(utterance)
	for field := range partial {
		s.metrics.ObserveExtractedField(string(field))
	}

	record := s.accumulator.Merge(conversationID, partial)
	if record == nil {
		return nil
	}

	s.metrics.ObserveCompletedProfile()
	s.logger.Info("visitor profile completed",
		"conversation_id", conversationID,
		"name", record.Name(),
	)

	if s.registrar != nil {
		if err := s.registrar.Upsert(ctx, visitors.FromRecord(record)); err != nil {
			s.logger.Error("failed to persist visitor",
				"conversation_id", conversationID,
				"error", err,
			)
		}
	}
	if s.notifier != nil {
		s.metrics.ObserveHandoff("dispatched")
		s.notifier.DeliverAsync(record)
	}
	return record
}

// ResolveCatalogIntent refreshes the candidate snapshot from the catalog
// source and resolves the utterance against it. A source failure is logged
// and resolved against an empty snapshot.
func (s *Service) ResolveCatalogIntent(ctx context.Context, utterance string) catalog.Resolution {
	var candidates catalog.Candidates
	if s.source != nil {
		snapshot, err := s.source.Candidates(ctx)
		if err != nil {
			s.logger.Error("failed to fetch catalog candidates", "error", err)
		} else {
			candidates = snapshot
		}
	}

	resolution := catalog.Resolve(utterance, candidates)
	s.metrics.ObserveCatalogResolution(string(resolution.Intent), resolution.Product != nil)
	return resolution
}

// ProcessInput is one inbound chat message.
type ProcessInput struct {
	ConversationID string
	Message        string
	ContextName    string
	Channel        string
}

// ProcessResult is the outcome of handling one message.
type ProcessResult struct {
	ConversationID string             `json:"conversation_id"`
	Reply          string             `json:"reply"`
	Interactions   int64              `json:"interactions"`
	Profile        *visitors.Visitor  `json:"profile,omitempty"`
	Cart           catalog.Resolution `json:"cart"`
}

// ProcessMessage handles a full chat turn: history, extraction, catalog
// resolution, the LLM reply and the durable transcript.
func (s *Service) ProcessMessage(ctx context.Context, in ProcessInput) (*ProcessResult, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	channel := in.Channel
	if channel == "" {
		channel = "web"
	}

	conversationID := strings.TrimSpace(in.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	started := time.Now()

	history, err := s.loadOrSeedHistory(ctx, conversationID, in.ContextName)
	if err != nil {
		s.metrics.ObserveMessage(channel, "error")
		return nil, err
	}

	record := s.ExtractAndMerge(ctx, conversationID, message)
	resolution := s.ResolveCatalogIntent(ctx, message)

	history = append(history, ChatMessage{Role: ChatRoleUser, Content: message})

	reply, err := s.generateReply(ctx, history)
	if err != nil {
		s.metrics.ObserveMessage(channel, "error")
		return nil, err
	}
	history = append(history, ChatMessage{Role: ChatRoleAssistant, Content: reply})

	if s.history != nil {
		if err := s.history.Save(ctx, conversationID, history); err != nil {
			s.logger.Error("failed to save history", "conversation_id", conversationID, "error", err)
		}
	}
	s.appendTranscript(ctx, conversationID, channel, message, reply)

	var interactions int64
	if s.counter != nil {
		interactions, err = s.counter.Increment(ctx, conversationID)
		if err != nil {
			s.logger.Error("failed to count interaction", "conversation_id", conversationID, "error", err)
		}
	}

	s.metrics.ObserveMessage(channel, "ok")
	s.metrics.ObserveReplyLatency(channel, time.Since(started).Seconds())

	result := &ProcessResult{
		ConversationID: conversationID,
		Reply:          reply,
		Interactions:   interactions,
		Cart:           resolution,
	}
	if record != nil {
		result.Profile = visitors.FromRecord(record)
	}
	return result, nil
}

// Reset starts a fresh conversation seeded from the named context and
// returns the new conversation id.
func (s *Service) Reset(ctx context.Context, contextName string) (string, error) {
	conversationID := uuid.NewString()
	history := s.seedHistory(contextName)
	if s.history != nil {
		if err := s.history.Save(ctx, conversationID, history); err != nil {
			return "", err
		}
	}
	return conversationID, nil
}

// History returns the working history for a conversation.
func (s *Service) History(ctx context.Context, conversationID string) ([]ChatMessage, error) {
	if s.history == nil {
		return nil, ErrConversationNotFound
	}
	return s.history.Load(ctx, conversationID)
}

// ContextNames lists the system-prompt contexts a client can select with
// the context header. Without a configured store the list is empty.
func (s *Service) ContextNames() ([]string, error) {
	if s.contexts == nil {
		return []string{}, nil
	}
	return s.contexts.Names()
}

// SessionInfo describes the current state of a conversation.
type SessionInfo struct {
	ConversationID string            `json:"conversation_id"`
	Profile        map[string]string `json:"profile"`
	Interactions   int64             `json:"interactions"`
	Active         bool              `json:"active"`
}

// Session reports the accumulated (possibly incomplete) profile and the
// interaction count for a conversation.
func (s *Service) Session(ctx context.Context, conversationID string) (*SessionInfo, error) {
	info := &SessionInfo{
		ConversationID: conversationID,
		Profile:        map[string]string{},
	}

	for field, value := range s.accumulator.Snapshot(conversationID) {
		info.Profile[string(field)] = value.Flatten()
	}

	if s.counter != nil {
		count, err := s.counter.Count(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		info.Interactions = count
	}

	if s.history != nil {
		if _, err := s.history.Load(ctx, conversationID); err == nil {
			info.Active = true
		} else if !errors.Is(err, ErrConversationNotFound) {
			return nil, err
		}
	}
	return info, nil
}

func (s *Service) loadOrSeedHistory(ctx context.Context, conversationID, contextName string) ([]ChatMessage, error) {
	if s.history == nil {
		return s.seedHistory(contextName), nil
	}
	history, err := s.history.Load(ctx, conversationID)
	if errors.Is(err, ErrConversationNotFound) {
		return s.seedHistory(contextName), nil
	}
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Service) seedHistory(contextName string) []ChatMessage {
	if s.contexts == nil {
		return nil
	}
	text, err := s.contexts.Load(contextName)
	if err != nil {
		if !errors.Is(err, ErrContextNotFound) {
			s.logger.Error("failed to load context", "context", contextName, "error", err)
		}
		return nil
	}
	return []ChatMessage{{Role: ChatRoleSystem, Content: text}}
}

func (s *Service) generateReply(ctx context.Context, history []ChatMessage) (string, error) {
	if s.llm == nil {
		// Without an LLM the concierge still acknowledges the message so the
		// extraction pipeline keeps working in development setups.
		return "Gracias por tu mensaje.", nil
	}

	var system []string
	var messages []ChatMessage
	for _, msg := range history {
		if msg.Role == ChatRoleSystem {
			system = append(system, msg.Content)
			continue
		}
		messages = append(messages, msg)
	}

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Model:       s.model,
		System:      system,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("conversation: reply generation failed: %w", err)
	}
	return resp.Text, nil
}

func (s *Service) appendTranscript(ctx context.Context, conversationID, channel, message, reply string) {
	if s.transcripts == nil {
		return
	}
	now := time.Now().UTC()
	userMsg := TranscriptMessage{Role: ChatRoleUser, Content: message, CreatedAt: now}
	if err := s.transcripts.AppendMessage(ctx, conversationID, channel, userMsg); err != nil {
		s.logger.Error("failed to persist user message", "conversation_id", conversationID, "error", err)
	}
	assistantMsg := TranscriptMessage{Role: ChatRoleAssistant, Content: reply, CreatedAt: now}
	if err := s.transcripts.AppendMessage(ctx, conversationID, channel, assistantMsg); err != nil {
		s.logger.Error("failed to persist assistant message", "conversation_id", conversationID, "error", err)
	}
}
