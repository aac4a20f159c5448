package visitors

import (
	"context"
	"sort"
	"sync"
)

// Repository defines the interface for visitor storage. Upsert must be
// idempotent keyed by conversation id: delivering the same finalized
// record twice leaves a single row.
type Repository interface {
	Upsert(ctx context.Context, visitor *Visitor) error
	GetByConversationID(ctx context.Context, conversationID string) (*Visitor, error)
	List(ctx context.Context) ([]*Visitor, error)
}

// InMemoryRepository is an in-memory Repository for tests and development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	visitors map[string]*Visitor
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{visitors: make(map[string]*Visitor)}
}

// Upsert stores a visitor, replacing any previous row for the conversation.
func (r *InMemoryRepository) Upsert(ctx context.Context, visitor *Visitor) error {
	if err := visitor.Validate(); err != nil {
		return err
	}

	copied := *visitor
	r.mu.Lock()
	r.visitors[visitor.ConversationID] = &copied
	r.mu.Unlock()
	return nil
}

// GetByConversationID retrieves a visitor by conversation id.
func (r *InMemoryRepository) GetByConversationID(ctx context.Context, conversationID string) (*Visitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visitor, ok := r.visitors[conversationID]
	if !ok {
		return nil, ErrVisitorNotFound
	}
	copied := *visitor
	return &copied, nil
}

// List returns all visitors ordered by registration time, newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Visitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Visitor, 0, len(r.visitors))
	for _, visitor := range r.visitors {
		copied := *visitor
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	return out, nil
}
