package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const conversationTTL = 24 * time.Hour

// HistoryStore keeps the working chat history for each conversation in Redis.
// Entries expire after a day of inactivity.
type HistoryStore struct {
	redis *redis.Client
}

func NewHistoryStore(client *redis.Client) *HistoryStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	return &HistoryStore{redis: client}
}

func (s *HistoryStore) Save(ctx context.Context, conversationID string, history []ChatMessage) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, conversationKey(conversationID), data, conversationTTL).Err(); err != nil {
		return fmt.Errorf("conversation: failed to persist history: %w", err)
	}
	return nil
}

// Load returns the stored history, or ErrConversationNotFound when the
// conversation is unknown or expired.
func (s *HistoryStore) Load(ctx context.Context, conversationID string) ([]ChatMessage, error) {
	data, err := s.redis.Get(ctx, conversationKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("conversation: failed to load history: %w", err)
	}

	var history []ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode history: %w", err)
	}
	return history, nil
}

// Delete removes the stored history for a conversation.
func (s *HistoryStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.redis.Del(ctx, conversationKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("conversation: failed to delete history: %w", err)
	}
	return nil
}

func conversationKey(id string) string {
	return fmt.Sprintf("conversation:%s", id)
}
