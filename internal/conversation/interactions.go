package conversation

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// InteractionCounter tracks how many messages each conversation has exchanged.
type InteractionCounter struct {
	redis *redis.Client
}

func NewInteractionCounter(client *redis.Client) *InteractionCounter {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	return &InteractionCounter{redis: client}
}

// Increment bumps the counter for a conversation and returns the new total.
func (c *InteractionCounter) Increment(ctx context.Context, conversationID string) (int64, error) {
	count, err := c.redis.Incr(ctx, interactionKey(conversationID)).Result()
	if err != nil {
		return 0, fmt.Errorf("conversation: failed to count interaction: %w", err)
	}
	return count, nil
}

// Count returns the current total without incrementing. Unknown ids count zero.
func (c *InteractionCounter) Count(ctx context.Context, conversationID string) (int64, error) {
	count, err := c.redis.Get(ctx, interactionKey(conversationID)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("conversation: failed to read interaction count: %w", err)
	}
	return count, nil
}

func interactionKey(id string) string {
	return fmt.Sprintf("interactions:%s", id)
}
