package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/models"
)

const historyKeyPrefix = "iris:history:"

// historyLimit is the hard cap applied on every save; only the most recent
// turns are kept.
const defaultHistoryLimit = 80

// ConversationStore persists each user's conversation as a single JSON array
// under iris:history:<email>. Media payloads ride inline on their turn, so
// the array position is the only back-reference needed.
type ConversationStore struct {
	client *redis.Client
	limit  int
	logger logger.Logger
}

func NewConversationStore(client *redis.Client, limit int, log logger.Logger) *ConversationStore {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &ConversationStore{
		client: client,
		limit:  limit,
		logger: log.With(map[string]interface{}{
			"store": "conversations",
		}),
	}
}

// Load returns the user's history, oldest first. A user with no history gets
// an empty slice, not an error.
func (s *ConversationStore) Load(ctx context.Context, userID string) ([]models.ConversationTurn, error) {
	payload, err := s.client.Get(ctx, historyKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, stderrors.NewStoreError(err)
	}

	var turns []models.ConversationTurn
	if err := json.Unmarshal(payload, &turns); err != nil {
		return nil, stderrors.NewStoreError(err)
	}
	return turns, nil
}

// Append adds turns to the user's history and persists it, truncated to the
// most recent limit entries.
func (s *ConversationStore) Append(ctx context.Context, userID string, turns ...models.ConversationTurn) error {
	history, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}

	history = append(history, turns...)
	if len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}

	payload, err := json.Marshal(history)
	if err != nil {
		return stderrors.NewStoreError(err)
	}
	if err := s.client.Set(ctx, historyKeyPrefix+userID, payload, 0).Err(); err != nil {
		return stderrors.NewStoreError(err)
	}
	return nil
}

// Clear deletes the user's history.
func (s *ConversationStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, historyKeyPrefix+userID).Err(); err != nil {
		return stderrors.NewStoreError(err)
	}
	return nil
}
