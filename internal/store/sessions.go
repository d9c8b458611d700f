package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	stderrors "iris-assistant/internal/common/errors"
)

const sessionKeyPrefix = "iris:session:"

// SessionStore maps opaque bearer tokens to user emails with a TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Create mints a fresh token for the user.
func (s *SessionStore) Create(ctx context.Context, email string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKeyPrefix+token, email, s.ttl).Err(); err != nil {
		return "", stderrors.NewStoreError(err)
	}
	return token, nil
}

// Resolve returns the email behind a token, or NOT_FOUND for unknown or
// expired tokens.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	email, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", stderrors.NewNotFoundError("Session expired or invalid")
	}
	if err != nil {
		return "", stderrors.NewStoreError(err)
	}
	return email, nil
}

// Revoke deletes a token.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return stderrors.NewStoreError(err)
	}
	return nil
}
