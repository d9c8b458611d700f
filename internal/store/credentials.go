// Package store persists users and conversation histories in Redis.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/models"
)

const userKeyPrefix = "iris:user:"

// CredentialStore persists one user record per email under
// iris:user:<email>. Passwords are stored as bcrypt hashes only.
type CredentialStore struct {
	client *redis.Client
	logger logger.Logger
}

func NewCredentialStore(client *redis.Client, log logger.Logger) *CredentialStore {
	return &CredentialStore{
		client: client,
		logger: log.With(map[string]interface{}{
			"store": "credentials",
		}),
	}
}

// Insert registers a new user. A duplicate email fails with ALREADY_EXISTS;
// the existing record is never overwritten.
func (s *CredentialStore) Insert(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, stderrors.NewStoreError(err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return nil, stderrors.NewStoreError(err)
	}

	ok, err := s.client.SetNX(ctx, userKeyPrefix+email, payload, 0).Result()
	if err != nil {
		return nil, stderrors.NewStoreError(err)
	}
	if !ok {
		return nil, stderrors.NewAlreadyExistsError("An account with this email already exists")
	}

	s.logger.Info("user registered", map[string]interface{}{
		"email": email,
	})
	return user, nil
}

// Lookup fetches a user record. An absent email fails with NOT_FOUND.
func (s *CredentialStore) Lookup(ctx context.Context, email string) (*models.User, error) {
	payload, err := s.client.Get(ctx, userKeyPrefix+email).Bytes()
	if err == redis.Nil {
		return nil, stderrors.NewNotFoundError("No account found for this email")
	}
	if err != nil {
		return nil, stderrors.NewStoreError(err)
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, stderrors.NewStoreError(err)
	}
	return &user, nil
}

// Authenticate verifies the password against the stored hash. Both an unknown
// email and a wrong password return NOT_FOUND so callers cannot distinguish
// them.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Lookup(ctx, email)
	if err != nil {
		if stderrors.IsNotFound(err) {
			return nil, stderrors.NewNotFoundError("Invalid email or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, stderrors.NewNotFoundError("Invalid email or password")
	}
	return user, nil
}
