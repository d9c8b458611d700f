package models

import "time"

// User is one credential record. Email is unique across the store;
// PasswordHash is a bcrypt digest, never the raw secret.
type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
