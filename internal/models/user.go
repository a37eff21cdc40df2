package models

import "time"

// User captures application-facing fields for an authenticated identity.
// Email is unique and never changes after registration.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
