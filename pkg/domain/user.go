package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an end-user account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	City         string    `json:"city"`
	Phone        string    `json:"phone"`
	Bio          string    `json:"bio"`
	Interests    []string  `json:"interests"`
	CreatedAt    time.Time `json:"created_at"`
	ProfilePhoto *string   `json:"profile_photo,omitempty"`
}
