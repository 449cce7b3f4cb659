package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a comment on an activity.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	ActivityID uuid.UUID `json:"activity_id"`
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// LikeState is the like counter of an activity as seen by the caller.
type LikeState struct {
	Count int  `json:"like_count"`
	Liked bool `json:"liked"`
}
