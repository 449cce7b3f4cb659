package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a scheduled, location-bound event that buddies can join.
type Activity struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Date            time.Time   `json:"date"`
	Location        string      `json:"location"`
	City            string      `json:"city"`
	Latitude        *float64    `json:"latitude"`
	Longitude       *float64    `json:"longitude"`
	MaxParticipants *int        `json:"max_participants"`
	Category        string      `json:"category"`
	Interests       []string    `json:"interests"`
	CreatorID       uuid.UUID   `json:"creator_id"`
	CreatorName     string      `json:"creator_name"`
	Participants    []uuid.UUID `json:"participants"`
	InterestedUsers []uuid.UUID `json:"interested_users"`
	CreatedAt       time.Time   `json:"created_at"`
}

// HasParticipant reports whether id already joined the activity.
func (a Activity) HasParticipant(id uuid.UUID) bool {
	for _, p := range a.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// IsFull reports whether the participant cap has been reached.
// Activities without a cap are never full.
func (a Activity) IsFull() bool {
	return a.MaxParticipants != nil && len(a.Participants) >= *a.MaxParticipants
}

// SpotsLeft returns the remaining capacity, or -1 when uncapped.
func (a Activity) SpotsLeft() int {
	if a.MaxParticipants == nil {
		return -1
	}
	left := *a.MaxParticipants - len(a.Participants)
	if left < 0 {
		return 0
	}
	return left
}

// MyActivities splits the caller's activities into organised and attended.
type MyActivities struct {
	Created []Activity `json:"created_activities"`
	Joined  []Activity `json:"joined_activities"`
}

// Categories are the activity categories offered by the create form.
var Categories = []string{
	"Professional", "Business", "Technology", "Education",
	"Leadership", "Sales", "Design", "Finance", "Other",
}

// ValidCategory returns true if c is a known category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}
