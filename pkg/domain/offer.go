package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Offer is a merchant discount that applies when a group of buddies visits together.
type Offer struct {
	ID                 uuid.UUID `json:"id"`
	MerchantID         uuid.UUID `json:"merchant_id"`
	MerchantName       string    `json:"merchant_name"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	DiscountPercentage int       `json:"discount_percentage"`
	MinimumBuddies     int       `json:"minimum_buddies"`
	ValidUntil         time.Time `json:"valid_until"`
	TermsConditions    string    `json:"terms_conditions,omitempty"`
	MaxRedemptions     *int      `json:"max_redemptions,omitempty"`
	CurrentRedemptions int       `json:"current_redemptions"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

// Label is the short badge shown next to an offer.
// A zero percentage marks a special (non-percentage) offer.
func (o Offer) Label() string {
	if o.DiscountPercentage > 0 {
		return fmt.Sprintf("%d%% OFF", o.DiscountPercentage)
	}
	return "Special Offer"
}

// IsAvailable reports whether the offer can still be redeemed at t.
func (o Offer) IsAvailable(t time.Time) bool {
	if !o.Active || t.After(o.ValidUntil) {
		return false
	}
	if o.MaxRedemptions != nil && o.CurrentRedemptions >= *o.MaxRedemptions {
		return false
	}
	return true
}
