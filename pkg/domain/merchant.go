package domain

import (
	"time"

	"github.com/google/uuid"
)

// Merchant is a business account that publishes buddy discounts.
type Merchant struct {
	ID           uuid.UUID `json:"id"`
	BusinessName string    `json:"business_name"`
	Email        string    `json:"email"`
	BusinessType string    `json:"business_type"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Phone        string    `json:"phone"`
	Description  string    `json:"description"`
	Website      string    `json:"website,omitempty"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// MerchantListing is one row of the near-me discovery list.
type MerchantListing struct {
	Merchant     Merchant `json:"merchant"`
	ActiveOffers []Offer  `json:"active_offers"`
	OffersCount  int      `json:"offers_count"`
}

// BusinessTypes are the merchant categories the backend knows about.
var BusinessTypes = []string{"restaurant", "entertainment", "sports", "events", "retail", "services", "other"}

// ValidBusinessType returns true if t is a known business type.
func ValidBusinessType(t string) bool {
	for _, known := range BusinessTypes {
		if known == t {
			return true
		}
	}
	return false
}
