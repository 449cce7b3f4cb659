package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/naveenspark/findbuddy/pkg/domain"
)

// MerchantsNearMe lists merchants with their active offers. A non-empty
// businessType narrows the list to that category.
func (c *Client) MerchantsNearMe(ctx context.Context, businessType string) ([]domain.MerchantListing, error) {
	path := "/merchants/near-me"
	if businessType != "" {
		params := url.Values{}
		params.Set("business_type", businessType)
		path += "?" + params.Encode()
	}

	var out struct {
		Merchants []domain.MerchantListing `json:"merchants"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("client.MerchantsNearMe: %w", err)
	}
	return out.Merchants, nil
}

// CreateOfferRequest is the payload a merchant sends to publish a discount.
type CreateOfferRequest struct {
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	DiscountPercentage int       `json:"discount_percentage"`
	MinimumBuddies     int       `json:"minimum_buddies"`
	ValidUntil         time.Time `json:"valid_until"`
	TermsConditions    string    `json:"terms_conditions,omitempty"`
	MaxRedemptions     *int      `json:"max_redemptions"`
}

// CreateOffer publishes a discount for the calling merchant.
func (c *Client) CreateOffer(ctx context.Context, req CreateOfferRequest) (*domain.Offer, error) {
	var out struct {
		Offer domain.Offer `json:"offer"`
	}
	if err := c.post(ctx, "/merchants/discounts", req, &out); err != nil {
		return nil, fmt.Errorf("client.CreateOffer: %w", err)
	}
	return &out.Offer, nil
}

// AllOffers lists every discount that can still be redeemed.
func (c *Client) AllOffers(ctx context.Context) ([]domain.Offer, error) {
	var out struct {
		Discounts []domain.Offer `json:"discounts"`
	}
	if err := c.get(ctx, "/discounts/all", &out); err != nil {
		return nil, fmt.Errorf("client.AllOffers: %w", err)
	}
	return out.Discounts, nil
}
