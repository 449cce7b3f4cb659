package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/findbuddy/pkg/domain"
)

// LoginRequest is the payload for both user and merchant login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserRequest is the payload for creating a user account.
type RegisterUserRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	City      string   `json:"city"`
	Phone     string   `json:"phone"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
}

// RegisterMerchantRequest is the payload for creating a merchant account.
type RegisterMerchantRequest struct {
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessType string `json:"business_type"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
	Description  string `json:"description"`
	Website      string `json:"website,omitempty"`
}

// UserAuth is the response of user login and registration.
type UserAuth struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

// MerchantAuth is the response of merchant login and registration.
type MerchantAuth struct {
	Message  string           `json:"message"`
	Token    string           `json:"token"`
	Merchant *domain.Merchant `json:"merchant"`
}

// RegisterUser creates a user account and returns its first credential.
func (c *Client) RegisterUser(ctx context.Context, req RegisterUserRequest) (*UserAuth, error) {
	var out UserAuth
	if err := c.post(ctx, "/auth/register", req, &out); err != nil {
		return nil, fmt.Errorf("client.RegisterUser: %w", err)
	}
	return &out, nil
}

// LoginUser exchanges user credentials for a token.
func (c *Client) LoginUser(ctx context.Context, req LoginRequest) (*UserAuth, error) {
	var out UserAuth
	if err := c.post(ctx, "/auth/login", req, &out); err != nil {
		return nil, fmt.Errorf("client.LoginUser: %w", err)
	}
	return &out, nil
}

// RegisterMerchant creates a merchant account.
func (c *Client) RegisterMerchant(ctx context.Context, req RegisterMerchantRequest) (*MerchantAuth, error) {
	var out MerchantAuth
	if err := c.post(ctx, "/merchants/register", req, &out); err != nil {
		return nil, fmt.Errorf("client.RegisterMerchant: %w", err)
	}
	return &out, nil
}

// LoginMerchant exchanges merchant credentials for a token.
func (c *Client) LoginMerchant(ctx context.Context, req LoginRequest) (*MerchantAuth, error) {
	var out MerchantAuth
	if err := c.post(ctx, "/merchants/login", req, &out); err != nil {
		return nil, fmt.Errorf("client.LoginMerchant: %w", err)
	}
	return &out, nil
}

// GetMe returns the authenticated user's profile.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// GetMerchantMe returns the authenticated merchant's profile.
func (c *Client) GetMerchantMe(ctx context.Context) (*domain.Merchant, error) {
	var m domain.Merchant
	if err := c.get(ctx, "/merchants/me", &m); err != nil {
		return nil, fmt.Errorf("client.GetMerchantMe: %w", err)
	}
	return &m, nil
}
