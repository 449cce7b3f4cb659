package session

import (
	"context"
	"fmt"

	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

// AuthAPI is the slice of the API client the Authenticator needs.
type AuthAPI interface {
	LoginUser(ctx context.Context, req client.LoginRequest) (*client.UserAuth, error)
	RegisterUser(ctx context.Context, req client.RegisterUserRequest) (*client.UserAuth, error)
	LoginMerchant(ctx context.Context, req client.LoginRequest) (*client.MerchantAuth, error)
	RegisterMerchant(ctx context.Context, req client.RegisterMerchantRequest) (*client.MerchantAuth, error)
}

// Authenticator runs a login or registration against the API and, on
// success, records the resulting session in the Store.
type Authenticator struct {
	api   AuthAPI
	store *Store
}

func NewAuthenticator(api AuthAPI, store *Store) *Authenticator {
	return &Authenticator{api: api, store: store}
}

func (a *Authenticator) LoginUser(ctx context.Context, req client.LoginRequest) (*domain.User, error) {
	res, err := a.api.LoginUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.acceptUser(ctx, res)
}

func (a *Authenticator) RegisterUser(ctx context.Context, req client.RegisterUserRequest) (*domain.User, error) {
	res, err := a.api.RegisterUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.acceptUser(ctx, res)
}

func (a *Authenticator) LoginMerchant(ctx context.Context, req client.LoginRequest) (*domain.Merchant, error) {
	res, err := a.api.LoginMerchant(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.acceptMerchant(ctx, res)
}

func (a *Authenticator) RegisterMerchant(ctx context.Context, req client.RegisterMerchantRequest) (*domain.Merchant, error) {
	res, err := a.api.RegisterMerchant(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.acceptMerchant(ctx, res)
}

func (a *Authenticator) acceptUser(ctx context.Context, res *client.UserAuth) (*domain.User, error) {
	if res == nil || res.Token == "" || res.User == nil {
		return nil, fmt.Errorf("session.Authenticator: %w", ErrIncompleteAuthResponse)
	}
	if err := a.store.LoginUser(ctx, res.Token, res.User); err != nil {
		return nil, err
	}
	return res.User, nil
}

func (a *Authenticator) acceptMerchant(ctx context.Context, res *client.MerchantAuth) (*domain.Merchant, error) {
	if res == nil || res.Token == "" || res.Merchant == nil {
		return nil, fmt.Errorf("session.Authenticator: %w", ErrIncompleteAuthResponse)
	}
	if err := a.store.LoginMerchant(ctx, res.Token, res.Merchant); err != nil {
		return nil, err
	}
	return res.Merchant, nil
}
