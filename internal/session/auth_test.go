package session

import (
	"context"
	"errors"
	"testing"

	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

type fakeAuthAPI struct {
	userRes     *client.UserAuth
	merchantRes *client.MerchantAuth
	err         error
}

func (f *fakeAuthAPI) LoginUser(context.Context, client.LoginRequest) (*client.UserAuth, error) {
	return f.userRes, f.err
}

func (f *fakeAuthAPI) RegisterUser(context.Context, client.RegisterUserRequest) (*client.UserAuth, error) {
	return f.userRes, f.err
}

func (f *fakeAuthAPI) LoginMerchant(context.Context, client.LoginRequest) (*client.MerchantAuth, error) {
	return f.merchantRes, f.err
}

func (f *fakeAuthAPI) RegisterMerchant(context.Context, client.RegisterMerchantRequest) (*client.MerchantAuth, error) {
	return f.merchantRes, f.err
}

func TestAuthenticator_LoginUser(t *testing.T) {
	s, mem := newStore(t)
	api := &fakeAuthAPI{userRes: &client.UserAuth{Token: "t", User: &domain.User{Name: "Ada"}}}
	a := NewAuthenticator(api, s)

	u, err := a.LoginUser(context.Background(), client.LoginRequest{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("LoginUser() error: %v", err)
	}
	if u.Name != "Ada" || s.Current().User == nil {
		t.Errorf("user not recorded: %+v", s.Current())
	}
	if got, _ := mem.Get(context.Background(), KeyToken); got != "t" { //nolint:errcheck
		t.Errorf("stored token = %q", got)
	}
}

func TestAuthenticator_RegisterMerchant(t *testing.T) {
	s, _ := newStore(t)
	api := &fakeAuthAPI{merchantRes: &client.MerchantAuth{Token: "m", Merchant: &domain.Merchant{BusinessName: "Cafe"}}}
	a := NewAuthenticator(api, s)

	if _, err := a.RegisterMerchant(context.Background(), client.RegisterMerchantRequest{}); err != nil {
		t.Fatalf("RegisterMerchant() error: %v", err)
	}
	if snap := s.Current(); snap.Kind != domain.ActorMerchant || snap.Merchant == nil {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestAuthenticator_IncompleteResponse(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeAuthAPI
		call func(a *Authenticator) error
	}{
		{"user without token", &fakeAuthAPI{userRes: &client.UserAuth{User: &domain.User{}}}, func(a *Authenticator) error {
			_, err := a.LoginUser(context.Background(), client.LoginRequest{})
			return err
		}},
		{"user without profile", &fakeAuthAPI{userRes: &client.UserAuth{Token: "t"}}, func(a *Authenticator) error {
			_, err := a.RegisterUser(context.Background(), client.RegisterUserRequest{})
			return err
		}},
		{"merchant response lacks merchant", &fakeAuthAPI{merchantRes: &client.MerchantAuth{Token: "t"}}, func(a *Authenticator) error {
			_, err := a.LoginMerchant(context.Background(), client.LoginRequest{})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem := newStore(t)
			err := tt.call(NewAuthenticator(tt.api, s))
			if !errors.Is(err, ErrIncompleteAuthResponse) {
				t.Errorf("error = %v, want ErrIncompleteAuthResponse", err)
			}
			assertCleared(t, s, mem)
		})
	}
}

func TestAuthenticator_APIErrorPassesThrough(t *testing.T) {
	s, mem := newStore(t)
	apiErr := &client.HTTPError{StatusCode: 401, Message: "Invalid email or password"}
	a := NewAuthenticator(&fakeAuthAPI{err: apiErr}, s)

	_, err := a.LoginUser(context.Background(), client.LoginRequest{})
	if got := client.Detail(err, "Authentication failed"); got != "Invalid email or password" {
		t.Errorf("Detail() = %q", got)
	}
	assertCleared(t, s, mem)
}
