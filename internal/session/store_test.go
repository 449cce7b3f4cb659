package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/naveenspark/findbuddy/internal/storage"
	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

type fakeResolver struct {
	user     *domain.User
	merchant *domain.Merchant
	err      error

	userCalls, merchantCalls int
}

func (f *fakeResolver) GetMe(context.Context) (*domain.User, error) {
	f.userCalls++
	return f.user, f.err
}

func (f *fakeResolver) GetMerchantMe(context.Context) (*domain.Merchant, error) {
	f.merchantCalls++
	return f.merchant, f.err
}

// failingBackend fails every write.
type failingBackend struct {
	*storage.Memory
}

func (failingBackend) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

// keyFailingBackend fails writes to one key.
type keyFailingBackend struct {
	*storage.Memory
	key string
}

func (b *keyFailingBackend) Set(ctx context.Context, key, value string) error {
	if key == b.key {
		return errors.New("disk full")
	}
	return b.Memory.Set(ctx, key, value)
}

func newStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return NewStore(mem, zerolog.Nop()), mem
}

func seed(t *testing.T, mem *storage.Memory, token, kind string) {
	t.Helper()
	ctx := context.Background()
	if err := mem.Set(ctx, KeyToken, token); err != nil {
		t.Fatal(err)
	}
	if kind != "" {
		if err := mem.Set(ctx, KeyUserType, kind); err != nil {
			t.Fatal(err)
		}
	}
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     exp.Unix(),
	}).SignedString([]byte("test"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestLogin_ProfilesMutuallyExclusive(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()

	if err := s.LoginUser(ctx, "user-tok", &domain.User{Name: "Ada"}); err != nil {
		t.Fatalf("LoginUser() error: %v", err)
	}
	if err := s.LoginMerchant(ctx, "merchant-tok", &domain.Merchant{BusinessName: "Cafe"}); err != nil {
		t.Fatalf("LoginMerchant() error: %v", err)
	}

	snap := s.Current()
	if snap.User != nil {
		t.Error("User should be cleared after merchant login")
	}
	if snap.Merchant == nil || snap.Merchant.BusinessName != "Cafe" {
		t.Errorf("Merchant = %+v", snap.Merchant)
	}
	if snap.Kind != domain.ActorMerchant || snap.State != StateLoggedIn {
		t.Errorf("Kind/State = %v/%v", snap.Kind, snap.State)
	}
	if got, _ := mem.Get(ctx, KeyUserType); got != "merchant" { //nolint:errcheck
		t.Errorf("stored userType = %q, want merchant", got)
	}

	if err := s.LoginUser(ctx, "user-tok-2", &domain.User{Name: "Bo"}); err != nil {
		t.Fatalf("LoginUser() error: %v", err)
	}
	snap = s.Current()
	if snap.Merchant != nil || snap.User == nil {
		t.Errorf("after user login: User=%v Merchant=%v", snap.User, snap.Merchant)
	}
	if s.Token() != "user-tok-2" {
		t.Errorf("Token() = %q", s.Token())
	}
}

func TestLogin_RejectsIncomplete(t *testing.T) {
	s, mem := newStore(t)
	err := s.LoginUser(context.Background(), "", &domain.User{})
	if !errors.Is(err, ErrIncompleteAuthResponse) {
		t.Errorf("error = %v, want ErrIncompleteAuthResponse", err)
	}
	err = s.LoginMerchant(context.Background(), "tok", nil)
	if !errors.Is(err, ErrIncompleteAuthResponse) {
		t.Errorf("error = %v, want ErrIncompleteAuthResponse", err)
	}
	if s.Current().State != StateLoggedOut || mem.Len() != 0 {
		t.Error("store should stay logged out with empty storage")
	}
}

func TestLogin_StorageFailureLeavesMemory(t *testing.T) {
	s := NewStore(failingBackend{storage.NewMemory()}, zerolog.Nop())
	err := s.LoginUser(context.Background(), "tok", &domain.User{Name: "Ada"})
	if err == nil {
		t.Fatal("expected storage error")
	}
	if snap := s.Current(); snap.State != StateLoggedOut || snap.Token != "" {
		t.Errorf("snapshot = %+v, want untouched logged-out session", snap)
	}
}

func TestLogin_MarkerWriteFailureKeepsStorageInStep(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	backend := &keyFailingBackend{Memory: mem}
	s := NewStore(backend, zerolog.Nop())

	if err := s.LoginMerchant(ctx, "merchant-tok", &domain.Merchant{BusinessName: "Cafe"}); err != nil {
		t.Fatal(err)
	}
	backend.key = KeyUserType
	if err := s.LoginUser(ctx, "user-tok", &domain.User{Name: "Ada"}); err == nil {
		t.Fatal("expected marker write error")
	}

	snap := s.Current()
	if snap.Token != "merchant-tok" || snap.Kind != domain.ActorMerchant {
		t.Errorf("memory = (%q, %v), want merchant session", snap.Token, snap.Kind)
	}
	tok, _ := mem.Get(ctx, KeyToken)
	kind, _ := mem.Get(ctx, KeyUserType)
	if tok != "merchant-tok" || kind != domain.ActorMerchant.String() {
		t.Errorf("storage = (%q, %q), want (merchant-tok, merchant)", tok, kind)
	}
}

func TestLogin_MarkerWriteFailureOnEmptyStorage(t *testing.T) {
	mem := storage.NewMemory()
	s := NewStore(&keyFailingBackend{Memory: mem, key: KeyUserType}, zerolog.Nop())

	if err := s.LoginUser(context.Background(), "user-tok", &domain.User{Name: "Ada"}); err == nil {
		t.Fatal("expected marker write error")
	}
	if mem.Len() != 0 {
		t.Errorf("storage holds %d keys, want none", mem.Len())
	}
	if s.Current().State != StateLoggedOut {
		t.Errorf("state = %v, want logged out", s.Current().State)
	}
}

func TestRestore_NoToken(t *testing.T) {
	s, _ := newStore(t)
	r := &fakeResolver{}
	if err := s.Restore(context.Background(), r); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if r.userCalls+r.merchantCalls != 0 {
		t.Error("resolver should not be called without a token")
	}
	if s.Current().State != StateLoggedOut {
		t.Errorf("State = %v", s.Current().State)
	}
}

func TestRestore_Success(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		wantKind domain.ActorKind
	}{
		{"user", "user", domain.ActorUser},
		{"merchant", "merchant", domain.ActorMerchant},
		{"missing marker defaults to user", "", domain.ActorUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem := newStore(t)
			seed(t, mem, "opaque-token", tt.kind)
			r := &fakeResolver{user: &domain.User{Name: "Ada"}, merchant: &domain.Merchant{BusinessName: "Cafe"}}

			if err := s.Restore(context.Background(), r); err != nil {
				t.Fatalf("Restore() error: %v", err)
			}
			snap := s.Current()
			if snap.State != StateLoggedIn || snap.Kind != tt.wantKind {
				t.Errorf("State/Kind = %v/%v", snap.State, snap.Kind)
			}
			if (snap.User != nil) == (snap.Merchant != nil) {
				t.Errorf("exactly one profile expected: User=%v Merchant=%v", snap.User, snap.Merchant)
			}
			if snap.Token != "opaque-token" {
				t.Errorf("Token = %q", snap.Token)
			}

			// Idempotent.
			if err := s.Restore(context.Background(), r); err != nil {
				t.Fatalf("second Restore() error: %v", err)
			}
			if r.userCalls+r.merchantCalls != 1 {
				t.Errorf("resolver calls = %d, want 1", r.userCalls+r.merchantCalls)
			}
		})
	}
}

func TestRestore_RejectedCredentialClearsEverything(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		handler http.HandlerFunc
	}{
		{"unauthorized user", "user", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid token"}) //nolint:errcheck
		}},
		{"unauthorized merchant", "merchant", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Merchant not found"}) //nolint:errcheck
		}},
		{"server error", "user", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", "user", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("{not json")) //nolint:errcheck
		}},
		{"proxy error page", "merchant", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>bad gateway</html>")) //nolint:errcheck
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			s, mem := newStore(t)
			seed(t, mem, "stale-token", tt.kind)
			c := client.New(srv.URL, s)

			err := s.Restore(context.Background(), c)
			if !errors.Is(err, ErrSessionInvalid) {
				t.Fatalf("Restore() error = %v, want ErrSessionInvalid", err)
			}
			assertCleared(t, s, mem)
		})
	}
}

func TestRestore_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, mem := newStore(t)
	seed(t, mem, "tok", "user")
	err := s.Restore(context.Background(), client.New(url, s))
	if !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("Restore() error = %v, want ErrSessionInvalid", err)
	}
	assertCleared(t, s, mem)
}

func TestRestore_UnknownMarker(t *testing.T) {
	s, mem := newStore(t)
	seed(t, mem, "tok", "admin")
	r := &fakeResolver{user: &domain.User{}}
	if err := s.Restore(context.Background(), r); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("Restore() error = %v, want ErrSessionInvalid", err)
	}
	if r.userCalls+r.merchantCalls != 0 {
		t.Error("resolver should not be called for an unknown marker")
	}
	assertCleared(t, s, mem)
}

func TestRestore_ExpiredJWTSkipsNetwork(t *testing.T) {
	s, mem := newStore(t)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	seed(t, mem, signed(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)), "user")
	r := &fakeResolver{user: &domain.User{}}

	err := s.Restore(context.Background(), r)
	if !errors.Is(err, ErrSessionInvalid) || !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Restore() error = %v, want ErrSessionInvalid wrapping ErrTokenExpired", err)
	}
	if r.userCalls != 0 {
		t.Error("expired token should not reach the backend")
	}
	assertCleared(t, s, mem)
}

func TestRestore_UnexpiredJWTResolves(t *testing.T) {
	s, mem := newStore(t)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	seed(t, mem, signed(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)), "user")
	r := &fakeResolver{user: &domain.User{Name: "Ada"}}

	if err := s.Restore(context.Background(), r); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if r.userCalls != 1 {
		t.Errorf("userCalls = %d, want 1", r.userCalls)
	}
}

func TestLogout_ClearsKeysAndHeader(t *testing.T) {
	for _, kind := range []domain.ActorKind{domain.ActorUser, domain.ActorMerchant} {
		t.Run(kind.String(), func(t *testing.T) {
			var (
				mu   sync.Mutex
				auth []string
			)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				auth = append(auth, r.Header.Get("Authorization"))
				mu.Unlock()
				json.NewEncoder(w).Encode(map[string]any{"activities": []any{}, "total_count": 0}) //nolint:errcheck
			}))
			defer srv.Close()

			s, mem := newStore(t)
			ctx := context.Background()
			var err error
			if kind == domain.ActorUser {
				err = s.LoginUser(ctx, "tok-"+kind.String(), &domain.User{})
			} else {
				err = s.LoginMerchant(ctx, "tok-"+kind.String(), &domain.Merchant{})
			}
			if err != nil {
				t.Fatalf("login error: %v", err)
			}

			c := client.New(srv.URL, s)
			if _, err := c.ListActivities(ctx); err != nil {
				t.Fatal(err)
			}
			if err := s.Logout(ctx); err != nil {
				t.Fatalf("Logout() error: %v", err)
			}
			if _, err := c.ListActivities(ctx); err != nil {
				t.Fatal(err)
			}

			assertCleared(t, s, mem)
			mu.Lock()
			defer mu.Unlock()
			if auth[0] != "Bearer tok-"+kind.String() {
				t.Errorf("Authorization before logout = %q", auth[0])
			}
			if auth[1] != "" {
				t.Errorf("Authorization after logout = %q, want empty", auth[1])
			}
		})
	}
}

func TestToken_ConcurrentReads(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tok := s.Token()
				if tok != "" && tok != "a" && tok != "b" {
					t.Errorf("torn token %q", tok)
				}
			}
		}()
	}
	for j := 0; j < 50; j++ {
		s.LoginUser(ctx, "a", &domain.User{})         //nolint:errcheck
		s.LoginMerchant(ctx, "b", &domain.Merchant{}) //nolint:errcheck
		s.Logout(ctx)                                 //nolint:errcheck
	}
	wg.Wait()
}

func assertCleared(t *testing.T, s *Store, mem *storage.Memory) {
	t.Helper()
	snap := s.Current()
	if snap.State != StateLoggedOut {
		t.Errorf("State = %v, want logged_out", snap.State)
	}
	if snap.Token != "" || snap.User != nil || snap.Merchant != nil {
		t.Errorf("memory not cleared: %+v", snap)
	}
	if mem.Len() != 0 {
		t.Errorf("storage holds %d keys, want 0", mem.Len())
	}
}
