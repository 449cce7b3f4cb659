// Package session owns the credential and the resolved profile of the
// current actor, and keeps them in sync with durable storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/naveenspark/findbuddy/internal/storage"
	"github.com/naveenspark/findbuddy/internal/telemetry"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

// Durable storage keys.
const (
	KeyToken    = "token"
	KeyUserType = "userType"
)

var (
	// ErrSessionInvalid means the stored credential was rejected and the
	// session has been cleared.
	ErrSessionInvalid = errors.New("session invalid")
	// ErrIncompleteAuthResponse means a login or register response lacked the
	// token or the expected profile.
	ErrIncompleteAuthResponse = errors.New("auth response missing token or profile")
	// ErrTokenExpired is the cause recorded when a stored JWT is already past
	// its exp claim.
	ErrTokenExpired = errors.New("stored token expired")
)

// Resolver fetches the profile that belongs to the current credential.
type Resolver interface {
	GetMe(ctx context.Context) (*domain.User, error)
	GetMerchantMe(ctx context.Context) (*domain.Merchant, error)
}

// Store is the single owner of session state. Reads and writes are guarded
// by an RWMutex so readers see either the old or the new session, never a
// mix of both.
type Store struct {
	mu      sync.RWMutex
	snap    Snapshot
	backend storage.Backend
	log     zerolog.Logger
	now     func() time.Time
}

// NewStore returns a logged-out store persisting to backend.
func NewStore(backend storage.Backend, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log.With().Str("component", "session").Logger(),
		now:     time.Now,
	}
}

// Current returns a copy of the session.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Token implements client.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token
}

// LoginUser records a user session. Storage is written first; if that fails
// the in-memory session is left as it was.
func (s *Store) LoginUser(ctx context.Context, token string, u *domain.User) error {
	if token == "" || u == nil {
		return fmt.Errorf("session.LoginUser: %w", ErrIncompleteAuthResponse)
	}
	if err := s.persist(ctx, token, domain.ActorUser); err != nil {
		return fmt.Errorf("session.LoginUser: %w", err)
	}
	s.mu.Lock()
	s.replace(Snapshot{Token: token, Kind: domain.ActorUser, User: u}, StateLoggedIn)
	s.mu.Unlock()
	return nil
}

// LoginMerchant records a merchant session.
func (s *Store) LoginMerchant(ctx context.Context, token string, m *domain.Merchant) error {
	if token == "" || m == nil {
		return fmt.Errorf("session.LoginMerchant: %w", ErrIncompleteAuthResponse)
	}
	if err := s.persist(ctx, token, domain.ActorMerchant); err != nil {
		return fmt.Errorf("session.LoginMerchant: %w", err)
	}
	s.mu.Lock()
	s.replace(Snapshot{Token: token, Kind: domain.ActorMerchant, Merchant: m}, StateLoggedIn)
	s.mu.Unlock()
	return nil
}

// Logout clears memory first, so no further request carries the credential,
// then removes both durable keys.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.replace(Snapshot{}, StateLoggedOut)
	s.mu.Unlock()

	if err := s.backend.Delete(ctx, KeyToken, KeyUserType); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	return nil
}

// Restore rebuilds the session from durable storage. A missing token leaves
// the store logged out and returns nil. Any failure to resolve the stored
// credential clears the session and returns an error wrapping
// ErrSessionInvalid. There is no retry.
func (s *Store) Restore(ctx context.Context, r Resolver) error {
	if s.Current().State == StateLoggedIn {
		return nil
	}

	token, err := s.backend.Get(ctx, KeyToken)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && token == "") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session.Restore: read token: %w", err)
	}

	kind := domain.ActorUser
	marker, err := s.backend.Get(ctx, KeyUserType)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Older sessions only stored the token; they were always users.
	case err != nil:
		return s.invalidate(ctx, fmt.Errorf("read actor kind: %w", err))
	default:
		if kind, err = domain.ParseActorKind(marker); err != nil {
			return s.invalidate(ctx, err)
		}
	}

	if expired(token, s.now()) {
		return s.invalidate(ctx, ErrTokenExpired)
	}

	s.mu.Lock()
	s.replace(Snapshot{Token: token, Kind: kind}, StateResolving)
	s.mu.Unlock()

	switch kind {
	case domain.ActorMerchant:
		m, err := r.GetMerchantMe(ctx)
		if err == nil && m == nil {
			err = errors.New("empty merchant profile")
		}
		if err != nil {
			return s.invalidate(ctx, err)
		}
		s.resolved(token, func(snap *Snapshot) { snap.Merchant = m })
	default:
		u, err := r.GetMe(ctx)
		if err == nil && u == nil {
			err = errors.New("empty user profile")
		}
		if err != nil {
			return s.invalidate(ctx, err)
		}
		s.resolved(token, func(snap *Snapshot) { snap.User = u })
	}
	return nil
}

// resolved completes a Resolving session unless a login or logout replaced
// it while the profile fetch was in flight.
func (s *Store) resolved(token string, set func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.State != StateResolving || s.snap.Token != token {
		return
	}
	next := s.snap
	set(&next)
	s.replace(next, StateLoggedIn)
}

func (s *Store) invalidate(ctx context.Context, cause error) error {
	s.mu.Lock()
	s.replace(Snapshot{Kind: s.snap.Kind}, StateInvalid)
	s.replace(Snapshot{}, StateLoggedOut)
	s.mu.Unlock()

	s.log.Warn().Err(cause).Msg("stored session rejected")

	err := fmt.Errorf("session.Restore: %w: %w", ErrSessionInvalid, cause)
	if delErr := s.backend.Delete(ctx, KeyToken, KeyUserType); delErr != nil {
		return errors.Join(err, fmt.Errorf("clear storage: %w", delErr))
	}
	return err
}

// persist writes the credential and the actor-kind marker. A failed marker
// write puts the previous token back so storage keeps matching memory.
func (s *Store) persist(ctx context.Context, token string, kind domain.ActorKind) error {
	prev, prevErr := s.backend.Get(ctx, KeyToken)
	if prevErr != nil && !errors.Is(prevErr, storage.ErrNotFound) {
		return fmt.Errorf("persist token: read previous: %w", prevErr)
	}
	if err := s.backend.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.backend.Set(ctx, KeyUserType, kind.String()); err != nil {
		err = fmt.Errorf("persist actor kind: %w", err)
		var rbErr error
		if prevErr == nil {
			rbErr = s.backend.Set(ctx, KeyToken, prev)
		} else {
			rbErr = s.backend.Delete(ctx, KeyToken)
		}
		if rbErr != nil {
			return errors.Join(err, fmt.Errorf("restore previous token: %w", rbErr))
		}
		return err
	}
	return nil
}

// replace swaps in next with state to. Callers hold mu.
func (s *Store) replace(next Snapshot, to State) {
	from := s.snap.State
	next.State = to
	s.snap = next
	telemetry.SessionTransitionsTotal.WithLabelValues(to.String()).Inc()
	s.log.Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Str("kind", next.Kind.String()).
		Msg("session transition")
}

// expired reports whether token is a JWT whose exp claim is before now.
// The signature is not checked; only the backend can do that. Opaque tokens
// are never considered expired.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
