// Package fakeapi is an in-memory implementation of the FindBuddy HTTP API.
// It backs `findbuddy dev-server` and the end-to-end tests; it keeps only the
// client-facing contract and stores nothing on disk.
package fakeapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/naveenspark/findbuddy/pkg/domain"
)

const tokenTTL = 24 * time.Hour

// Options configures a Server.
type Options struct {
	// Secret signs the HS256 tokens.
	Secret string
	// BcryptCost defaults to bcrypt.DefaultCost; tests pass bcrypt.MinCost.
	BcryptCost int
	Logger     zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type userRecord struct {
	domain.User
	passwordHash []byte
}

type merchantRecord struct {
	domain.Merchant
	passwordHash []byte
}

// Server holds all backend state behind one mutex.
type Server struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*userRecord
	merchants  map[uuid.UUID]*merchantRecord
	activities map[uuid.UUID]*domain.Activity
	offers     map[uuid.UUID]*domain.Offer
	likes      map[uuid.UUID]map[uuid.UUID]struct{}
	comments   map[uuid.UUID][]domain.Comment

	secret []byte
	cost   int
	now    func() time.Time
	log    zerolog.Logger

	registry *prometheus.Registry
	echo     *echo.Echo
}

// New returns an empty server with its routes registered.
func New(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = "findbuddy-dev-secret"
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{
		users:      make(map[uuid.UUID]*userRecord),
		merchants:  make(map[uuid.UUID]*merchantRecord),
		activities: make(map[uuid.UUID]*domain.Activity),
		offers:     make(map[uuid.UUID]*domain.Offer),
		likes:      make(map[uuid.UUID]map[uuid.UUID]struct{}),
		comments:   make(map[uuid.UUID][]domain.Comment),
		secret:     []byte(opts.Secret),
		cost:       opts.BcryptCost,
		now:        opts.Now,
		log:        opts.Logger.With().Str("component", "fakeapi").Logger(),
		registry:   prometheus.NewRegistry(),
	}
	s.echo = s.newRouter()
	return s
}

// ServeHTTP lets the Server be mounted directly or wrapped in httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Echo exposes the underlying router, e.g. for Start/Shutdown.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), s.cost)
}
