package fakeapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	claimUser     = "user_id"
	claimMerchant = "merchant_id"

	ctxUser     = "user"
	ctxMerchant = "merchant"
)

// issueToken signs a token carrying the account id under claim.
func (s *Server) issueToken(claim string, id uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		claim: id.String(),
		"exp": s.now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// bearerClaims validates the Authorization header and returns the claims.
func (s *Server) bearerClaims(c echo.Context) (jwt.MapClaims, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, detail(http.StatusForbidden, "Not authenticated")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, detail(http.StatusForbidden, "Not authenticated")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, detail(http.StatusUnauthorized, "Token expired")
	}
	if err != nil || !tkn.Valid {
		return nil, detail(http.StatusUnauthorized, "Invalid token")
	}
	return claims, nil
}

func claimID(claims jwt.MapClaims, key string) (uuid.UUID, bool) {
	raw, _ := claims[key].(string)
	id, err := uuid.Parse(raw)
	return id, err == nil
}

func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := s.bearerClaims(c)
		if err != nil {
			return err
		}
		id, ok := claimID(claims, claimUser)
		if !ok {
			return detail(http.StatusUnauthorized, "Invalid token")
		}
		s.mu.RLock()
		u, found := s.users[id]
		s.mu.RUnlock()
		if !found {
			return detail(http.StatusUnauthorized, "User not found")
		}
		c.Set(ctxUser, u)
		return next(c)
	}
}

func (s *Server) requireMerchant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := s.bearerClaims(c)
		if err != nil {
			return err
		}
		id, ok := claimID(claims, claimMerchant)
		if !ok {
			return detail(http.StatusUnauthorized, "Invalid token")
		}
		s.mu.RLock()
		m, found := s.merchants[id]
		s.mu.RUnlock()
		if !found {
			return detail(http.StatusUnauthorized, "Merchant not found")
		}
		c.Set(ctxMerchant, m)
		return next(c)
	}
}

func currentUser(c echo.Context) *userRecord {
	u, _ := c.Get(ctxUser).(*userRecord)
	return u
}

func currentMerchant(c echo.Context) *merchantRecord {
	m, _ := c.Get(ctxMerchant).(*merchantRecord)
	return m
}
