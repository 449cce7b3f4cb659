package fakeapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/naveenspark/findbuddy/pkg/domain"
)

type registerUserRequest struct {
	Name      string   `json:"name" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required"`
	City      string   `json:"city" validate:"required"`
	Phone     string   `json:"phone"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userAuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

func (s *Server) registerUser(c echo.Context) error {
	var req registerUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		return err
	}
	if req.Interests == nil {
		req.Interests = []string{}
	}

	s.mu.Lock()
	if s.userByEmail(req.Email) != nil {
		s.mu.Unlock()
		return detail(http.StatusBadRequest, "Email already registered")
	}
	u := &userRecord{
		User: domain.User{
			ID:        uuid.New(),
			Name:      req.Name,
			Email:     req.Email,
			City:      req.City,
			Phone:     req.Phone,
			Bio:       req.Bio,
			Interests: req.Interests,
			CreatedAt: s.now().UTC(),
		},
		passwordHash: hash,
	}
	s.users[u.ID] = u
	s.mu.Unlock()

	token, err := s.issueToken(claimUser, u.ID)
	if err != nil {
		return err
	}
	s.log.Info().Str("user_id", u.ID.String()).Msg("user registered")
	return c.JSON(http.StatusOK, userAuthResponse{Message: "User registered successfully", Token: token, User: u.User})
}

func (s *Server) loginUser(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s.mu.RLock()
	u := s.userByEmail(req.Email)
	s.mu.RUnlock()
	if u == nil || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		return detail(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := s.issueToken(claimUser, u.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userAuthResponse{Message: "Login successful", Token: token, User: u.User})
}

func (s *Server) me(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c).User)
}

// userByEmail must be called with s.mu held.
func (s *Server) userByEmail(email string) *userRecord {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}
