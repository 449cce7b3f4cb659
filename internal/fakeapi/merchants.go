package fakeapi

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/naveenspark/findbuddy/pkg/domain"
)

type registerMerchantRequest struct {
	BusinessName string `json:"business_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	BusinessType string `json:"business_type" validate:"required"`
	Address      string `json:"address" validate:"required"`
	City         string `json:"city" validate:"required"`
	Phone        string `json:"phone"`
	Description  string `json:"description"`
	Website      string `json:"website"`
}

type merchantAuthResponse struct {
	Message  string          `json:"message"`
	Token    string          `json:"token"`
	Merchant domain.Merchant `json:"merchant"`
}

type createOfferRequest struct {
	Title              string    `json:"title" validate:"required"`
	Description        string    `json:"description" validate:"required"`
	DiscountPercentage int       `json:"discount_percentage" validate:"gte=0,lte=100"`
	MinimumBuddies     int       `json:"minimum_buddies" validate:"gte=1"`
	ValidUntil         time.Time `json:"valid_until" validate:"required"`
	TermsConditions    string    `json:"terms_conditions"`
	MaxRedemptions     *int      `json:"max_redemptions" validate:"omitempty,gte=1"`
}

func (s *Server) registerMerchant(c echo.Context) error {
	var req registerMerchantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	businessType := strings.ToLower(strings.TrimSpace(req.BusinessType))
	if !domain.ValidBusinessType(businessType) {
		return detail(http.StatusUnprocessableEntity, "business_type must be one of: "+strings.Join(domain.BusinessTypes, ", "))
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.merchantByEmail(req.Email) != nil {
		s.mu.Unlock()
		return detail(http.StatusBadRequest, "Email already registered")
	}
	m := &merchantRecord{
		Merchant: domain.Merchant{
			ID:           uuid.New(),
			BusinessName: req.BusinessName,
			Email:        req.Email,
			BusinessType: businessType,
			Address:      req.Address,
			City:         req.City,
			Phone:        req.Phone,
			Description:  req.Description,
			Website:      req.Website,
			CreatedAt:    s.now().UTC(),
		},
		passwordHash: hash,
	}
	s.merchants[m.ID] = m
	s.mu.Unlock()

	token, err := s.issueToken(claimMerchant, m.ID)
	if err != nil {
		return err
	}
	s.log.Info().Str("merchant_id", m.ID.String()).Msg("merchant registered")
	return c.JSON(http.StatusOK, merchantAuthResponse{Message: "Merchant registered successfully", Token: token, Merchant: m.Merchant})
}

func (s *Server) loginMerchant(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s.mu.RLock()
	m := s.merchantByEmail(req.Email)
	s.mu.RUnlock()
	if m == nil || bcrypt.CompareHashAndPassword(m.passwordHash, []byte(req.Password)) != nil {
		return detail(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := s.issueToken(claimMerchant, m.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, merchantAuthResponse{Message: "Login successful", Token: token, Merchant: m.Merchant})
}

func (s *Server) merchantMe(c echo.Context) error {
	return c.JSON(http.StatusOK, currentMerchant(c).Merchant)
}

func (s *Server) createOffer(c echo.Context) error {
	var req createOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	now := s.now()
	if !req.ValidUntil.After(now) {
		return detail(http.StatusBadRequest, "valid_until must be in the future")
	}
	m := currentMerchant(c)

	o := &domain.Offer{
		ID:                 uuid.New(),
		MerchantID:         m.ID,
		MerchantName:       m.BusinessName,
		Title:              req.Title,
		Description:        req.Description,
		DiscountPercentage: req.DiscountPercentage,
		MinimumBuddies:     req.MinimumBuddies,
		ValidUntil:         req.ValidUntil.UTC(),
		TermsConditions:    req.TermsConditions,
		MaxRedemptions:     req.MaxRedemptions,
		Active:             true,
		CreatedAt:          now.UTC(),
	}
	s.mu.Lock()
	s.offers[o.ID] = o
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"message": "Offer created successfully", "offer": o})
}

// allOffers lists every offer that can still be redeemed.
func (s *Server) allOffers(c echo.Context) error {
	now := s.now()
	s.mu.RLock()
	out := s.availableOffers(now, func(*domain.Offer) bool { return true })
	s.mu.RUnlock()
	return c.JSON(http.StatusOK, map[string]any{"discounts": out})
}

// nearMe lists merchants with their redeemable offers. business_type
// matches either the merchant category or its city; without it the
// caller's city is used.
func (s *Server) nearMe(c echo.Context) error {
	filter := strings.TrimSpace(c.QueryParam("business_type"))
	city := currentUser(c).City
	match := func(m *merchantRecord) bool {
		if filter == "" {
			return strings.EqualFold(m.City, city)
		}
		return strings.EqualFold(m.BusinessType, filter) || strings.EqualFold(m.City, filter)
	}
	now := s.now()

	s.mu.RLock()
	out := make([]domain.MerchantListing, 0)
	for _, m := range s.merchants {
		if !match(m) {
			continue
		}
		id := m.ID
		offers := s.availableOffers(now, func(o *domain.Offer) bool { return o.MerchantID == id })
		out = append(out, domain.MerchantListing{Merchant: m.Merchant, ActiveOffers: offers, OffersCount: len(offers)})
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Merchant.BusinessName < out[j].Merchant.BusinessName })
	return c.JSON(http.StatusOK, map[string]any{"merchants": out})
}

// availableOffers must be called with s.mu held.
func (s *Server) availableOffers(now time.Time, keep func(*domain.Offer) bool) []domain.Offer {
	out := make([]domain.Offer, 0)
	for _, o := range s.offers {
		if o.IsAvailable(now) && keep(o) {
			out = append(out, *o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ValidUntil.Before(out[j].ValidUntil) })
	return out
}

// merchantByEmail must be called with s.mu held.
func (s *Server) merchantByEmail(email string) *merchantRecord {
	for _, m := range s.merchants {
		if strings.EqualFold(m.Email, email) {
			return m
		}
	}
	return nil
}
