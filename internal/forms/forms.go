package forms

import (
	"fmt"
	"strings"
	"time"

	"github.com/naveenspark/findbuddy/pkg/client"
)

// LoginForm is shared by user and merchant login.
type LoginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func (f LoginForm) Build() (client.LoginRequest, error) {
	f.Email = strings.TrimSpace(f.Email)
	if err := Struct(f); err != nil {
		return client.LoginRequest{}, err
	}
	return client.LoginRequest{Email: f.Email, Password: f.Password}, nil
}

// UserRegistrationForm holds the raw text of the user sign-up form.
type UserRegistrationForm struct {
	Name      string `form:"name"     validate:"required"`
	Email     string `form:"email"    validate:"required,email"`
	Password  string `form:"password" validate:"required,min=6"`
	City      string `form:"city"     validate:"required"`
	Phone     string `form:"phone"    validate:"required"`
	Bio       string `form:"bio"`
	Interests string `form:"interests"`
}

func (f UserRegistrationForm) Build() (client.RegisterUserRequest, error) {
	f = UserRegistrationForm{
		Name:      strings.TrimSpace(f.Name),
		Email:     strings.TrimSpace(f.Email),
		Password:  f.Password,
		City:      strings.TrimSpace(f.City),
		Phone:     strings.TrimSpace(f.Phone),
		Bio:       strings.TrimSpace(f.Bio),
		Interests: f.Interests,
	}
	if err := Struct(f); err != nil {
		return client.RegisterUserRequest{}, err
	}
	return client.RegisterUserRequest{
		Name:      f.Name,
		Email:     f.Email,
		Password:  f.Password,
		City:      f.City,
		Phone:     f.Phone,
		Bio:       f.Bio,
		Interests: ParseInterests(f.Interests),
	}, nil
}

// MerchantRegistrationForm holds the raw text of the merchant sign-up form.
type MerchantRegistrationForm struct {
	BusinessName string `form:"business name" validate:"required"`
	Email        string `form:"email"         validate:"required,email"`
	Password     string `form:"password"      validate:"required,min=6"`
	BusinessType string `form:"business type" validate:"required,business_type"`
	Address      string `form:"address"       validate:"required"`
	City         string `form:"city"          validate:"required"`
	Phone        string `form:"phone"         validate:"required"`
	Description  string `form:"description"`
	Website      string `form:"website"       validate:"omitempty,url"`
}

func (f MerchantRegistrationForm) Build() (client.RegisterMerchantRequest, error) {
	f = MerchantRegistrationForm{
		BusinessName: strings.TrimSpace(f.BusinessName),
		Email:        strings.TrimSpace(f.Email),
		Password:     f.Password,
		BusinessType: strings.ToLower(strings.TrimSpace(f.BusinessType)),
		Address:      strings.TrimSpace(f.Address),
		City:         strings.TrimSpace(f.City),
		Phone:        strings.TrimSpace(f.Phone),
		Description:  strings.TrimSpace(f.Description),
		Website:      strings.TrimSpace(f.Website),
	}
	if err := Struct(f); err != nil {
		return client.RegisterMerchantRequest{}, err
	}
	return client.RegisterMerchantRequest{
		BusinessName: f.BusinessName,
		Email:        f.Email,
		Password:     f.Password,
		BusinessType: f.BusinessType,
		Address:      f.Address,
		City:         f.City,
		Phone:        f.Phone,
		Description:  f.Description,
		Website:      f.Website,
	}, nil
}

// ActivityForm holds the raw text of the create-activity form.
type ActivityForm struct {
	Title           string `form:"title"       validate:"required"`
	Description     string `form:"description" validate:"required"`
	Date            string `form:"date"        validate:"required"`
	Location        string `form:"location"    validate:"required"`
	City            string `form:"city"`
	Category        string `form:"category"    validate:"required,category"`
	MaxParticipants string `form:"max participants"`
	Interests       string `form:"interests"`
	Latitude        string `form:"latitude"`
	Longitude       string `form:"longitude"`
}

// Build converts the form into a create payload. A blank city falls back to
// defaultCity; the date is read as wall-clock time in loc.
func (f ActivityForm) Build(defaultCity string, loc *time.Location) (client.CreateActivityRequest, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	f.Category = strings.TrimSpace(f.Category)
	if err := Struct(f); err != nil {
		return client.CreateActivityRequest{}, err
	}

	date, err := ParseLocalDateTime(f.Date, loc)
	if err != nil {
		return client.CreateActivityRequest{}, err
	}
	maxP, err := ParseOptionalInt(f.MaxParticipants)
	if err != nil {
		return client.CreateActivityRequest{}, fmt.Errorf("max participants: %w", err)
	}
	if maxP != nil && *maxP < 1 {
		return client.CreateActivityRequest{}, fmt.Errorf("max participants must be at least 1")
	}
	lat, err := ParseOptionalFloat(f.Latitude)
	if err != nil {
		return client.CreateActivityRequest{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := ParseOptionalFloat(f.Longitude)
	if err != nil {
		return client.CreateActivityRequest{}, fmt.Errorf("longitude: %w", err)
	}

	city := strings.TrimSpace(f.City)
	if city == "" {
		city = defaultCity
	}

	return client.CreateActivityRequest{
		Title:           f.Title,
		Description:     f.Description,
		Date:            date.UTC(),
		Location:        f.Location,
		City:            city,
		Latitude:        lat,
		Longitude:       lon,
		MaxParticipants: maxP,
		Category:        f.Category,
		Interests:       ParseInterests(f.Interests),
	}, nil
}

// OfferForm holds the raw text of the merchant new-offer form.
type OfferForm struct {
	Title          string `form:"title"           validate:"required"`
	Description    string `form:"description"     validate:"required"`
	Discount       string `form:"discount"`
	MinimumBuddies string `form:"minimum buddies" validate:"required"`
	ValidUntil     string `form:"valid until"     validate:"required"`
	Terms          string `form:"terms"`
	MaxRedemptions string `form:"max redemptions"`
}

// Build converts the form into a create-offer payload. An empty discount
// means a special offer; valid until is read as wall-clock time in loc.
func (f OfferForm) Build(loc *time.Location) (client.CreateOfferRequest, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.MinimumBuddies = strings.TrimSpace(f.MinimumBuddies)
	if err := Struct(f); err != nil {
		return client.CreateOfferRequest{}, err
	}

	discount, err := ParseOptionalInt(f.Discount)
	if err != nil {
		return client.CreateOfferRequest{}, fmt.Errorf("discount: %w", err)
	}
	pct := 0
	if discount != nil {
		pct = *discount
	}
	if pct < 0 || pct > 100 {
		return client.CreateOfferRequest{}, fmt.Errorf("discount must be between 0 and 100")
	}
	buddies, err := ParseOptionalInt(f.MinimumBuddies)
	if err != nil {
		return client.CreateOfferRequest{}, fmt.Errorf("minimum buddies: %w", err)
	}
	if *buddies < 1 {
		return client.CreateOfferRequest{}, fmt.Errorf("minimum buddies must be at least 1")
	}
	until, err := ParseLocalDateTime(f.ValidUntil, loc)
	if err != nil {
		return client.CreateOfferRequest{}, fmt.Errorf("valid until: %w", err)
	}
	maxR, err := ParseOptionalInt(f.MaxRedemptions)
	if err != nil {
		return client.CreateOfferRequest{}, fmt.Errorf("max redemptions: %w", err)
	}
	if maxR != nil && *maxR < 1 {
		return client.CreateOfferRequest{}, fmt.Errorf("max redemptions must be at least 1")
	}

	return client.CreateOfferRequest{
		Title:              f.Title,
		Description:        f.Description,
		DiscountPercentage: pct,
		MinimumBuddies:     *buddies,
		ValidUntil:         until.UTC(),
		TermsConditions:    strings.TrimSpace(f.Terms),
		MaxRedemptions:     maxR,
	}, nil
}
