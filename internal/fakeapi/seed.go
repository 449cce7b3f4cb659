package fakeapi

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/naveenspark/findbuddy/pkg/domain"
)

// Sample account passwords loaded by Seed.
const (
	SeedUserPassword     = "password123"
	SeedMerchantPassword = "merchant123"
)

type seedUser struct {
	name, email, city, phone, bio string
	interests                     []string
}

var seedUsers = []seedUser{
	{"Sarah Chen", "sarah.chen@example.com", "Santa Clara", "555-0101",
		"Love exploring new places and meeting new people.",
		[]string{"photography", "hiking", "festivals", "food", "art"}},
	{"Mike Rodriguez", "mike.rodriguez@example.com", "San Jose", "555-0102",
		"Sports enthusiast, always up for a game.",
		[]string{"basketball", "fitness", "sports", "gaming", "music"}},
	{"Emma Thompson", "emma.thompson@example.com", "Palo Alto", "555-0103",
		"Foodie and coffee enthusiast.",
		[]string{"coffee", "food", "cooking", "wine", "culture"}},
	{"Alex Kim", "alex.kim@example.com", "Mountain View", "555-0104",
		"New to the Bay Area and looking to make connections.",
		[]string{"technology", "networking", "hiking", "movies", "board games"}},
	{"Jessica Wong", "jessica.wong@example.com", "Fremont", "555-0105",
		"Yoga instructor who loves the outdoors.",
		[]string{"yoga", "meditation", "wellness", "nature", "reading"}},
}

type seedActivity struct {
	creator                         int
	title, description, location    string
	city, category                  string
	inDays, maxParticipants, agoHrs int
	lat, lon                        float64
	interests                       []string
}

var seedActivities = []seedActivity{
	{0, "Water Lantern Festival in Santa Clara", "Lanterns on the water at sunset, dinner beforehand.",
		"Central Park Lake, Santa Clara", "Santa Clara", "Festival", 8, 6, 2, 37.3541, -121.9552,
		[]string{"festivals", "photography", "culture", "art"}},
	{1, "Saturday Morning Basketball at Fremont Park", "Pickup games, all levels welcome. Coffee after.",
		"Fremont Central Park Basketball Courts", "Fremont", "Sports", 4, 8, 5, 37.5485, -121.9886,
		[]string{"basketball", "sports", "fitness", "coffee"}},
	{2, "Food Truck Festival & Wine Tasting", "Sampling trucks and local wineries this weekend.",
		"Plaza de César Chávez, San Jose", "San Jose", "Food & Drink", 6, 5, 8, 37.3337, -121.8907,
		[]string{"food", "wine", "music", "culture"}},
	{3, "Board Game Night", "Bring a favourite game or learn a new one.",
		"Community Center, Mountain View", "Mountain View", "Social", 3, 6, 12, 37.3861, -122.0839,
		[]string{"board games", "networking", "social", "games"}},
	{4, "Sunrise Yoga & Hiking at Rancho San Antonio", "Morning flow followed by a gentle hike.",
		"Rancho San Antonio Open Space Preserve", "Cupertino", "Wellness", 2, 8, 18, 37.3318, -122.0874,
		[]string{"yoga", "hiking", "nature", "wellness", "meditation"}},
	{0, "Photography Walk in Palo Alto", "Golden hour shooting along University Avenue.",
		"University Avenue, Palo Alto", "Palo Alto", "Photography", 7, 5, 24, 37.4443, -122.1598,
		[]string{"photography", "art", "walking", "creativity"}},
}

type seedMerchant struct {
	name, email, businessType, address, city, phone, description, website string
}

var seedMerchants = []seedMerchant{
	{"AMC Theaters Bay Area", "partnerships@amcbayarea.com", "entertainment", "2855 Stevens Creek Blvd", "Santa Clara",
		"555-AMC-MOVIE", "Movie theater with the latest blockbusters.", "https://www.amctheatres.com"},
	{"Climbing Club & Café", "info@climbingclubcafe.com", "sports", "1234 Castro Street", "Mountain View",
		"555-CLIMB-UP", "Indoor climbing gym with a café.", "https://www.climbingclubcafe.com"},
	{"Bella Vista Italian Kitchen", "manager@bellavistaitalian.com", "restaurant", "567 University Avenue", "Palo Alto",
		"555-BELLA-01", "Fresh pasta and wood-fired pizza.", "https://www.bellavistaitalian.com"},
	{"Escape Reality Games", "bookings@escaperealitygames.com", "entertainment", "890 The Alameda", "San Jose",
		"555-ESCAPE-1", "Escape rooms for groups.", "https://www.escaperealitygames.com"},
	{"Zen Garden Spa & Wellness", "hello@zengardensp.com", "services", "456 El Camino Real", "Fremont",
		"555-ZEN-SPA1", "Massages, facials and wellness treatments.", "https://www.zengardenspa.com"},
}

type seedOffer struct {
	merchant                   int
	title, description, terms  string
	discount, minBuddies, days int
	maxRedemptions, used       int
}

var seedOffers = []seedOffer{
	{0, "Bring Your Buddy - Free Popcorn", "A free large popcorn when you come with a friend.",
		"Valid with purchase of 2 or more tickets.", 0, 2, 60, 500, 23},
	{1, "Climb Together - 25% Off Day Passes", "Both climbers save on day passes and rental.",
		"Valid for groups of 2-4 people.", 25, 2, 45, 100, 8},
	{2, "Dinner for Friends - 20% Off Groups of 4+", "Groups of four or more save on the whole bill.",
		"Valid Sunday-Thursday only.", 20, 4, 30, 200, 45},
	{3, "Team Escape Challenge - 30% Off Groups", "Book any room for 3+ people.",
		"Advance booking required.", 30, 3, 90, 150, 12},
	{4, "Spa Day with Friends - 15% Off Duo Packages", "Save on any duo package.",
		"Appointment required 48 hours in advance.", 15, 2, 120, 75, 3},
	{0, "Weekend Movie Night - 2 for 1 Tickets", "Buy one ticket, get one free on weekends.",
		"Excludes premium format screenings.", 50, 2, 14, 300, 67},
}

// Seed loads the sample users, merchants, offers and activities. Dates are
// relative to the server clock so the data always looks upcoming.
func (s *Server) Seed() error {
	now := s.now().UTC()

	userHash, err := s.hash(SeedUserPassword)
	if err != nil {
		return fmt.Errorf("fakeapi.Seed: %w", err)
	}
	merchantHash, err := s.hash(SeedMerchantPassword)
	if err != nil {
		return fmt.Errorf("fakeapi.Seed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*userRecord, len(seedUsers))
	for i, su := range seedUsers {
		u := &userRecord{
			User: domain.User{
				ID:        uuid.New(),
				Name:      su.name,
				Email:     su.email,
				City:      su.city,
				Phone:     su.phone,
				Bio:       su.bio,
				Interests: su.interests,
				CreatedAt: now,
			},
			passwordHash: userHash,
		}
		users[i] = u
		s.users[u.ID] = u
	}

	for _, sa := range seedActivities {
		creator := users[sa.creator]
		lat, lon, capacity := sa.lat, sa.lon, sa.maxParticipants
		a := &domain.Activity{
			ID:              uuid.New(),
			Title:           sa.title,
			Description:     sa.description,
			Date:            now.Add(time.Duration(sa.inDays) * 24 * time.Hour),
			Location:        sa.location,
			City:            sa.city,
			Latitude:        &lat,
			Longitude:       &lon,
			MaxParticipants: &capacity,
			Category:        sa.category,
			Interests:       sa.interests,
			CreatorID:       creator.ID,
			CreatorName:     creator.Name,
			Participants:    []uuid.UUID{creator.ID},
			InterestedUsers: []uuid.UUID{},
			CreatedAt:       now.Add(-time.Duration(sa.agoHrs) * time.Hour),
		}
		s.activities[a.ID] = a
	}

	merchants := make([]*merchantRecord, len(seedMerchants))
	for i, sm := range seedMerchants {
		m := &merchantRecord{
			Merchant: domain.Merchant{
				ID:           uuid.New(),
				BusinessName: sm.name,
				Email:        sm.email,
				BusinessType: sm.businessType,
				Address:      sm.address,
				City:         sm.city,
				Phone:        sm.phone,
				Description:  sm.description,
				Website:      sm.website,
				Verified:     true,
				CreatedAt:    now,
			},
			passwordHash: merchantHash,
		}
		merchants[i] = m
		s.merchants[m.ID] = m
	}

	for _, so := range seedOffers {
		m := merchants[so.merchant]
		limit := so.maxRedemptions
		o := &domain.Offer{
			ID:                 uuid.New(),
			MerchantID:         m.ID,
			MerchantName:       m.BusinessName,
			Title:              so.title,
			Description:        so.description,
			DiscountPercentage: so.discount,
			MinimumBuddies:     so.minBuddies,
			ValidUntil:         now.Add(time.Duration(so.days) * 24 * time.Hour),
			TermsConditions:    so.terms,
			MaxRedemptions:     &limit,
			CurrentRedemptions: so.used,
			Active:             true,
			CreatedAt:          now,
		}
		s.offers[o.ID] = o
	}

	s.log.Info().
		Int("users", len(users)).
		Int("activities", len(seedActivities)).
		Int("merchants", len(merchants)).
		Int("offers", len(seedOffers)).
		Msg("sample data loaded")
	return nil
}
