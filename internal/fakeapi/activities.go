package fakeapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/naveenspark/findbuddy/internal/telemetry"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

const (
	defaultFeedLimit = 20
	defaultListLimit = 50
)

type createActivityRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description" validate:"required"`
	Date            time.Time `json:"date" validate:"required"`
	Location        string    `json:"location" validate:"required"`
	City            string    `json:"city" validate:"required"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	MaxParticipants *int      `json:"max_participants" validate:"omitempty,gte=1"`
	Category        string    `json:"category" validate:"required"`
	Interests       []string  `json:"interests"`
}

type joinRequest struct {
	ActivityID string `json:"activity_id" validate:"required"`
}

type commentRequest struct {
	ActivityID string `json:"activity_id"`
	Content    string `json:"content" validate:"required"`
}

type activitiesResponse struct {
	Activities []domain.Activity `json:"activities"`
	TotalCount int               `json:"total_count"`
}

func (s *Server) createActivity(c echo.Context) error {
	var req createActivityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u := currentUser(c)
	if req.Interests == nil {
		req.Interests = []string{}
	}

	a := &domain.Activity{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date.UTC(),
		Location:        req.Location,
		City:            req.City,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		MaxParticipants: req.MaxParticipants,
		Category:        req.Category,
		Interests:       req.Interests,
		CreatorID:       u.ID,
		CreatorName:     u.Name,
		Participants:    []uuid.UUID{u.ID},
		InterestedUsers: []uuid.UUID{},
		CreatedAt:       s.now().UTC(),
	}
	s.mu.Lock()
	s.activities[a.ID] = a
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{
		"message":  "Activity created successfully",
		"activity": a,
	})
}

// listActivities returns upcoming activities, newest first.
func (s *Server) listActivities(c echo.Context) error {
	limit := queryInt(c, "limit", defaultListLimit)
	now := s.now()

	s.mu.RLock()
	out := s.upcoming(now, func(*domain.Activity) bool { return true })
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return c.JSON(http.StatusOK, activitiesResponse{Activities: out, TotalCount: total})
}

// aroundMe lists upcoming activities in city_filter, or the caller's city.
func (s *Server) aroundMe(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city_filter"))
	if city == "" {
		city = currentUser(c).City
	}
	now := s.now()

	s.mu.RLock()
	out := s.upcoming(now, func(a *domain.Activity) bool { return strings.EqualFold(a.City, city) })
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return c.JSON(http.StatusOK, activitiesResponse{Activities: out, TotalCount: len(out)})
}

// feed ranks other people's upcoming activities by interest overlap and
// proximity in time.
func (s *Server) feed(c echo.Context) error {
	u := currentUser(c)
	limit := queryInt(c, "limit", defaultFeedLimit)
	now := s.now()

	s.mu.RLock()
	candidates := s.upcoming(now, func(a *domain.Activity) bool { return a.CreatorID != u.ID })
	s.mu.RUnlock()

	type scored struct {
		activity domain.Activity
		score    float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, a := range candidates {
		ranked = append(ranked, scored{activity: a, score: feedScore(u.Interests, a, now)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].activity.Date.Before(ranked[j].activity.Date)
	})

	out := make([]domain.Activity, 0, min(limit, len(ranked)))
	for i := 0; i < len(ranked) && i < limit; i++ {
		out = append(out, ranked[i].activity)
	}
	return c.JSON(http.StatusOK, activitiesResponse{Activities: out, TotalCount: len(ranked)})
}

func (s *Server) myActivities(c echo.Context) error {
	u := currentUser(c)
	mine := domain.MyActivities{Created: []domain.Activity{}, Joined: []domain.Activity{}}

	s.mu.RLock()
	for _, a := range s.activities {
		switch {
		case a.CreatorID == u.ID:
			mine.Created = append(mine.Created, cloneActivity(a))
		case a.HasParticipant(u.ID):
			mine.Joined = append(mine.Joined, cloneActivity(a))
		}
	}
	s.mu.RUnlock()

	byDate := func(list []domain.Activity) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	}
	byDate(mine.Created)
	byDate(mine.Joined)
	return c.JSON(http.StatusOK, mine)
}

func (s *Server) joinActivity(c echo.Context) error {
	var req joinRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u := currentUser(c)

	id, err := uuid.Parse(req.ActivityID)
	if err != nil {
		telemetry.DevJoinsTotal.WithLabelValues("not_found").Inc()
		return detail(http.StatusNotFound, "Activity not found")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[id]
	switch {
	case !ok:
		telemetry.DevJoinsTotal.WithLabelValues("not_found").Inc()
		return detail(http.StatusNotFound, "Activity not found")
	case a.HasParticipant(u.ID):
		telemetry.DevJoinsTotal.WithLabelValues("already_joined").Inc()
		return detail(http.StatusBadRequest, "Already joined this activity")
	case a.IsFull():
		telemetry.DevJoinsTotal.WithLabelValues("full").Inc()
		return detail(http.StatusBadRequest, "Activity is full")
	}
	a.Participants = append(a.Participants, u.ID)
	telemetry.DevJoinsTotal.WithLabelValues("joined").Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "Successfully joined activity"})
}

func (s *Server) getLikes(c echo.Context) error {
	id, err := s.activityParam(c)
	if err != nil {
		return err
	}
	u := currentUser(c)

	s.mu.RLock()
	set := s.likes[id]
	_, liked := set[u.ID]
	state := domain.LikeState{Count: len(set), Liked: liked}
	s.mu.RUnlock()
	return c.JSON(http.StatusOK, state)
}

func (s *Server) toggleLike(c echo.Context) error {
	id, err := s.activityParam(c)
	if err != nil {
		return err
	}
	u := currentUser(c)

	s.mu.Lock()
	set, ok := s.likes[id]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		s.likes[id] = set
	}
	_, liked := set[u.ID]
	if liked {
		delete(set, u.ID)
	} else {
		set[u.ID] = struct{}{}
	}
	state := domain.LikeState{Count: len(set), Liked: !liked}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, state)
}

func (s *Server) listComments(c echo.Context) error {
	id, err := s.activityParam(c)
	if err != nil {
		return err
	}
	s.mu.RLock()
	out := append([]domain.Comment{}, s.comments[id]...)
	s.mu.RUnlock()
	return c.JSON(http.StatusOK, map[string]any{"comments": out})
}

func (s *Server) addComment(c echo.Context) error {
	id, err := s.activityParam(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return detail(http.StatusUnprocessableEntity, "content is required")
	}
	u := currentUser(c)

	cm := domain.Comment{
		ID:         uuid.New(),
		ActivityID: id,
		UserID:     u.ID,
		UserName:   u.Name,
		Content:    content,
		CreatedAt:  s.now().UTC(),
	}
	s.mu.Lock()
	s.comments[id] = append(s.comments[id], cm)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"message": "Comment added", "comment": cm})
}

// activityParam resolves the :id path segment to an existing activity.
func (s *Server) activityParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, detail(http.StatusNotFound, "Activity not found")
	}
	s.mu.RLock()
	_, ok := s.activities[id]
	s.mu.RUnlock()
	if !ok {
		return uuid.Nil, detail(http.StatusNotFound, "Activity not found")
	}
	return id, nil
}

// upcoming copies the activities dated at or after now that match keep.
// Must be called with s.mu held.
func (s *Server) upcoming(now time.Time, keep func(*domain.Activity) bool) []domain.Activity {
	out := make([]domain.Activity, 0)
	for _, a := range s.activities {
		if a.Date.Before(now) || !keep(a) {
			continue
		}
		out = append(out, cloneActivity(a))
	}
	return out
}

func cloneActivity(a *domain.Activity) domain.Activity {
	cp := *a
	cp.Participants = append([]uuid.UUID(nil), a.Participants...)
	cp.InterestedUsers = append([]uuid.UUID(nil), a.InterestedUsers...)
	cp.Interests = append([]string(nil), a.Interests...)
	return cp
}

// feedScore weights interest overlap 0.5, distance 0.3 and time 0.2.
// Accounts carry no coordinates, so distance always scores 1.
func feedScore(userInterests []string, a domain.Activity, now time.Time) float64 {
	days := a.Date.Sub(now).Hours() / 24
	timeScore := max(0.1, 1-days/30)
	return interestMatch(userInterests, a.Interests)*0.5 + 0.3 + timeScore*0.2
}

// interestMatch is the case-insensitive Jaccard index of two interest lists,
// or 0.1 when either side is empty.
func interestMatch(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.1
	}
	set := make(map[string]int)
	for _, v := range a {
		set[strings.ToLower(v)] |= 1
	}
	for _, v := range b {
		set[strings.ToLower(v)] |= 2
	}
	both := 0
	for _, mask := range set {
		if mask == 3 {
			both++
		}
	}
	return float64(both) / float64(len(set))
}

func queryInt(c echo.Context, name string, def int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
