package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/naveenspark/findbuddy/pkg/domain"
)

// CreateActivityRequest is the payload for creating an activity.
// MaxParticipants, Latitude and Longitude serialise as null when unset.
type CreateActivityRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	City            string    `json:"city"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	MaxParticipants *int      `json:"max_participants"`
	Category        string    `json:"category"`
	Interests       []string  `json:"interests"`
}

type activityList struct {
	Activities []domain.Activity `json:"activities"`
	TotalCount int               `json:"total_count"`
}

type activityCreated struct {
	Message  string          `json:"message"`
	Activity domain.Activity `json:"activity"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ActivityFeed returns upcoming activities ranked by interest match.
func (c *Client) ActivityFeed(ctx context.Context) ([]domain.Activity, error) {
	var out activityList
	if err := c.get(ctx, "/activities/feed", &out); err != nil {
		return nil, fmt.Errorf("client.ActivityFeed: %w", err)
	}
	return out.Activities, nil
}

// ActivitiesAroundMe lists activities in cityFilter, or in the caller's own
// city when cityFilter is empty.
func (c *Client) ActivitiesAroundMe(ctx context.Context, cityFilter string) ([]domain.Activity, error) {
	path := "/activities/around-me"
	if cityFilter != "" {
		params := url.Values{}
		params.Set("city_filter", cityFilter)
		path += "?" + params.Encode()
	}

	var out activityList
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("client.ActivitiesAroundMe: %w", err)
	}
	return out.Activities, nil
}

// ListActivities returns the public list of upcoming activities.
func (c *Client) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	var out activityList
	if err := c.get(ctx, "/activities", &out); err != nil {
		return nil, fmt.Errorf("client.ListActivities: %w", err)
	}
	return out.Activities, nil
}

// MyActivities returns the activities the caller created and joined.
func (c *Client) MyActivities(ctx context.Context) (*domain.MyActivities, error) {
	var out domain.MyActivities
	if err := c.get(ctx, "/activities/my", &out); err != nil {
		return nil, fmt.Errorf("client.MyActivities: %w", err)
	}
	return &out, nil
}

// CreateActivity creates a new activity owned by the caller.
func (c *Client) CreateActivity(ctx context.Context, req CreateActivityRequest) (*domain.Activity, error) {
	var out activityCreated
	if err := c.post(ctx, "/activities", req, &out); err != nil {
		return nil, fmt.Errorf("client.CreateActivity: %w", err)
	}
	return &out.Activity, nil
}

// JoinActivity adds the caller to an activity's participants and returns the
// backend confirmation.
func (c *Client) JoinActivity(ctx context.Context, id uuid.UUID) (string, error) {
	var out messageResponse
	body := map[string]string{"activity_id": id.String()}
	if err := c.post(ctx, "/activities/join", body, &out); err != nil {
		return "", fmt.Errorf("client.JoinActivity: %w", err)
	}
	return out.Message, nil
}

// GetLikes returns the like counter of an activity.
func (c *Client) GetLikes(ctx context.Context, id uuid.UUID) (*domain.LikeState, error) {
	var out domain.LikeState
	if err := c.get(ctx, "/activities/"+url.PathEscape(id.String())+"/likes", &out); err != nil {
		return nil, fmt.Errorf("client.GetLikes: %w", err)
	}
	return &out, nil
}

// ToggleLike likes or unlikes an activity and returns the new state.
func (c *Client) ToggleLike(ctx context.Context, id uuid.UUID) (*domain.LikeState, error) {
	var out domain.LikeState
	if err := c.doRequest(ctx, http.MethodPost, "/activities/"+url.PathEscape(id.String())+"/like", nil, &out); err != nil {
		return nil, fmt.Errorf("client.ToggleLike: %w", err)
	}
	return &out, nil
}

// ListComments returns the comments on an activity, oldest first.
func (c *Client) ListComments(ctx context.Context, id uuid.UUID) ([]domain.Comment, error) {
	var out struct {
		Comments []domain.Comment `json:"comments"`
	}
	if err := c.get(ctx, "/activities/"+url.PathEscape(id.String())+"/comments", &out); err != nil {
		return nil, fmt.Errorf("client.ListComments: %w", err)
	}
	return out.Comments, nil
}

// AddComment posts a comment on an activity.
func (c *Client) AddComment(ctx context.Context, id uuid.UUID, content string) (*domain.Comment, error) {
	body := map[string]string{"activity_id": id.String(), "content": content}
	var out struct {
		Comment domain.Comment `json:"comment"`
	}
	if err := c.post(ctx, "/activities/"+url.PathEscape(id.String())+"/comment", body, &out); err != nil {
		return nil, fmt.Errorf("client.AddComment: %w", err)
	}
	return &out.Comment, nil
}
