package tui

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

func filledCreateModel(api API) createModel {
	m := newCreateModel(api, time.UTC)
	m.defaultCity = "San Jose"
	m.fields[fieldTitle].value = "Lantern walk"
	m.fields[fieldDescription].value = "Evening stroll"
	m.fields[fieldDate].value = "2025-07-01T19:30"
	m.fields[fieldLocation].value = "Central Park"
	m.fields[fieldMaxParticipants].value = "8"
	m.fields[fieldInterests].value = "walking, photography"
	return m
}

func TestCreateSubmit(t *testing.T) {
	api := &fakeAPI{}
	m := filledCreateModel(api)

	m, cmd := m.Update(key("ctrl+s"))
	if !m.submitted {
		t.Fatalf("expected submitted, status = %q", m.statusMsg)
	}
	msg := run(t, cmd)
	created, ok := msg.(activityCreatedMsg)
	if !ok || created.err != nil {
		t.Fatalf("got %#v", msg)
	}

	req := api.lastCreate
	if req.City != "San Jose" {
		t.Errorf("city = %q, want the default city", req.City)
	}
	if !req.Date.Equal(time.Date(2025, 7, 1, 19, 30, 0, 0, time.UTC)) {
		t.Errorf("date = %v", req.Date)
	}
	if req.Category != domain.Categories[0] {
		t.Errorf("category = %q", req.Category)
	}
	if req.MaxParticipants == nil || *req.MaxParticipants != 8 {
		t.Errorf("max participants = %v", req.MaxParticipants)
	}
	if len(req.Interests) != 2 {
		t.Errorf("interests = %v", req.Interests)
	}

	m, _ = m.Update(msg)
	if m.submitted || m.fields[fieldTitle].value != "" || m.focus != fieldTitle {
		t.Error("expected the form to reset after a successful create")
	}
}

func TestCreateSubmit_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		field int
		value string
		want  string
	}{
		{"missing title", fieldTitle, "", "title is required"},
		{"bad date", fieldDate, "next friday", "date"},
		{"zero capacity", fieldMaxParticipants, "0", "max participants must be at least 1"},
		{"bad latitude", fieldLatitude, "north", "latitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			m := filledCreateModel(api)
			m.fields[tt.field].value = tt.value

			m, cmd := m.Update(key("ctrl+s"))
			if cmd != nil || m.submitted {
				t.Fatal("invalid form must not be sent")
			}
			if !strings.Contains(m.statusMsg, tt.want) {
				t.Errorf("status = %q, want it to mention %q", m.statusMsg, tt.want)
			}
			if api.callCount() != 0 {
				t.Errorf("calls = %v", api.calls)
			}
		})
	}
}

func TestCreateCategoryCycles(t *testing.T) {
	m := newCreateModel(nil, time.UTC)
	m.focus = fieldCategory
	m, _ = m.Update(key("right"))
	if m.fields[fieldCategory].value != domain.Categories[1] {
		t.Errorf("category = %q, want %q", m.fields[fieldCategory].value, domain.Categories[1])
	}
	// Letters do not edit a choice field.
	m, _ = m.Update(key("x"))
	if m.fields[fieldCategory].value != domain.Categories[1] {
		t.Errorf("category = %q after typing", m.fields[fieldCategory].value)
	}
}

func TestCreateError_KeepsFields(t *testing.T) {
	m := filledCreateModel(&fakeAPI{})
	m.submitted = true
	m, _ = m.Update(activityCreatedMsg{err: &client.HTTPError{StatusCode: http.StatusUnprocessableEntity, Message: "date: invalid datetime"}})

	if m.submitted {
		t.Error("submitted should be cleared")
	}
	if m.statusMsg != "date: invalid datetime" {
		t.Errorf("status = %q", m.statusMsg)
	}
	if m.fields[fieldTitle].value != "Lantern walk" {
		t.Error("fields should survive a failed create")
	}
}
