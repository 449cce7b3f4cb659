package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/findbuddy/internal/forms"
	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDate
	fieldLocation
	fieldCity
	fieldCategory
	fieldMaxParticipants
	fieldInterests
	fieldLatitude
	fieldLongitude
	numActivityFields
)

type createModel struct {
	api         API
	epoch       int
	loc         *time.Location
	defaultCity string
	fields      []formField
	focus       int
	statusMsg   string
	submitted   bool
	width       int
}

type activityCreatedMsg struct {
	epoch    int
	activity *domain.Activity
	err      error
}

func newActivityFields() []formField {
	f := make([]formField, numActivityFields)
	f[fieldTitle] = formField{label: "title"}
	f[fieldDescription] = formField{label: "description"}
	f[fieldDate] = formField{label: "date", hint: "2025-01-01T10:00"}
	f[fieldLocation] = formField{label: "venue"}
	f[fieldCity] = formField{label: "city", hint: "defaults to your city"}
	f[fieldCategory] = formField{label: "category", choices: domain.Categories, value: domain.Categories[0]}
	f[fieldMaxParticipants] = formField{label: "max participants", hint: "optional"}
	f[fieldInterests] = formField{label: "interests", hint: "hiking, coffee"}
	f[fieldLatitude] = formField{label: "latitude", hint: "optional"}
	f[fieldLongitude] = formField{label: "longitude", hint: "optional"}
	return f
}

func newCreateModel(api API, loc *time.Location) createModel {
	return createModel{api: api, loc: loc, fields: newActivityFields()}
}

func (m createModel) Init() tea.Cmd {
	return nil
}

// form copies the field values into an ActivityForm.
func (m createModel) form() forms.ActivityForm {
	v := func(i int) string { return m.fields[i].value }
	return forms.ActivityForm{
		Title:           v(fieldTitle),
		Description:     v(fieldDescription),
		Date:            v(fieldDate),
		Location:        v(fieldLocation),
		City:            v(fieldCity),
		Category:        v(fieldCategory),
		MaxParticipants: v(fieldMaxParticipants),
		Interests:       v(fieldInterests),
		Latitude:        v(fieldLatitude),
		Longitude:       v(fieldLongitude),
	}
}

func (m createModel) Update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case activityCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = client.Detail(msg.err, "failed to create activity")
			return m, nil
		}
		m.statusMsg = ""
		m.fields = newActivityFields()
		m.focus = fieldTitle
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m createModel) updateKeys(msg tea.KeyMsg) (createModel, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	m.statusMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down", "enter":
		m.focus = (m.focus + 1) % numActivityFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numActivityFields) % numActivityFields
	default:
		editField(&m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m createModel) submit() (createModel, tea.Cmd) {
	req, err := m.form().Build(m.defaultCity, m.loc)
	if err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}

	m.submitted = true
	api, epoch := m.api, m.epoch
	return m, func() tea.Msg {
		a, err := api.CreateActivity(context.Background(), req)
		return activityCreatedMsg{epoch: epoch, activity: a, err: err}
	}
}

func (m createModel) View() string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("New activity") + "\n\n")
	b.WriteString(renderForm(m.fields, m.focus))

	b.WriteString("\n")
	if m.submitted {
		b.WriteString(dimStyle.Render("creating..."))
	} else if m.statusMsg != "" {
		b.WriteString(errorStyle.Render(m.statusMsg))
	}
	return b.String()
}
