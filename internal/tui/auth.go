package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/findbuddy/internal/forms"
	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// authModel is the login / sign-up form for both actor kinds.
type authModel struct {
	auth       Authenticator
	mode       authMode
	actor      domain.ActorKind
	fields     []formField
	focus      int
	submitting bool
	status     string
	statusErr  bool
	width      int
}

func newAuthModel(a Authenticator) authModel {
	m := authModel{auth: a, actor: domain.ActorUser}
	m.fields = authFields(m.mode, m.actor)
	return m
}

func authFields(mode authMode, actor domain.ActorKind) []formField {
	if mode == modeLogin {
		return []formField{
			{label: "email"},
			{label: "password", secret: true},
		}
	}
	if actor == domain.ActorMerchant {
		return []formField{
			{label: "business name"},
			{label: "email"},
			{label: "password", secret: true},
			{label: "business type", choices: domain.BusinessTypes, value: domain.BusinessTypes[0]},
			{label: "address"},
			{label: "city"},
			{label: "phone"},
			{label: "description", hint: "optional"},
			{label: "website", hint: "optional"},
		}
	}
	return []formField{
		{label: "name"},
		{label: "email"},
		{label: "password", secret: true},
		{label: "city"},
		{label: "phone"},
		{label: "bio", hint: "optional"},
		{label: "interests", hint: "hiking, coffee, board games"},
	}
}

// value returns the field with the given label.
func (m authModel) value(label string) string {
	for _, f := range m.fields {
		if f.label == label {
			return f.value
		}
	}
	return ""
}

func (m authModel) Init() tea.Cmd {
	return nil
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = client.Detail(msg.err, "could not reach the server, try again")
			m.statusErr = true
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m authModel) handleKey(msg tea.KeyMsg) (authModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.status = ""

	switch msg.String() {
	case "ctrl+t":
		if m.actor == domain.ActorUser {
			m.actor = domain.ActorMerchant
		} else {
			m.actor = domain.ActorUser
		}
		m.reset()
	case "ctrl+r":
		if m.mode == modeLogin {
			m.mode = modeRegister
		} else {
			m.mode = modeLogin
		}
		m.reset()
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.focus == len(m.fields)-1 {
			return m.submit()
		}
		m.focus++
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields)
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
	default:
		editField(&m.fields[m.focus], msg.String())
	}
	return m, nil
}

// reset rebuilds the fields, keeping the email when both forms have one.
func (m *authModel) reset() {
	email := m.value("email")
	m.fields = authFields(m.mode, m.actor)
	for i := range m.fields {
		if m.fields[i].label == "email" {
			m.fields[i].value = email
		}
	}
	m.focus = 0
}

func (m authModel) submit() (authModel, tea.Cmd) {
	cmd, err := m.request()
	if err != nil {
		m.status = err.Error()
		m.statusErr = true
		return m, nil
	}
	m.submitting = true
	return m, cmd
}

// request validates the form and returns the command that performs it.
func (m authModel) request() (tea.Cmd, error) {
	auth := m.auth
	ctx := context.Background()

	if m.mode == modeLogin {
		req, err := forms.LoginForm{Email: m.value("email"), Password: m.value("password")}.Build()
		if err != nil {
			return nil, err
		}
		if m.actor == domain.ActorMerchant {
			return func() tea.Msg {
				_, err := auth.LoginMerchant(ctx, req)
				return authDoneMsg{err: err}
			}, nil
		}
		return func() tea.Msg {
			_, err := auth.LoginUser(ctx, req)
			return authDoneMsg{err: err}
		}, nil
	}

	if m.actor == domain.ActorMerchant {
		req, err := forms.MerchantRegistrationForm{
			BusinessName: m.value("business name"),
			Email:        m.value("email"),
			Password:     m.value("password"),
			BusinessType: m.value("business type"),
			Address:      m.value("address"),
			City:         m.value("city"),
			Phone:        m.value("phone"),
			Description:  m.value("description"),
			Website:      m.value("website"),
		}.Build()
		if err != nil {
			return nil, err
		}
		return func() tea.Msg {
			_, err := auth.RegisterMerchant(ctx, req)
			return authDoneMsg{err: err}
		}, nil
	}

	req, err := forms.UserRegistrationForm{
		Name:      m.value("name"),
		Email:     m.value("email"),
		Password:  m.value("password"),
		City:      m.value("city"),
		Phone:     m.value("phone"),
		Bio:       m.value("bio"),
		Interests: m.value("interests"),
	}.Build()
	if err != nil {
		return nil, err
	}
	return func() tea.Msg {
		_, err := auth.RegisterUser(ctx, req)
		return authDoneMsg{err: err}
	}, nil
}

func (m authModel) helpKeys() string {
	other := "register"
	if m.mode == modeRegister {
		other = "login"
	}
	kind := "merchant"
	if m.actor == domain.ActorMerchant {
		kind = "user"
	}
	return helpBar("tab", "next", "enter", "submit", "ctrl+r", other, "ctrl+t", kind, "ctrl+c", "quit")
}

func (m authModel) View() string {
	var b strings.Builder

	toggle := func(label string, on bool) string {
		if on {
			return accentStyle.Render("[" + label + "]")
		}
		return dimStyle.Render(" " + label + " ")
	}
	b.WriteString(toggle("User", m.actor == domain.ActorUser) + " " + toggle("Merchant", m.actor == domain.ActorMerchant) + "\n")

	title := "Log in"
	if m.mode == modeRegister {
		title = "Create an account"
		if m.actor == domain.ActorMerchant {
			title = "Register your business"
		}
	}
	b.WriteString("\n" + selectedStyle.Render(title) + "\n\n")
	b.WriteString(renderForm(m.fields, m.focus))

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(dimStyle.Render("please wait..."))
	} else {
		b.WriteString(statusLine(m.status, m.statusErr))
	}
	return b.String()
}
