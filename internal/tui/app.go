package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/naveenspark/findbuddy/internal/session"
	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

// API is the part of the backend client the dashboards call.
// *client.Client implements it.
type API interface {
	ActivitiesAroundMe(ctx context.Context, cityFilter string) ([]domain.Activity, error)
	ActivityFeed(ctx context.Context) ([]domain.Activity, error)
	MyActivities(ctx context.Context) (*domain.MyActivities, error)
	MerchantsNearMe(ctx context.Context, businessType string) ([]domain.MerchantListing, error)
	CreateActivity(ctx context.Context, req client.CreateActivityRequest) (*domain.Activity, error)
	JoinActivity(ctx context.Context, id uuid.UUID) (string, error)
	GetLikes(ctx context.Context, id uuid.UUID) (*domain.LikeState, error)
	ToggleLike(ctx context.Context, id uuid.UUID) (*domain.LikeState, error)
	ListComments(ctx context.Context, id uuid.UUID) ([]domain.Comment, error)
	AddComment(ctx context.Context, id uuid.UUID, content string) (*domain.Comment, error)
	AllOffers(ctx context.Context) ([]domain.Offer, error)
	CreateOffer(ctx context.Context, req client.CreateOfferRequest) (*domain.Offer, error)
}

// Authenticator logs in and registers both actor kinds.
// *session.Authenticator implements it.
type Authenticator interface {
	LoginUser(ctx context.Context, req client.LoginRequest) (*domain.User, error)
	RegisterUser(ctx context.Context, req client.RegisterUserRequest) (*domain.User, error)
	LoginMerchant(ctx context.Context, req client.LoginRequest) (*domain.Merchant, error)
	RegisterMerchant(ctx context.Context, req client.RegisterMerchantRequest) (*domain.Merchant, error)
}

// Deps are the collaborators injected into the App.
type Deps struct {
	API     API
	Auth    Authenticator
	Session *session.Store
	// Location is the zone dates are typed and shown in. Defaults to time.Local.
	Location *time.Location
	Log      zerolog.Logger
}

type view int

const (
	viewAuth view = iota
	viewUser
	viewMerchant
	viewCreate
)

// authDoneMsg reports the outcome of a login or registration.
type authDoneMsg struct {
	err error
}

// sessionExpiredMsg is emitted by a dashboard that got a 401.
type sessionExpiredMsg struct{}

// loggedOutMsg is delivered once the session has been cleared.
type loggedOutMsg struct {
	reason string
	err    error
}

func expireSession() tea.Msg {
	return sessionExpiredMsg{}
}

// App is the root Bubbletea model.
type App struct {
	deps     Deps
	view     view
	auth     authModel
	user     userDashboard
	merchant merchantDashboard
	create   createModel
	helpOpen bool

	// epoch numbers the sessions of this run. Dashboards stamp their async
	// results with it so answers from an earlier session are dropped.
	epoch  int
	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates the TUI. The view is picked from the session: the auth
// form when logged out, otherwise the dashboard for the actor kind.
func NewApp(d Deps) App {
	if d.Location == nil {
		d.Location = time.Local
	}
	a := App{
		deps:   d,
		auth:   newAuthModel(d.Auth),
		create: newCreateModel(d.API, d.Location),
	}
	a.enterSession()
	return a
}

// enterSession switches to the view matching the current session.
func (a *App) enterSession() {
	snap := a.deps.Session.Current()
	switch {
	case snap.LoggedIn() && snap.User != nil:
		a.view = viewUser
		a.user = newUserDashboard(a.deps.API, *snap.User, a.deps.Location, a.epoch)
		a.create = newCreateModel(a.deps.API, a.deps.Location)
		a.create.epoch = a.epoch
		a.create.defaultCity = snap.User.City
	case snap.LoggedIn() && snap.Merchant != nil:
		a.view = viewMerchant
		a.merchant = newMerchantDashboard(a.deps.API, *snap.Merchant, a.deps.Location, a.epoch)
	default:
		a.view = viewAuth
		a.auth = newAuthModel(a.deps.Auth)
	}
	a.resizeChildren()
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.initView())
}

// initView returns the first fetch of the current dashboard.
func (a App) initView() tea.Cmd {
	switch a.view {
	case viewUser:
		return a.user.Init()
	case viewMerchant:
		return a.merchant.Init()
	}
	return nil
}

func (a App) logout(reason string) tea.Cmd {
	store := a.deps.Session
	return func() tea.Msg {
		err := store.Logout(context.Background())
		return loggedOutMsg{reason: reason, err: err}
	}
}

func (a *App) resizeChildren() {
	if a.width == 0 {
		return
	}
	// Chrome: header(2) + help(1) = 3 lines
	body := tea.WindowSizeMsg{Width: a.width, Height: a.height - 3}
	a.auth, _ = a.auth.Update(body)
	a.user, _ = a.user.Update(body)
	a.merchant, _ = a.merchant.Update(body)
	a.create, _ = a.create.Update(body)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeChildren()
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case authDoneMsg:
		if msg.err != nil {
			a.auth, _ = a.auth.Update(msg)
			return a, nil
		}
		a.epoch++
		a.enterSession()
		a.deps.Log.Info().Str("view", a.viewName()).Msg("signed in")
		return a, a.initView()

	case sessionExpiredMsg:
		if a.view == viewAuth {
			return a, nil
		}
		return a, a.logout("session expired, please log in again")

	case loggedOutMsg:
		if msg.err != nil {
			a.deps.Log.Warn().Err(msg.err).Msg("logout: clearing stored session")
		}
		a.epoch++
		a.enterSession()
		if msg.reason != "" {
			a.auth.status = msg.reason
			a.auth.statusErr = true
		}
		return a, nil

	case activityCreatedMsg:
		if msg.epoch != a.epoch {
			return a, nil
		}
		a.create, _ = a.create.Update(msg)
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return a, expireSession
			}
			return a, nil
		}
		a.view = viewUser
		a.user.setStatus(fmt.Sprintf("created %q", msg.activity.Title), false)
		cmd := a.user.refresh()
		return a, cmd

	case tabLoadedMsg, joinResultMsg, likeResultMsg, likesLoadedMsg, commentsLoadedMsg, commentAddedMsg, copyResultMsg:
		var cmd tea.Cmd
		a.user, cmd = a.user.Update(msg)
		return a, cmd

	case browserOpenedMsg:
		var cmd tea.Cmd
		if a.view == viewUser {
			a.user, cmd = a.user.Update(msg)
		} else {
			a.merchant, cmd = a.merchant.Update(msg)
		}
		return a, cmd

	case offersLoadedMsg, offerCreatedMsg:
		var cmd tea.Cmd
		a.merchant, cmd = a.merchant.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}

		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "h":
				a.helpOpen = true
				return a, nil
			case "L":
				if a.view != viewAuth {
					return a, a.logout("")
				}
			case "n":
				if a.view == viewUser {
					a.view = viewCreate
					return a, nil
				}
			}
		}
		if msg.String() == "esc" && a.view == viewCreate {
			a.view = viewUser
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewAuth:
		a.auth, cmd = a.auth.Update(msg)
	case viewUser:
		a.user, cmd = a.user.Update(msg)
	case viewMerchant:
		a.merchant, cmd = a.merchant.Update(msg)
	case viewCreate:
		a.create, cmd = a.create.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewAuth, viewCreate:
		return true
	case viewUser:
		return a.user.comments.focused
	case viewMerchant:
		return a.merchant.formOpen
	}
	return false
}

func (a App) viewName() string {
	switch a.view {
	case viewUser:
		return "user"
	case viewMerchant:
		return "merchant"
	case viewCreate:
		return "create"
	default:
		return "auth"
	}
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := center(logo, a.width) + "\n"

	snap := a.deps.Session.Current()
	if snap.LoggedIn() {
		who := selectedStyle.Render(snap.DisplayName())
		if city := snap.City(); city != "" {
			who += metaStyle.Render(" . " + city)
		}
		who += metaStyle.Render(" . " + snap.Kind.String())
		header += center(who, a.width)
	}

	var body, help string
	switch a.view {
	case viewAuth:
		body = a.auth.View()
		help = a.auth.helpKeys()
	case viewUser:
		body = a.user.View()
		help = a.user.helpKeys()
	case viewMerchant:
		body = a.merchant.View()
		help = a.merchant.helpKeys()
	case viewCreate:
		body = a.create.View()
		help = helpBar("tab", "next", "←/→", "category", "ctrl+s", "create", "esc", "cancel")
	}

	if a.helpOpen {
		body = helpView()
		help = helpBar("esc", "close", "q", "quit")
	}

	// Chrome budget: header(2) + help(1) = 3 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
	return fmt.Sprintf("%s\n%s\n%s", header, body, help)
}

// center pads s so it sits in the middle of width columns.
func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
