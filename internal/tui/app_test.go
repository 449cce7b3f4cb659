package tui

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/naveenspark/findbuddy/internal/session"
	"github.com/naveenspark/findbuddy/internal/storage"
	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

// fakeAuth logs straight into the store unless err is set.
type fakeAuth struct {
	store *session.Store
	err   error
	calls []string
}

func (f *fakeAuth) LoginUser(ctx context.Context, req client.LoginRequest) (*domain.User, error) {
	f.calls = append(f.calls, "LoginUser:"+req.Email)
	if f.err != nil {
		return nil, f.err
	}
	u := &domain.User{ID: uuid.New(), Name: "Ada", Email: req.Email, City: "San Jose"}
	return u, f.store.LoginUser(ctx, "user-token", u)
}

func (f *fakeAuth) RegisterUser(ctx context.Context, req client.RegisterUserRequest) (*domain.User, error) {
	f.calls = append(f.calls, "RegisterUser:"+req.Email)
	if f.err != nil {
		return nil, f.err
	}
	u := &domain.User{ID: uuid.New(), Name: req.Name, Email: req.Email, City: req.City}
	return u, f.store.LoginUser(ctx, "user-token", u)
}

func (f *fakeAuth) LoginMerchant(ctx context.Context, req client.LoginRequest) (*domain.Merchant, error) {
	f.calls = append(f.calls, "LoginMerchant:"+req.Email)
	if f.err != nil {
		return nil, f.err
	}
	m := &domain.Merchant{ID: uuid.New(), BusinessName: "Cafe Uno", Email: req.Email, City: "San Jose"}
	return m, f.store.LoginMerchant(ctx, "merchant-token", m)
}

func (f *fakeAuth) RegisterMerchant(ctx context.Context, req client.RegisterMerchantRequest) (*domain.Merchant, error) {
	f.calls = append(f.calls, "RegisterMerchant:"+req.Email)
	if f.err != nil {
		return nil, f.err
	}
	m := &domain.Merchant{ID: uuid.New(), BusinessName: req.BusinessName, Email: req.Email, City: req.City}
	return m, f.store.LoginMerchant(ctx, "merchant-token", m)
}

func newStore(t *testing.T) (*session.Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return session.NewStore(mem, zerolog.Nop()), mem
}

func newTestApp(t *testing.T, store *session.Store, api *fakeAPI) App {
	t.Helper()
	app := NewApp(Deps{
		API:      api,
		Auth:     &fakeAuth{store: store},
		Session:  store,
		Location: time.UTC,
		Log:      zerolog.Nop(),
	})
	m, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App)
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func TestNewApp_ViewFollowsSession(t *testing.T) {
	tests := []struct {
		name  string
		login func(*session.Store) error
		want  view
	}{
		{"logged out", func(*session.Store) error { return nil }, viewAuth},
		{"user", func(s *session.Store) error {
			return s.LoginUser(context.Background(), "tok", &domain.User{ID: uuid.New(), Name: "Ada", City: "San Jose"})
		}, viewUser},
		{"merchant", func(s *session.Store) error {
			return s.LoginMerchant(context.Background(), "tok", &domain.Merchant{ID: uuid.New(), BusinessName: "Cafe Uno"})
		}, viewMerchant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newStore(t)
			if err := tt.login(store); err != nil {
				t.Fatal(err)
			}
			app := newTestApp(t, store, &fakeAPI{})
			if app.view != tt.want {
				t.Errorf("view = %s, want %d", app.viewName(), tt.want)
			}
		})
	}
}

func TestApp_HeaderShowsAccount(t *testing.T) {
	store, _ := newStore(t)
	if err := store.LoginUser(context.Background(), "tok", &domain.User{ID: uuid.New(), Name: "Ada", City: "San Jose"}); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, store, &fakeAPI{})

	view := app.View()
	for _, want := range []string{"Ada", "San Jose", "user"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in header", want)
		}
	}
}

func TestApp_LoginEntersDashboard(t *testing.T) {
	store, _ := newStore(t)
	api := &fakeAPI{around: []domain.Activity{makeActivity("Trail run")}}
	app := newTestApp(t, store, api)

	app = typeText(app, "ada@example.com", func(a App, msg tea.Msg) (App, tea.Cmd) { return update(t, a, msg) })
	app, _ = update(t, app, key("tab"))
	app = typeText(app, "secret", func(a App, msg tea.Msg) (App, tea.Cmd) { return update(t, a, msg) })

	app, cmd := update(t, app, key("enter"))
	done := run(t, cmd)
	if _, ok := done.(authDoneMsg); !ok {
		t.Fatalf("got %T, want authDoneMsg", done)
	}

	app, cmd = update(t, app, done)
	if app.view != viewUser {
		t.Fatalf("view = %s, want user", app.viewName())
	}
	app, _ = update(t, app, run(t, cmd))
	if !strings.Contains(app.View(), "Trail run") {
		t.Errorf("expected dashboard content after login, got:\n%s", app.View())
	}
}

func TestApp_SessionExpiredLogsOut(t *testing.T) {
	store, mem := newStore(t)
	if err := store.LoginUser(context.Background(), "tok", &domain.User{ID: uuid.New(), Name: "Ada", City: "San Jose"}); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, store, &fakeAPI{})

	app, cmd := update(t, app, tabLoadedMsg{
		tab: tabFindBuddies,
		gen: app.user.tabs[tabFindBuddies].gen,
		err: &client.HTTPError{StatusCode: http.StatusUnauthorized, Message: "Token expired"},
	})
	expired := run(t, cmd)
	if _, ok := expired.(sessionExpiredMsg); !ok {
		t.Fatalf("got %T, want sessionExpiredMsg", expired)
	}

	app, cmd = update(t, app, expired)
	app, _ = update(t, app, run(t, cmd))

	if app.view != viewAuth {
		t.Errorf("view = %s, want auth", app.viewName())
	}
	if store.Current().LoggedIn() || store.Token() != "" {
		t.Error("session should be cleared")
	}
	if mem.Len() != 0 {
		t.Errorf("storage still holds %d keys", mem.Len())
	}
	if !strings.Contains(app.View(), "session expired") {
		t.Errorf("expected expiry notice on the login form, got:\n%s", app.View())
	}
}

func TestApp_IgnoresAnswersFromEarlierSession(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	ada := &domain.User{ID: uuid.New(), Name: "Ada", City: "San Jose"}
	if err := store.LoginUser(ctx, "tok", ada); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, store, &fakeAPI{})
	stale := tabLoadedMsg{
		epoch: app.epoch,
		tab:   tabFindBuddies,
		gen:   app.user.tabs[tabFindBuddies].gen,
		err:   &client.HTTPError{StatusCode: http.StatusUnauthorized, Message: "Token expired"},
	}

	app, cmd := update(t, app, key("L"))
	app, _ = update(t, app, run(t, cmd))
	if err := store.LoginUser(ctx, "tok-2", ada); err != nil {
		t.Fatal(err)
	}
	app, _ = update(t, app, authDoneMsg{})
	if app.user.tabs[tabFindBuddies].gen != stale.gen {
		t.Fatalf("new dashboard gen = %d, want %d so only the session tells them apart", app.user.tabs[tabFindBuddies].gen, stale.gen)
	}

	app, cmd = update(t, app, stale)
	if cmd != nil {
		t.Fatalf("stale 401 produced %T", cmd())
	}
	if app.view != viewUser || store.Token() != "tok-2" {
		t.Errorf("new session was disturbed: view=%s token=%q", app.viewName(), store.Token())
	}
}

func TestApp_LogoutKey(t *testing.T) {
	store, _ := newStore(t)
	if err := store.LoginMerchant(context.Background(), "tok", &domain.Merchant{ID: uuid.New(), BusinessName: "Cafe Uno"}); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, store, &fakeAPI{})

	app, cmd := update(t, app, key("L"))
	app, _ = update(t, app, run(t, cmd))
	if app.view != viewAuth || store.Current().LoggedIn() {
		t.Errorf("expected logged out, view=%s", app.viewName())
	}
	if app.auth.status != "" {
		t.Errorf("a manual logout should not show an error, got %q", app.auth.status)
	}
}

func TestApp_CreateFlow(t *testing.T) {
	store, _ := newStore(t)
	if err := store.LoginUser(context.Background(), "tok", &domain.User{ID: uuid.New(), Name: "Ada", City: "San Jose"}); err != nil {
		t.Fatal(err)
	}
	api := &fakeAPI{}
	app := newTestApp(t, store, api)

	app, _ = update(t, app, key("n"))
	if app.view != viewCreate {
		t.Fatalf("view = %s, want create", app.viewName())
	}
	// Typing "q" into a form must not quit.
	app, cmd := update(t, app, key("q"))
	if cmd != nil {
		t.Error("q in the create form should be text, not quit")
	}
	app, _ = update(t, app, key("esc"))
	if app.view != viewUser {
		t.Fatalf("esc should return to the dashboard, view = %s", app.viewName())
	}

	app, _ = update(t, app, key("n"))
	app, cmd = update(t, app, activityCreatedMsg{activity: &domain.Activity{ID: uuid.New(), Title: "Picnic"}})
	if app.view != viewUser {
		t.Errorf("view = %s, want user after create", app.viewName())
	}
	if app.user.status != `created "Picnic"` {
		t.Errorf("status = %q", app.user.status)
	}
	if _, ok := run(t, cmd).(tabLoadedMsg); !ok {
		t.Error("expected the active tab to refresh after create")
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	store, _ := newStore(t)
	if err := store.LoginUser(context.Background(), "tok", &domain.User{ID: uuid.New(), Name: "Ada", City: "San Jose"}); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, store, &fakeAPI{})

	app, _ = update(t, app, key("h"))
	if !app.helpOpen || !strings.Contains(app.View(), "findbuddy dev-server") {
		t.Fatal("expected help overlay")
	}
	app, _ = update(t, app, key("esc"))
	if app.helpOpen {
		t.Error("esc should close help")
	}
}

func TestApp_ViewFitsHeight(t *testing.T) {
	store, _ := newStore(t)
	if err := store.LoginUser(context.Background(), "tok", &domain.User{ID: uuid.New(), Name: "Ada", City: "San Jose"}); err != nil {
		t.Fatal(err)
	}
	list := make([]domain.Activity, 40)
	for i := range list {
		list[i] = makeActivity("Activity")
	}
	app := newTestApp(t, store, &fakeAPI{})
	app, _ = update(t, app, tea.WindowSizeMsg{Width: 80, Height: 20})
	app, _ = update(t, app, tabLoadedMsg{tab: tabFindBuddies, gen: app.user.tabs[tabFindBuddies].gen, activities: list})

	if lines := strings.Count(app.View(), "\n") + 1; lines > 20 {
		t.Errorf("view has %d lines, want <= 20", lines)
	}
}
