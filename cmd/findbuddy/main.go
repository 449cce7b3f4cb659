package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/findbuddy/internal/config"
	"github.com/naveenspark/findbuddy/internal/fakeapi"
	"github.com/naveenspark/findbuddy/internal/logger"
	"github.com/naveenspark/findbuddy/internal/session"
	"github.com/naveenspark/findbuddy/internal/storage"
	"github.com/naveenspark/findbuddy/internal/telemetry"
	"github.com/naveenspark/findbuddy/internal/tui"
	"github.com/naveenspark/findbuddy/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "--version", "version", "-v":
		fmt.Fprintln(stdout, "findbuddy "+version)
		return nil
	case "help", "--help", "-h":
		printHelp(stdout)
		return nil
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	switch cmd {
	case "":
		return runTUI(ctx, cfg)
	case "whoami":
		return runWhoami(ctx, cfg, stdout)
	case "logout":
		return runLogout(ctx, cfg, stdout)
	case "dev-server":
		return runDevServer(ctx, cfg)
	default:
		return fmt.Errorf("unknown command %q, see findbuddy help", cmd)
	}
}

// fileLogger sends logs to the configured file; the terminal belongs to the
// TUI or to command output.
func fileLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	f, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Output: f})
	return log, func() { f.Close() }, nil //nolint:errcheck
}

// clientEnv is everything a client-side command needs.
type clientEnv struct {
	backend  storage.Backend
	store    *session.Store
	api      *client.Client
	shutdown telemetry.ShutdownFunc
}

func (e *clientEnv) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.shutdown(ctx)   //nolint:errcheck // best-effort span flush
	e.backend.Close() //nolint:errcheck
}

func openClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*clientEnv, error) {
	backend, err := storage.Open(ctx, storage.Options{
		Kind:        storage.Kind(cfg.Storage.Kind),
		Path:        cfg.Storage.Path,
		RedisAddr:   cfg.Storage.RedisAddr,
		RedisDB:     cfg.Storage.RedisDB,
		RedisPrefix: cfg.Storage.RedisPrefix,
	})
	if err != nil {
		return nil, err
	}

	tp, shutdown, err := telemetry.InitTracing(telemetry.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.JaegerEndpoint,
		ServiceName: "findbuddy",
		Version:     version,
	})
	if err != nil {
		backend.Close() //nolint:errcheck
		return nil, err
	}

	store := session.NewStore(backend, log)
	api := client.New(cfg.APIURL, store,
		client.WithTimeout(cfg.Timeout),
		client.WithTransport(telemetry.NewTransport(nil, tp)),
	)
	return &clientEnv{backend: backend, store: store, api: api, shutdown: shutdown}, nil
}

// restore loads the stored session. A rejected credential is not fatal: the
// caller simply continues logged out.
func restore(ctx context.Context, env *clientEnv, log zerolog.Logger) (bool, error) {
	err := env.store.Restore(ctx, env.api)
	if errors.Is(err, session.ErrSessionInvalid) {
		log.Info().Msg("continuing logged out")
		return true, nil
	}
	return false, err
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	env, err := openClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := restore(ctx, env, log); err != nil {
		return err
	}
	log.Info().Str("api", cfg.APIURL).Str("state", env.store.Current().State.String()).Msg("starting")

	app := tui.NewApp(tui.Deps{
		API:     env.api,
		Auth:    session.NewAuthenticator(env.api, env.store),
		Session: env.store,
		Log:     logger.With("tui"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runWhoami(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	env, err := openClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer env.Close()

	invalid, err := restore(ctx, env, log)
	if err != nil {
		return err
	}
	snap := env.store.Current()
	switch {
	case snap.LoggedIn():
		line := fmt.Sprintf("%s (%s)", snap.DisplayName(), snap.Kind)
		if city := snap.City(); city != "" {
			line += " . " + city
		}
		fmt.Fprintln(stdout, line)
	case invalid:
		fmt.Fprintln(stdout, "not logged in (stored session was rejected)")
	default:
		fmt.Fprintln(stdout, "not logged in")
	}
	return nil
}

func runLogout(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	env, err := openClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.store.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Logged out.")
	return nil
}

func runDevServer(ctx context.Context, cfg *config.Config) error {
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	srv := fakeapi.New(fakeapi.Options{Secret: cfg.Dev.Secret, Logger: log})
	if cfg.Dev.Seed {
		if err := srv.Seed(); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, &http.Server{Addr: cfg.Dev.Addr, Handler: srv, ReadHeaderTimeout: 10 * time.Second}, log)
}

// serve runs hs until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, hs *http.Server, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", hs.Addr).Msg("dev backend listening")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("dev backend: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dev backend shutdown: %w", err)
	}
	return nil
}
