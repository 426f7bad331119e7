package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"duetrack/internal/api"
	"duetrack/internal/auth"
	"duetrack/internal/config"
	"duetrack/internal/notify"
	"duetrack/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "duetrack",
		Usage: "Track deadlines, teams and calendar sync from your terminal.",
		Commands: []*cli.Command{
			loginCommand(),
			registerCommand(),
			logoutCommand(),
			whoamiCommand(),
			profileCommand(),
			listCommand(),
			addCommand(),
			editCommand(),
			doneCommand(),
			rmCommand(),
			scanCommand(),
			teamCommand(),
			calendarCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// services bundles everything a command needs. Each invocation builds a
// fresh set; the session is restored from the persisted token.
type services struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *api.Client
	session *auth.Session
	store   *store.Store
	toasts  *notify.Center
}

func newServices() (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := setupLogger(cfg.LogLevel)

	tokens, err := auth.NewFileTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger, tokens)
	session := auth.NewSession(client, logger)
	toasts := notify.NewCenter()
	renderToasts(toasts)

	return &services{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		session: session,
		store:   store.New(client, session, logger),
		toasts:  toasts,
	}, nil
}

// requireAuth restores the session and fails when no valid login is held.
func (s *services) requireAuth(c *cli.Context) error {
	s.session.Init(c.Context)
	if !s.session.Authenticated() {
		return fmt.Errorf("not logged in. Run 'duetrack login' first")
	}
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
