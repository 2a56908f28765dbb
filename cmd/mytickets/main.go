// mytickets is the terminal My Tickets dashboard. It reads the viewer's
// access token, loads their tickets from the ticket API and keeps the list
// current from the live event stream until it exits.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/backend"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/stream"
	"github.com/spec-kit/ticket-dashboard/internal/theme"
	"github.com/spec-kit/ticket-dashboard/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var (
		token     string
		cookie    string
		baseURL   string
		webURL    string
		prefsPath string
		logFile   string
	)
	flagSet := pflag.NewFlagSet("mytickets", pflag.ContinueOnError)
	flagSet.StringVar(&token, "token", os.Getenv("MYTICKETS_TOKEN"), "bearer access token")
	flagSet.StringVar(&cookie, "cookie", os.Getenv("MYTICKETS_COOKIE"), "raw cookie string containing "+cfg.Auth.CookieName)
	flagSet.StringVar(&baseURL, "backend", cfg.Backend.BaseURL, "ticket API base URL")
	flagSet.StringVar(&webURL, "web", os.Getenv("MYTICKETS_WEB_URL"), "web app base URL used for respond links")
	flagSet.StringVar(&prefsPath, "prefs", "", "preferences file (default: user config dir)")
	flagSet.StringVar(&logFile, "log-file", "", "write JSON logs to this file (default: mytickets.log in the temp dir)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintln(os.Stderr, "Usage: mytickets [flags]")
		flagSet.PrintDefaults()
		return nil
	}

	if logFile == "" {
		logFile = cfg.Logger.File
	}
	if logFile == "" {
		logFile = os.TempDir() + string(os.PathSeparator) + "mytickets.log"
	}
	cfg.Logger.File = logFile
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if prefsPath == "" {
		if prefsPath, err = theme.DefaultFilePath(); err != nil {
			return fmt.Errorf("locate preferences: %w", err)
		}
	}
	themes := theme.NewFileStore(prefsPath)

	cfg.Backend.BaseURL = baseURL
	creds := auth.FirstOf(
		auth.StaticProvider(token),
		auth.CookieHeaderProvider{Header: cookie, Name: cfg.Auth.CookieName},
	)

	loader := dashboard.NewLoader(backend.NewClient(cfg.Backend, nil).WithLogger(logger), logger)
	subscribe := dashboard.NewStreamFactory(cfg.Backend.BaseURL+cfg.Backend.StreamPath, logger, stream.Options{})
	session := dashboard.NewSession(loader, subscribe, logger)

	result := mount(session, creds, cfg.Backend.Timeout())
	defer session.Unmount()

	current := domain.ThemeLight
	if result.Employee != nil {
		if saved, err := themes.Load(context.Background(), result.Employee.ID); err != nil {
			logger.Warn("theme preference unreadable", zap.Error(err))
		} else {
			current = saved
		}
	}

	model := tui.New(session, tui.Options{
		FilesBaseURL: cfg.Backend.FilesBaseURL,
		WebBaseURL:   webURL,
		Themes:       themes,
		Theme:        current,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// mount bounds the initial load by both backend reads plus slack.
func mount(session *dashboard.Session, creds auth.CredentialProvider, timeout time.Duration) dashboard.LoadResult {
	if timeout <= 0 {
		return session.Mount(context.Background(), creds)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout+time.Second)
	defer cancel()
	return session.Mount(ctx, creds)
}
