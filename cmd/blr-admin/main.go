package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blrlabs/blr-admin/internal/config"
	"github.com/blrlabs/blr-admin/internal/data"
	"github.com/blrlabs/blr-admin/internal/logging"
	"github.com/blrlabs/blr-admin/internal/session"
	"github.com/blrlabs/blr-admin/internal/tui"
	"github.com/blrlabs/blr-admin/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

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

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("blr-admin " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout(cfg)
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
			printHelp()
			os.Exit(2)
		}
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return fmt.Errorf("resolve state dir: %w", err)
	}
	log, closeLog, err := logging.Open(logPath, cfg.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	sessionPath, err := cfg.SessionPath()
	if err != nil {
		return fmt.Errorf("resolve state dir: %w", err)
	}
	store := session.NewFileStore(sessionPath)
	api := client.New(cfg.APIURL, "").
		WithLogger(log).
		WithTimeout(cfg.RequestTimeout)
	mgr := session.NewManager(store, api)

	// Listing calls carry the session token, so the data service is
	// rebuilt whenever a login produces a new one.
	newService := func(token string) *data.Service {
		c := client.New(cfg.APIURL, token).
			WithLogger(log).
			WithTimeout(cfg.RequestTimeout)
		return data.NewService(c, cfg.UsersCacheTTL, cfg.AdminsCacheTTL)
	}

	app := tui.NewApp(mgr, newService, cfg.APIURL, version)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogout clears the persisted session without starting the TUI.
func runLogout(cfg config.Config) error {
	sessionPath, err := cfg.SessionPath()
	if err != nil {
		return fmt.Errorf("resolve state dir: %w", err)
	}
	store := session.NewFileStore(sessionPath)
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("signed out")
	return nil
}

func printHelp() {
	fmt.Print(`blr-admin — terminal console for the BLR backend

Usage:
  blr-admin            start the console
  blr-admin logout     discard the saved session
  blr-admin version    print the version

Environment:
  BLR_API_URL          backend base URL
  BLR_STATE_DIR        session and log directory (default ~/.blr-admin)
  BLR_DEBUG            write request logs to debug.log when true
`)
}
