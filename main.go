package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jvautrin/fermata/internal/app"
	"github.com/jvautrin/fermata/internal/config"
	"github.com/jvautrin/fermata/internal/engine"
	"github.com/jvautrin/fermata/internal/library"
	"github.com/jvautrin/fermata/internal/playback"
	"github.com/jvautrin/fermata/internal/state"
	"github.com/jvautrin/fermata/internal/stderr"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fermata: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logFile, err := openLogFile(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	// Native audio libraries write warnings straight to fd 2, which
	// would tear up the TUI; reroute them into the log.
	if err := stderr.Start(); err != nil {
		slog.Warn("stderr capture unavailable", "err", err)
	} else {
		defer stderr.Stop()
		go func() {
			for line := range stderr.Messages {
				slog.Warn("audio backend", "msg", line)
			}
		}()
	}

	stateMgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer stateMgr.Close()

	lib := library.New(stateMgr.DB())

	// The engine runs on its own goroutine; the playback service is the
	// only thing that talks to it.
	eng := engine.New(engine.WithLogger(slog.Default()))
	go eng.Run()

	svc := playback.New(eng, slog.Default())
	defer svc.Close()

	m, err := app.New(cfg, stateMgr, lib, svc)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}

// openLogFile routes slog to a file under the xdg state dir. The TUI
// owns the terminal, so nothing may log to stdout or stderr.
func openLogFile(level string) (*os.File, error) {
	path, err := xdg.StateFile(filepath.Join("fermata", "fermata.log"))
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: parseLevel(level),
	})))
	return f, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
