// Package app is the terminal frontend: a bubbletea model over the
// playback service and the library. It renders the artist/album/track
// browser, the playing queue and the player bar, and maps key presses
// to playback and queue operations.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jvautrin/fermata/internal/config"
	"github.com/jvautrin/fermata/internal/library"
	"github.com/jvautrin/fermata/internal/playback"
	"github.com/jvautrin/fermata/internal/state"
)

type focusArea int

const (
	focusLibrary focusArea = iota
	focusQueue
)

type tickMsg time.Time

type scanDoneMsg struct {
	stats *library.ScanStats
	err   error
}

// Model is the bubbletea application model.
type Model struct {
	keys keyMap

	cfg      *config.Config
	stateMgr *state.Manager
	lib      *library.Library
	svc      *playback.Service

	browser     *browser
	queueCursor int
	focus       focusArea

	width  int
	height int

	status   string
	scanning bool
}

// New builds the model and restores persisted queue and volume state.
func New(cfg *config.Config, stateMgr *state.Manager, lib *library.Library, svc *playback.Service) (Model, error) {
	m := Model{
		keys:     defaultKeyMap(),
		cfg:      cfg,
		stateMgr: stateMgr,
		lib:      lib,
		svc:      svc,
		browser:  newBrowser(lib),
	}

	if err := m.browser.reload(); err != nil {
		return Model{}, err
	}
	if err := m.restoreState(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd runs a library scan off the UI goroutine.
func (m Model) refreshCmd() tea.Cmd {
	sources := m.cfg.Sources()
	lib := m.lib
	return func() tea.Msg {
		stats, err := lib.Refresh(context.Background(), sources, nil)
		return scanDoneMsg{stats: stats, err: err}
	}
}
