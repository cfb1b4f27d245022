package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/jvautrin/fermata/internal/errmsg"
	"github.com/jvautrin/fermata/internal/playback"
	"github.com/jvautrin/fermata/internal/playlist"
)

const seekStep = 5 * time.Second
const volumeStep = 0.05

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// The tick only forces a re-render of the player bar; state
		// lives in the playback service.
		return m, tickCmd()

	case scanDoneMsg:
		m.scanning = false
		if msg.err != nil {
			m.status = errmsg.Format(errmsg.OpLibraryScan, msg.err)
			return m, nil
		}
		added, removed := 0, 0
		for _, s := range msg.stats.BySource {
			added += s.Added
			removed += s.Removed
		}
		m.status = fmt.Sprintf("scan done: %s added, %s removed",
			humanize.Comma(int64(added)), humanize.Comma(int64(removed)))
		if err := m.browser.reload(); err != nil {
			m.status = errmsg.Format(errmsg.OpLibraryLoad, err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveState()
		m.svc.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.FocusNext):
		if m.focus == focusLibrary {
			m.focus = focusQueue
		} else {
			m.focus = focusLibrary
		}

	case key.Matches(msg, m.keys.PlayPause):
		m.svc.Toggle()

	case key.Matches(msg, m.keys.Stop):
		m.svc.Stop()

	case key.Matches(msg, m.keys.NextTrack):
		m.svc.Next()

	case key.Matches(msg, m.keys.PrevTrack):
		m.svc.Previous()

	case key.Matches(msg, m.keys.SeekFwd):
		m.svc.Seek(seekStep)

	case key.Matches(msg, m.keys.SeekBack):
		m.svc.Seek(-seekStep)

	case key.Matches(msg, m.keys.VolumeUp):
		m.svc.SetVolume(m.svc.Volume() + volumeStep)

	case key.Matches(msg, m.keys.VolumeDown):
		m.svc.SetVolume(m.svc.Volume() - volumeStep)

	case key.Matches(msg, m.keys.Mute):
		m.svc.ToggleMute()

	case key.Matches(msg, m.keys.Undo):
		if !m.svc.Undo() {
			m.status = "nothing to undo"
		}

	case key.Matches(msg, m.keys.Redo):
		if !m.svc.Redo() {
			m.status = "nothing to redo"
		}

	case key.Matches(msg, m.keys.RefreshLib):
		if !m.scanning {
			m.scanning = true
			m.status = "scanning library..."
			return m, m.refreshCmd()
		}

	default:
		if m.focus == focusLibrary {
			return m.handleLibraryKey(msg)
		}
		return m.handleQueueKey(msg)
	}
	return m, nil
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.browser.moveUp()

	case key.Matches(msg, m.keys.Down):
		m.browser.moveDown()

	case key.Matches(msg, m.keys.Back):
		m.browser.back()

	case key.Matches(msg, m.keys.Enter):
		if m.browser.level == levelTracks {
			tracks, err := m.browser.selection()
			if err != nil {
				m.status = errmsg.Format(errmsg.OpQueueAdd, err)
				break
			}
			m.svc.AddAndPlay(toPlaybackTracks(tracks)...)
			break
		}
		if err := m.browser.enter(); err != nil {
			m.status = errmsg.Format(errmsg.OpLibraryBrowse, err)
		}

	case key.Matches(msg, m.keys.Add):
		m.queueSelection(false)

	case key.Matches(msg, m.keys.Replace):
		m.queueSelection(true)
	}
	return m, nil
}

func (m *Model) queueSelection(replace bool) {
	tracks, err := m.browser.selection()
	if err != nil {
		m.status = errmsg.Format(errmsg.OpQueueAdd, err)
		return
	}
	if len(tracks) == 0 {
		return
	}
	if replace {
		m.svc.ReplaceTracks(toPlaybackTracks(tracks)...)
	} else {
		m.svc.AddTracks(toPlaybackTracks(tracks)...)
		m.status = fmt.Sprintf("added %s tracks", humanize.Comma(int64(len(tracks))))
	}
}

func (m Model) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.svc.QueueLen()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.queueCursor > 0 {
			m.queueCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.queueCursor < n-1 {
			m.queueCursor++
		}

	case key.Matches(msg, m.keys.Enter):
		m.svc.JumpTo(m.queueCursor)

	case key.Matches(msg, m.keys.Delete):
		if m.svc.RemoveTrack(m.queueCursor) && m.queueCursor >= m.svc.QueueLen() {
			m.queueCursor = m.svc.QueueLen() - 1
			if m.queueCursor < 0 {
				m.queueCursor = 0
			}
		}

	case key.Matches(msg, m.keys.MoveUp):
		if m.svc.MoveTrack(m.queueCursor, m.queueCursor-1) {
			m.queueCursor--
		}

	case key.Matches(msg, m.keys.MoveDown):
		if m.svc.MoveTrack(m.queueCursor, m.queueCursor+1) {
			m.queueCursor++
		}

	case key.Matches(msg, m.keys.Clear):
		m.svc.ClearQueue()
		m.queueCursor = 0
	}
	return m, nil
}

func toPlaybackTracks(tracks []playlist.Track) []playback.Track {
	out := make([]playback.Track, len(tracks))
	for i, t := range tracks {
		out[i] = playback.Track{
			ID:          t.ID,
			Path:        t.Path,
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       t.Album,
			TrackNumber: t.TrackNumber,
			Duration:    t.Duration,
		}
	}
	return out
}
