package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jvautrin/fermata/internal/playlist"
)

var (
	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("62"))

	titleStyle = lipgloss.NewStyle().Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	currentTrackStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	playerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

const playerBarHeight = 3 // top border + content + bottom border

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	bodyHeight := m.height - playerBarHeight - 1 // status line
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	libWidth := m.width * 3 / 5
	queueWidth := m.width - libWidth

	lib := m.renderLibraryPane(libWidth, bodyHeight)
	queue := m.renderQueuePane(queueWidth, bodyHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top, lib, queue)
	return body + "\n" + m.renderPlayerBar() + "\n" + m.renderStatusLine()
}

// renderList renders rows with a cursor, scrolled so the cursor stays
// visible.
func renderList(rows []string, cursor, width, height int, markCurrent int) string {
	if len(rows) == 0 {
		return statusStyle.Render("(empty)")
	}

	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		row := truncate(rows[i], width)
		switch {
		case i == cursor:
			row = cursorStyle.Render(row)
		case i == markCurrent:
			row = currentTrackStyle.Render(row)
		}
		b.WriteString(row)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) renderLibraryPane(width, height int) string {
	style := paneStyle
	if m.focus == focusLibrary {
		style = focusedPaneStyle
	}
	inner := width - 2
	listHeight := height - 3 // border + title line

	content := titleStyle.Render(truncate(m.browser.title(), inner)) + "\n" +
		renderList(m.browser.rows(), m.browser.pos(), inner, listHeight, -1)
	return style.Width(inner).Height(height - 2).Render(content)
}

func (m Model) renderQueuePane(width, height int) string {
	style := paneStyle
	if m.focus == focusQueue {
		style = focusedPaneStyle
	}
	inner := width - 2
	listHeight := height - 3

	tracks := m.svc.QueueTracks()
	rows := make([]string, len(tracks))
	for i, t := range tracks {
		rows[i] = fmt.Sprintf("%s - %s", t.Artist, t.Title)
		if t.Artist == "" {
			rows[i] = t.Title
		}
	}

	title := fmt.Sprintf("Queue (%d)", len(tracks))
	content := titleStyle.Render(title) + "\n" +
		renderList(rows, m.queueCursor, inner, listHeight, m.svc.QueueCurrentIndex())
	return style.Width(inner).Height(height - 2).Render(content)
}

func (m Model) renderPlayerBar() string {
	innerWidth := m.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}

	track := m.svc.CurrentTrack()
	if track == nil || m.svc.IsStopped() {
		return playerBarStyle.Width(innerWidth).Render(statusStyle.Render(" stopped"))
	}

	status := "▶"
	if m.svc.IsPaused() {
		status = "⏸"
	}

	left := fmt.Sprintf(" %s  %s", status, track.Title)
	if track.Artist != "" {
		left = fmt.Sprintf(" %s  %s - %s", status, track.Artist, track.Title)
	}

	right := fmt.Sprintf("%s / %s ",
		playlist.FormatDuration(m.svc.Position()),
		playlist.FormatDuration(m.svc.Duration()))
	if m.svc.Muted() {
		right = "muted  " + right
	} else {
		right = fmt.Sprintf("vol %.0f%%  %s", m.svc.Volume()*100, right)
	}

	padding := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		left = truncate(left, innerWidth-lipgloss.Width(right)-1)
		padding = 1
	}

	content := left + strings.Repeat(" ", padding) + right
	return playerBarStyle.Width(innerWidth).Render(content)
}

func (m Model) renderStatusLine() string {
	if m.status != "" {
		return statusStyle.Render(truncate(" "+m.status, m.width))
	}
	help := " q quit · tab pane · space play/pause · n/p track · a add · r replace · R rescan"
	return statusStyle.Render(truncate(help, m.width))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
