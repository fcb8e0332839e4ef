// Package tui renders the chat session and the suggestion clouds in the
// terminal.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// TranscriptChangedMsg tells the chat panel to re-read the session.
type TranscriptChangedMsg struct{}

// CloudsChangedMsg tells the cloud panel to re-read the board.
type CloudsChangedMsg struct{}

// driftTickMsg advances the cloud animation.
type driftTickMsg time.Time

const driftInterval = 200 * time.Millisecond

func driftTick() tea.Cmd {
	return tea.Tick(driftInterval, func(t time.Time) tea.Msg { return driftTickMsg(t) })
}
