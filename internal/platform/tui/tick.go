// Package tui provides the Bubble Tea driver for git-streak.
// It handles the terminal UI loop, input mapping, dataset picking and the SSH
// server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game tick. Loop identifies the tick chain so a
// model ignores ticks left over from an earlier game.
type TickMsg struct {
	At   time.Time
	Loop uint64
}

var tickLoops atomic.Uint64

// nextLoop returns a fresh tick chain id.
func nextLoop() uint64 {
	return tickLoops.Add(1)
}

// tickCmd returns a Bubble Tea command that sends a tick after interval.
func tickCmd(interval time.Duration, loop uint64) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Loop: loop}
	})
}
