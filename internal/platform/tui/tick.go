// Package tui provides the Bubble Tea integration for blockfall.
// It handles the terminal UI loop, input mapping, the mode selector and the
// replay browser.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxTickRate caps the simulation rate; faster ticks only burn CPU.
const maxTickRate = 240

// TickMsg advances the game by one simulation step.
type TickMsg time.Time

// frameInterval converts a tick rate to the time between ticks. Rates
// outside 1..maxTickRate are clamped.
func frameInterval(rate int) time.Duration {
	return time.Second / time.Duration(min(max(rate, 1), maxTickRate))
}

func tickCmd(rate int) tea.Cmd {
	return tea.Tick(frameInterval(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
