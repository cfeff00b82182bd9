package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/fireremote/internal/config"
)

// Run launches the interactive remote on the current terminal. It blocks
// until the user quits.
func Run(reg *config.Registry) error {
	// Engine events arrive from client goroutines; they are forwarded into
	// the program once it exists
	var program *tea.Program
	send := func(msg tea.Msg) {
		if program != nil {
			program.Send(msg)
		}
	}

	model := NewAppModel(reg, send)
	program = tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run interactive remote: %w", err)
	}
	return nil
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

func millisToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
