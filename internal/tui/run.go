package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// DialConfig holds the configuration for a simulated handset.
type DialConfig struct {
	Sender       Sender
	NewSessionID func() string
	PhoneNumber  string
	ServiceCode  string
}

// RunDial runs the handset simulator until the user hangs up.
func RunDial(ctx context.Context, cfg DialConfig) error {
	if cfg.Sender == nil {
		return fmt.Errorf("sender is required")
	}
	if cfg.PhoneNumber == "" {
		return fmt.Errorf("phone number is required")
	}

	program := tea.NewProgram(NewModel(cfg), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("simulator failed: %w", err)
	}
	return nil
}
