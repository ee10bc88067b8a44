package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/rentflow/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

const screenWidth = 36

var screenStyle = cli.BoxStyle.Width(screenWidth)

// View renders the handset.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := fmt.Sprintf("%s  %s", m.phoneNumber, m.serviceCode)
	b.WriteString(cli.SubtleStyle.Render(header))
	b.WriteString("\n")

	message := m.screen.Message
	if m.waiting {
		message = "Sending..."
	}
	b.WriteString(screenStyle.Render(lipgloss.NewStyle().Width(screenWidth - 4).Render(message)))
	b.WriteString("\n")

	if !m.ended && !m.waiting {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.lastErr != nil {
		b.WriteString(cli.FormatError(m.lastErr.Error()))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("text=%q", m.transcript.String())
	if m.ended {
		status = "Session ended. " + status
	}
	b.WriteString(cli.SubtleStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(m.help()))

	return b.String()
}

func (m Model) help() string {
	bindings := []string{}
	if !m.ended {
		bindings = append(bindings, helpFor(m.keymap.Send.Help().Key, m.keymap.Send.Help().Desc))
	}
	bindings = append(bindings,
		helpFor(m.keymap.Restart.Help().Key, m.keymap.Restart.Help().Desc),
		helpFor(m.keymap.Quit.Help().Key, m.keymap.Quit.Help().Desc))
	return strings.Join(bindings, " • ")
}

func helpFor(k, desc string) string {
	return k + " " + desc
}
