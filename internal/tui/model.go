package tui

import (
	"context"

	"github.com/Veraticus/rentflow/internal/ussd"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// responseMsg carries the reply to one simulated request.
type responseMsg struct {
	err        error
	prompt     ussd.Prompt
	transcript ussd.Transcript
}

// Model is the handset simulator state. The transcript only grows when the
// server has answered, so a failed request can be retried as typed.
type Model struct {
	sender       Sender
	lastErr      error
	newSessionID func() string
	keymap       KeyMap
	input        textinput.Model
	screen       ussd.Prompt
	sessionID    string
	phoneNumber  string
	serviceCode  string
	transcript   ussd.Transcript
	width        int
	waiting      bool
	ended        bool
	quitting     bool
}

// NewModel creates a simulator that dials through sender.
func NewModel(cfg DialConfig) Model {
	input := textinput.New()
	input.Placeholder = "reply"
	input.CharLimit = 40
	input.Width = 30
	input.Focus()

	newSessionID := cfg.NewSessionID
	if newSessionID == nil {
		newSessionID = uuid.NewString
	}

	return Model{
		sender:       cfg.Sender,
		newSessionID: newSessionID,
		keymap:       DefaultKeyMap(),
		input:        input,
		sessionID:    newSessionID(),
		phoneNumber:  cfg.PhoneNumber,
		serviceCode:  cfg.ServiceCode,
		transcript:   ussd.Transcript{},
		waiting:      true,
	}
}

// Init dials the service code.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.dial())
}

// dial sends the opening request of the current session.
func (m Model) dial() tea.Cmd {
	return m.send(ussd.Transcript{})
}

func (m Model) send(transcript ussd.Transcript) tea.Cmd {
	sender := m.sender
	req := ussd.Request{
		SessionID:   m.sessionID,
		ServiceCode: m.serviceCode,
		PhoneNumber: m.phoneNumber,
		Text:        transcript.String(),
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultRequestTimeout)
		defer cancel()
		prompt, err := sender.Send(ctx, req)
		return responseMsg{prompt: prompt, transcript: transcript, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keymap.Restart):
			if m.waiting {
				return m, nil
			}
			m.sessionID = m.newSessionID()
			m.transcript = ussd.Transcript{}
			m.screen = ussd.Prompt{}
			m.lastErr = nil
			m.ended = false
			m.waiting = true
			m.input.Reset()
			return m, m.dial()

		case key.Matches(msg, m.keymap.Send):
			if m.waiting || m.ended {
				return m, nil
			}
			m.waiting = true
			m.lastErr = nil
			next := m.transcript.Append(m.input.Value())
			return m, m.send(next)
		}

	case responseMsg:
		m.waiting = false
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.transcript = msg.transcript
		m.screen = msg.prompt
		m.ended = msg.prompt.Terminal
		m.input.Reset()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
