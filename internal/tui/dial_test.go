package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/rentflow/internal/ussd"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSender answers from a queue and records every request.
type scriptedSender struct {
	replies  []ussd.Prompt
	errs     []error
	requests []ussd.Request
}

func (s *scriptedSender) Send(_ context.Context, req ussd.Request) (ussd.Prompt, error) {
	s.requests = append(s.requests, req)
	i := len(s.requests) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return ussd.Prompt{}, s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return ussd.End("no more replies"), nil
}

func newTestModel(sender Sender) Model {
	n := 0
	return NewModel(DialConfig{
		Sender:      sender,
		PhoneNumber: "+254712345678",
		ServiceCode: "*384*1#",
		NewSessionID: func() string {
			n++
			return fmt.Sprintf("session-%d", n)
		},
	})
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func typeAndSend(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return run(t, next.(Model), cmd)
}

func TestModel_FullSession(t *testing.T) {
	sender := &scriptedSender{replies: []ussd.Prompt{
		ussd.Continue("Welcome"),
		ussd.Continue("Enter amount"),
		ussd.Continue("Confirm?"),
		ussd.End("Payment initiated. Thank you."),
	}}
	m := newTestModel(sender)

	m = run(t, m, m.dial())
	assert.Equal(t, "Welcome", m.screen.Message)
	assert.False(t, m.waiting)

	m = typeAndSend(t, m, "123456")
	m = typeAndSend(t, m, "500")
	m = typeAndSend(t, m, "1")

	assert.True(t, m.ended)
	assert.Equal(t, "123456*500*1", m.transcript.String())
	assert.Contains(t, m.View(), "Payment initiated")

	require.Len(t, sender.requests, 4)
	texts := make([]string, 0, len(sender.requests))
	for _, r := range sender.requests {
		texts = append(texts, r.Text)
		assert.Equal(t, "session-1", r.SessionID)
		assert.Equal(t, "+254712345678", r.PhoneNumber)
	}
	assert.Equal(t, []string{"", "123456", "123456*500", "123456*500*1"}, texts)

	// Input is ignored once the session has ended.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestModel_FailedRequestKeepsTranscript(t *testing.T) {
	sender := &scriptedSender{
		replies: []ussd.Prompt{ussd.Continue("Welcome"), {}, ussd.Continue("Enter amount")},
		errs:    []error{nil, errors.New("connection refused")},
	}
	m := newTestModel(sender)
	m = run(t, m, m.dial())

	m = typeAndSend(t, m, "123456")
	require.Error(t, m.lastErr)
	assert.Equal(t, "", m.transcript.String())
	assert.Equal(t, "Welcome", m.screen.Message)
	assert.Contains(t, m.View(), "connection refused")

	m = typeAndSend(t, m, "123456")
	assert.NoError(t, m.lastErr)
	assert.Equal(t, "123456", m.transcript.String())
}

func TestModel_RestartStartsNewSession(t *testing.T) {
	sender := &scriptedSender{replies: []ussd.Prompt{
		ussd.Continue("Welcome"),
		ussd.End("Payment cancelled."),
		ussd.Continue("Welcome"),
	}}
	m := newTestModel(sender)
	m = run(t, m, m.dial())
	m = typeAndSend(t, m, "2")
	require.True(t, m.ended)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = run(t, next.(Model), cmd)

	assert.False(t, m.ended)
	assert.Empty(t, m.transcript)
	require.Len(t, sender.requests, 3)
	assert.Equal(t, "session-2", sender.requests[2].SessionID)
	assert.Equal(t, "", sender.requests[2].Text)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(&scriptedSender{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.(Model).View())
}

func TestCallbackClient(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		got = r
		_, _ = io.WriteString(w, "CON Enter amount to pay (KES):")
	}))
	defer server.Close()

	client := NewCallbackClient(server.URL, 0)
	prompt, err := client.Send(context.Background(), ussd.Request{
		SessionID:   "s-1",
		ServiceCode: "*384*1#",
		PhoneNumber: "+254712345678",
		Text:        "123456",
	})
	require.NoError(t, err)
	assert.Equal(t, ussd.Continue("Enter amount to pay (KES):"), prompt)

	require.NotNil(t, got)
	assert.Equal(t, "s-1", got.PostForm.Get("sessionId"))
	assert.Equal(t, "*384*1#", got.PostForm.Get("serviceCode"))
	assert.Equal(t, "+254712345678", got.PostForm.Get("phoneNumber"))
	assert.Equal(t, "123456", got.PostForm.Get("text"))
}

func TestCallbackClient_Errors(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}))
		defer server.Close()

		_, err := NewCallbackClient(server.URL, 0).Send(context.Background(), ussd.Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "405")
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "hello")
		}))
		defer server.Close()

		_, err := NewCallbackClient(server.URL, 0).Send(context.Background(), ussd.Request{})
		require.ErrorIs(t, err, ussd.ErrMalformedResponse)
	})
}

func TestRunDial_RequiresSender(t *testing.T) {
	require.Error(t, RunDial(context.Background(), DialConfig{PhoneNumber: "+254712345678"}))
	require.Error(t, RunDial(context.Background(), DialConfig{Sender: &scriptedSender{}}))
}
