// Package ussd implements the USSD payment callback: transcript parsing,
// per-step input validation and the session state machine that turns a
// caller's entries into a mobile-money charge.
package ussd

import (
	"errors"
	"fmt"
	"strings"
)

// Response verbs. A reply to the carrier starts with exactly one of them.
const (
	VerbContinue = "CON"
	VerbEnd      = "END"
)

// ErrMalformedResponse is returned when a reply does not start with a legal verb.
var ErrMalformedResponse = errors.New("malformed USSD response")

// Prompt is what the caller sees next. Terminal prompts close the session.
type Prompt struct {
	Message  string
	Terminal bool
}

// Continue builds a prompt that keeps the session open.
func Continue(message string) Prompt {
	return Prompt{Message: message}
}

// End builds a prompt that closes the session.
func End(message string) Prompt {
	return Prompt{Message: message, Terminal: true}
}

// Verb returns the protocol verb for the prompt.
func (p Prompt) Verb() string {
	if p.Terminal {
		return VerbEnd
	}
	return VerbContinue
}

// String renders the prompt as the carrier expects it.
func (p Prompt) String() string {
	return p.Verb() + " " + p.Message
}

// ParsePrompt is the inverse of Prompt.String.
func ParsePrompt(s string) (Prompt, error) {
	verb, message, _ := strings.Cut(s, " ")
	switch verb {
	case VerbContinue:
		return Continue(message), nil
	case VerbEnd:
		return End(message), nil
	default:
		return Prompt{}, fmt.Errorf("%w: %q", ErrMalformedResponse, s)
	}
}

// Result is the outcome of validating one piece of caller input. It holds
// either a normalised value or the prompt to show instead, never both.
type Result[T any] struct {
	value  T
	prompt Prompt
	valid  bool
}

// Valid wraps an accepted value.
func Valid[T any](value T) Result[T] {
	return Result[T]{value: value, valid: true}
}

// Invalid wraps a rejection.
func Invalid[T any](prompt Prompt) Result[T] {
	return Result[T]{prompt: prompt}
}

// IsValid reports whether the input was accepted.
func (r Result[T]) IsValid() bool {
	return r.valid
}

// Value returns the accepted value; ok is false for invalid results.
func (r Result[T]) Value() (value T, ok bool) {
	return r.value, r.valid
}

// Prompt returns the rejection prompt; ok is false for valid results.
func (r Result[T]) Prompt() (prompt Prompt, ok bool) {
	return r.prompt, !r.valid
}
