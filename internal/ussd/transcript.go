package ussd

import "strings"

// Delimiter separates entries in the carrier's text field.
const Delimiter = "*"

// Transcript is everything the caller has entered this session, oldest first.
type Transcript []string

// ParseTranscript splits the carrier's text field. An empty field is a
// session that has not received any input yet.
func ParseTranscript(text string) Transcript {
	text = strings.TrimSpace(text)
	if text == "" {
		return Transcript{}
	}
	return strings.Split(text, Delimiter)
}

// Len is the number of entries.
func (t Transcript) Len() int {
	return len(t)
}

// Latest returns the most recent entry.
func (t Transcript) Latest() (string, bool) {
	if len(t) == 0 {
		return "", false
	}
	return t[len(t)-1], true
}

// Append returns a new transcript with entry added.
func (t Transcript) Append(entry string) Transcript {
	next := make(Transcript, len(t), len(t)+1)
	copy(next, t)
	return append(next, entry)
}

// String joins the transcript back into the carrier's format.
func (t Transcript) String() string {
	return strings.Join(t, Delimiter)
}
