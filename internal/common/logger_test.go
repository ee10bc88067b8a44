package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger_RejectsUnknownFormat(t *testing.T) {
	err := SetupLogger(slog.LevelInfo, "xml")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLogError_IncludesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogError(context.Background(), logger, errors.New("boom"), "lookup failed", Fields{"unit_id": "A1B2C3"})

	out := buf.String()
	assert.Contains(t, out, "lookup failed")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "unit_id=A1B2C3")
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "**********678", MaskPhone("+254712345678"))
	assert.Equal(t, "**", MaskPhone("12"))
	assert.Equal(t, "", MaskPhone(""))
}

func TestUserError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewUserError("could not import directory", inner)

	assert.Equal(t, "could not import directory: disk full", err.Error())
	assert.ErrorIs(t, err, inner)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not import directory", userErr.UserMessage)
}
