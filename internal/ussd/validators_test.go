package ussd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		valid bool
	}{
		{input: "500", want: 500, valid: true},
		{input: "1", want: 1, valid: true},
		{input: "150000", want: 150000, valid: true},
		{input: " 200 ", want: 200, valid: true},
		{input: "12.34", want: 12.34, valid: true},
		{input: "1500.5", want: 1500.5, valid: true},
		{input: "0"},
		{input: "0.99"},
		{input: "-5"},
		{input: "150000.01"},
		{input: "150001"},
		{input: "12.345"},
		{input: "abc"},
		{input: ""},
		{input: "NaN"},
		{input: "Inf"},
		{input: "0x1_F4"},
		{input: "0x1F4p0"},
		{input: "1_000"},
		{input: "5e2"},
		{input: "+500"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ValidateAmount(tt.input)
			require.Equal(t, tt.valid, result.IsValid())
			if !tt.valid {
				prompt, ok := result.Prompt()
				require.True(t, ok)
				assert.False(t, prompt.Terminal)
				assert.Contains(t, prompt.Message, "Invalid amount: "+tt.input)
				return
			}
			got, _ := result.Value()
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{input: "+254712345678", valid: true},
		{input: "+254112345678", valid: true},
		{input: "0712345678"},
		{input: "254712345678"},
		{input: "+25471234567"},
		{input: "+2547123456789"},
		{input: "+255712345678"},
		{input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ValidatePhoneNumber(tt.input)
			assert.Equal(t, tt.valid, result.IsValid())
			if !tt.valid {
				prompt, _ := result.Prompt()
				assert.Equal(t, Continue("Invalid phone number: "+tt.input+".\nPlease try again."), prompt)
			}
		})
	}
}

func TestUnitValidator(t *testing.T) {
	ctx := context.Background()

	t.Run("known unit", func(t *testing.T) {
		dir := newStubDirectory()
		result := NewUnitValidator(dir, time.Second, quietLogger()).Validate(ctx, "123456")
		value, ok := result.Value()
		require.True(t, ok)
		assert.Equal(t, "123456", value)
	})

	t.Run("wrong length skips lookup", func(t *testing.T) {
		dir := newStubDirectory()
		v := NewUnitValidator(dir, time.Second, quietLogger())

		for _, input := range []string{"", "12345", "1234567"} {
			prompt, ok := v.Validate(ctx, input).Prompt()
			require.True(t, ok)
			assert.Equal(t, Continue(msgUnitLength), prompt)
		}
		assert.Zero(t, dir.lookupCount())
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		dir := newStubDirectory()
		prompt, ok := NewUnitValidator(dir, time.Second, quietLogger()).Validate(ctx, "12345é").Prompt()
		require.True(t, ok)
		assert.Equal(t, Continue(msgUnitNotFound), prompt)
		assert.Equal(t, 1, dir.lookupCount())
	})

	t.Run("unknown unit is retryable", func(t *testing.T) {
		dir := newStubDirectory()
		prompt, ok := NewUnitValidator(dir, time.Second, quietLogger()).Validate(ctx, "999999").Prompt()
		require.True(t, ok)
		assert.Equal(t, "CON Unit not found. Please try again.", prompt.String())
	})

	t.Run("directory fault ends session", func(t *testing.T) {
		dir := newStubDirectory()
		dir.lookupErr = errors.New("database is locked")
		prompt, ok := NewUnitValidator(dir, time.Second, quietLogger()).Validate(ctx, "123456").Prompt()
		require.True(t, ok)
		assert.Equal(t, End(msgSomethingWrong), prompt)
	})

	t.Run("lookup timeout ends session", func(t *testing.T) {
		dir := newStubDirectory()
		dir.block = true
		start := time.Now()
		prompt, ok := NewUnitValidator(dir, 20*time.Millisecond, quietLogger()).Validate(ctx, "123456").Prompt()
		require.True(t, ok)
		assert.True(t, prompt.Terminal)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("zero timeout uses default", func(t *testing.T) {
		v := NewUnitValidator(newStubDirectory(), 0, nil)
		assert.Equal(t, DefaultLookupTimeout, v.timeout)
		assert.NotNil(t, v.logger)
	})
}
