package ussd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/rentflow/internal/common"
	"github.com/Veraticus/rentflow/internal/model"
	"github.com/Veraticus/rentflow/internal/service"
)

// Amount bounds in display currency (KES), inclusive.
const (
	MinAmount = 1
	MaxAmount = 150_000
)

// DefaultLookupTimeout bounds a unit lookup when none is configured.
const DefaultLookupTimeout = 3 * time.Second

var (
	phonePattern = regexp.MustCompile(`^\+254\d{9}$`)
	// amountPattern keeps ParseFloat from accepting hex, underscores or exponents.
	amountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// ValidateAmount coerces caller text to a display-currency amount.
// The value must lie in [MinAmount, MaxAmount] and convert to whole subunits.
func ValidateAmount(text string) Result[float64] {
	rejected := Invalid[float64](Continue(fmt.Sprintf(msgBadAmount, text)))

	trimmed := strings.TrimSpace(text)
	if !amountPattern.MatchString(trimmed) {
		return rejected
	}

	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return rejected
	}
	if amount <= 0 || amount < MinAmount || amount > MaxAmount {
		return rejected
	}

	subunits := amount * 100
	if math.Abs(subunits-math.Round(subunits)) > 1e-6 {
		return rejected
	}

	return Valid(amount)
}

// ValidatePhoneNumber accepts a Kenyan mobile number in +254XXXXXXXXX form.
func ValidatePhoneNumber(text string) Result[string] {
	if !phonePattern.MatchString(text) {
		return Invalid[string](Continue(fmt.Sprintf(msgBadPhone, text)))
	}
	return Valid(text)
}

// UnitValidator checks a typed unit identifier against the unit directory.
type UnitValidator struct {
	directory service.UnitDirectory
	logger    *slog.Logger
	timeout   time.Duration
}

// NewUnitValidator creates a validator that bounds each lookup by timeout.
func NewUnitValidator(directory service.UnitDirectory, timeout time.Duration, logger *slog.Logger) *UnitValidator {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitValidator{
		directory: directory,
		timeout:   timeout,
		logger:    logger,
	}
}

// Validate checks length before consulting the directory. A missing unit
// is a retryable input error; a directory fault ends the session.
func (v *UnitValidator) Validate(ctx context.Context, text string) Result[string] {
	if utf8.RuneCountInString(text) != model.UnitIDLength {
		return Invalid[string](Continue(msgUnitLength))
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	_, status, err := v.directory.LookupUnit(ctx, text)
	switch status {
	case service.LookupFound:
		return Valid(text)
	case service.LookupNotFound:
		v.logger.DebugContext(ctx, "Unit not found", "unit_id", text)
		return Invalid[string](Continue(msgUnitNotFound))
	default:
		if err == nil {
			err = fmt.Errorf("unit lookup reported %s", status)
		}
		common.LogError(ctx, v.logger, err, "Unit lookup failed", common.Fields{
			"unit_id": text,
		})
		return Invalid[string](End(msgSomethingWrong))
	}
}
