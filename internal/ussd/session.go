package ussd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Veraticus/rentflow/internal/charge"
	"github.com/Veraticus/rentflow/internal/common"
	"github.com/Veraticus/rentflow/internal/service"
)

// DefaultServiceName is shown on the welcome screen when none is configured.
const DefaultServiceName = "rent payments"

// DefaultRequestTimeout bounds the handling of one callback, replay and
// dispatch included, when none is configured.
const DefaultRequestTimeout = 15 * time.Second

// Step is a position in the payment menu.
type Step int

const (
	// StepWelcome is a session with no entries yet.
	StepWelcome Step = iota
	// StepUnit expects a unit identifier.
	StepUnit
	// StepAmount expects the amount to pay.
	StepAmount
	// StepConfirm expects the confirmation choice.
	StepConfirm
	// StepDone means the session has already been closed.
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepUnit:
		return "unit"
	case StepAmount:
		return "amount"
	case StepConfirm:
		return "confirm"
	default:
		return "done"
	}
}

// Request is one carrier callback.
type Request struct {
	SessionID   string
	ServiceCode string
	PhoneNumber string
	Text        string
}

// Config wires a Session to its collaborators.
type Config struct {
	Directory      service.Directory
	Dispatcher     service.ChargeDispatcher
	Logger         *slog.Logger
	ServiceName    string
	LookupTimeout  time.Duration
	RequestTimeout time.Duration
}

// Session is the payment menu state machine. It holds no per-caller state:
// every request replays the transcript from the start, so any number of
// callbacks may be handled concurrently.
type Session struct {
	units          *UnitValidator
	builder        *charge.Builder
	dispatcher     service.ChargeDispatcher
	logger         *slog.Logger
	serviceName    string
	requestTimeout time.Duration
}

// NewSession creates a Session from cfg.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Directory == nil {
		return nil, fmt.Errorf("%w: unit directory", common.ErrMissingConfig)
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("%w: charge dispatcher", common.ErrMissingConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ussd")

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	return &Session{
		units:          NewUnitValidator(cfg.Directory, cfg.LookupTimeout, logger),
		builder:        charge.NewBuilder(cfg.Directory),
		dispatcher:     cfg.Dispatcher,
		logger:         logger,
		serviceName:    serviceName,
		requestTimeout: requestTimeout,
	}, nil
}

// progress is what replay has established so far. units caches unit
// lookups so a retried identifier is resolved once per request.
type progress struct {
	units  map[string]Result[string]
	unitID string
	phone  string
	amount float64
	step   Step
}

// Handle answers one callback. Entries are replayed in order against the
// validator for the current step: a valid entry advances, a retryable
// rejection leaves the step where it was, and a terminal outcome ends the
// session. Only the latest entry may dispatch a charge. The whole request is
// bounded by the configured request timeout.
func (s *Session) Handle(ctx context.Context, req Request) Prompt {
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	logger := s.logger.With("session_id", req.SessionID)
	transcript := ParseTranscript(req.Text)

	if transcript.Len() == 0 {
		logger.DebugContext(ctx, "Session started", "service_code", req.ServiceCode)
		return Continue(fmt.Sprintf(msgWelcome, s.serviceName))
	}

	state := progress{step: StepUnit, units: make(map[string]Result[string])}
	var prompt Prompt
	for i, entry := range transcript {
		latest := i == transcript.Len()-1
		prompt = s.advance(ctx, logger, &state, req, entry, latest)
		if prompt.Terminal {
			if !latest {
				logger.WarnContext(ctx, "Entries received after session ended",
					"entries", transcript.Len(),
					"ended_at", i)
			}
			return prompt
		}
	}

	logger.DebugContext(ctx, "Session advanced", "step", state.step.String(), "entries", transcript.Len())
	return prompt
}

func (s *Session) advance(ctx context.Context, logger *slog.Logger, state *progress, req Request, entry string, latest bool) Prompt {
	switch state.step {
	case StepUnit:
		result, seen := state.units[entry]
		if !seen {
			result = s.units.Validate(ctx, entry)
			state.units[entry] = result
		}
		unitID, ok := result.Value()
		if !ok {
			p, _ := result.Prompt()
			return p
		}
		state.unitID = unitID
		state.step = StepAmount
		return Continue(msgEnterAmount)

	case StepAmount:
		result := ValidateAmount(entry)
		amount, ok := result.Value()
		if !ok {
			p, _ := result.Prompt()
			return p
		}
		state.amount = amount

		// The caller number comes from the carrier, so no later entry can
		// correct it.
		phoneResult := ValidatePhoneNumber(req.PhoneNumber)
		phone, ok := phoneResult.Value()
		if !ok {
			state.step = StepDone
			logger.WarnContext(ctx, "Carrier sent an unusable caller number",
				"phone", common.MaskPhone(req.PhoneNumber),
				"unit_id", state.unitID)
			return End(fmt.Sprintf(msgCallerNumber, req.PhoneNumber))
		}
		state.phone = phone
		state.step = StepConfirm
		return Continue(fmt.Sprintf(msgConfirm, formatAmount(amount), state.unitID, req.PhoneNumber))

	case StepConfirm:
		switch entry {
		case choiceConfirm:
			state.step = StepDone
			if !latest {
				// This confirmation was answered by an earlier callback.
				return End(msgSessionEnded)
			}
			return s.pay(ctx, logger, state, req)
		case choiceCancel:
			state.step = StepDone
			logger.InfoContext(ctx, "Payment cancelled by caller", "unit_id", state.unitID)
			return End(msgCancelled)
		default:
			return Continue(msgInvalidChoice)
		}

	default:
		return End(msgSessionEnded)
	}
}

// pay builds, checks and dispatches the charge for a confirmed session.
func (s *Session) pay(ctx context.Context, logger *slog.Logger, state *progress, req Request) Prompt {
	phone := state.phone
	fields := common.Fields{
		"unit_id": state.unitID,
		"phone":   common.MaskPhone(phone),
		"amount":  state.amount,
	}

	buildCtx, cancel := context.WithTimeout(ctx, s.units.timeout)
	chargeReq, err := s.builder.Build(buildCtx, charge.Input{
		SessionID: req.SessionID,
		UnitID:    state.unitID,
		Phone:     phone,
		Amount:    state.amount,
	})
	cancel()
	if err != nil {
		common.LogError(ctx, logger, err, "Failed to assemble charge", fields)
		return End(msgTransactionFailed)
	}

	if err := charge.Validate(chargeReq); err != nil {
		var contractErr *charge.ContractError
		if errors.As(err, &contractErr) {
			fields["violations"] = contractErr.Fields()
		}
		common.LogError(ctx, logger, err, "Assembled charge violates gateway contract", fields)
		return End(msgTransactionFailed)
	}

	fields["reference"] = chargeReq.Reference
	fields["subunits"] = chargeReq.Amount

	outcome, err := s.dispatcher.Dispatch(ctx, chargeReq)
	if err != nil || !outcome.Accepted {
		if err == nil {
			err = fmt.Errorf("%w: %s", common.ErrGatewayRejected, outcome.Message)
		}
		common.LogError(ctx, logger, err, "Charge dispatch failed", fields)
		return End(msgTransactionFailed)
	}

	fields["gateway_status"] = outcome.GatewayStatus
	common.LogInfo(ctx, logger, "Charge accepted by gateway", fields)
	return End(msgPaymentInitiated)
}

// formatAmount prints whole amounts without decimals and others with two.
func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return strconv.FormatInt(int64(amount), 10)
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
