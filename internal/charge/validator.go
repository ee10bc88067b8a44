package charge

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/Veraticus/rentflow/internal/common"
	"github.com/Veraticus/rentflow/internal/model"
	"github.com/go-playground/validator/v10"
)

var msisdnPattern = regexp.MustCompile(`^\+254\d{9}$`)

var (
	contractOnce      sync.Once
	contractValidator *validator.Validate
)

// Violation is one failed rule in an assembled charge.
type Violation struct {
	Field string
	Rule  string
	Param string
}

// ContractError lists every rule the assembled charge broke.
type ContractError struct {
	Violations []Violation
}

func (e *ContractError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Param != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", v.Field, v.Rule, v.Param))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", v.Field, v.Rule))
	}
	return fmt.Sprintf("%v: %s", common.ErrInvalidCharge, strings.Join(parts, ", "))
}

func (e *ContractError) Unwrap() error {
	return common.ErrInvalidCharge
}

// Fields returns the offending field paths, for logging.
func (e *ContractError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func newContractValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so violations read like the gateway payload.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("ke_mpesa_msisdn", func(fl validator.FieldLevel) bool {
		return msisdnPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register ke_mpesa_msisdn: %v", err))
	}

	return v
}

// Validate checks an assembled charge against the gateway contract: amount
// bounds in subunits, payer email, M-Pesa number, provider, subaccount
// prefix, unit metadata and reference. It is applied to every charge before
// dispatch.
func Validate(req model.ChargeRequest) error {
	contractOnce.Do(func() {
		contractValidator = newContractValidator()
	})

	err := contractValidator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", common.ErrInvalidCharge, err)
	}

	contractErr := &ContractError{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		contractErr.Violations = append(contractErr.Violations, Violation{
			Field: field,
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return contractErr
}
