// Package storage provides the data persistence layer for rentflow.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/rentflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidProperty = errors.New("invalid property")
	ErrInvalidUnit     = errors.New("invalid unit")
	ErrInvalidTenant   = errors.New("invalid tenant")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateProperty(property *model.Property) error {
	if property == nil {
		return fmt.Errorf("%w: property", ErrNilParameter)
	}
	if strings.TrimSpace(property.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidProperty)
	}
	if strings.TrimSpace(property.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProperty)
	}
	if _, err := mail.ParseAddress(property.OwnerEmail); err != nil {
		return fmt.Errorf("%w: owner email %q", ErrInvalidProperty, property.OwnerEmail)
	}
	if !strings.HasPrefix(property.SubaccountCode, "ACCT_") {
		return fmt.Errorf("%w: subaccount code %q must start with ACCT_", ErrInvalidProperty, property.SubaccountCode)
	}
	return nil
}

func validateUnit(unit *model.Unit) error {
	if unit == nil {
		return fmt.Errorf("%w: unit", ErrNilParameter)
	}
	if utf8.RuneCountInString(unit.ID) != model.UnitIDLength {
		return fmt.Errorf("%w: ID %q must be %d characters", ErrInvalidUnit, unit.ID, model.UnitIDLength)
	}
	if strings.TrimSpace(unit.PropertyID) == "" {
		return fmt.Errorf("%w: missing property ID", ErrInvalidUnit)
	}
	if unit.RentPrice < 0 {
		return fmt.Errorf("%w: rent price cannot be negative", ErrInvalidUnit)
	}
	return nil
}

func validateTenant(tenant *model.Tenant) error {
	if tenant == nil {
		return fmt.Errorf("%w: tenant", ErrNilParameter)
	}
	if strings.TrimSpace(tenant.UnitID) == "" {
		return fmt.Errorf("%w: missing unit ID", ErrInvalidTenant)
	}
	if strings.TrimSpace(tenant.FirstName) == "" {
		return fmt.Errorf("%w: missing first name", ErrInvalidTenant)
	}
	// Email is optional; payers without one are receipted to the owner.
	if tenant.Email != "" {
		if _, err := mail.ParseAddress(tenant.Email); err != nil {
			return fmt.Errorf("%w: email %q", ErrInvalidTenant, tenant.Email)
		}
	}
	return nil
}
