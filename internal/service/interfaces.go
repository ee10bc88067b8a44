// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/rentflow/internal/model"
)

// LookupStatus classifies the outcome of a unit lookup. Callers branch on it
// instead of inspecting error text.
type LookupStatus int

const (
	// LookupFailed means the directory could not answer (I/O, timeout, bug).
	LookupFailed LookupStatus = iota
	// LookupFound means the unit exists.
	LookupFound
	// LookupNotFound means the directory answered and the unit does not exist.
	LookupNotFound
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// UnitDirectory resolves unit identifiers typed by callers.
type UnitDirectory interface {
	// LookupUnit returns the unit and LookupFound, LookupNotFound with a zero
	// unit, or LookupFailed with the underlying error.
	LookupUnit(ctx context.Context, unitID string) (model.Unit, LookupStatus, error)
}

// AccountDirectory supplies the property-side settlement details for a unit.
type AccountDirectory interface {
	SettlementFor(ctx context.Context, unitID string) (model.Settlement, error)
}

// Directory is the full read side used by the USSD flow.
type Directory interface {
	UnitDirectory
	AccountDirectory
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	Directory

	SaveProperty(ctx context.Context, property *model.Property) error
	GetProperty(ctx context.Context, id string) (*model.Property, error)
	SaveUnit(ctx context.Context, unit *model.Unit) error
	ListUnits(ctx context.Context, propertyID string) ([]model.Unit, error)
	SaveTenant(ctx context.Context, tenant *model.Tenant) error
	GetTenantByUnit(ctx context.Context, unitID string) (*model.Tenant, error)

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}

// ChargeOutcome is the dispatcher's binary verdict plus what the gateway said.
type ChargeOutcome struct {
	Reference     string
	GatewayStatus string
	Message       string
	Accepted      bool
}

// ChargeDispatcher submits an assembled charge to the payment gateway.
type ChargeDispatcher interface {
	Dispatch(ctx context.Context, req model.ChargeRequest) (ChargeOutcome, error)
}
