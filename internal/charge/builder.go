// Package charge assembles gateway charge requests from validated USSD input
// and checks the assembled payload against the gateway contract.
package charge

import (
	"context"
	"fmt"
	"math"

	"github.com/Veraticus/rentflow/internal/model"
	"github.com/Veraticus/rentflow/internal/service"
	"github.com/google/uuid"
)

// referenceNamespace scopes charge references derived from session IDs.
var referenceNamespace = uuid.MustParse("6f1c5b7e-2d4a-5e8f-9b3c-7a1d0e4f2c68")

// Input is the validated session state the builder needs.
type Input struct {
	SessionID string
	UnitID    string
	Phone     string
	// Amount is in display currency (KES).
	Amount float64
}

// Builder turns validated input into a gateway charge request.
type Builder struct {
	accounts service.AccountDirectory
}

// NewBuilder creates a builder that resolves settlement details through accounts.
func NewBuilder(accounts service.AccountDirectory) *Builder {
	return &Builder{accounts: accounts}
}

// Build assembles the charge. It does not validate the result; see Validate.
func (b *Builder) Build(ctx context.Context, in Input) (model.ChargeRequest, error) {
	settlement, err := b.accounts.SettlementFor(ctx, in.UnitID)
	if err != nil {
		return model.ChargeRequest{}, fmt.Errorf("failed to resolve settlement for unit %s: %w", in.UnitID, err)
	}

	return model.ChargeRequest{
		Amount: ToSubunits(in.Amount),
		Email:  settlement.PayerEmail,
		MobileMoney: model.MobileMoney{
			Phone:    in.Phone,
			Provider: model.MobileMoneyProvider,
		},
		Subaccount: settlement.SubaccountCode,
		Metadata: model.ChargeMetadata{
			UnitID: in.UnitID,
		},
		Reference: Reference(in.SessionID),
	}, nil
}

// ToSubunits converts a display amount to gateway subunits (cents).
func ToSubunits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromSubunits converts gateway subunits back to a display amount.
func FromSubunits(subunits int64) float64 {
	return float64(subunits) / 100
}

// Reference derives the gateway reference for a session. The same session
// always yields the same reference, so a carrier replaying the confirmation
// request cannot produce a second charge.
func Reference(sessionID string) string {
	return uuid.NewSHA1(referenceNamespace, []byte(sessionID)).String()
}
