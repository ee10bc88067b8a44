// Package model defines the core domain types for rentflow.
package model

// MobileMoneyProvider is the only mobile-money rail the gateway is asked to use.
const MobileMoneyProvider = "mpesa"

// Charge amount bounds, in subunits (cents).
const (
	MinChargeSubunits int64 = 100
	MaxChargeSubunits int64 = 15_000_000
)

// ChargeRequest is the gateway charge payload. Field names follow the
// gateway's JSON contract.
type ChargeRequest struct {
	MobileMoney MobileMoney    `json:"mobile_money" validate:"required"`
	Metadata    ChargeMetadata `json:"metadata" validate:"required"`
	Email       string         `json:"email" validate:"required,email"`
	Subaccount  string         `json:"subaccount" validate:"required,startswith=ACCT_"`
	Reference   string         `json:"reference" validate:"required,uuid"`
	Amount      int64          `json:"amount" validate:"min=100,max=15000000"`
}

// MobileMoney identifies the payer's mobile-money line.
type MobileMoney struct {
	Phone    string `json:"phone" validate:"required,ke_mpesa_msisdn"`
	Provider string `json:"provider" validate:"required,eq=mpesa"`
}

// ChargeMetadata travels with the charge and comes back on the gateway's
// completion webhook.
type ChargeMetadata struct {
	UnitID string `json:"unitId" validate:"required,len=6"`
}
