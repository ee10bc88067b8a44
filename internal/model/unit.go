package model

import "time"

// UnitIDLength is the fixed length of a unit identifier as typed on a handset.
const UnitIDLength = 6

// Property is a rental property that settles rent into a single gateway
// subaccount.
type Property struct {
	CreatedAt      time.Time
	ID             string
	Name           string
	OwnerEmail     string
	SubaccountCode string
}

// Unit is a lettable unit inside a property.
type Unit struct {
	CreatedAt  time.Time
	ID         string
	PropertyID string
	UnitType   string
	// RentPrice is the monthly rent in display currency (whole shillings).
	RentPrice int64
}

// Tenant is the current occupant of a unit.
type Tenant struct {
	CreatedAt   time.Time
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	UnitID      string
	ID          int64
}

// Settlement is everything the charge builder needs from the property side
// of a unit: where the money goes and who the gateway should receipt.
type Settlement struct {
	SubaccountCode string
	PayerEmail     string
}
