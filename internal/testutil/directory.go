package testutil

import (
	"testing"

	"github.com/Veraticus/rentflow/internal/storage"
)

// Identifiers in the standard Riverside fixture.
const (
	RiversideProperty   = "PROP01"
	RiversideSubaccount = "ACCT_riverside01"
	RiversideOwnerEmail = "owner@example.com"
	LetUnit             = "123456"
	VacantUnit          = "A1B2C3"
	TenantEmail         = "wanjiku@example.com"
	TenantPhone         = "+254712345678"
)

// DirectoryBuilder provides a fluent interface for constructing a test unit
// directory. Units attach to the most recently added property and tenants to
// the most recently added unit.
type DirectoryBuilder struct {
	t    *testing.T
	seed storage.Seed
}

// NewDirectoryBuilder creates an empty builder.
func NewDirectoryBuilder(t *testing.T) *DirectoryBuilder {
	t.Helper()
	return &DirectoryBuilder{t: t}
}

// WithProperty adds a property.
func (b *DirectoryBuilder) WithProperty(id, name, ownerEmail, subaccount string) *DirectoryBuilder {
	b.seed.Properties = append(b.seed.Properties, storage.SeedProperty{
		ID:         id,
		Name:       name,
		OwnerEmail: ownerEmail,
		Subaccount: subaccount,
	})
	return b
}

// WithUnit adds a unit to the last property.
func (b *DirectoryBuilder) WithUnit(id, unitType string, rent int64) *DirectoryBuilder {
	b.t.Helper()
	if len(b.seed.Properties) == 0 {
		b.t.Fatalf("WithUnit(%q) called before WithProperty", id)
	}
	p := &b.seed.Properties[len(b.seed.Properties)-1]
	p.Units = append(p.Units, storage.SeedUnit{ID: id, Type: unitType, Rent: rent})
	return b
}

// WithTenant lets the last unit.
func (b *DirectoryBuilder) WithTenant(firstName, lastName, phone, email string) *DirectoryBuilder {
	b.t.Helper()
	if len(b.seed.Properties) == 0 || len(b.seed.Properties[len(b.seed.Properties)-1].Units) == 0 {
		b.t.Fatalf("WithTenant(%q) called before WithUnit", firstName)
	}
	p := &b.seed.Properties[len(b.seed.Properties)-1]
	p.Units[len(p.Units)-1].Tenant = &storage.SeedTenant{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Email:     email,
	}
	return b
}

// WithRiverside adds the standard fixture: one property with a let unit and
// a vacant one.
func (b *DirectoryBuilder) WithRiverside() *DirectoryBuilder {
	return b.
		WithProperty(RiversideProperty, "Riverside Court", RiversideOwnerEmail, RiversideSubaccount).
		WithUnit(LetUnit, "bedsitter", 12000).
		WithTenant("Wanjiku", "Kamau", TenantPhone, TenantEmail).
		WithUnit(VacantUnit, "one_bedroom", 25000)
}

// Build returns the assembled seed.
func (b *DirectoryBuilder) Build() *storage.Seed {
	seed := b.seed
	return &seed
}
