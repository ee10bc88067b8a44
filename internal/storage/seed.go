package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/rentflow/internal/model"
	"gopkg.in/yaml.v3"
)

// Seed is a directory snapshot loaded from YAML, used to populate the unit
// directory without the web application.
type Seed struct {
	Properties []SeedProperty `yaml:"properties"`
}

// SeedProperty is one property and its units in a seed document.
type SeedProperty struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	OwnerEmail string     `yaml:"owner_email"`
	Subaccount string     `yaml:"subaccount"`
	Units      []SeedUnit `yaml:"units"`
}

// SeedUnit is one unit in a seed document, optionally with its tenant.
type SeedUnit struct {
	Tenant *SeedTenant `yaml:"tenant,omitempty"`
	ID     string      `yaml:"id"`
	Type   string      `yaml:"type"`
	Rent   int64       `yaml:"rent"`
}

// SeedTenant is the occupant of a seeded unit.
type SeedTenant struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Phone     string `yaml:"phone"`
	Email     string `yaml:"email"`
}

// LoadSeed decodes a seed document. Unknown keys are rejected.
func LoadSeed(r io.Reader) (*Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed Seed
	if err := dec.Decode(&seed); err != nil {
		if err == io.EOF {
			return &seed, nil
		}
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// Records counts the rows a seed will write, for progress reporting.
func (s *Seed) Records() int {
	n := 0
	for _, p := range s.Properties {
		n++
		for _, u := range p.Units {
			n++
			if u.Tenant != nil {
				n++
			}
		}
	}
	return n
}

// ImportSeed writes a seed in a single transaction. progress, if non-nil, is
// called once per record written.
func (s *SQLiteStorage) ImportSeed(ctx context.Context, seed *Seed, progress func()) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if seed == nil {
		return fmt.Errorf("%w: seed", ErrNilParameter)
	}
	if progress == nil {
		progress = func() {}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, sp := range seed.Properties {
		property := &model.Property{
			ID:             sp.ID,
			Name:           sp.Name,
			OwnerEmail:     sp.OwnerEmail,
			SubaccountCode: sp.Subaccount,
		}
		if err := validateProperty(property); err != nil {
			return err
		}
		if err := s.savePropertyTx(ctx, tx, property); err != nil {
			return err
		}
		progress()

		for _, su := range sp.Units {
			unit := &model.Unit{
				ID:         su.ID,
				PropertyID: sp.ID,
				UnitType:   su.Type,
				RentPrice:  su.Rent,
			}
			if err := validateUnit(unit); err != nil {
				return err
			}
			if err := s.saveUnitTx(ctx, tx, unit); err != nil {
				return err
			}
			progress()

			if su.Tenant == nil {
				continue
			}
			tenant := &model.Tenant{
				UnitID:      su.ID,
				FirstName:   su.Tenant.FirstName,
				LastName:    su.Tenant.LastName,
				PhoneNumber: su.Tenant.Phone,
				Email:       su.Tenant.Email,
			}
			if err := validateTenant(tenant); err != nil {
				return fmt.Errorf("unit %s: %w", su.ID, err)
			}
			if err := s.saveTenantTx(ctx, tx, tenant); err != nil {
				return err
			}
			progress()
		}
	}

	return tx.Commit()
}
