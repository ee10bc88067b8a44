package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/rentflow/internal/common"
	"github.com/Veraticus/rentflow/internal/model"
	"github.com/Veraticus/rentflow/internal/service"
)

// LookupUnit resolves a unit by its identifier. A missing row is reported as
// service.LookupNotFound with a nil error; anything else that goes wrong is
// service.LookupFailed.
func (s *SQLiteStorage) LookupUnit(ctx context.Context, unitID string) (model.Unit, service.LookupStatus, error) {
	if err := validateContext(ctx); err != nil {
		return model.Unit{}, service.LookupFailed, err
	}

	unit, err := s.getUnitTx(ctx, s.db, unitID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Unit{}, service.LookupNotFound, nil
	}
	if err != nil {
		return model.Unit{}, service.LookupFailed, err
	}
	return unit, service.LookupFound, nil
}

func (s *SQLiteStorage) getUnitTx(ctx context.Context, q queryable, unitID string) (model.Unit, error) {
	var unit model.Unit

	err := q.QueryRowContext(ctx, `
		SELECT id, property_id, unit_type, rent_price, created_at
		FROM units
		WHERE id = ?
	`, unitID).Scan(
		&unit.ID,
		&unit.PropertyID,
		&unit.UnitType,
		&unit.RentPrice,
		&unit.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return model.Unit{}, sql.ErrNoRows
	}
	if err != nil {
		return model.Unit{}, fmt.Errorf("failed to get unit: %w", err)
	}

	return unit, nil
}

// SettlementFor returns the subaccount a unit's rent settles into and the
// email the gateway should receipt. The tenant's email wins; the property
// owner's is the fallback.
func (s *SQLiteStorage) SettlementFor(ctx context.Context, unitID string) (model.Settlement, error) {
	if err := validateContext(ctx); err != nil {
		return model.Settlement{}, err
	}
	if err := validateString(unitID, "unitID"); err != nil {
		return model.Settlement{}, err
	}

	var (
		settlement  model.Settlement
		ownerEmail  string
		tenantEmail sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT p.subaccount_code, p.owner_email, t.email
		FROM units u
		JOIN properties p ON p.id = u.property_id
		LEFT JOIN tenants t ON t.unit_id = u.id
		WHERE u.id = ?
	`, unitID).Scan(&settlement.SubaccountCode, &ownerEmail, &tenantEmail)
	if err == sql.ErrNoRows {
		return model.Settlement{}, fmt.Errorf("settlement for unit %s: %w", unitID, common.ErrNotFound)
	}
	if err != nil {
		return model.Settlement{}, fmt.Errorf("failed to get settlement: %w", err)
	}

	settlement.PayerEmail = ownerEmail
	if tenantEmail.Valid && tenantEmail.String != "" {
		settlement.PayerEmail = tenantEmail.String
	}

	return settlement, nil
}

// SaveProperty saves or updates a property.
func (s *SQLiteStorage) SaveProperty(ctx context.Context, property *model.Property) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProperty(property); err != nil {
		return err
	}
	return s.savePropertyTx(ctx, s.db, property)
}

func (s *SQLiteStorage) savePropertyTx(ctx context.Context, q queryable, property *model.Property) error {
	if property.CreatedAt.IsZero() {
		property.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO properties (id, name, owner_email, subaccount_code, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			owner_email = excluded.owner_email,
			subaccount_code = excluded.subaccount_code
	`, property.ID, property.Name, property.OwnerEmail, property.SubaccountCode, property.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

// GetProperty retrieves a property by ID.
func (s *SQLiteStorage) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var property model.Property
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, owner_email, subaccount_code, created_at
		FROM properties
		WHERE id = ?
	`, id).Scan(
		&property.ID,
		&property.Name,
		&property.OwnerEmail,
		&property.SubaccountCode,
		&property.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("property %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &property, nil
}

// SaveUnit saves or updates a unit. The owning property must already exist.
func (s *SQLiteStorage) SaveUnit(ctx context.Context, unit *model.Unit) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUnit(unit); err != nil {
		return err
	}
	return s.saveUnitTx(ctx, s.db, unit)
}

func (s *SQLiteStorage) saveUnitTx(ctx context.Context, q queryable, unit *model.Unit) error {
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = time.Now()
	}

	var propertyExists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM properties WHERE id = ?)
	`, unit.PropertyID).Scan(&propertyExists)
	if err != nil {
		return fmt.Errorf("failed to check property existence: %w", err)
	}
	if !propertyExists {
		return fmt.Errorf("property '%s' does not exist: %w", unit.PropertyID, common.ErrNotFound)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO units (id, property_id, unit_type, rent_price, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			property_id = excluded.property_id,
			unit_type = excluded.unit_type,
			rent_price = excluded.rent_price
	`, unit.ID, unit.PropertyID, unit.UnitType, unit.RentPrice, unit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save unit: %w", err)
	}
	return nil
}

// ListUnits returns the units of a property, or every unit when propertyID
// is empty, ordered by identifier.
func (s *SQLiteStorage) ListUnits(ctx context.Context, propertyID string) ([]model.Unit, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT id, property_id, unit_type, rent_price, created_at FROM units`
	var args []any
	if propertyID != "" {
		query += ` WHERE property_id = ?`
		args = append(args, propertyID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var units []model.Unit
	for rows.Next() {
		var unit model.Unit
		if err := rows.Scan(&unit.ID, &unit.PropertyID, &unit.UnitType, &unit.RentPrice, &unit.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, unit)
	}

	return units, rows.Err()
}

// SaveTenant records the tenant of a unit, replacing any previous tenant.
func (s *SQLiteStorage) SaveTenant(ctx context.Context, tenant *model.Tenant) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTenant(tenant); err != nil {
		return err
	}
	return s.saveTenantTx(ctx, s.db, tenant)
}

func (s *SQLiteStorage) saveTenantTx(ctx context.Context, q queryable, tenant *model.Tenant) error {
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = time.Now()
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO tenants (unit_id, first_name, last_name, phone_number, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(unit_id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			phone_number = excluded.phone_number,
			email = excluded.email
		RETURNING id
	`, tenant.UnitID, tenant.FirstName, tenant.LastName, tenant.PhoneNumber, tenant.Email, tenant.CreatedAt).Scan(&tenant.ID)
	if err != nil {
		return fmt.Errorf("failed to save tenant: %w", err)
	}
	return nil
}

// GetTenantByUnit returns the tenant currently recorded against a unit.
func (s *SQLiteStorage) GetTenantByUnit(ctx context.Context, unitID string) (*model.Tenant, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(unitID, "unitID"); err != nil {
		return nil, err
	}

	var tenant model.Tenant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, unit_id, first_name, last_name, phone_number, email, created_at
		FROM tenants
		WHERE unit_id = ?
	`, unitID).Scan(
		&tenant.ID,
		&tenant.UnitID,
		&tenant.FirstName,
		&tenant.LastName,
		&tenant.PhoneNumber,
		&tenant.Email,
		&tenant.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tenant for unit %s: %w", unitID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}
