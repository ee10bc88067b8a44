package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/rentflow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRiverside(t *testing.T) {
	db := SetupRiverside(t)
	ctx := context.Background()

	db.MustHaveUnit(LetUnit)
	db.MustHaveUnit(VacantUnit)

	_, status, err := db.Storage.LookupUnit(ctx, LetUnit)
	require.NoError(t, err)
	assert.Equal(t, service.LookupFound, status)

	settlement, err := db.Storage.SettlementFor(ctx, LetUnit)
	require.NoError(t, err)
	assert.Equal(t, RiversideSubaccount, settlement.SubaccountCode)
	assert.Equal(t, TenantEmail, settlement.PayerEmail)

	settlement, err = db.Storage.SettlementFor(ctx, VacantUnit)
	require.NoError(t, err)
	assert.Equal(t, RiversideOwnerEmail, settlement.PayerEmail)
}

func TestDirectoryBuilder(t *testing.T) {
	seed := NewDirectoryBuilder(t).
		WithProperty("PROP02", "Hillview", "hill@example.com", "ACCT_hill").
		WithUnit("HV0001", "studio", 8000).
		WithUnit("HV0002", "studio", 8500).
		WithTenant("Otieno", "Odhiambo", "+254722000111", "").
		Build()

	require.Len(t, seed.Properties, 1)
	require.Len(t, seed.Properties[0].Units, 2)
	assert.Nil(t, seed.Properties[0].Units[0].Tenant)
	require.NotNil(t, seed.Properties[0].Units[1].Tenant)
	assert.Equal(t, 5, seed.Records())

	db := SetupTestDB(t, seed)
	settlement, err := db.Storage.SettlementFor(context.Background(), "HV0002")
	require.NoError(t, err)
	assert.Equal(t, "hill@example.com", settlement.PayerEmail)
}

func TestSetupTestDBWithOptions_SkipMigrations(t *testing.T) {
	db := SetupTestDBWithOptions(t, TestDBOptions{SkipMigrations: true})

	version, err := db.Storage.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, version)
}
