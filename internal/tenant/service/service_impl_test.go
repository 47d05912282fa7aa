package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/config"
	"github.com/shopyard/shopyard/internal/migration"
	"github.com/shopyard/shopyard/internal/tenant/domain"
	"github.com/shopyard/shopyard/internal/tenant/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTenantService(t *testing.T, cfg config.Config) (domain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Cfg:   cfg,
		Repo:  repository.Provide(),
	})
	return svc, fake
}

func createTenant(t *testing.T, svc domain.Service, name, host string) *domain.Tenant {
	t.Helper()
	tenant, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:          name,
		Domain:        host,
		AdminPassword: "secret",
	})
	require.NoError(t, err)
	return tenant
}

func TestResolveByHostExactDomain(t *testing.T) {
	svc, fake := setupTenantService(t, config.Config{})

	a := createTenant(t, svc, "Shop A", "shop-a.example.com")
	fake.Advance(time.Second)
	createTenant(t, svc, "Shop B", "shop-b.example.com")

	got, err := svc.ResolveByHost(context.Background(), "Shop-A.Example.com:8443")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
}

func TestResolveByHostDefaultTenant(t *testing.T) {
	boot, _ := setupTenantService(t, config.Config{})
	createTenant(t, boot, "Shop A", "shop-a.example.com")
	b := createTenant(t, boot, "Shop B", "shop-b.example.com")

	// Same backing store, now with B configured as the default.
	svc, _ := setupTenantService(t, config.Config{DefaultTenantID: b.ID.Int64()})

	got, err := svc.ResolveByHost(context.Background(), "unknown.example.com")
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)
}

func TestResolveByHostFirstActive(t *testing.T) {
	svc, fake := setupTenantService(t, config.Config{DefaultTenantID: 999})

	first := createTenant(t, svc, "First", "first.example.com")
	fake.Advance(time.Second)
	second := createTenant(t, svc, "Second", "second.example.com")

	inactive := false
	_, err := svc.Update(context.Background(), first.ID.String(), domain.UpdateRequest{Active: &inactive})
	require.NoError(t, err)

	// Missing default falls through to the oldest active tenant.
	got, err := svc.ResolveByHost(context.Background(), "unknown.example.com")
	require.NoError(t, err)
	require.Equal(t, second.ID, got.ID)
}

func TestResolveByHostAllInactive(t *testing.T) {
	svc, fake := setupTenantService(t, config.Config{})

	first := createTenant(t, svc, "First", "first.example.com")
	fake.Advance(time.Second)
	second := createTenant(t, svc, "Second", "second.example.com")

	inactive := false
	for _, id := range []string{first.ID.String(), second.ID.String()} {
		_, err := svc.Update(context.Background(), id, domain.UpdateRequest{Active: &inactive})
		require.NoError(t, err)
	}

	// Nothing active left, so creation order decides.
	got, err := svc.ResolveByHost(context.Background(), "unknown.example.com")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
}

func TestResolveByHostEmptyRegistry(t *testing.T) {
	svc, _ := setupTenantService(t, config.Config{})

	_, err := svc.ResolveByHost(context.Background(), "anything.example.com")
	require.ErrorIs(t, err, domain.ErrNoTenants)
}

func TestCreateDuplicateDomain(t *testing.T) {
	svc, _ := setupTenantService(t, config.Config{})
	createTenant(t, svc, "Shop A", "shop.example.com")

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:          "Shop B",
		Domain:        "SHOP.example.com",
		AdminPassword: "secret",
	})
	require.ErrorIs(t, err, domain.ErrDomainTaken)
}

func TestVerifyAdminPassword(t *testing.T) {
	svc, _ := setupTenantService(t, config.Config{})
	tenant := createTenant(t, svc, "Shop A", "shop.example.com")

	_, err := svc.VerifyAdminPassword(context.Background(), tenant.ID.String(), "secret")
	require.NoError(t, err)

	_, err = svc.VerifyAdminPassword(context.Background(), tenant.ID.String(), "wrong")
	require.True(t, errors.Is(err, domain.ErrWrongPassword))
}
