// Package seed guarantees a fresh install has at least one tenant, so
// host resolution can always land somewhere.
package seed

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopyard/shopyard/internal/auth/password"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
	"gorm.io/gorm"
)

const (
	defaultName   = "Default Store"
	defaultDomain = "localhost"
)

// EnsureDefaultTenant creates the bootstrap tenant when the registry is
// empty. adminPassword falls back to "changeme" for local setups.
func EnsureDefaultTenant(db *gorm.DB, node *snowflake.Node, adminPassword string) error {
	return ensure(db, node.Generate(), adminPassword)
}

// EnsureDefaultTenantWithID is EnsureDefaultTenant pinned to a
// configured id so DEFAULT_TENANT keeps pointing at the same row across
// reinstalls.
func EnsureDefaultTenantWithID(db *gorm.DB, id int64, adminPassword string) error {
	return ensure(db, snowflake.ID(id), adminPassword)
}

func ensure(db *gorm.DB, id snowflake.ID, adminPassword string) error {
	var count int64
	if err := db.Model(&tenantdomain.Tenant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if strings.TrimSpace(adminPassword) == "" {
		adminPassword = "changeme"
	}
	hash, err := password.Hash(adminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	tenant := &tenantdomain.Tenant{
		ID:                id,
		Slug:              "default-store",
		Name:              defaultName,
		Domain:            defaultDomain,
		SupportTier:       tenantdomain.TierBasic,
		AdminPasswordHash: hash,
		Active:            true,
		Currency:          "USD",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return db.Create(tenant).Error
}
