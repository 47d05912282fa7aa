package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopyard/shopyard/internal/config"
	"github.com/shopyard/shopyard/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, node *snowflake.Node, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.DefaultTenantID != 0 {
			return seed.EnsureDefaultTenantWithID(conn, cfg.DefaultTenantID, cfg.RootAdminPassword)
		}
		return seed.EnsureDefaultTenant(conn, node, cfg.RootAdminPassword)
	}),
)
