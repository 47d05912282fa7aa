// Package migration brings the schema up on startup so a fresh install
// is usable without a separate migration step.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	analyticsdomain "github.com/shopyard/shopyard/internal/analytics/domain"
	catalogdomain "github.com/shopyard/shopyard/internal/catalog/domain"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	paymentdomain "github.com/shopyard/shopyard/internal/payment/domain"
	referraldomain "github.com/shopyard/shopyard/internal/referral/domain"
	reviewdomain "github.com/shopyard/shopyard/internal/review/domain"
	settingsdomain "github.com/shopyard/shopyard/internal/settings/domain"
	stockdomain "github.com/shopyard/shopyard/internal/stockledger/domain"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// RunMigrations applies the embedded SQL against postgres.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not close the migrator here, it would close the shared *sql.DB.

	return nil
}

// AutoMigrate builds the schema from the models, used for sqlite and
// mysql where the SQL migrations are postgres-flavored.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&tenantdomain.Tenant{},
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&catalogdomain.Variant{},
		&settingsdomain.ShippingMethod{},
		&settingsdomain.PaymentMethod{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&stockdomain.Entry{},
		&reviewdomain.Review{},
		&referraldomain.Account{},
		&referraldomain.Earning{},
		&paymentdomain.Event{},
		&analyticsdomain.DailyStat{},
	)
}
