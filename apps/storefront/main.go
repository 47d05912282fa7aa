// The storefront app serves only the public shopping surface and the
// payment provider webhook. Admin and root routes stay off so the
// public pods carry no management API.
package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopyard/shopyard/internal/analytics"
	"github.com/shopyard/shopyard/internal/attestation"
	"github.com/shopyard/shopyard/internal/authorization"
	"github.com/shopyard/shopyard/internal/catalog"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/config"
	"github.com/shopyard/shopyard/internal/events"
	"github.com/shopyard/shopyard/internal/migration"
	"github.com/shopyard/shopyard/internal/observability"
	"github.com/shopyard/shopyard/internal/order"
	"github.com/shopyard/shopyard/internal/payment"
	"github.com/shopyard/shopyard/internal/providers"
	"github.com/shopyard/shopyard/internal/ratelimit"
	"github.com/shopyard/shopyard/internal/referral"
	"github.com/shopyard/shopyard/internal/review"
	"github.com/shopyard/shopyard/internal/server"
	"github.com/shopyard/shopyard/internal/settings"
	"github.com/shopyard/shopyard/internal/stockledger"
	"github.com/shopyard/shopyard/internal/tenant"
	"github.com/shopyard/shopyard/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		authorization.Module,
		events.Module,
		providers.Module,
		attestation.Module,
		ratelimit.Module,
		tenant.Module,
		catalog.Module,
		settings.Module,
		stockledger.Module,
		order.Module,
		review.Module,
		referral.Module,
		payment.Module,
		analytics.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterStorefrontRoutes()
			s.RegisterWebhookRoutes()
		}),
		fx.Invoke(server.Run),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
