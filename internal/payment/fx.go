package payment

import (
	"github.com/shopyard/shopyard/internal/payment/webhook"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.webhook",
	fx.Provide(webhook.New),
)
