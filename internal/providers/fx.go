package providers

import (
	"github.com/shopyard/shopyard/internal/providers/email"
	"github.com/shopyard/shopyard/internal/providers/pdf"
	"github.com/shopyard/shopyard/internal/providers/webhook"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	fx.Provide(email.New),
	fx.Provide(webhook.NewSender),
	fx.Provide(pdf.NewRenderer),
)
