package referral

import (
	"github.com/shopyard/shopyard/internal/referral/repository"
	"github.com/shopyard/shopyard/internal/referral/service"
	"go.uber.org/fx"
)

var Module = fx.Module("referral.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
