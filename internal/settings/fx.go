package settings

import (
	"github.com/shopyard/shopyard/internal/settings/repository"
	"github.com/shopyard/shopyard/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
