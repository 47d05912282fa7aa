package catalog

import (
	"github.com/shopyard/shopyard/internal/catalog/repository"
	"github.com/shopyard/shopyard/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
