package order

import (
	"github.com/shopyard/shopyard/internal/order/repository"
	"github.com/shopyard/shopyard/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
