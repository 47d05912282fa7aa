package review

import (
	"github.com/shopyard/shopyard/internal/review/service"
	"go.uber.org/fx"
)

var Module = fx.Module("review.service",
	fx.Provide(service.New),
)
