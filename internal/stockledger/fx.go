package stockledger

import (
	"github.com/shopyard/shopyard/internal/stockledger/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("stockledger",
	fx.Provide(repository.Provide),
)
