package tax

import (
	"go.uber.org/fx"

	"github.com/fieldserve/contractbill/internal/tax/repository"
	"github.com/fieldserve/contractbill/internal/tax/service"
)

var Module = fx.Module("tax.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewResolver),
	fx.Provide(service.New),
)
