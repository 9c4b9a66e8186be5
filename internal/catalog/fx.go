package catalog

import (
	"go.uber.org/fx"

	"github.com/fieldserve/contractbill/internal/catalog/repository"
	"github.com/fieldserve/contractbill/internal/catalog/service"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
