package draft

import (
	"go.uber.org/fx"

	"github.com/fieldserve/contractbill/internal/draft/repository"
	"github.com/fieldserve/contractbill/internal/draft/service"
)

var Module = fx.Module("draft.service",
	fx.Provide(
		repository.NewRepository,
		service.New,
	),
)
