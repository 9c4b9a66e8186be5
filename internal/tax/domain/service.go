package domain

import (
	"context"

	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
)

// Resolver returns the tax components frozen onto a block at attach time when
// the selected pricing record carries no tax terms of its own.
type Resolver interface {
	ResolveDefault(ctx context.Context) ([]draftdomain.TaxComponent, error)
}

type Service interface {
	Create(ctx context.Context, rate *TaxRate) (*TaxRate, error)
	List(ctx context.Context, jurisdiction string) ([]TaxRate, error)
	Disable(ctx context.Context, id string) error
}
