package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	taxdomain "github.com/fieldserve/contractbill/internal/tax/domain"
	"github.com/fieldserve/contractbill/pkg/repository"
)

type taxRepository struct {
	rates repository.Repository[taxdomain.TaxRate]
}

func NewRepository() taxdomain.Repository {
	return &taxRepository{rates: repository.ProvideStore[taxdomain.TaxRate](nil)}
}

func (r *taxRepository) Insert(ctx context.Context, db *gorm.DB, rate *taxdomain.TaxRate) error {
	return r.rates.WithTrx(db).Create(ctx, rate)
}

func (r *taxRepository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*taxdomain.TaxRate, error) {
	return r.rates.WithTrx(db).FindOne(ctx, &taxdomain.TaxRate{ID: id})
}

// ListEnabled returns enabled rates, optionally narrowed to one jurisdiction.
// An empty jurisdiction is a zero field and drops out of the filter.
func (r *taxRepository) ListEnabled(ctx context.Context, db *gorm.DB, jurisdiction string) ([]taxdomain.TaxRate, error) {
	found, err := r.rates.WithTrx(db).Find(ctx,
		&taxdomain.TaxRate{IsEnabled: true, Jurisdiction: jurisdiction},
		repository.OrderBy("id ASC"),
	)
	if err != nil {
		return nil, err
	}
	rates := make([]taxdomain.TaxRate, 0, len(found))
	for _, rate := range found {
		rates = append(rates, *rate)
	}
	return rates, nil
}

func (r *taxRepository) Save(ctx context.Context, db *gorm.DB, rate *taxdomain.TaxRate) error {
	return r.rates.WithTrx(db).BatchUpdate(ctx, []*taxdomain.TaxRate{rate})
}
