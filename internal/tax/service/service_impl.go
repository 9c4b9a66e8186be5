package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fieldserve/contractbill/internal/config"
	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
	taxdomain "github.com/fieldserve/contractbill/internal/tax/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	GenID *snowflake.Node
	Repo  taxdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	genID *snowflake.Node
	repo  taxdomain.Repository
}

func New(p Params) taxdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tax.service"),
		cfg:   p.Cfg,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// NewResolver exposes the default-jurisdiction resolution used at attach time.
func NewResolver(p Params) taxdomain.Resolver {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tax.resolver"),
		cfg:   p.Cfg,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, rate *taxdomain.TaxRate) (*taxdomain.TaxRate, error) {
	rate.Name = strings.TrimSpace(rate.Name)
	rate.Jurisdiction = strings.TrimSpace(rate.Jurisdiction)
	if rate.Jurisdiction == "" {
		return nil, taxdomain.ErrInvalidJurisdiction
	}
	if err := rate.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rate.ID = s.genID.Generate()
	rate.IsEnabled = true
	rate.CreatedAt = now
	rate.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *Service) List(ctx context.Context, jurisdiction string) ([]taxdomain.TaxRate, error) {
	return s.repo.ListEnabled(ctx, s.db, strings.TrimSpace(jurisdiction))
}

func (s *Service) Disable(ctx context.Context, id string) error {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return taxdomain.ErrInvalidID
	}
	rate, err := s.repo.FindByID(ctx, s.db, snowflake.ID(parsed))
	if err != nil {
		return err
	}
	if rate == nil {
		return taxdomain.ErrNotFound
	}
	rate.IsEnabled = false
	rate.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, s.db, rate)
}

// ResolveDefault returns the enabled components of the configured default
// jurisdiction. Missing tax data is not an error: an empty jurisdiction or an
// empty catalog resolves to no components (tax rate zero).
func (s *Service) ResolveDefault(ctx context.Context) ([]draftdomain.TaxComponent, error) {
	jurisdiction := strings.TrimSpace(s.cfg.TaxJurisdiction)
	if jurisdiction == "" {
		return nil, nil
	}
	rates, err := s.repo.ListEnabled(ctx, s.db, jurisdiction)
	if err != nil {
		return nil, err
	}
	components := make([]draftdomain.TaxComponent, 0, len(rates))
	for i := range rates {
		components = append(components, rates[i].Component())
	}
	return components, nil
}
