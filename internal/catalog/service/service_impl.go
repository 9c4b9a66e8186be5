package service

import (
	"context"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/fieldserve/contractbill/internal/catalog/domain"
	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo catalogdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo catalogdomain.Repository
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]catalogdomain.BlockDefinition, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, id string) (*catalogdomain.BlockDefinition, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, catalogdomain.ErrInvalidID
	}
	def, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, catalogdomain.ErrNotFound
	}
	return def, nil
}

func (s *Service) Create(ctx context.Context, def *catalogdomain.BlockDefinition) (*catalogdomain.BlockDefinition, error) {
	def.ID = strings.TrimSpace(def.ID)
	if def.ID == "" {
		return nil, catalogdomain.ErrInvalidID
	}
	if strings.TrimSpace(def.Name) == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	switch def.Category {
	case draftdomain.CategoryService, draftdomain.CategorySpare,
		draftdomain.CategoryText, draftdomain.CategoryDocument, draftdomain.CategoryChecklist:
	default:
		return nil, catalogdomain.ErrInvalidCategory
	}

	if err := s.repo.Insert(ctx, s.db, def); err != nil {
		return nil, err
	}
	s.log.Info("catalog block created", zap.String("id", def.ID), zap.String("category", def.Category))
	return def, nil
}
