package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/fieldserve/contractbill/internal/catalog/domain"
	"github.com/fieldserve/contractbill/internal/config"
	"github.com/fieldserve/contractbill/internal/draft/aggregate"
	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
	"github.com/fieldserve/contractbill/internal/draft/grouping"
	"github.com/fieldserve/contractbill/internal/draft/pricing"
	"github.com/fieldserve/contractbill/internal/draft/schedule"
	"github.com/fieldserve/contractbill/internal/observability/metrics"
	taxdomain "github.com/fieldserve/contractbill/internal/tax/domain"
	pkgdb "github.com/fieldserve/contractbill/pkg/db"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	GenID       *snowflake.Node
	Repo        draftdomain.Repository
	CatalogRepo catalogdomain.Repository
	TaxResolver taxdomain.Resolver
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         config.Config
	genID       *snowflake.Node
	repo        draftdomain.Repository
	catalogRepo catalogdomain.Repository
	taxResolver taxdomain.Resolver
	metrics     *metrics.Metrics
}

func New(p Params) draftdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("draft.service"),
		cfg:         p.Cfg,
		genID:       p.GenID,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		taxResolver: p.TaxResolver,
		metrics:     p.Metrics,
	}
}

func (s *Service) CreateDraft(ctx context.Context, req draftdomain.CreateDraftRequest) (*draftdomain.ContractDraft, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, draftdomain.ErrInvalidTitle
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, draftdomain.ErrInvalidCurrency
	}
	duration := req.DurationMonths
	if duration <= 0 {
		duration = 12
	}

	now := time.Now().UTC()
	draft := &draftdomain.ContractDraft{
		ID:             s.genID.Generate(),
		Title:          title,
		Currency:       currency,
		DurationMonths: duration,
		PaymentMode:    draftdomain.PaymentModeDefined,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.InsertDraft(ctx, s.db, draft); err != nil {
		return nil, err
	}
	s.log.Info("draft created", zap.String("draft_id", draft.ID.String()), zap.String("currency", currency))
	return draft, nil
}

func (s *Service) GetDraft(ctx context.Context, draftID string) (*draftdomain.ContractDraft, error) {
	return s.loadDraft(ctx, draftID)
}

func (s *Service) ListDrafts(ctx context.Context) ([]draftdomain.ContractDraft, error) {
	return s.repo.ListDrafts(ctx, s.db)
}

func (s *Service) UpdateDraft(ctx context.Context, draftID string, req draftdomain.UpdateDraftRequest) (*draftdomain.ContractDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, draftdomain.ErrInvalidTitle
		}
		draft.Title = title
	}
	if req.PaymentMode != nil {
		if !req.PaymentMode.Valid() {
			return nil, draftdomain.ErrInvalidPaymentMode
		}
		draft.PaymentMode = *req.PaymentMode
	}
	if req.EMIMonths != nil {
		draft.EMIMonths = *req.EMIMonths
	}
	if draft.PaymentMode == draftdomain.PaymentModeEMI && draft.EMIMonths <= 0 {
		s.reject(draftdomain.ErrInvalidEmiConfig)
		return nil, draftdomain.ErrInvalidEmiConfig
	}

	draft.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveDraft(ctx, s.db, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *Service) DeleteDraft(ctx context.Context, draftID string) error {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return err
	}
	return s.repo.DeleteDraft(ctx, s.db, draft.ID)
}

func (s *Service) AddCoverageType(ctx context.Context, draftID string, req draftdomain.AddCoverageTypeRequest) (*draftdomain.CoverageType, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListCoverageTypes(ctx, s.db, draft.ID)
	if err != nil {
		return nil, err
	}
	group := &draftdomain.CoverageType{
		ID:           s.genID.Generate(),
		DraftID:      draft.ID,
		SubCategory:  strings.TrimSpace(req.SubCategory),
		ResourceID:   strings.TrimSpace(req.ResourceID),
		ResourceName: strings.TrimSpace(req.ResourceName),
		Position:     len(existing),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.InsertCoverageType(ctx, s.db, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Service) ListCoverageTypes(ctx context.Context, draftID string) ([]draftdomain.CoverageType, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListCoverageTypes(ctx, s.db, draft.ID)
}

// RemoveCoverageType drops the group along with every block scoped to it.
func (s *Service) RemoveCoverageType(ctx context.Context, draftID, groupID string) error {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return err
	}
	gid, err := parseID(groupID)
	if err != nil {
		return draftdomain.ErrGroupNotFound
	}
	group, err := s.repo.FindCoverageType(ctx, s.db, draft.ID, gid)
	if err != nil {
		return err
	}
	if group == nil {
		return draftdomain.ErrGroupNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteBlocksInGroup(ctx, tx, draft.ID, gid); err != nil {
			return err
		}
		return s.repo.DeleteCoverageType(ctx, tx, draft.ID, gid)
	})
}

// ToggleAttach applies set-like membership for a catalog block: a second
// attach of the same catalog block to the same coverage group removes the
// existing instance instead of erroring.
func (s *Service) ToggleAttach(ctx context.Context, draftID string, req draftdomain.ToggleAttachRequest) (*draftdomain.ToggleAttachResult, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroup(ctx, draft, req.CoverageGroupID)
	if err != nil {
		return nil, err
	}

	def, err := s.catalogRepo.FindByID(ctx, s.db, strings.TrimSpace(req.CatalogID))
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, catalogdomain.ErrNotFound
	}

	blocks, err := s.repo.ListBlocks(ctx, s.db, draft.ID)
	if err != nil {
		return nil, err
	}

	if existing := grouping.FindInGroup(blocks, def.ID, groupID); existing != nil {
		toggled := grouping.Toggle(blocks, *existing)
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.repo.DeleteBlock(ctx, tx, draft.ID, existing.ID); err != nil {
				return err
			}
			return s.repo.SavePositions(ctx, tx, toggled.Blocks)
		})
		if err != nil {
			return nil, err
		}
		s.log.Info("block detached", zap.String("draft_id", draftID), zap.String("block_id", toggled.Removed.ID))
		return &draftdomain.ToggleAttachResult{Removed: toggled.Removed}, nil
	}

	block, err := s.instantiate(ctx, draft, def, groupID, len(blocks))
	if err != nil {
		return nil, err
	}
	if err := s.repo.InsertBlock(ctx, s.db, block); err != nil {
		// A concurrent attach of the same catalog block races on the
		// namespaced primary key.
		if pkgdb.IsDuplicateKeyErr(err) {
			s.reject(draftdomain.ErrDuplicateInGroup)
			return nil, draftdomain.ErrDuplicateInGroup
		}
		return nil, err
	}
	s.observeRecompute()
	s.log.Info("block attached", zap.String("draft_id", draftID), zap.String("block_id", block.ID))
	return &draftdomain.ToggleAttachResult{Attached: block}, nil
}

// instantiate builds a fresh catalog instance: pricing record selected for
// the contract currency, tax components frozen, default cycle derived from
// the catalog service-cycle metadata.
func (s *Service) instantiate(ctx context.Context, draft *draftdomain.ContractDraft, def *catalogdomain.BlockDefinition, groupID *snowflake.ID, position int) (*draftdomain.ConfigurableBlock, error) {
	now := time.Now().UTC()
	cycle, customDays := def.DefaultCycle()
	catalogID := def.ID

	block := &draftdomain.ConfigurableBlock{
		ID:              grouping.NamespacedID(def.ID, groupID),
		DraftID:         draft.ID,
		CatalogID:       &catalogID,
		Name:            def.Name,
		Description:     def.Description,
		Category:        def.Category,
		HasPricing:      draftdomain.CategoryHasPricing(def.Category),
		Quantity:        1,
		Price:           def.BasePrice,
		Currency:        draft.Currency,
		TaxInclusion:    draftdomain.TaxExclusive,
		Cycle:           cycle,
		CustomCycleDays: customDays,
		CoverageGroupID: groupID,
		Position:        position,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if block.HasPricing {
		record := catalogdomain.SelectPricingRecord(def.PricingRecords, draft.Currency)
		components := []draftdomain.TaxComponent(nil)
		if record != nil {
			block.Price = record.Amount
			block.TaxInclusion = record.TaxInclusion
			components = record.TaxComponents()
		}
		if len(components) == 0 {
			resolved, err := s.taxResolver.ResolveDefault(ctx)
			if err != nil {
				return nil, err
			}
			components = resolved
		}
		if err := block.SetTaxComponents(components); err != nil {
			return nil, err
		}
	}

	if err := pricing.Recompute(block); err != nil {
		s.reject(err)
		return nil, err
	}
	return block, nil
}

// InsertFlyBy creates an ad-hoc block with a freshly generated id. Fly-by
// inserts are never deduplicated against catalog instances.
func (s *Service) InsertFlyBy(ctx context.Context, draftID string, req draftdomain.InsertFlyByRequest) (*draftdomain.ConfigurableBlock, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, draftdomain.ErrInvalidFlyByType
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, draftdomain.ErrInvalidTitle
	}

	groupID, err := s.resolveGroup(ctx, draft, req.CoverageGroupID)
	if err != nil {
		return nil, err
	}

	blocks, err := s.repo.ListBlocks(ctx, s.db, draft.ID)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	cycle := req.Cycle
	if cycle == "" {
		cycle = draftdomain.CyclePrepaid
	}
	if !cycle.Valid() {
		return nil, draftdomain.ErrInvalidCycleConfig
	}

	flyByType := req.Type
	category := flyByType.Category()
	now := time.Now().UTC()
	block := &draftdomain.ConfigurableBlock{
		ID:              "flyby_" + uuid.NewString(),
		DraftID:         draft.ID,
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		Category:        category,
		HasPricing:      draftdomain.CategoryHasPricing(category),
		Quantity:        quantity,
		Price:           req.Price,
		Currency:        draft.Currency,
		TaxInclusion:    draftdomain.TaxExclusive,
		Cycle:           cycle,
		CustomCycleDays: req.CustomCycleDays,
		CoverageGroupID: groupID,
		IsFlyBy:         true,
		FlyByType:       &flyByType,
		Position:        len(blocks),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if block.HasPricing {
		components, err := s.taxResolver.ResolveDefault(ctx)
		if err != nil {
			return nil, err
		}
		if err := block.SetTaxComponents(components); err != nil {
			return nil, err
		}
	}

	if err := pricing.Recompute(block); err != nil {
		s.reject(err)
		return nil, err
	}
	if err := s.repo.InsertBlock(ctx, s.db, block); err != nil {
		return nil, err
	}
	s.observeRecompute()
	return block, nil
}

// UpdateBlock applies field edits and recomputes the line total in the same
// command. A validation failure leaves the stored row untouched.
func (s *Service) UpdateBlock(ctx context.Context, draftID, blockID string, req draftdomain.UpdateBlockRequest) (*draftdomain.ConfigurableBlock, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.FindBlock(ctx, s.db, draft.ID, blockID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, draftdomain.ErrBlockNotFound
	}

	next := *stored
	if req.Quantity != nil {
		next.Quantity = *req.Quantity
	}
	if req.Unlimited != nil {
		next.Unlimited = *req.Unlimited
	}
	if req.CustomPrice != nil {
		next.CustomPrice = *req.CustomPrice
	}
	if req.Cycle != nil {
		if !req.Cycle.Valid() {
			s.reject(draftdomain.ErrInvalidCycleConfig)
			return nil, draftdomain.ErrInvalidCycleConfig
		}
		next.Cycle = *req.Cycle
	}
	if req.CustomCycleDays != nil {
		next.CustomCycleDays = req.CustomCycleDays
	}
	if req.TaxInclusion != nil {
		switch *req.TaxInclusion {
		case draftdomain.TaxInclusive, draftdomain.TaxExclusive:
			next.TaxInclusion = *req.TaxInclusion
		default:
			s.reject(draftdomain.ErrInvalidTaxTerms)
			return nil, draftdomain.ErrInvalidTaxTerms
		}
	}

	if err := pricing.Recompute(&next); err != nil {
		s.reject(err)
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveBlock(ctx, s.db, &next); err != nil {
		return nil, err
	}
	s.observeRecompute()
	return &next, nil
}

func (s *Service) RemoveBlock(ctx context.Context, draftID, blockID string) error {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return err
	}
	blocks, err := s.repo.ListBlocks(ctx, s.db, draft.ID)
	if err != nil {
		return err
	}
	remaining, err := grouping.Remove(blocks, blockID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteBlock(ctx, tx, draft.ID, blockID); err != nil {
			return err
		}
		return s.repo.SavePositions(ctx, tx, remaining)
	})
}

// MoveBlock reorders within a coverage group. A cross-group drop is rejected
// silently: the stored order is returned unchanged.
func (s *Service) MoveBlock(ctx context.Context, draftID string, req draftdomain.MoveBlockRequest) ([]draftdomain.ConfigurableBlock, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.repo.ListBlocks(ctx, s.db, draft.ID)
	if err != nil {
		return nil, err
	}

	moved, err := grouping.Move(blocks, req.DraggedID, req.TargetID)
	if err != nil {
		if err == draftdomain.ErrCrossGroupMove {
			s.reject(err)
			s.log.Debug("cross-group move ignored",
				zap.String("draft_id", draftID),
				zap.String("dragged_id", req.DraggedID),
				zap.String("target_id", req.TargetID),
			)
			return blocks, nil
		}
		return nil, err
	}

	if err := s.repo.SavePositions(ctx, s.db, moved); err != nil {
		return nil, err
	}
	return moved, nil
}

func (s *Service) ListBlocks(ctx context.Context, draftID string) ([]draftdomain.ConfigurableBlock, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListBlocks(ctx, s.db, draft.ID)
}

func (s *Service) Totals(ctx context.Context, draftID, groupID string) (*draftdomain.Totals, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.repo.ListBlocks(ctx, s.db, draft.ID)
	if err != nil {
		return nil, err
	}

	scope := aggregate.ScopeContract()
	if strings.TrimSpace(groupID) != "" {
		gid, err := parseID(groupID)
		if err != nil {
			return nil, draftdomain.ErrGroupNotFound
		}
		group, err := s.repo.FindCoverageType(ctx, s.db, draft.ID, gid)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, draftdomain.ErrGroupNotFound
		}
		scope = aggregate.ScopeGroup(gid)
	}

	totals := aggregate.Aggregate(blocks, scope)
	return &totals, nil
}

func (s *Service) GroupStats(ctx context.Context, draftID string) ([]draftdomain.GroupStats, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.repo.ListBlocks(ctx, s.db, draft.ID)
	if err != nil {
		return nil, err
	}
	groups, err := s.repo.ListCoverageTypes(ctx, s.db, draft.ID)
	if err != nil {
		return nil, err
	}
	return aggregate.Stats(blocks, groups), nil
}

func (s *Service) PaymentPlan(ctx context.Context, draftID string) (*draftdomain.PaymentPlan, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.repo.ListBlocks(ctx, s.db, draft.ID)
	if err != nil {
		return nil, err
	}
	plan, err := schedule.Build(blocks, draft.PaymentMode, draft.EMIMonths)
	if err != nil {
		s.reject(err)
		return nil, err
	}
	return &plan, nil
}

func (s *Service) loadDraft(ctx context.Context, draftID string) (*draftdomain.ContractDraft, error) {
	id, err := parseID(draftID)
	if err != nil {
		return nil, draftdomain.ErrNotFound
	}
	draft, err := s.repo.FindDraft(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, draftdomain.ErrNotFound
	}
	return draft, nil
}

// resolveGroup validates an optional coverage group reference against the
// draft. Empty input selects the implicit flat group.
func (s *Service) resolveGroup(ctx context.Context, draft *draftdomain.ContractDraft, raw string) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	gid, err := parseID(raw)
	if err != nil {
		return nil, draftdomain.ErrGroupNotFound
	}
	group, err := s.repo.FindCoverageType(ctx, s.db, draft.ID, gid)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, draftdomain.ErrGroupNotFound
	}
	return &gid, nil
}

func (s *Service) observeRecompute() {
	if s.metrics != nil {
		s.metrics.ObserveRecompute()
	}
}

func (s *Service) reject(err error) {
	if s.metrics != nil && err != nil {
		s.metrics.ObserveRejection(err.Error())
	}
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ID(parsed), nil
}
