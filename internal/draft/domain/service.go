package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service is the command surface over a contract draft's block collection.
// Every mutation persists, recomputes the affected line total synchronously,
// and leaves state unchanged when validation rejects the command.
type Service interface {
	CreateDraft(ctx context.Context, req CreateDraftRequest) (*ContractDraft, error)
	GetDraft(ctx context.Context, draftID string) (*ContractDraft, error)
	ListDrafts(ctx context.Context) ([]ContractDraft, error)
	UpdateDraft(ctx context.Context, draftID string, req UpdateDraftRequest) (*ContractDraft, error)
	DeleteDraft(ctx context.Context, draftID string) error

	AddCoverageType(ctx context.Context, draftID string, req AddCoverageTypeRequest) (*CoverageType, error)
	ListCoverageTypes(ctx context.Context, draftID string) ([]CoverageType, error)
	RemoveCoverageType(ctx context.Context, draftID, groupID string) error

	ToggleAttach(ctx context.Context, draftID string, req ToggleAttachRequest) (*ToggleAttachResult, error)
	InsertFlyBy(ctx context.Context, draftID string, req InsertFlyByRequest) (*ConfigurableBlock, error)
	UpdateBlock(ctx context.Context, draftID, blockID string, req UpdateBlockRequest) (*ConfigurableBlock, error)
	RemoveBlock(ctx context.Context, draftID, blockID string) error
	MoveBlock(ctx context.Context, draftID string, req MoveBlockRequest) ([]ConfigurableBlock, error)
	ListBlocks(ctx context.Context, draftID string) ([]ConfigurableBlock, error)

	// Derived views, recomputed from the persisted collection on every read.
	Totals(ctx context.Context, draftID, groupID string) (*Totals, error)
	GroupStats(ctx context.Context, draftID string) ([]GroupStats, error)
	PaymentPlan(ctx context.Context, draftID string) (*PaymentPlan, error)
}

type CreateDraftRequest struct {
	Title          string `json:"title"`
	Currency       string `json:"currency"`
	DurationMonths int    `json:"duration_months"`
}

type UpdateDraftRequest struct {
	Title       *string      `json:"title,omitempty"`
	PaymentMode *PaymentMode `json:"payment_mode,omitempty"`
	EMIMonths   *int         `json:"emi_months,omitempty"`
}

type AddCoverageTypeRequest struct {
	SubCategory  string `json:"sub_category"`
	ResourceID   string `json:"resource_id"`
	ResourceName string `json:"resource_name"`
}

type ToggleAttachRequest struct {
	CatalogID       string `json:"catalog_id"`
	CoverageGroupID string `json:"coverage_group_id,omitempty"`
}

// ToggleAttachResult reports which side of the toggle fired.
type ToggleAttachResult struct {
	Attached *ConfigurableBlock `json:"attached,omitempty"`
	Removed  *ConfigurableBlock `json:"removed,omitempty"`
}

type InsertFlyByRequest struct {
	Type            FlyByType       `json:"type"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	Cycle           Cycle           `json:"cycle"`
	CustomCycleDays *int            `json:"custom_cycle_days,omitempty"`
	CoverageGroupID string          `json:"coverage_group_id,omitempty"`
}

type UpdateBlockRequest struct {
	Quantity        *int                 `json:"quantity,omitempty"`
	Unlimited       *bool                `json:"unlimited,omitempty"`
	CustomPrice     *decimal.NullDecimal `json:"custom_price,omitempty"`
	Cycle           *Cycle               `json:"cycle,omitempty"`
	CustomCycleDays *int                 `json:"custom_cycle_days,omitempty"`
	TaxInclusion    *TaxInclusion        `json:"tax_inclusion,omitempty"`
}

type MoveBlockRequest struct {
	DraggedID string `json:"dragged_id"`
	TargetID  string `json:"target_id"`
}
