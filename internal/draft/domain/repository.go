package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists contract drafts, coverage types and block collections.
// Blocks are always read and written in list order (position ascending).
type Repository interface {
	InsertDraft(ctx context.Context, db *gorm.DB, draft *ContractDraft) error
	FindDraft(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ContractDraft, error)
	ListDrafts(ctx context.Context, db *gorm.DB) ([]ContractDraft, error)
	SaveDraft(ctx context.Context, db *gorm.DB, draft *ContractDraft) error
	DeleteDraft(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertCoverageType(ctx context.Context, db *gorm.DB, group *CoverageType) error
	ListCoverageTypes(ctx context.Context, db *gorm.DB, draftID snowflake.ID) ([]CoverageType, error)
	FindCoverageType(ctx context.Context, db *gorm.DB, draftID, id snowflake.ID) (*CoverageType, error)
	DeleteCoverageType(ctx context.Context, db *gorm.DB, draftID, id snowflake.ID) error

	ListBlocks(ctx context.Context, db *gorm.DB, draftID snowflake.ID) ([]ConfigurableBlock, error)
	FindBlock(ctx context.Context, db *gorm.DB, draftID snowflake.ID, id string) (*ConfigurableBlock, error)
	InsertBlock(ctx context.Context, db *gorm.DB, block *ConfigurableBlock) error
	SaveBlock(ctx context.Context, db *gorm.DB, block *ConfigurableBlock) error
	DeleteBlock(ctx context.Context, db *gorm.DB, draftID snowflake.ID, id string) error
	DeleteBlocksInGroup(ctx context.Context, db *gorm.DB, draftID, groupID snowflake.ID) error
	SavePositions(ctx context.Context, db *gorm.DB, blocks []ConfigurableBlock) error
}
