package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	catalogdomain "github.com/fieldserve/contractbill/internal/catalog/domain"
	catalogrepository "github.com/fieldserve/contractbill/internal/catalog/repository"
	"github.com/fieldserve/contractbill/internal/config"
	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
	"github.com/fieldserve/contractbill/internal/draft/repository"
)

type stubResolver struct {
	components []draftdomain.TaxComponent
}

func (s stubResolver) ResolveDefault(context.Context) ([]draftdomain.TaxComponent, error) {
	return s.components, nil
}

func newTestService(t *testing.T) (draftdomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&draftdomain.ContractDraft{},
		&draftdomain.CoverageType{},
		&draftdomain.ConfigurableBlock{},
		&catalogdomain.BlockDefinition{},
		&catalogdomain.PricingRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Cfg:         config.Config{DefaultCurrency: "USD"},
		GenID:       node,
		Repo:        repository.NewRepository(),
		CatalogRepo: catalogrepository.NewRepository(),
		TaxResolver: stubResolver{components: []draftdomain.TaxComponent{
			{Name: "GST", Rate: decimal.NewFromInt(18)},
		}},
	})
	return svc, db
}

var seedSeq snowflake.ID

func seedDefinition(t *testing.T, db *gorm.DB, id string, price string, taxes []draftdomain.TaxComponent) {
	t.Helper()
	seedSeq++

	def := catalogdomain.BlockDefinition{
		ID:        id,
		Name:      "Block " + id,
		Category:  draftdomain.CategoryService,
		BasePrice: decimal.RequireFromString(price),
		Active:    true,
	}
	require.NoError(t, db.Create(&def).Error)

	record := catalogdomain.PricingRecord{
		ID:           seedSeq,
		DefinitionID: id,
		Currency:     "USD",
		Amount:       decimal.RequireFromString(price),
		TaxInclusion: draftdomain.TaxExclusive,
		IsActive:     true,
	}
	if len(taxes) > 0 {
		raw, err := json.Marshal(taxes)
		require.NoError(t, err)
		record.Taxes = datatypes.JSON(raw)
	}
	require.NoError(t, db.Create(&record).Error)
}

func createDraft(t *testing.T, svc draftdomain.Service) *draftdomain.ContractDraft {
	t.Helper()
	draft, err := svc.CreateDraft(context.Background(), draftdomain.CreateDraftRequest{
		Title:    "Annual maintenance",
		Currency: "USD",
	})
	require.NoError(t, err)
	return draft
}

func TestCreateDraftDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	draft, err := svc.CreateDraft(context.Background(), draftdomain.CreateDraftRequest{Title: "Contract"})
	require.NoError(t, err)
	assert.Equal(t, "USD", draft.Currency)
	assert.Equal(t, 12, draft.DurationMonths)
	assert.Equal(t, draftdomain.PaymentModeDefined, draft.PaymentMode)

	_, err = svc.CreateDraft(context.Background(), draftdomain.CreateDraftRequest{Title: "   "})
	assert.ErrorIs(t, err, draftdomain.ErrInvalidTitle)
}

func TestToggleAttachComputesLineTotal(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-inspection", "100.00", []draftdomain.TaxComponent{
		{Name: "GST", Rate: decimal.NewFromInt(18)},
	})
	draft := createDraft(t, svc)

	result, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-inspection",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Attached)
	assert.Nil(t, result.Removed)
	assert.Equal(t, "svc-inspection", result.Attached.ID)
	assert.Equal(t, "118.00", result.Attached.TotalPrice.StringFixed(2))
	assert.Equal(t, "18.00", result.Attached.TaxRate.StringFixed(2))
	assert.Equal(t, "USD", result.Attached.Currency)

	totals, err := svc.Totals(context.Background(), draft.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, "100.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "118.00", totals.GrandTotal.StringFixed(2))
	require.Len(t, totals.TaxBreakdown, 1)
	assert.Equal(t, "18.00", totals.TaxBreakdown[0].Amount.StringFixed(2))
}

func TestToggleAttachSecondCallDetaches(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-inspection", "100.00", nil)
	draft := createDraft(t, svc)

	_, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-inspection",
	})
	require.NoError(t, err)

	result, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-inspection",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Attached)
	require.NotNil(t, result.Removed)

	blocks, err := svc.ListBlocks(context.Background(), draft.ID.String())
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestToggleAttachSameCatalogPerGroup(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-inspection", "50.00", nil)
	draft := createDraft(t, svc)

	groupA, err := svc.AddCoverageType(context.Background(), draft.ID.String(), draftdomain.AddCoverageTypeRequest{
		SubCategory: "hvac", ResourceID: "unit-a", ResourceName: "Rooftop Unit A",
	})
	require.NoError(t, err)
	groupB, err := svc.AddCoverageType(context.Background(), draft.ID.String(), draftdomain.AddCoverageTypeRequest{
		SubCategory: "hvac", ResourceID: "unit-b", ResourceName: "Rooftop Unit B",
	})
	require.NoError(t, err)

	first, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-inspection", CoverageGroupID: groupA.ID.String(),
	})
	require.NoError(t, err)
	second, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-inspection", CoverageGroupID: groupB.ID.String(),
	})
	require.NoError(t, err)

	require.NotNil(t, first.Attached)
	require.NotNil(t, second.Attached)
	assert.NotEqual(t, first.Attached.ID, second.Attached.ID)
	assert.Equal(t, "svc-inspection__"+groupA.ID.String(), first.Attached.ID)
	assert.Equal(t, "svc-inspection__"+groupB.ID.String(), second.Attached.ID)

	// Toggling again in group A removes only group A's instance.
	third, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-inspection", CoverageGroupID: groupA.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, third.Removed)

	blocks, err := svc.ListBlocks(context.Background(), draft.ID.String())
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "svc-inspection__"+groupB.ID.String(), blocks[0].ID)
}

func TestToggleAttachUnknownGroup(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-inspection", "50.00", nil)
	draft := createDraft(t, svc)

	_, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-inspection", CoverageGroupID: "424242",
	})
	assert.ErrorIs(t, err, draftdomain.ErrGroupNotFound)
}

func TestUpdateBlockRecomputesTotal(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-inspection", "100.00", []draftdomain.TaxComponent{
		{Name: "GST", Rate: decimal.NewFromInt(18)},
	})
	draft := createDraft(t, svc)

	attached, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-inspection",
	})
	require.NoError(t, err)

	qty := 3
	updated, err := svc.UpdateBlock(context.Background(), draft.ID.String(), attached.Attached.ID, draftdomain.UpdateBlockRequest{
		Quantity: &qty,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, "354.00", updated.TotalPrice.StringFixed(2))
}

func TestUpdateBlockRejectionLeavesRowUnchanged(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-inspection", "100.00", nil)
	draft := createDraft(t, svc)

	attached, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-inspection",
	})
	require.NoError(t, err)

	badQty := 0
	_, err = svc.UpdateBlock(context.Background(), draft.ID.String(), attached.Attached.ID, draftdomain.UpdateBlockRequest{
		Quantity: &badQty,
	})
	assert.ErrorIs(t, err, draftdomain.ErrInvalidQuantity)

	blocks, err := svc.ListBlocks(context.Background(), draft.ID.String())
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].Quantity)
	assert.Equal(t, "100.00", blocks[0].TotalPrice.StringFixed(2))
}

func TestInsertFlyBy(t *testing.T) {
	svc, _ := newTestService(t)
	draft := createDraft(t, svc)

	block, err := svc.InsertFlyBy(context.Background(), draft.ID.String(), draftdomain.InsertFlyByRequest{
		Type:  draftdomain.FlyByService,
		Name:  "Emergency call-out",
		Price: decimal.RequireFromString("80.00"),
	})
	require.NoError(t, err)
	assert.True(t, block.IsFlyBy)
	assert.Equal(t, 1, block.Quantity)
	// Resolver default 18% exclusive applies to priced fly-by lines.
	assert.Equal(t, "94.40", block.TotalPrice.StringFixed(2))

	// A second insert of the same name is a new instance, never a toggle.
	again, err := svc.InsertFlyBy(context.Background(), draft.ID.String(), draftdomain.InsertFlyByRequest{
		Type:  draftdomain.FlyByService,
		Name:  "Emergency call-out",
		Price: decimal.RequireFromString("80.00"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, block.ID, again.ID)

	blocks, err := svc.ListBlocks(context.Background(), draft.ID.String())
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestInsertFlyByTextHasNoPrice(t *testing.T) {
	svc, _ := newTestService(t)
	draft := createDraft(t, svc)

	block, err := svc.InsertFlyBy(context.Background(), draft.ID.String(), draftdomain.InsertFlyByRequest{
		Type:  draftdomain.FlyByText,
		Name:  "Scope note",
		Price: decimal.RequireFromString("999.00"),
	})
	require.NoError(t, err)
	assert.False(t, block.HasPricing)
	assert.True(t, block.TotalPrice.IsZero())
	assert.True(t, block.TaxRate.IsZero())
}

func TestMoveBlockCrossGroupIsSilentNoOp(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-a", "10.00", nil)
	seedDefinition(t, db, "svc-b", "20.00", nil)
	draft := createDraft(t, svc)

	groupA, err := svc.AddCoverageType(context.Background(), draft.ID.String(), draftdomain.AddCoverageTypeRequest{
		SubCategory: "hvac", ResourceID: "unit-a", ResourceName: "Unit A",
	})
	require.NoError(t, err)
	groupB, err := svc.AddCoverageType(context.Background(), draft.ID.String(), draftdomain.AddCoverageTypeRequest{
		SubCategory: "hvac", ResourceID: "unit-b", ResourceName: "Unit B",
	})
	require.NoError(t, err)

	inA, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-a", CoverageGroupID: groupA.ID.String(),
	})
	require.NoError(t, err)
	inB, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-b", CoverageGroupID: groupB.ID.String(),
	})
	require.NoError(t, err)

	moved, err := svc.MoveBlock(context.Background(), draft.ID.String(), draftdomain.MoveBlockRequest{
		DraggedID: inA.Attached.ID,
		TargetID:  inB.Attached.ID,
	})
	require.NoError(t, err)
	require.Len(t, moved, 2)
	assert.Equal(t, inA.Attached.ID, moved[0].ID)
	assert.Equal(t, inB.Attached.ID, moved[1].ID)
}

func TestMoveBlockWithinGroup(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-a", "10.00", nil)
	seedDefinition(t, db, "svc-b", "20.00", nil)
	seedDefinition(t, db, "svc-c", "30.00", nil)
	draft := createDraft(t, svc)

	for _, id := range []string{"svc-a", "svc-b", "svc-c"} {
		_, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{CatalogID: id})
		require.NoError(t, err)
	}

	moved, err := svc.MoveBlock(context.Background(), draft.ID.String(), draftdomain.MoveBlockRequest{
		DraggedID: "svc-c",
		TargetID:  "svc-a",
	})
	require.NoError(t, err)
	require.Len(t, moved, 3)
	assert.Equal(t, "svc-c", moved[0].ID)
	assert.Equal(t, "svc-a", moved[1].ID)
	assert.Equal(t, "svc-b", moved[2].ID)

	// Order survives the round-trip through the store.
	blocks, err := svc.ListBlocks(context.Background(), draft.ID.String())
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "svc-c", blocks[0].ID)
	assert.Equal(t, 0, blocks[0].Position)
}

func TestRemoveCoverageTypeDropsItsBlocks(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-a", "10.00", nil)
	draft := createDraft(t, svc)

	group, err := svc.AddCoverageType(context.Background(), draft.ID.String(), draftdomain.AddCoverageTypeRequest{
		SubCategory: "hvac", ResourceID: "unit-a", ResourceName: "Unit A",
	})
	require.NoError(t, err)

	_, err = svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-a", CoverageGroupID: group.ID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCoverageType(context.Background(), draft.ID.String(), group.ID.String()))

	blocks, err := svc.ListBlocks(context.Background(), draft.ID.String())
	require.NoError(t, err)
	assert.Empty(t, blocks)

	groups, err := svc.ListCoverageTypes(context.Background(), draft.ID.String())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupScopedTotals(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-a", "100.00", nil)
	seedDefinition(t, db, "svc-b", "40.00", nil)
	draft := createDraft(t, svc)

	group, err := svc.AddCoverageType(context.Background(), draft.ID.String(), draftdomain.AddCoverageTypeRequest{
		SubCategory: "hvac", ResourceID: "unit-a", ResourceName: "Unit A",
	})
	require.NoError(t, err)

	_, err = svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{
		CatalogID: "svc-a", CoverageGroupID: group.ID.String(),
	})
	require.NoError(t, err)
	_, err = svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{CatalogID: "svc-b"})
	require.NoError(t, err)

	scoped, err := svc.Totals(context.Background(), draft.ID.String(), group.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "100.00", scoped.GrandTotal.StringFixed(2))

	whole, err := svc.Totals(context.Background(), draft.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, "140.00", whole.GrandTotal.StringFixed(2))
}

func TestPaymentPlanEMI(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-a", "1200.00", nil)
	draft := createDraft(t, svc)

	_, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{CatalogID: "svc-a"})
	require.NoError(t, err)

	mode := draftdomain.PaymentModeEMI
	months := 12
	_, err = svc.UpdateDraft(context.Background(), draft.ID.String(), draftdomain.UpdateDraftRequest{
		PaymentMode: &mode, EMIMonths: &months,
	})
	require.NoError(t, err)

	plan, err := svc.PaymentPlan(context.Background(), draft.ID.String())
	require.NoError(t, err)
	assert.Equal(t, draftdomain.PaymentModeEMI, plan.Mode)
	assert.Equal(t, "1200.00", plan.GrandTotal.StringFixed(2))
	assert.Equal(t, "100.00", plan.Installment.StringFixed(2))
}

func TestUpdateDraftRejectsEMIWithoutMonths(t *testing.T) {
	svc, _ := newTestService(t)
	draft := createDraft(t, svc)

	mode := draftdomain.PaymentModeEMI
	_, err := svc.UpdateDraft(context.Background(), draft.ID.String(), draftdomain.UpdateDraftRequest{PaymentMode: &mode})
	assert.ErrorIs(t, err, draftdomain.ErrInvalidEmiConfig)
}

func TestDeleteDraftCascades(t *testing.T) {
	svc, db := newTestService(t)
	seedDefinition(t, db, "svc-a", "10.00", nil)
	draft := createDraft(t, svc)

	_, err := svc.ToggleAttach(context.Background(), draft.ID.String(), draftdomain.ToggleAttachRequest{CatalogID: "svc-a"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDraft(context.Background(), draft.ID.String()))

	_, err = svc.GetDraft(context.Background(), draft.ID.String())
	assert.ErrorIs(t, err, draftdomain.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&draftdomain.ConfigurableBlock{}).Count(&count).Error)
	assert.Zero(t, count)
}
