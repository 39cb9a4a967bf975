package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/catalog/domain"
	"github.com/smallbiznis/venuebook/internal/catalog/repository"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupCatalogService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&domain.Equipment{}, &domain.Offering{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateEquipmentAndLookup(t *testing.T) {
	svc := setupCatalogService(t)
	ctx := context.Background()

	chairs, err := svc.CreateEquipment(ctx, domain.CreateEquipmentRequest{Name: "Folding Chairs", UnitRate: decimal.RequireFromString("2.50")})
	require.NoError(t, err)
	assert.Equal(t, "folding-chairs", chairs.Code)

	tables, err := svc.CreateEquipment(ctx, domain.CreateEquipmentRequest{Name: "Round Tables", UnitRate: decimal.NewFromInt(15)})
	require.NoError(t, err)

	_, err = svc.CreateEquipment(ctx, domain.CreateEquipmentRequest{Name: "Folding Chairs", UnitRate: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrCodeTaken)

	byID, err := svc.EquipmentByIDs(ctx, []string{chairs.ID.String(), tables.ID.String(), chairs.ID.String()})
	require.NoError(t, err)
	require.Len(t, byID, 2)

	line := byID[chairs.ID.String()].Line(40)
	assert.Equal(t, "Folding Chairs", line.Name)
	assert.True(t, decimal.NewFromInt(100).Equal(line.Total()))

	_, err = svc.EquipmentByIDs(ctx, []string{"777"})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	_, err = svc.EquipmentByIDs(ctx, []string{"abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	items, err := svc.ListEquipment(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCreateOfferingValidation(t *testing.T) {
	svc := setupCatalogService(t)
	ctx := context.Background()
	pct := decimal.NewFromInt(10)

	cases := []struct {
		name string
		req  domain.CreateOfferingRequest
		err  error
	}{
		{"unknown rate type", domain.CreateOfferingRequest{Name: "DJ", RateType: "daily", Rate: decimal.NewFromInt(1)}, domain.ErrInvalidRateType},
		{"negative rate", domain.CreateOfferingRequest{Name: "DJ", RateType: quotedomain.RateTypeHourly, Rate: decimal.NewFromInt(-1)}, domain.ErrInvalidRate},
		{"sub-cent rate", domain.CreateOfferingRequest{Name: "DJ", RateType: quotedomain.RateTypeHourly, Rate: decimal.RequireFromString("45.005")}, domain.ErrInvalidRate},
		{"commission without pct", domain.CreateOfferingRequest{Name: "Catering", RateType: quotedomain.RateTypeCommission}, domain.ErrInvalidCommissionPct},
		{"pct on hourly", domain.CreateOfferingRequest{Name: "Bartender", RateType: quotedomain.RateTypeHourly, CommissionPct: &pct}, domain.ErrInvalidCommissionPct},
		{"missing name", domain.CreateOfferingRequest{RateType: quotedomain.RateTypeFlat}, domain.ErrInvalidName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOffering(ctx, tc.req)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestOfferingLinesCarryRateModel(t *testing.T) {
	svc := setupCatalogService(t)
	ctx := context.Background()
	pct := decimal.NewFromInt(10)

	catering, err := svc.CreateOffering(ctx, domain.CreateOfferingRequest{
		Name:          "Catering",
		RateType:      "Commission",
		CommissionPct: &pct,
	})
	require.NoError(t, err)

	bartender, err := svc.CreateOffering(ctx, domain.CreateOfferingRequest{
		Name:     "Bartender",
		RateType: quotedomain.RateTypeHourly,
		Rate:     decimal.RequireFromString("25.50"),
	})
	require.NoError(t, err)

	byID, err := svc.OfferingsByIDs(ctx, []string{catering.ID.String(), bartender.ID.String()})
	require.NoError(t, err)

	cateringLine := byID[catering.ID.String()].Line(decimal.Zero)
	assert.Equal(t, quotedomain.RateTypeCommission, cateringLine.RateType)
	require.NotNil(t, cateringLine.CommissionPct)
	assert.True(t, pct.Equal(*cateringLine.CommissionPct))

	bartenderLine := byID[bartender.ID.String()].Line(decimal.NewFromInt(3))
	assert.Nil(t, bartenderLine.CommissionPct)
	assert.True(t, decimal.RequireFromString("25.5").Equal(bartenderLine.RateApplied))

	fetched, err := svc.GetOffering(ctx, bartender.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "bartender", fetched.Code)

	_, err = svc.GetOffering(ctx, "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
