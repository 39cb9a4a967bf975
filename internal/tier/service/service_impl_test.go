package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/tier/domain"
	"github.com/smallbiznis/venuebook/internal/tier/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTierService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&domain.Tier{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func memberRequest() domain.CreateRequest {
	return domain.CreateRequest{
		Name:               "Member",
		HallBaseRate:       decimal.NewFromInt(600),
		HallHourlyRate:     decimal.NewFromInt(50),
		EventSupportBase:   decimal.NewFromInt(200),
		EventSupportHourly: decimal.NewFromInt(35),
		SecurityDeposit:    decimal.NewFromInt(250),
	}
}

func TestCreateDerivesCodeAndRejectsDuplicates(t *testing.T) {
	svc := setupTierService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, memberRequest())
	require.NoError(t, err)
	assert.Equal(t, "member", created.Code)
	assert.True(t, created.Active)

	_, err = svc.Create(ctx, memberRequest())
	assert.ErrorIs(t, err, domain.ErrCodeTaken)

	other := memberRequest()
	other.Name = "Non Member"
	other.Code = "Non-Member"
	created, err = svc.Create(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "non-member", created.Code)
}

func TestCreateValidation(t *testing.T) {
	svc := setupTierService(t)
	ctx := context.Background()

	noName := memberRequest()
	noName.Name = "  "
	_, err := svc.Create(ctx, noName)
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	negative := memberRequest()
	negative.HallHourlyRate = decimal.NewFromInt(-1)
	_, err = svc.Create(ctx, negative)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	subCent := memberRequest()
	subCent.SecurityDeposit = decimal.RequireFromString("100.005")
	_, err = svc.Create(ctx, subCent)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestFindByCodeReturnsRates(t *testing.T) {
	svc := setupTierService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, memberRequest())
	require.NoError(t, err)

	tier, err := svc.FindByCode(ctx, "Member")
	require.NoError(t, err)
	rates := tier.Rates()
	assert.True(t, decimal.NewFromInt(600).Equal(rates.HallBaseRate))
	assert.True(t, decimal.NewFromInt(35).Equal(rates.EventSupportHourly))
	assert.True(t, decimal.NewFromInt(250).Equal(rates.SecurityDeposit))

	_, err = svc.FindByCode(ctx, "gold")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAndDeactivate(t *testing.T) {
	svc := setupTierService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, memberRequest())
	require.NoError(t, err)

	hourly := decimal.RequireFromString("55.50")
	inactive := false
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateRequest{
		HallHourlyRate: &hourly,
		Active:         &inactive,
	})
	require.NoError(t, err)
	assert.True(t, hourly.Equal(updated.HallHourlyRate))
	assert.False(t, updated.Active)

	fetched, err := svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.True(t, hourly.Equal(fetched.HallHourlyRate))
	assert.Equal(t, "member", fetched.Code)

	_, err = svc.FindByCode(ctx, "member")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetInvalidID(t *testing.T) {
	svc := setupTierService(t)

	_, err := svc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Get(context.Background(), "12345")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
