package seed

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	tierdomain "github.com/smallbiznis/venuebook/internal/tier/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureCanonicalTiersIsIdempotent(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:seed_tiers?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&tierdomain.Tier{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	created, err := EnsureCanonicalTiers(conn, node)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	require.NoError(t, conn.Model(&tierdomain.Tier{}).
		Where("code = ?", "member").
		Update("hall_base_rate", decimal.NewFromInt(650)).Error)

	created, err = EnsureCanonicalTiers(conn, node)
	require.NoError(t, err)
	assert.Zero(t, created)

	var member tierdomain.Tier
	require.NoError(t, conn.Where("code = ?", "member").First(&member).Error)
	assert.True(t, decimal.NewFromInt(650).Equal(member.HallBaseRate))

	var nonMember tierdomain.Tier
	require.NoError(t, conn.Where("code = ?", "non-member").First(&nonMember).Error)
	assert.True(t, decimal.NewFromInt(100).Equal(nonMember.HallHourlyRate))
}
