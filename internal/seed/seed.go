package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	tierdomain "github.com/smallbiznis/venuebook/internal/tier/domain"
	"gorm.io/gorm"
)

type tierSeed struct {
	code          string
	name          string
	hallBase      int64
	hallHourly    int64
	supportBase   int64
	supportHourly int64
	deposit       int64
}

// canonicalTiers are the published Member and Non-Member rates.
var canonicalTiers = []tierSeed{
	{code: "member", name: "Member", hallBase: 600, hallHourly: 50, supportBase: 200, supportHourly: 35, deposit: 100},
	{code: "non-member", name: "Non-Member", hallBase: 800, hallHourly: 100, supportBase: 200, supportHourly: 35, deposit: 200},
}

// EnsureCanonicalTiers inserts any canonical tier whose code is missing. It
// never overwrites a tier an operator has edited. It returns how many tiers
// were created.
func EnsureCanonicalTiers(db *gorm.DB, node *snowflake.Node) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}
	if node == nil {
		var err error
		if node, err = snowflake.NewNode(1); err != nil {
			return 0, err
		}
	}

	ctx := context.Background()
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seed := range canonicalTiers {
			ok, err := ensureTierTx(ctx, tx, node, seed)
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}
		return nil
	})
	return created, err
}

func ensureTierTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, seed tierSeed) (bool, error) {
	var tier tierdomain.Tier
	err := tx.WithContext(ctx).Where("code = ?", seed.code).First(&tier).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	now := time.Now().UTC()
	tier = tierdomain.Tier{
		ID:                 node.Generate(),
		Code:               seed.code,
		Name:               seed.name,
		HallBaseRate:       decimal.NewFromInt(seed.hallBase),
		HallHourlyRate:     decimal.NewFromInt(seed.hallHourly),
		EventSupportBase:   decimal.NewFromInt(seed.supportBase),
		EventSupportHourly: decimal.NewFromInt(seed.supportHourly),
		SecurityDeposit:    decimal.NewFromInt(seed.deposit),
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := tx.WithContext(ctx).Create(&tier).Error; err != nil {
		return false, err
	}
	return true, nil
}
