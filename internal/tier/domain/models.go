package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
)

// Tier is a membership tier and the rates it unlocks.
type Tier struct {
	ID                 snowflake.ID    `json:"id" gorm:"primaryKey"`
	Code               string          `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name               string          `json:"name" gorm:"type:text;not null"`
	HallBaseRate       decimal.Decimal `json:"hall_base_rate" gorm:"type:numeric(12,2);not null"`
	HallHourlyRate     decimal.Decimal `json:"hall_hourly_rate" gorm:"type:numeric(12,2);not null"`
	EventSupportBase   decimal.Decimal `json:"event_support_base" gorm:"type:numeric(12,2);not null"`
	EventSupportHourly decimal.Decimal `json:"event_support_hourly" gorm:"type:numeric(12,2);not null"`
	SecurityDeposit    decimal.Decimal `json:"security_deposit" gorm:"type:numeric(12,2);not null"`
	Active             bool            `json:"active" gorm:"not null;default:true"`
	CreatedAt          time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Tier) TableName() string { return "tiers" }

// Rates returns the rate shape the calculator consumes.
func (t Tier) Rates() quotedomain.TierRates {
	return quotedomain.TierRates{
		HallBaseRate:       t.HallBaseRate,
		HallHourlyRate:     t.HallHourlyRate,
		EventSupportBase:   t.EventSupportBase,
		EventSupportHourly: t.EventSupportHourly,
		SecurityDeposit:    t.SecurityDeposit,
	}
}
