package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
)

// Equipment is a rentable item priced per unit.
type Equipment struct {
	ID        snowflake.ID    `json:"id" gorm:"primaryKey"`
	Code      string          `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name      string          `json:"name" gorm:"type:text;not null"`
	UnitRate  decimal.Decimal `json:"unit_rate" gorm:"type:numeric(12,2);not null"`
	Active    bool            `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Equipment) TableName() string { return "equipment" }

// Offering is a bookable service such as a bartender or caterer.
type Offering struct {
	ID            snowflake.ID         `json:"id" gorm:"primaryKey"`
	Code          string               `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name          string               `json:"name" gorm:"type:text;not null"`
	RateType      quotedomain.RateType `json:"rate_type" gorm:"type:text;not null"`
	Rate          decimal.Decimal      `json:"rate" gorm:"type:numeric(12,2);not null"`
	CommissionPct *decimal.Decimal     `json:"commission_pct,omitempty" gorm:"type:numeric(6,3)"`
	Active        bool                 `json:"active" gorm:"not null;default:true"`
	CreatedAt     time.Time            `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time            `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Offering) TableName() string { return "services" }

// Line prices the offering for the given hours.
func (o Offering) Line(hours decimal.Decimal) quotedomain.ServiceLine {
	line := quotedomain.ServiceLine{
		ItemID:      o.ID.String(),
		Name:        o.Name,
		Hours:       hours,
		RateApplied: o.Rate,
		RateType:    o.RateType,
	}
	if o.CommissionPct != nil {
		pct := *o.CommissionPct
		line.CommissionPct = &pct
	}
	return line
}

// Line prices quantity units of the item.
func (e Equipment) Line(quantity int) quotedomain.EquipmentLine {
	return quotedomain.EquipmentLine{
		ItemID:   e.ID.String(),
		Name:     e.Name,
		Quantity: quantity,
		UnitRate: e.UnitRate,
	}
}
