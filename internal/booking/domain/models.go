package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusCancelled Status = "cancelled"
)

// Booking is a hall reservation together with the quote it was accepted
// at. The money and rate columns are written once at creation and never
// recalculated.
type Booking struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	Reference     string          `json:"reference" gorm:"type:text;not null;uniqueIndex"`
	CustomerID    snowflake.ID    `json:"customer_id" gorm:"not null;index"`
	TierID        snowflake.ID    `json:"tier_id" gorm:"not null"`
	TierCode      string          `json:"tier_code" gorm:"type:text;not null"`
	PackageKind   string          `json:"package_kind,omitempty" gorm:"type:text"`
	Status        Status          `json:"status" gorm:"type:text;not null"`
	EventDate     time.Time       `json:"event_date" gorm:"not null"`
	DurationHours decimal.Decimal `json:"duration_hours" gorm:"type:numeric(6,2);not null"`
	Attendees     int             `json:"attendees" gorm:"not null"`
	AlcoholServed bool            `json:"alcohol_served" gorm:"not null"`

	HallRentalTotal         decimal.Decimal `json:"hall_rental_total" gorm:"type:numeric(12,2);not null"`
	EventSupportTotal       decimal.Decimal `json:"event_support_total" gorm:"type:numeric(12,2);not null"`
	EquipmentTotal          decimal.Decimal `json:"equipment_total" gorm:"type:numeric(12,2);not null"`
	ServicesTotal           decimal.Decimal `json:"services_total" gorm:"type:numeric(12,2);not null"`
	SecurityDeposit         decimal.Decimal `json:"security_deposit" gorm:"type:numeric(12,2);not null"`
	GrandTotal              decimal.Decimal `json:"grand_total" gorm:"type:numeric(12,2);not null"`
	RequiredStaff           int             `json:"required_staff" gorm:"not null"`
	HallBaseRate            decimal.Decimal `json:"hall_base_rate" gorm:"type:numeric(12,2);not null"`
	HallHourlyRate          decimal.Decimal `json:"hall_hourly_rate" gorm:"type:numeric(12,2);not null"`
	SupportBaseRate         decimal.Decimal `json:"support_base_rate" gorm:"type:numeric(12,2);not null"`
	SupportHourlyRate       decimal.Decimal `json:"support_hourly_rate" gorm:"type:numeric(12,2);not null"`
	BaseHours               decimal.Decimal `json:"base_hours" gorm:"type:numeric(6,2);not null"`
	SecuritySurchargeHourly decimal.Decimal `json:"security_surcharge_hourly" gorm:"type:numeric(12,2);not null"`
	IsFlatPackage           bool            `json:"is_flat_package" gorm:"not null"`

	Notes       string            `json:"notes,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb;not null;default:'{}'"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Booking) TableName() string { return "bookings" }

// Snapshot reads the frozen calculation back out of the row.
func (b Booking) Snapshot() quotedomain.Snapshot {
	return quotedomain.Snapshot{
		HallRentalTotal:         b.HallRentalTotal,
		EventSupportTotal:       b.EventSupportTotal,
		EquipmentTotal:          b.EquipmentTotal,
		ServicesTotal:           b.ServicesTotal,
		SecurityDeposit:         b.SecurityDeposit,
		GrandTotal:              b.GrandTotal,
		RequiredStaff:           b.RequiredStaff,
		HallBaseRate:            b.HallBaseRate,
		HallHourlyRate:          b.HallHourlyRate,
		SupportBaseRate:         b.SupportBaseRate,
		SupportHourlyRate:       b.SupportHourlyRate,
		BaseHours:               b.BaseHours,
		SecuritySurchargeHourly: b.SecuritySurchargeHourly,
		IsFlatPackage:           b.IsFlatPackage,
	}
}

// ApplySnapshot copies a frozen calculation onto the row.
func (b *Booking) ApplySnapshot(s quotedomain.Snapshot) {
	b.HallRentalTotal = s.HallRentalTotal
	b.EventSupportTotal = s.EventSupportTotal
	b.EquipmentTotal = s.EquipmentTotal
	b.ServicesTotal = s.ServicesTotal
	b.SecurityDeposit = s.SecurityDeposit
	b.GrandTotal = s.GrandTotal
	b.RequiredStaff = s.RequiredStaff
	b.HallBaseRate = s.HallBaseRate
	b.HallHourlyRate = s.HallHourlyRate
	b.SupportBaseRate = s.SupportBaseRate
	b.SupportHourlyRate = s.SupportHourlyRate
	b.BaseHours = s.BaseHours
	b.SecuritySurchargeHourly = s.SecuritySurchargeHourly
	b.IsFlatPackage = s.IsFlatPackage
}

type LineKind string

const (
	LineKindEquipment LineKind = "equipment"
	LineKindService   LineKind = "service"
)

// Line is one selected equipment item or service, with the rate and amount
// that applied when the booking was made.
type Line struct {
	ID            snowflake.ID         `json:"id" gorm:"primaryKey"`
	BookingID     snowflake.ID         `json:"booking_id" gorm:"not null;index"`
	Position      int                  `json:"position" gorm:"not null"`
	Kind          LineKind             `json:"kind" gorm:"type:text;not null"`
	ItemID        string               `json:"item_id" gorm:"type:text;not null"`
	Name          string               `json:"name" gorm:"type:text;not null"`
	Quantity      int                  `json:"quantity"`
	Hours         decimal.Decimal      `json:"hours" gorm:"type:numeric(6,2);not null"`
	UnitRate      decimal.Decimal      `json:"unit_rate" gorm:"type:numeric(12,2);not null"`
	RateType      quotedomain.RateType `json:"rate_type,omitempty" gorm:"type:text"`
	CommissionPct *decimal.Decimal     `json:"commission_pct,omitempty" gorm:"type:numeric(6,3)"`
	Amount        decimal.Decimal      `json:"amount" gorm:"type:numeric(12,2);not null"`
	CreatedAt     time.Time            `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Line) TableName() string { return "booking_lines" }
