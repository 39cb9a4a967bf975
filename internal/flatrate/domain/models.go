package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// FlatRate is an all-in hall price for a package kind (for example a
// funeral reception) within an attendee range. A nil MaxAttendees marks the
// open-ended top bracket.
type FlatRate struct {
	ID           snowflake.ID    `json:"id" gorm:"primaryKey"`
	PackageKind  string          `json:"package_kind" gorm:"type:text;not null;index"`
	Name         string          `json:"name" gorm:"type:text;not null"`
	MinAttendees int             `json:"min_attendees" gorm:"not null"`
	MaxAttendees *int            `json:"max_attendees,omitempty"`
	PackageRate  decimal.Decimal `json:"package_rate" gorm:"type:numeric(12,2);not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (FlatRate) TableName() string { return "flat_rates" }

func (r FlatRate) Contains(attendees int) bool {
	if attendees < r.MinAttendees {
		return false
	}
	return r.MaxAttendees == nil || attendees <= *r.MaxAttendees
}

// Overlaps reports whether two attendee ranges share at least one value.
func (r FlatRate) Overlaps(other FlatRate) bool {
	if r.MaxAttendees != nil && *r.MaxAttendees < other.MinAttendees {
		return false
	}
	if other.MaxAttendees != nil && *other.MaxAttendees < r.MinAttendees {
		return false
	}
	return true
}
