package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
)

type Service interface {
	CreateEquipment(ctx context.Context, req CreateEquipmentRequest) (*Equipment, error)
	ListEquipment(ctx context.Context) ([]Equipment, error)
	GetEquipment(ctx context.Context, id string) (*Equipment, error)

	CreateOffering(ctx context.Context, req CreateOfferingRequest) (*Offering, error)
	ListOfferings(ctx context.Context) ([]Offering, error)
	GetOffering(ctx context.Context, id string) (*Offering, error)

	// EquipmentByIDs and OfferingsByIDs return active items keyed by id
	// string. Unknown or inactive ids are an error.
	EquipmentByIDs(ctx context.Context, ids []string) (map[string]Equipment, error)
	OfferingsByIDs(ctx context.Context, ids []string) (map[string]Offering, error)
}

type CreateEquipmentRequest struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	UnitRate decimal.Decimal `json:"unit_rate"`
}

type CreateOfferingRequest struct {
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	RateType      quotedomain.RateType `json:"rate_type"`
	Rate          decimal.Decimal      `json:"rate"`
	CommissionPct *decimal.Decimal     `json:"commission_pct"`
}

var (
	ErrInvalidCode          = errors.New("invalid_code")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidRate          = errors.New("invalid_rate")
	ErrInvalidRateType      = errors.New("invalid_rate_type")
	ErrInvalidCommissionPct = errors.New("invalid_commission_pct")
	ErrInvalidID            = errors.New("invalid_id")
	ErrCodeTaken            = errors.New("catalog_code_taken")
	ErrNotFound             = errors.New("not_found")
	ErrUnknownItem          = errors.New("unknown_catalog_item")
)
