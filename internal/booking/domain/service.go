package domain

import (
	"context"
	"errors"
	"time"

	customerdomain "github.com/smallbiznis/venuebook/internal/customer/domain"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/smallbiznis/venuebook/internal/quote/engine"
	"github.com/smallbiznis/venuebook/pkg/db/pagination"
)

type ContactRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
}

type CreateRequest struct {
	Quote     quotedomain.QuoteRequest
	Contact   ContactRequest
	EventDate time.Time
	Notes     string
}

type ListRequest struct {
	Status    Status
	EventFrom *time.Time
	EventTo   *time.Time
	PageToken string
	PageSize  int
}

type ListResponse struct {
	pagination.PageInfo
	Bookings []Booking `json:"bookings"`
}

// Detail is a booking with its lines and the customer who made it.
type Detail struct {
	Booking  Booking                  `json:"booking"`
	Lines    []Line                   `json:"lines"`
	Customer *customerdomain.Customer `json:"customer,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Detail, error)
	Get(ctx context.Context, reference string) (*Detail, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Cancel(ctx context.Context, reference string) (*Booking, error)
	// Itemize rebuilds document lines from the frozen snapshot. It never
	// re-runs the calculator.
	Itemize(ctx context.Context, reference string) (*Detail, engine.Itemization, error)
}

var (
	ErrInvalidEventDate = errors.New("invalid_event_date")
	ErrInvalidReference = errors.New("invalid_reference")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrAlreadyCancelled = errors.New("booking_already_cancelled")
	ErrNotFound         = errors.New("not_found")
	ErrCreateFailed     = errors.New("booking_create_failed")
)
