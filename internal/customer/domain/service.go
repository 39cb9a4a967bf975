package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CreateCustomerRequest struct {
	Name         string
	Email        string
	Phone        string
	Organization string
}

type Service interface {
	// FindOrCreate matches on email. tx lets the caller run it inside its
	// own transaction; nil uses the service connection.
	FindOrCreate(ctx context.Context, tx *gorm.DB, req CreateCustomerRequest) (Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
