package repository

import (
	"context"
	"errors"

	"salesdesk/internal/domain/aggregate"
)

// ErrUserNotFound is returned when no user exists for the given identifier
// or email.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines persistence operations for user accounts. The sale
// creation workflow consumes GetByID to validate the referenced customer.
type UserRepository interface {
	Save(ctx context.Context, user *aggregate.User) error
	GetByID(ctx context.Context, id string) (*aggregate.User, error)
	GetByEmail(ctx context.Context, email string) (*aggregate.User, error)
}
