package storage

import (
	"context"
	"errors"

	"github.com/strideshop/storefront/internal/app/domain/order"
	"github.com/strideshop/storefront/internal/app/domain/user"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("storage: record not found")

	// ErrDuplicateEmail is returned when inserting a user whose email is
	// already taken. Implementations must enforce this atomically.
	ErrDuplicateEmail = errors.New("storage: email already registered")
)

// UserStore persists customer accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// OrderStore persists placed orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
}
