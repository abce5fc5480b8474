// Package app ties the storefront services together.
package app

import (
	"github.com/strideshop/storefront/internal/app/auth"
	"github.com/strideshop/storefront/internal/app/services/orders"
	"github.com/strideshop/storefront/internal/app/services/users"
	"github.com/strideshop/storefront/internal/app/storage"
	"github.com/strideshop/storefront/internal/app/storage/memory"
	"github.com/strideshop/storefront/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users  storage.UserStore
	Orders storage.OrderStore
}

// Application holds the domain services.
type Application struct {
	log *logger.Logger

	Users  *users.Service
	Orders *orders.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Orders == nil {
		stores.Orders = mem
	}

	hasher := auth.NewHasher(auth.DefaultCost)

	return &Application{
		log:    log,
		Users:  users.New(stores.Users, hasher, log),
		Orders: orders.New(stores.Orders, log),
	}, nil
}
