// Package orders implements order placement.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/strideshop/storefront/internal/app/domain/order"
	"github.com/strideshop/storefront/internal/app/storage"
	"github.com/strideshop/storefront/pkg/logger"
)

// ErrValidation marks an order missing required fields.
var ErrValidation = errors.New("invalid order input")

// Service manages order placement. Orders are guest checkouts: no account
// is required and identical submissions create independent records.
type Service struct {
	store storage.OrderStore
	log   *logger.Logger
}

// New constructs an orders service.
func New(store storage.OrderStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("orders")
	}
	return &Service{store: store, log: log}
}

// Place validates the draft and persists it. Size and color are optional;
// everything else is required.
func (s *Service) Place(ctx context.Context, draft order.Order) (order.Order, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Phone = strings.TrimSpace(draft.Phone)
	draft.Address = strings.TrimSpace(draft.Address)
	draft.Product = strings.TrimSpace(draft.Product)

	if draft.Name == "" || draft.Phone == "" || draft.Address == "" || draft.Product == "" {
		return order.Order{}, fmt.Errorf("%w: name, phone, address and product are required", ErrValidation)
	}
	if draft.Price <= 0 {
		return order.Order{}, fmt.Errorf("%w: price is required", ErrValidation)
	}

	created, err := s.store.CreateOrder(ctx, draft)
	if err != nil {
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.log.WithField("order_id", created.ID).
		WithField("product", created.Product).
		Info("order placed")
	return created, nil
}
