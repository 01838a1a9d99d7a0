package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/internal/cart"
)

// Service executes the checkout handoff: convert the active cart and expose
// its summary for the messaging collaborator.
type Service interface {
	Checkout(ctx context.Context, sessionID uuid.UUID) (*OrderSummary, error)
}

type service struct {
	carts cart.Service
}

// NewService constructs a checkout service on top of the cart service.
func NewService(carts cart.Service) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	return &service{carts: carts}, nil
}

// Checkout converts the session's active cart. The cart service guarantees a
// failed conversion leaves everything active, so the buyer can simply retry.
func (s *service) Checkout(ctx context.Context, sessionID uuid.UUID) (*OrderSummary, error) {
	converted, err := s.carts.ConvertCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := BuildOrderSummary(converted)
	return &summary, nil
}
