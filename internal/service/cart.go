package service

import (
	"context"

	"shop-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartView is the session's cart with the running total. Prices come
// from the live catalog, not from the lines.
type CartView struct {
	Lines []repository.CartLineView `json:"lines"`
	Total decimal.Decimal           `json:"total"`
	Count int                       `json:"count"`
}

type CartService interface {
	// AddLine adds qty of an item/size to the session's cart, merging
	// into an existing line for the same item and size.
	AddLine(ctx context.Context, sessionID string, clothingID uuid.UUID, size string, qty int) error
	ListCart(ctx context.Context, sessionID string) (*CartView, error)
	RemoveLine(ctx context.Context, sessionID string, lineID uuid.UUID) error
	Clear(ctx context.Context, sessionID string) error
}
