package service

import (
	"context"
	"fmt"
	"time"

	"shop-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewCartService(repo *repository.Repository, log *zap.Logger) CartService {
	return &cartService{repo: repo, log: log, now: time.Now}
}

func (s *cartService) AddLine(ctx context.Context, sessionID string, clothingID uuid.UUID, size string, qty int) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session is required", ErrValidation)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidQuantity)
	}

	item, err := s.repo.Clothing.GetByID(ctx, clothingID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	// Soft check only. Checkout re-validates against live stock, so a
	// cart is allowed to go stale.
	if item.Quantity < qty {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, item.Name)
	}

	return s.repo.Cart.UpsertLine(ctx, sessionID, clothingID, size, qty, s.now())
}

func (s *cartService) ListCart(ctx context.Context, sessionID string) (*CartView, error) {
	lines, err := s.repo.Cart.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Lines: lines, Total: decimal.Zero}
	for _, line := range lines {
		view.Total = view.Total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		view.Count += line.Quantity
	}
	return view, nil
}

func (s *cartService) RemoveLine(ctx context.Context, sessionID string, lineID uuid.UUID) error {
	line, err := s.repo.Cart.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	// A line from another session is as good as absent.
	if line == nil || line.SessionID != sessionID {
		return ErrCartLineNotFound
	}
	found, err := s.repo.Cart.Remove(ctx, lineID)
	if err != nil {
		return err
	}
	if !found {
		return ErrCartLineNotFound
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	_, err := s.repo.Cart.ClearSession(ctx, sessionID)
	return err
}
