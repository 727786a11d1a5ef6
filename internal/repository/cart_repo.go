package repository

import (
	"context"
	"errors"
	"time"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartLineView is a cart line joined with its catalog item.
type CartLineView struct {
	ID         uuid.UUID       `json:"id"`
	ClothingID uuid.UUID       `json:"clothing_id"`
	Name       string          `json:"name"`
	Size       string          `json:"size"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Image      *string         `json:"image,omitempty"`
	AddedAt    time.Time       `json:"added_at"`
}

type CartRepo interface {
	// UpsertLine inserts a line or, when a line with the same
	// (session, item, size) exists, adds qty to it.
	UpsertLine(ctx context.Context, sessionID string, clothingID uuid.UUID, size string, qty int, at time.Time) error
	ListBySession(ctx context.Context, sessionID string) ([]CartLineView, error)
	GetLine(ctx context.Context, id uuid.UUID) (*models.CartLine, error)
	Remove(ctx context.Context, id uuid.UUID) (bool, error)
	ClearSession(ctx context.Context, sessionID string) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) UpsertLine(ctx context.Context, sessionID string, clothingID uuid.UUID, size string, qty int, at time.Time) error {
	line := models.CartLine{
		SessionID:  sessionID,
		ClothingID: clothingID,
		Size:       size,
		Quantity:   qty,
		AddedAt:    at,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "clothing_id"}, {Name: "size"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_lines.quantity + EXCLUDED.quantity"),
				"added_at": at,
			}),
		}).
		Create(&line).Error
}

func (r *cartRepo) ListBySession(ctx context.Context, sessionID string) ([]CartLineView, error) {
	var rows []CartLineView
	err := r.db.WithContext(ctx).Model(&models.CartLine{}).
		Select("cart_lines.id, cart_lines.clothing_id, clothing.name, cart_lines.size, cart_lines.quantity, clothing.price, clothing.image, cart_lines.added_at").
		Joins("JOIN clothing ON clothing.id = cart_lines.clothing_id").
		Where("cart_lines.session_id = ?", sessionID).
		Order("cart_lines.added_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *cartRepo) GetLine(ctx context.Context, id uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

func (r *cartRepo) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.CartLine{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) ClearSession(ctx context.Context, sessionID string) (int64, error) {
	tx := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.CartLine{})
	return tx.RowsAffected, tx.Error
}
