package repository

import (
	"context"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockLogWithItem joins a ledger entry with its item for list screens.
type StockLogWithItem struct {
	models.StockLog
	ItemName     string `json:"item_name"`
	ItemCategory string `json:"item_category"`
}

// StockLogRepo is append-only on purpose: no update or delete methods.
type StockLogRepo interface {
	Append(ctx context.Context, entry *models.StockLog) error
	ListByItem(ctx context.Context, clothingID uuid.UUID) ([]models.StockLog, error)
	ListRecent(ctx context.Context, limit int) ([]StockLogWithItem, error)
}

type stockLogRepo struct{ db *gorm.DB }

func NewStockLogRepo(db *gorm.DB) StockLogRepo { return &stockLogRepo{db: db} }

func (r *stockLogRepo) Append(ctx context.Context, entry *models.StockLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *stockLogRepo) ListByItem(ctx context.Context, clothingID uuid.UUID) ([]models.StockLog, error) {
	var rows []models.StockLog
	err := r.db.WithContext(ctx).
		Where("clothing_id = ?", clothingID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *stockLogRepo) ListRecent(ctx context.Context, limit int) ([]StockLogWithItem, error) {
	if limit <= 0 {
		limit = 300
	}
	var rows []StockLogWithItem
	err := r.db.WithContext(ctx).Model(&models.StockLog{}).
		Select("stock_logs.*, clothing.name AS item_name, clothing.category AS item_category").
		Joins("LEFT JOIN clothing ON clothing.id = stock_logs.clothing_id").
		Order("stock_logs.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
