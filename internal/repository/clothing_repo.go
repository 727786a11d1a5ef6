package repository

import (
	"context"
	"errors"
	"strings"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClothingListFilter struct {
	Query       string // matches name/category/size
	Category    string
	InStockOnly bool
	Sort        string // see sortMap
	Limit       int
	Offset      int
}

// sortMap mirrors the admin list's sort options; unknown keys fall back
// to newest first.
var sortMap = map[string]string{
	"name_asc":     "name ASC",
	"name_desc":    "name DESC",
	"qty_asc":      "quantity ASC",
	"qty_desc":     "quantity DESC",
	"price_asc":    "price ASC",
	"price_desc":   "price DESC",
	"created_asc":  "created_at ASC",
	"created_desc": "created_at DESC",
}

type CategoryQty struct {
	Category string
	Qty      int64
}

type ClothingRepo interface {
	Create(ctx context.Context, item *models.ClothingItem) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error)
	List(ctx context.Context, f ClothingListFilter) ([]models.ClothingItem, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Categories(ctx context.Context) ([]string, error)

	// DebitStock decrements quantity only when enough stock is available.
	// Returns false without touching the row otherwise.
	DebitStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	// SetQuantity overwrites quantity unconditionally (admin adjust path).
	SetQuantity(ctx context.Context, id uuid.UUID, qty int) error

	CountAll(ctx context.Context) (int64, error)
	TotalQuantity(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	QuantityByCategory(ctx context.Context, limit int) ([]CategoryQty, error)
}

type clothingRepo struct{ db *gorm.DB }

func NewClothingRepo(db *gorm.DB) ClothingRepo { return &clothingRepo{db: db} }

func (r *clothingRepo) Create(ctx context.Context, item *models.ClothingItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *clothingRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.ClothingItem{}).Where("id = ?", id).Updates(fields).Error
}

func (r *clothingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error) {
	var item models.ClothingItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *clothingRepo) List(ctx context.Context, f ClothingListFilter) ([]models.ClothingItem, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ClothingItem{})

	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + s + "%"
		q = q.Where("lower(name) LIKE lower(?) OR lower(category) LIKE lower(?) OR lower(size) LIKE lower(?)", like, like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.InStockOnly {
		q = q.Where("quantity > 0")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy, ok := sortMap[f.Sort]
	if !ok {
		orderBy = "created_at DESC"
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.ClothingItem
	err := q.Order(orderBy).Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *clothingRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.ClothingItem{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *clothingRepo) Categories(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.ClothingItem{}).
		Where("quantity > 0").
		Distinct("category").
		Order("category").
		Pluck("category", &names).Error
	return names, err
}

func (r *clothingRepo) DebitStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	// Availability check and decrement in one statement; both concurrent
	// debits of the last unit cannot pass the WHERE guard.
	tx := r.db.WithContext(ctx).Exec(`
UPDATE clothing
SET quantity = quantity - @q,
    updated_at = now()
WHERE id = @id
  AND quantity >= @q
`, map[string]any{
		"id": id,
		"q":  qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *clothingRepo) SetQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Model(&models.ClothingItem{}).
		Where("id = ?", id).Update("quantity", qty).Error
}

func (r *clothingRepo) CountAll(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.ClothingItem{}).Count(&cnt).Error
	return cnt, err
}

func (r *clothingRepo) TotalQuantity(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.ClothingItem{}).
		Select("COALESCE(SUM(quantity),0)").Scan(&total).Error
	return total, err
}

func (r *clothingRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.ClothingItem{}).
		Where("quantity < ?", threshold).Count(&cnt).Error
	return cnt, err
}

func (r *clothingRepo) QuantityByCategory(ctx context.Context, limit int) ([]CategoryQty, error) {
	var rows []CategoryQty
	err := r.db.WithContext(ctx).Model(&models.ClothingItem{}).
		Select("category, COALESCE(SUM(quantity),0) AS qty").
		Group("category").
		Order("qty DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
