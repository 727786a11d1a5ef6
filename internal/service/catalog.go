package service

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateItemInput struct {
	Name     string
	Category string
	Size     string
	Quantity int
	Price    decimal.Decimal
	Image    *string
}

// UpdateItemInput carries only the fields to change; nil means keep.
type UpdateItemInput struct {
	Name     *string
	Category *string
	Size     *string
	Quantity *int
	Price    *decimal.Decimal
	Image    *string
}

type AdjustStockInput struct {
	Type     models.StockChangeType // in | out | adjust
	Quantity int
	Note     string
}

type ItemListFilter struct {
	Query       string
	Category    string
	InStockOnly bool
	Sort        string
	Limit       int
	Offset      int
}

// ItemDetail is an item with its gallery and per-item stock history.
type ItemDetail struct {
	Item   models.ClothingItem    `json:"item"`
	Images []models.ClothingImage `json:"images"`
	Logs   []models.StockLog      `json:"logs"`
}

type ImportRow struct {
	Name     string
	Category string
	Size     string
	Quantity int
	Price    decimal.Decimal
}

type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

type DashboardStats struct {
	TotalItems      int64                    `json:"total_items"`
	TotalQuantity   int64                    `json:"total_quantity"`
	LowStockItems   int64                    `json:"low_stock_items"`
	TotalCategories int64                    `json:"total_categories"`
	ByCategory      []repository.CategoryQty `json:"by_category"`
	RecentActivity  []models.ActivityLog     `json:"recent_activity"`
}

type CategoryInput struct {
	Name        string
	Description string
}

type CatalogService interface {
	CreateItem(ctx context.Context, in CreateItemInput) (*models.ClothingItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput) (*models.ClothingItem, error)
	// AdjustStock applies one manual stock movement and writes the
	// matching ledger entry. "out" clamps at zero, "adjust" overwrites.
	AdjustStock(ctx context.Context, id uuid.UUID, in AdjustStockInput) (*models.ClothingItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDetail, error)
	ListItems(ctx context.Context, f ItemListFilter) ([]models.ClothingItem, int64, error)
	StorefrontCategories(ctx context.Context) ([]string, error)

	AddImage(ctx context.Context, itemID uuid.UUID, filename string) (*models.ClothingImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error

	// RegenerateCodes re-renders the item's barcode and QR PNGs and
	// stores the new filenames.
	RegenerateCodes(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error)

	CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context, f repository.CategoryListFilter) ([]models.Category, int64, error)

	ImportItems(ctx context.Context, rows []ImportRow) (*ImportResult, error)
	ExportItems(ctx context.Context) ([]models.ClothingItem, error)

	ItemStockLogs(ctx context.Context, itemID uuid.UUID) ([]models.StockLog, error)
	RecentStockLogs(ctx context.Context, limit int) ([]repository.StockLogWithItem, error)

	Dashboard(ctx context.Context) (*DashboardStats, error)
}
