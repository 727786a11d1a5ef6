package service

import (
	"context"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Narrow store interfaces for the order workflow engine. The gorm repos
// satisfy them; tests substitute function-field mocks.

type CatalogStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error)
	DebitStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}

type CartStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]repository.CartLineView, error)
	ClearSession(ctx context.Context, sessionID string) (int64, error)
}

type CustomerStore interface {
	UpsertByEmail(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByOrderNumber(ctx context.Context, number string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string, at time.Time) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, at time.Time) error
	List(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error)
}

type OrderItemStore interface {
	BulkCreate(ctx context.Context, items []models.OrderItem) error
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
}

type StockLedger interface {
	Append(ctx context.Context, entry *models.StockLog) error
}

type NotificationStore interface {
	Append(ctx context.Context, n *models.Notification) error
}

type ActivityStore interface {
	Append(ctx context.Context, entry *models.ActivityLog) error
}

// Stores bundles the engine's dependencies so a transaction can hand the
// whole set back in tx scope.
type Stores struct {
	Catalog       CatalogStore
	Cart          CartStore
	Customers     CustomerStore
	Orders        OrderStore
	OrderItems    OrderItemStore
	Ledger        StockLedger
	Notifications NotificationStore
	Activity      ActivityStore
}

// TxRunner executes fn atomically: an error rolls back every write made
// through the tx-scoped Stores.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx Stores) error) error
}

func storesFrom(r *repository.Repository) Stores {
	return Stores{
		Catalog:       r.Clothing,
		Cart:          r.Cart,
		Customers:     r.Customers,
		Orders:        r.Orders,
		OrderItems:    r.OrderItems,
		Ledger:        r.StockLogs,
		Notifications: r.Notifications,
		Activity:      r.Activity,
	}
}

type repoTxRunner struct{ repo *repository.Repository }

// NewRepositoryTx adapts the repository aggregate to the engine's TxRunner.
func NewRepositoryTx(repo *repository.Repository) TxRunner {
	return &repoTxRunner{repo: repo}
}

func (t *repoTxRunner) WithTx(ctx context.Context, fn func(tx Stores) error) error {
	return t.repo.WithTx(ctx, func(tx *repository.Repository) error {
		return fn(storesFrom(tx))
	})
}

// CodeGenerator produces barcode and QR images for an item and returns
// the stored filenames. The engine never renders images itself.
type CodeGenerator interface {
	Barcode(itemID uuid.UUID, text string) (string, error)
	QR(itemID uuid.UUID, text string) (string, error)
}

// FileStore removes stored files (images, code PNGs). Best-effort from
// the caller's point of view.
type FileStore interface {
	Remove(filename string) error
}
