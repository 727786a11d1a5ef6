package service

import (
	"context"

	"shop-service/internal/models"

	"github.com/google/uuid"
)

type CheckoutInput struct {
	SessionID string
	Name      string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	ZipCode   string
}

type OrderListFilter struct {
	Status *models.OrderStatus
	Query  string
	Limit  int
	Offset int
}

// OrderDetail is an order with its customer, for confirmation/tracking
// and admin detail screens.
type OrderDetail struct {
	Order    models.Order     `json:"order"`
	Customer *models.Customer `json:"customer,omitempty"`
}

type OrderService interface {
	// Checkout converts the session's cart into an order: customer
	// upsert, availability check, atomic stock debit with ledger
	// entries, notifications, cart clearing. All-or-nothing.
	Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
	TrackOrder(ctx context.Context, orderNumber string) (*OrderDetail, error)
	ListOrders(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)

	// UpdateStatus accepts any target status at any time; there is no
	// transition table. Exactly one customer notification is emitted.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string) (*models.Order, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) (*models.Order, error)
}
