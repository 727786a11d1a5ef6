package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	checkoutActor          = "system"
	orderNumberMaxAttempts = 3
)

// statusMessages is the fixed status → customer message mapping; unknown
// statuses fall back to a generic message.
var statusMessages = map[models.OrderStatus]string{
	models.OrderStatusPending:   "Your order is being processed.",
	models.OrderStatusConfirmed: "Your order has been confirmed.",
	models.OrderStatusShipped:   "Your order has been shipped!",
	models.OrderStatusDelivered: "Your order has been delivered. Thank you!",
	models.OrderStatusCancelled: "Your order has been cancelled.",
}

type orderService struct {
	stores Stores
	tx     TxRunner
	log    *zap.Logger
	now    func() time.Time
}

func NewOrderService(stores Stores, tx TxRunner, log *zap.Logger) OrderService {
	return &orderService{
		stores: stores,
		tx:     tx,
		log:    log,
		now:    time.Now,
	}
}

// NewOrderServiceFromRepository wires the engine directly to the gorm
// repository aggregate.
func NewOrderServiceFromRepository(repo *repository.Repository, log *zap.Logger) OrderService {
	return NewOrderService(storesFrom(repo), NewRepositoryTx(repo), log)
}

func (s *orderService) Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	if err := validateCheckout(in); err != nil {
		return nil, err
	}

	var (
		order *models.Order
		err   error
	)
	// A colliding order number aborts the transaction, so the retry has
	// to restart the whole sequence. The cart is untouched on failure,
	// making the re-run safe.
	for attempt := 0; attempt < orderNumberMaxAttempts; attempt++ {
		order, err = s.checkoutOnce(ctx, in)
		if err == nil || !isUniqueViolation(err, "order_number") {
			break
		}
		s.log.Warn("order number collision, retrying checkout",
			zap.Int("attempt", attempt+1))
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart),
			errors.Is(err, ErrOutOfStock),
			errors.Is(err, ErrItemNotFound):
			return nil, err
		default:
			s.log.Error("checkout failed", zap.String("session", in.SessionID), zap.Error(err))
			return nil, ErrCheckoutFailed
		}
	}
	return order, nil
}

func (s *orderService) checkoutOnce(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	var order *models.Order
	now := s.now()

	err := s.tx.WithTx(ctx, func(tx Stores) error {
		customer := &models.Customer{
			Name:    in.Name,
			Email:   in.Email,
			Phone:   in.Phone,
			Address: in.Address,
			City:    in.City,
			State:   in.State,
			ZipCode: in.ZipCode,
		}
		if err := tx.Customers.UpsertByEmail(ctx, customer); err != nil {
			return err
		}

		lines, err := tx.Cart.ListBySession(ctx, in.SessionID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		// Availability pre-check against live stock; the price snapshot
		// is taken here, not at cart-add time.
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			item, err := tx.Catalog.GetByID(ctx, line.ClothingID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: %s", ErrItemNotFound, line.Name)
			}
			if item.Quantity < line.Quantity {
				return fmt.Errorf("%w: %s", ErrOutOfStock, item.Name)
			}
			lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			items = append(items, models.OrderItem{
				ClothingID: item.ID,
				Size:       line.Size,
				Quantity:   line.Quantity,
				Price:      item.Price,
				CreatedAt:  now,
			})
		}

		order = &models.Order{
			OrderNumber:     newOrderNumber(now),
			CustomerID:      customer.ID,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusUnpaid,
			ShippingAddress: in.Address,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.OrderItems.BulkCreate(ctx, items); err != nil {
			return err
		}

		for _, it := range items {
			ok, err := tx.Catalog.DebitStock(ctx, it.ClothingID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Lost the race since the pre-check; abort everything.
				item, err := tx.Catalog.GetByID(ctx, it.ClothingID)
				if err == nil && item != nil {
					return fmt.Errorf("%w: %s", ErrOutOfStock, item.Name)
				}
				return ErrOutOfStock
			}
			if err := tx.Ledger.Append(ctx, &models.StockLog{
				ClothingID: it.ClothingID,
				ChangeType: models.StockChangeOut,
				QtyChange:  -it.Quantity,
				Note:       "Order placed",
				Actor:      checkoutActor,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}

		if err := tx.Notifications.Append(ctx, &models.Notification{
			Type:      "order_placed",
			Recipient: models.NotificationRecipientAdmin,
			Title:     "New Order Placed",
			Message:   fmt.Sprintf("New order %s from %s ($%s)", order.OrderNumber, customer.Name, total.StringFixed(2)),
			OrderID:   &order.ID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if err := tx.Notifications.Append(ctx, &models.Notification{
			Type:      "order_placed",
			Recipient: customer.ID.String(),
			Title:     "Order Confirmed",
			Message:   fmt.Sprintf("Your order %s has been received. Total: $%s", order.OrderNumber, total.StringFixed(2)),
			OrderID:   &order.ID,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		if _, err := tx.Cart.ClearSession(ctx, in.SessionID); err != nil {
			return err
		}

		if err := tx.Activity.Append(ctx, &models.ActivityLog{
			Action:    "order_placed",
			Details:   fmt.Sprintf("Order %s placed by %s", order.OrderNumber, customer.Name),
			CreatedAt: now,
		}); err != nil {
			return err
		}

		loaded, err := tx.Orders.GetByID(ctx, order.ID)
		if err != nil {
			return err
		}
		if loaded != nil {
			order = loaded
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func validateCheckout(in CheckoutInput) error {
	required := map[string]string{
		"session": in.SessionID,
		"name":    in.Name,
		"email":   in.Email,
		"address": in.Address,
		"city":    in.City,
		"state":   in.State,
		"zip":     in.ZipCode,
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
	}
	return nil
}

// newOrderNumber derives the external identifier from the timestamp plus
// a random suffix; the unique index on orders.order_number backstops the
// residual collision chance.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102150405"), suffix)
}

func isUniqueViolation(err error, constraintPart string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, constraintPart)
	}
	return false
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	ord, err := s.stores.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	customer, err := s.stores.Customers.GetByID(ctx, ord.CustomerID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *ord, Customer: customer}, nil
}

func (s *orderService) TrackOrder(ctx context.Context, orderNumber string) (*OrderDetail, error) {
	ord, err := s.stores.Orders.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	customer, err := s.stores.Customers.GetByID(ctx, ord.CustomerID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *ord, Customer: customer}, nil
}

func (s *orderService) ListOrders(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	if _, err := requireRole(ctx, models.RoleAdmin, models.RoleSuperadmin); err != nil {
		return nil, 0, err
	}

	ordersPtr, total, err := s.stores.Orders.List(ctx, repository.OrderListFilter{
		Status: f.Status,
		Query:  f.Query,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	if err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, len(ordersPtr))
	for i, o := range ordersPtr {
		orders[i] = *o
	}
	return orders, total, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string) (*models.Order, error) {
	actor, err := requireRole(ctx, models.RoleAdmin, models.RoleSuperadmin)
	if err != nil {
		return nil, err
	}

	ord, err := s.stores.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	message, ok := statusMessages[status]
	if !ok {
		message = fmt.Sprintf("Order status updated to %s", status)
	}

	now := s.now()
	err = s.tx.WithTx(ctx, func(tx Stores) error {
		if err := tx.Orders.UpdateStatus(ctx, id, status, notes, now); err != nil {
			return err
		}
		if err := tx.Notifications.Append(ctx, &models.Notification{
			Type:      "order_status_update",
			Recipient: ord.CustomerID.String(),
			Title:     "Order Status Updated",
			Message:   message,
			OrderID:   &ord.ID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return tx.Activity.Append(ctx, &models.ActivityLog{
			Action:    "order_update",
			Details:   fmt.Sprintf("Order %s status updated to %s by %s", ord.OrderNumber, status, actor.Name),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.stores.Orders.GetByID(ctx, id)
}

func (s *orderService) SetPaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) (*models.Order, error) {
	if _, err := requireRole(ctx, models.RoleAdmin, models.RoleSuperadmin); err != nil {
		return nil, err
	}

	ord, err := s.stores.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.stores.Orders.UpdatePaymentStatus(ctx, id, status, s.now()); err != nil {
		return nil, err
	}
	return s.stores.Orders.GetByID(ctx, id)
}
