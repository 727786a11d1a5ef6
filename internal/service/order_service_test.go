package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Function-field mocks for the order engine's store ports.

type MockCatalogStore struct {
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error)
	DebitStockFunc func(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}

func (m *MockCatalogStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalogStore) DebitStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if m.DebitStockFunc != nil {
		return m.DebitStockFunc(ctx, id, qty)
	}
	return true, nil
}

type MockCartStore struct {
	ListBySessionFunc func(ctx context.Context, sessionID string) ([]repository.CartLineView, error)
	ClearSessionFunc  func(ctx context.Context, sessionID string) (int64, error)
}

func (m *MockCartStore) ListBySession(ctx context.Context, sessionID string) ([]repository.CartLineView, error) {
	if m.ListBySessionFunc != nil {
		return m.ListBySessionFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockCartStore) ClearSession(ctx context.Context, sessionID string) (int64, error) {
	if m.ClearSessionFunc != nil {
		return m.ClearSessionFunc(ctx, sessionID)
	}
	return 0, nil
}

type MockCustomerStore struct {
	UpsertByEmailFunc func(ctx context.Context, c *models.Customer) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

func (m *MockCustomerStore) UpsertByEmail(ctx context.Context, c *models.Customer) error {
	if m.UpsertByEmailFunc != nil {
		return m.UpsertByEmailFunc(ctx, c)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (m *MockCustomerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

type MockOrderStore struct {
	CreateFunc              func(ctx context.Context, o *models.Order) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByOrderNumberFunc    func(ctx context.Context, number string) (*models.Order, error)
	UpdateStatusFunc        func(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string, at time.Time) error
	UpdatePaymentStatusFunc func(ctx context.Context, id uuid.UUID, status models.PaymentStatus, at time.Time) error
	ListFunc                func(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error)
}

func (m *MockOrderStore) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (m *MockOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderStore) GetByOrderNumber(ctx context.Context, number string) (*models.Order, error) {
	if m.GetByOrderNumberFunc != nil {
		return m.GetByOrderNumberFunc(ctx, number)
	}
	return nil, nil
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string, at time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, notes, at)
	}
	return nil
}

func (m *MockOrderStore) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, at time.Time) error {
	if m.UpdatePaymentStatusFunc != nil {
		return m.UpdatePaymentStatusFunc(ctx, id, status, at)
	}
	return nil
}

func (m *MockOrderStore) List(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

type MockOrderItemStore struct {
	BulkCreateFunc func(ctx context.Context, items []models.OrderItem) error
	SumByOrderFunc func(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
}

func (m *MockOrderItemStore) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	return nil
}

func (m *MockOrderItemStore) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	if m.SumByOrderFunc != nil {
		return m.SumByOrderFunc(ctx, orderID)
	}
	return decimal.Zero, nil
}

type MockLedger struct {
	AppendFunc func(ctx context.Context, entry *models.StockLog) error
}

func (m *MockLedger) Append(ctx context.Context, entry *models.StockLog) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return nil
}

type MockNotificationStore struct {
	AppendFunc func(ctx context.Context, n *models.Notification) error
}

func (m *MockNotificationStore) Append(ctx context.Context, n *models.Notification) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, n)
	}
	return nil
}

type MockActivityStore struct {
	AppendFunc func(ctx context.Context, entry *models.ActivityLog) error
}

func (m *MockActivityStore) Append(ctx context.Context, entry *models.ActivityLog) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return nil
}

// fakeTx hands the same stores back as the transaction scope; rollback
// is asserted through error propagation.
type fakeTx struct {
	stores service.Stores
	calls  int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(tx service.Stores) error) error {
	f.calls++
	return fn(f.stores)
}

func checkoutInput() service.CheckoutInput {
	return service.CheckoutInput{
		SessionID: "sess-1",
		Name:      "Jamie Doe",
		Email:     "jamie@example.com",
		Phone:     "555-0101",
		Address:   "1 Main St",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
	}
}

func TestCheckout_Success(t *testing.T) {
	itemA := &models.ClothingItem{ID: uuid.New(), Name: "Denim Jacket", Quantity: 7, Price: decimal.RequireFromString("10.00")}
	itemB := &models.ClothingItem{ID: uuid.New(), Name: "Wool Scarf", Quantity: 10, Price: decimal.RequireFromString("10.00")}
	byID := map[uuid.UUID]*models.ClothingItem{itemA.ID: itemA, itemB.ID: itemB}

	var (
		createdOrder  *models.Order
		createdItems  []models.OrderItem
		ledgerEntries []*models.StockLog
		notifications []*models.Notification
		cleared       bool
		debits        = map[uuid.UUID]int{}
	)

	stores := service.Stores{
		Catalog: &MockCatalogStore{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error) {
				return byID[id], nil
			},
			DebitStockFunc: func(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
				debits[id] += qty
				byID[id].Quantity -= qty
				return true, nil
			},
		},
		Cart: &MockCartStore{
			ListBySessionFunc: func(ctx context.Context, sessionID string) ([]repository.CartLineView, error) {
				return []repository.CartLineView{
					{ID: uuid.New(), ClothingID: itemA.ID, Name: itemA.Name, Size: "M", Quantity: 2, Price: itemA.Price},
					{ID: uuid.New(), ClothingID: itemB.ID, Name: itemB.Name, Size: "OS", Quantity: 4, Price: itemB.Price},
				}, nil
			},
			ClearSessionFunc: func(ctx context.Context, sessionID string) (int64, error) {
				cleared = true
				return 2, nil
			},
		},
		Customers: &MockCustomerStore{},
		Orders: &MockOrderStore{
			CreateFunc: func(ctx context.Context, o *models.Order) error {
				o.ID = uuid.New()
				createdOrder = o
				return nil
			},
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
				return createdOrder, nil
			},
		},
		OrderItems: &MockOrderItemStore{
			BulkCreateFunc: func(ctx context.Context, items []models.OrderItem) error {
				createdItems = items
				return nil
			},
		},
		Ledger: &MockLedger{
			AppendFunc: func(ctx context.Context, entry *models.StockLog) error {
				ledgerEntries = append(ledgerEntries, entry)
				return nil
			},
		},
		Notifications: &MockNotificationStore{
			AppendFunc: func(ctx context.Context, n *models.Notification) error {
				notifications = append(notifications, n)
				return nil
			},
		},
		Activity: &MockActivityStore{},
	}

	svc := service.NewOrderService(stores, &fakeTx{stores: stores}, zap.NewNop())

	order, err := svc.Checkout(context.Background(), checkoutInput())
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order == nil {
		t.Fatal("expected order")
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
	if order.Status != models.OrderStatusPending || order.PaymentStatus != models.PaymentStatusUnpaid {
		t.Fatalf("expected pending/unpaid, got %s/%s", order.Status, order.PaymentStatus)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("expected total 60.00, got %s", order.TotalAmount)
	}

	if len(createdItems) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(createdItems))
	}
	for _, it := range createdItems {
		if it.OrderID != order.ID {
			t.Fatalf("order item not attached to order: %+v", it)
		}
		if !it.Price.Equal(decimal.RequireFromString("10.00")) {
			t.Fatalf("expected price snapshot 10.00, got %s", it.Price)
		}
	}

	if debits[itemA.ID] != 2 || debits[itemB.ID] != 4 {
		t.Fatalf("unexpected debits: %v", debits)
	}
	if itemA.Quantity != 5 {
		t.Fatalf("expected item A quantity 5, got %d", itemA.Quantity)
	}

	if len(ledgerEntries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(ledgerEntries))
	}
	for _, entry := range ledgerEntries {
		if entry.ChangeType != models.StockChangeOut || entry.QtyChange >= 0 {
			t.Fatalf("expected negative out entry, got %+v", entry)
		}
		if entry.Note != "Order placed" || entry.Actor != "system" {
			t.Fatalf("unexpected ledger wording: %+v", entry)
		}
	}

	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].Recipient != models.NotificationRecipientAdmin {
		t.Fatalf("expected first notification for admin, got %q", notifications[0].Recipient)
	}
	if notifications[1].Recipient == models.NotificationRecipientAdmin {
		t.Fatal("expected second notification for the customer")
	}
	if !strings.Contains(notifications[0].Message, "$60.00") {
		t.Fatalf("expected total in admin message, got %q", notifications[0].Message)
	}

	if !cleared {
		t.Fatal("expected cart to be cleared")
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	stores := service.Stores{
		Catalog:       &MockCatalogStore{},
		Cart:          &MockCartStore{},
		Customers:     &MockCustomerStore{},
		Orders:        &MockOrderStore{},
		OrderItems:    &MockOrderItemStore{},
		Ledger:        &MockLedger{},
		Notifications: &MockNotificationStore{},
		Activity:      &MockActivityStore{},
	}
	svc := service.NewOrderService(stores, &fakeTx{stores: stores}, zap.NewNop())

	_, err := svc.Checkout(context.Background(), checkoutInput())
	if !errors.Is(err, service.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_ValidationError(t *testing.T) {
	stores := service.Stores{}
	svc := service.NewOrderService(stores, &fakeTx{stores: stores}, zap.NewNop())

	in := checkoutInput()
	in.Email = ""
	_, err := svc.Checkout(context.Background(), in)
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCheckout_OutOfStockPrecheck(t *testing.T) {
	item := &models.ClothingItem{ID: uuid.New(), Name: "Denim Jacket", Quantity: 1, Price: decimal.RequireFromString("25.00")}

	stores := service.Stores{
		Catalog: &MockCatalogStore{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error) {
				return item, nil
			},
		},
		Cart: &MockCartStore{
			ListBySessionFunc: func(ctx context.Context, sessionID string) ([]repository.CartLineView, error) {
				return []repository.CartLineView{
					{ID: uuid.New(), ClothingID: item.ID, Name: item.Name, Quantity: 3, Price: item.Price},
				}, nil
			},
		},
		Customers:     &MockCustomerStore{},
		Orders:        &MockOrderStore{},
		OrderItems:    &MockOrderItemStore{},
		Ledger:        &MockLedger{},
		Notifications: &MockNotificationStore{},
		Activity:      &MockActivityStore{},
	}
	svc := service.NewOrderService(stores, &fakeTx{stores: stores}, zap.NewNop())

	_, err := svc.Checkout(context.Background(), checkoutInput())
	if !errors.Is(err, service.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if !strings.Contains(err.Error(), "Denim Jacket") {
		t.Fatalf("expected item name in error, got %q", err.Error())
	}
}

func TestCheckout_DebitRace(t *testing.T) {
	item := &models.ClothingItem{ID: uuid.New(), Name: "Denim Jacket", Quantity: 3, Price: decimal.RequireFromString("25.00")}

	stores := service.Stores{
		Catalog: &MockCatalogStore{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error) {
				return item, nil
			},
			// The guarded UPDATE loses the race even though the
			// pre-check passed.
			DebitStockFunc: func(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
				return false, nil
			},
		},
		Cart: &MockCartStore{
			ListBySessionFunc: func(ctx context.Context, sessionID string) ([]repository.CartLineView, error) {
				return []repository.CartLineView{
					{ID: uuid.New(), ClothingID: item.ID, Name: item.Name, Quantity: 2, Price: item.Price},
				}, nil
			},
		},
		Customers:     &MockCustomerStore{},
		Orders:        &MockOrderStore{},
		OrderItems:    &MockOrderItemStore{},
		Ledger:        &MockLedger{},
		Notifications: &MockNotificationStore{},
		Activity:      &MockActivityStore{},
	}
	svc := service.NewOrderService(stores, &fakeTx{stores: stores}, zap.NewNop())

	_, err := svc.Checkout(context.Background(), checkoutInput())
	if !errors.Is(err, service.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestCheckout_InternalFailureMasked(t *testing.T) {
	item := &models.ClothingItem{ID: uuid.New(), Name: "Denim Jacket", Quantity: 5, Price: decimal.RequireFromString("25.00")}

	stores := service.Stores{
		Catalog: &MockCatalogStore{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error) {
				return item, nil
			},
		},
		Cart: &MockCartStore{
			ListBySessionFunc: func(ctx context.Context, sessionID string) ([]repository.CartLineView, error) {
				return []repository.CartLineView{
					{ID: uuid.New(), ClothingID: item.ID, Name: item.Name, Quantity: 1, Price: item.Price},
				}, nil
			},
		},
		Customers:  &MockCustomerStore{},
		Orders:     &MockOrderStore{},
		OrderItems: &MockOrderItemStore{},
		Ledger: &MockLedger{
			AppendFunc: func(ctx context.Context, entry *models.StockLog) error {
				return errors.New("disk full")
			},
		},
		Notifications: &MockNotificationStore{},
		Activity:      &MockActivityStore{},
	}
	svc := service.NewOrderService(stores, &fakeTx{stores: stores}, zap.NewNop())

	_, err := svc.Checkout(context.Background(), checkoutInput())
	if !errors.Is(err, service.ErrCheckoutFailed) {
		t.Fatalf("expected ErrCheckoutFailed, got %v", err)
	}
}

func TestUpdateStatus_NotifiesCustomer(t *testing.T) {
	orderID := uuid.New()
	customerID := uuid.New()
	order := &models.Order{ID: orderID, OrderNumber: "ORD-20250101120000-ABC123", CustomerID: customerID, Status: models.OrderStatusPending}

	var notified *models.Notification
	stores := service.Stores{
		Orders: &MockOrderStore{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
				return order, nil
			},
			UpdateStatusFunc: func(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string, at time.Time) error {
				order.Status = status
				return nil
			},
		},
		Notifications: &MockNotificationStore{
			AppendFunc: func(ctx context.Context, n *models.Notification) error {
				if notified != nil {
					t.Fatal("expected exactly one notification")
				}
				notified = n
				return nil
			},
		},
		Activity: &MockActivityStore{},
	}
	svc := service.NewOrderService(stores, &fakeTx{stores: stores}, zap.NewNop())

	ctx := service.WithActor(context.Background(), service.Actor{Name: "root", Role: models.RoleAdmin})
	updated, err := svc.UpdateStatus(ctx, orderID, models.OrderStatusShipped, "")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", updated.Status)
	}
	if notified == nil {
		t.Fatal("expected a customer notification")
	}
	if notified.Recipient != customerID.String() {
		t.Fatalf("expected customer recipient, got %q", notified.Recipient)
	}
	if notified.Message != "Your order has been shipped!" {
		t.Fatalf("unexpected message %q", notified.Message)
	}
}

func TestUpdateStatus_RequiresAdminRole(t *testing.T) {
	stores := service.Stores{}
	svc := service.NewOrderService(stores, &fakeTx{stores: stores}, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), models.OrderStatusShipped, "")
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without actor, got %v", err)
	}

	ctx := service.WithActor(context.Background(), service.Actor{Name: "clerk", Role: models.RoleStaff})
	_, err = svc.UpdateStatus(ctx, uuid.New(), models.OrderStatusShipped, "")
	if !errors.Is(err, service.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for staff, got %v", err)
	}
}

func TestTrackOrder(t *testing.T) {
	customerID := uuid.New()
	order := &models.Order{ID: uuid.New(), OrderNumber: "ORD-20250101120000-ABC123", CustomerID: customerID}

	stores := service.Stores{
		Orders: &MockOrderStore{
			GetByOrderNumberFunc: func(ctx context.Context, number string) (*models.Order, error) {
				if number == order.OrderNumber {
					return order, nil
				}
				return nil, nil
			},
		},
		Customers: &MockCustomerStore{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
				return &models.Customer{ID: customerID, Name: "Jamie Doe"}, nil
			},
		},
	}
	svc := service.NewOrderService(stores, &fakeTx{stores: stores}, zap.NewNop())

	detail, err := svc.TrackOrder(context.Background(), order.OrderNumber)
	if err != nil {
		t.Fatalf("TrackOrder: %v", err)
	}
	if detail.Customer == nil || detail.Customer.Name != "Jamie Doe" {
		t.Fatalf("expected customer on detail, got %+v", detail.Customer)
	}

	_, err = svc.TrackOrder(context.Background(), "ORD-MISSING")
	if !errors.Is(err, service.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
