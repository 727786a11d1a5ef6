package service_test

import (
	"context"
	"errors"
	"testing"

	"shop-service/internal/migrate"
	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type nopCodes struct{}

func (nopCodes) Barcode(itemID uuid.UUID, text string) (string, error) { return "barcode.png", nil }
func (nopCodes) QR(itemID uuid.UUID, text string) (string, error)     { return "qr.png", nil }
func (nopCodes) Remove(filename string) error                         { return nil }

func setupRepo(t *testing.T) *repository.Repository {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.Run(db, zap.NewNop(), migrate.DefaultOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.New(db)
}

func adminCtx() context.Context {
	return service.WithActor(context.Background(), service.Actor{Name: "root", Role: models.RoleSuperadmin})
}

func TestCheckout_EndToEnd(t *testing.T) {
	repos := setupRepo(t)
	log := zap.NewNop()

	catalog := service.NewCatalogService(repos, nopCodes{}, nopCodes{}, log)
	cart := service.NewCartService(repos, log)
	orders := service.NewOrderServiceFromRepository(repos, log)

	item, err := catalog.CreateItem(adminCtx(), service.CreateItemInput{
		Name:     "Denim Jacket",
		Category: "Jackets",
		Size:     "M",
		Quantity: 7,
		Price:    decimal.RequireFromString("30.00"),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	ctx := context.Background()
	if err := cart.AddLine(ctx, "sess-1", item.ID, "M", 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	order, err := orders.Checkout(ctx, service.CheckoutInput{
		SessionID: "sess-1",
		Name:      "Jamie Doe",
		Email:     "jamie@example.com",
		Address:   "1 Main St",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("expected total 60.00, got %s", order.TotalAmount)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("expected 1 order item with qty 2, got %+v", order.Items)
	}

	// Stock was debited and the movement logged.
	stored, _ := repos.Clothing.GetByID(ctx, item.ID)
	if stored.Quantity != 5 {
		t.Fatalf("expected quantity 5 after checkout, got %d", stored.Quantity)
	}
	logs, _ := repos.StockLogs.ListByItem(ctx, item.ID)
	var sawDebit bool
	for _, l := range logs {
		if l.ChangeType == models.StockChangeOut && l.QtyChange == -2 && l.Note == "Order placed" {
			sawDebit = true
		}
	}
	if !sawDebit {
		t.Fatalf("expected an out ledger entry for the checkout, got %+v", logs)
	}

	// Both sides were notified.
	adminInbox, _, err := repos.Notifications.ListForRecipient(ctx, models.NotificationRecipientAdmin, 10, 0)
	if err != nil {
		t.Fatalf("ListForRecipient: %v", err)
	}
	if len(adminInbox) != 1 {
		t.Fatalf("expected 1 admin notification, got %d", len(adminInbox))
	}
	customerInbox, _, _ := repos.Notifications.ListForRecipient(ctx, order.CustomerID.String(), 10, 0)
	if len(customerInbox) != 1 {
		t.Fatalf("expected 1 customer notification, got %d", len(customerInbox))
	}

	// The cart is gone.
	lines, _ := repos.Cart.ListBySession(ctx, "sess-1")
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after checkout, got %d lines", len(lines))
	}

	// Tracking works by order number.
	detail, err := orders.TrackOrder(ctx, order.OrderNumber)
	if err != nil {
		t.Fatalf("TrackOrder: %v", err)
	}
	if detail.Customer == nil || detail.Customer.Email != "jamie@example.com" {
		t.Fatalf("expected customer on tracking detail, got %+v", detail.Customer)
	}
}

func TestCheckout_EndToEnd_OutOfStockRollsBack(t *testing.T) {
	repos := setupRepo(t)
	log := zap.NewNop()

	catalog := service.NewCatalogService(repos, nopCodes{}, nopCodes{}, log)
	cart := service.NewCartService(repos, log)
	orders := service.NewOrderServiceFromRepository(repos, log)

	item, err := catalog.CreateItem(adminCtx(), service.CreateItemInput{
		Name:     "Limited Tee",
		Category: "Tees",
		Size:     "S",
		Quantity: 3,
		Price:    decimal.RequireFromString("20.00"),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	ctx := context.Background()
	if err := cart.AddLine(ctx, "sess-1", item.ID, "S", 3); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	// Stock drains between cart add and checkout.
	if _, err := catalog.AdjustStock(adminCtx(), item.ID, service.AdjustStockInput{
		Type:     models.StockChangeOut,
		Quantity: 2,
		Note:     "Shrinkage",
	}); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}

	_, err = orders.Checkout(ctx, service.CheckoutInput{
		SessionID: "sess-1",
		Name:      "Jamie Doe",
		Email:     "jamie@example.com",
		Address:   "1 Main St",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
	})
	if !errors.Is(err, service.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	// Nothing was written: no order, cart intact, stock untouched.
	_, total, _ := repos.Orders.List(ctx, repository.OrderListFilter{Limit: 10})
	if total != 0 {
		t.Fatalf("expected no orders, got %d", total)
	}
	lines, _ := repos.Cart.ListBySession(ctx, "sess-1")
	if len(lines) != 1 {
		t.Fatalf("expected cart preserved, got %d lines", len(lines))
	}
	stored, _ := repos.Clothing.GetByID(ctx, item.ID)
	if stored.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", stored.Quantity)
	}
}

func TestAuthService_LoginAndResolve(t *testing.T) {
	repos := setupRepo(t)
	auth := service.NewAuthService(repos, zap.NewNop())
	ctx := context.Background()

	if err := auth.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}
	// Second call is a no-op.
	if err := auth.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("EnsureDefaultAdmin again: %v", err)
	}
	count, _ := repos.Admins.CountAll(ctx)
	if count != 1 {
		t.Fatalf("expected 1 admin, got %d", count)
	}

	_, _, err := auth.Login(ctx, "admin", "wrong")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	token, admin, err := auth.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if admin.Role != models.RoleSuperadmin {
		t.Fatalf("expected superadmin, got %s", admin.Role)
	}

	actor, err := auth.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if actor.Name != "admin" || actor.Role != models.RoleSuperadmin {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	if err := auth.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := auth.Resolve(ctx, token); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestCatalogService_AdjustStockClampsAtZero(t *testing.T) {
	repos := setupRepo(t)
	catalog := service.NewCatalogService(repos, nopCodes{}, nopCodes{}, zap.NewNop())

	item, err := catalog.CreateItem(adminCtx(), service.CreateItemInput{
		Name:     "Wool Scarf",
		Category: "Accessories",
		Size:     "OS",
		Quantity: 4,
		Price:    decimal.RequireFromString("15.00"),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// Removing more than on hand clamps, it does not fail.
	updated, err := catalog.AdjustStock(adminCtx(), item.ID, service.AdjustStockInput{
		Type:     models.StockChangeOut,
		Quantity: 10,
	})
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if updated.Quantity != 0 {
		t.Fatalf("expected clamp to 0, got %d", updated.Quantity)
	}

	// The ledger records the actual movement, not the requested one.
	logs, _ := repos.StockLogs.ListByItem(context.Background(), item.ID)
	var saw bool
	for _, l := range logs {
		if l.ChangeType == models.StockChangeOut && l.QtyChange == -4 {
			saw = true
		}
	}
	if !saw {
		t.Fatalf("expected -4 out entry, got %+v", logs)
	}
}
