package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB            *gorm.DB
	Clothing      ClothingRepo
	Images        ClothingImageRepo
	Categories    CategoryRepo
	Cart          CartRepo
	Customers     CustomerRepo
	Orders        OrderRepo
	OrderItems    OrderItemRepo
	StockLogs     StockLogRepo
	Notifications NotificationRepo
	Admins        AdminRepo
	Sessions      AdminSessionRepo
	Activity      ActivityLogRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:            db,
		Clothing:      NewClothingRepo(db),
		Images:        NewClothingImageRepo(db),
		Categories:    NewCategoryRepo(db),
		Cart:          NewCartRepo(db),
		Customers:     NewCustomerRepo(db),
		Orders:        NewOrderRepo(db),
		OrderItems:    NewOrderItemRepo(db),
		StockLogs:     NewStockLogRepo(db),
		Notifications: NewNotificationRepo(db),
		Admins:        NewAdminRepo(db),
		Sessions:      NewAdminSessionRepo(db),
		Activity:      NewActivityLogRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a transaction-scoped copy of every repo.
// A returned error rolls back all writes made through the copy.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
