package repository

import (
	"context"
	"errors"
	"strings"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerListFilter struct {
	Query  string // matches name/email/phone
	Limit  int
	Offset int
}

type CustomerWithOrders struct {
	models.Customer
	OrderCount int64 `json:"order_count"`
}

type CustomerRepo interface {
	// UpsertByEmail creates the customer or overwrites contact fields of
	// the existing row with the same email. The row is reloaded so the
	// caller always sees the persisted id.
	UpsertByEmail(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context, f CustomerListFilter) ([]CustomerWithOrders, int64, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepo(db *gorm.DB) CustomerRepo { return &customerRepo{db: db} }

func (r *customerRepo) UpsertByEmail(ctx context.Context, c *models.Customer) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "phone", "address", "city", "state", "zip_code",
			}),
		}).
		Create(c).Error
	if err != nil {
		return err
	}
	// On conflict the generated id in c is not the stored one.
	stored, err := r.GetByEmail(ctx, c.Email)
	if err != nil {
		return err
	}
	if stored != nil {
		*c = *stored
	}
	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *customerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	err := r.db.WithContext(ctx).First(&c, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, f CustomerListFilter) ([]CustomerWithOrders, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Customer{})

	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + s + "%"
		q = q.Where("lower(name) LIKE lower(?) OR lower(email) LIKE lower(?) OR phone LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var rows []CustomerWithOrders
	err := q.
		Select("customers.*, COUNT(orders.id) AS order_count").
		Joins("LEFT JOIN orders ON orders.customer_id = customers.id").
		Group("customers.id").
		Order("customers.created_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Scan(&rows).Error
	return rows, total, err
}
