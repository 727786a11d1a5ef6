package service

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/repository"
)

type CustomerService interface {
	List(ctx context.Context, f repository.CustomerListFilter) ([]repository.CustomerWithOrders, int64, error)
}

type customerService struct {
	repo *repository.Repository
}

func NewCustomerService(repo *repository.Repository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) List(ctx context.Context, f repository.CustomerListFilter) ([]repository.CustomerWithOrders, int64, error) {
	if _, err := requireRole(ctx, models.RoleAdmin, models.RoleSuperadmin); err != nil {
		return nil, 0, err
	}
	return s.repo.Customers.List(ctx, f)
}
