package service

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	// ListAdmin returns the admin inbox, newest first.
	ListAdmin(ctx context.Context, limit, offset int) ([]models.Notification, int64, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{repo: repo, log: log}
}

func (s *notificationService) ListAdmin(ctx context.Context, limit, offset int) ([]models.Notification, int64, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, 0, err
	}
	return s.repo.Notifications.ListForRecipient(ctx, models.NotificationRecipientAdmin, limit, offset)
}

func (s *notificationService) ListForCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Notification, int64, error) {
	return s.repo.Notifications.ListForRecipient(ctx, customerID.String(), limit, offset)
}

func (s *notificationService) UnreadCount(ctx context.Context) (int64, error) {
	if _, err := requireActor(ctx); err != nil {
		return 0, err
	}
	return s.repo.Notifications.UnreadCount(ctx, models.NotificationRecipientAdmin)
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := requireActor(ctx); err != nil {
		return err
	}
	found, err := s.repo.Notifications.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}
