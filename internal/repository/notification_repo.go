package repository

import (
	"context"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepo interface {
	Append(ctx context.Context, n *models.Notification) error
	// MarkRead is idempotent: marking an already-read notification
	// reports found=true with no change.
	MarkRead(ctx context.Context, id uuid.UUID) (found bool, err error)
	ListForRecipient(ctx context.Context, recipient string, limit, offset int) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context, recipient string) (int64, error)
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepo(db *gorm.DB) NotificationRepo { return &notificationRepo{db: db} }

func (r *notificationRepo) Append(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND read = false", id).Update("read", true)
	if tx.Error != nil {
		return false, tx.Error
	}
	if tx.RowsAffected > 0 {
		return true, nil
	}
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *notificationRepo) ListForRecipient(ctx context.Context, recipient string, limit, offset int) ([]models.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient = ?", recipient)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var list []models.Notification
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *notificationRepo) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient = ? AND read = false", recipient).Count(&cnt).Error
	return cnt, err
}
