package repository

import (
	"context"
	"errors"
	"time"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRepo interface {
	Create(ctx context.Context, a *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	CountAll(ctx context.Context) (int64, error)
}

type adminRepo struct{ db *gorm.DB }

func NewAdminRepo(db *gorm.DB) AdminRepo { return &adminRepo{db: db} }

func (r *adminRepo) Create(ctx context.Context, a *models.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).First(&a, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *adminRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *adminRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", id).Update("password_hash", passwordHash).Error
}

func (r *adminRepo) CountAll(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Count(&cnt).Error
	return cnt, err
}

type AdminSessionRepo interface {
	Create(ctx context.Context, s *models.AdminSession) error
	GetActive(ctx context.Context, token uuid.UUID) (*models.AdminSession, error)
	Touch(ctx context.Context, token uuid.UUID, at time.Time) error
	Revoke(ctx context.Context, token uuid.UUID) (bool, error)
}

type adminSessionRepo struct{ db *gorm.DB }

func NewAdminSessionRepo(db *gorm.DB) AdminSessionRepo { return &adminSessionRepo{db: db} }

func (r *adminSessionRepo) Create(ctx context.Context, s *models.AdminSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *adminSessionRepo) GetActive(ctx context.Context, token uuid.UUID) (*models.AdminSession, error) {
	var s models.AdminSession
	err := r.db.WithContext(ctx).First(&s, "token = ? AND revoked = false", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *adminSessionRepo) Touch(ctx context.Context, token uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.AdminSession{}).
		Where("token = ?", token).Update("last_seen_at", at).Error
}

func (r *adminSessionRepo) Revoke(ctx context.Context, token uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.AdminSession{}).
		Where("token = ? AND revoked = false", token).Update("revoked", true)
	return tx.RowsAffected > 0, tx.Error
}
