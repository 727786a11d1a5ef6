package repository

import (
	"context"
	"errors"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClothingImageRepo interface {
	Add(ctx context.Context, img *models.ClothingImage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClothingImage, error)
	ListByItem(ctx context.Context, clothingID uuid.UUID) ([]models.ClothingImage, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByItem(ctx context.Context, clothingID uuid.UUID) (int64, error)
}

type clothingImageRepo struct{ db *gorm.DB }

func NewClothingImageRepo(db *gorm.DB) ClothingImageRepo { return &clothingImageRepo{db: db} }

func (r *clothingImageRepo) Add(ctx context.Context, img *models.ClothingImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *clothingImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ClothingImage, error) {
	var img models.ClothingImage
	err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &img, err
}

func (r *clothingImageRepo) ListByItem(ctx context.Context, clothingID uuid.UUID) ([]models.ClothingImage, error) {
	var list []models.ClothingImage
	err := r.db.WithContext(ctx).
		Where("clothing_id = ?", clothingID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *clothingImageRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.ClothingImage{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *clothingImageRepo) DeleteByItem(ctx context.Context, clothingID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("clothing_id = ?", clothingID).Delete(&models.ClothingImage{})
	return tx.RowsAffected, tx.Error
}
