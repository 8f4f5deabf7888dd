package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type TaxGormRepository struct {
	db *gorm.DB
}

func NewTaxGormRepository(db *gorm.DB) *TaxGormRepository {
	return &TaxGormRepository{db: db}
}

func (r *TaxGormRepository) List(ctx context.Context) ([]model.Tax, error) {
	var taxes []model.Tax
	if err := r.db.WithContext(ctx).Order("id asc").Find(&taxes).Error; err != nil {
		return []model.Tax{}, err
	}
	return taxes, nil
}

func (r *TaxGormRepository) FindByID(ctx context.Context, id int64) (model.Tax, error) {
	var t model.Tax
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Tax{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Tax{}, err
	}
	return t, nil
}
