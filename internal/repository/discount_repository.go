package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type DiscountRepository interface {
	List(ctx context.Context) ([]model.Discount, error)
	FindByID(ctx context.Context, id int64) (model.Discount, error)
}
