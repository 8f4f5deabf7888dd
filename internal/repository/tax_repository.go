package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type TaxRepository interface {
	List(ctx context.Context) ([]model.Tax, error)
	FindByID(ctx context.Context, id int64) (model.Tax, error)
}
