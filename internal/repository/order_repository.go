package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	// 毎回新規作成（重複チェックしない）。order.Itemsの関連も保存する。
	Create(ctx context.Context, order model.Order) (model.Order, error)
}
