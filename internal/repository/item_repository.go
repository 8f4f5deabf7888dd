package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の取得だけを約束（作成・編集は管理画面側）。
type ItemRepository interface {
	// 名前順で全件
	List(ctx context.Context) ([]model.Item, error)
	FindByID(ctx context.Context, id int64) (model.Item, error)

	// 存在しないIDは無視する。並びはidsの順。
	FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error)
}
