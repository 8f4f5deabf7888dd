package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 決済前に注文履歴を残す。
type OrderRecorder struct {
	tx repo.TransactionManager
}

func NewOrderRecorder(tx repo.TransactionManager) *OrderRecorder {
	return &OrderRecorder{tx: tx}
}

// CreateOrder は毎回新しい注文を作る（同じカートでも重複チェックしない）。
func (r *OrderRecorder) CreateOrder(ctx context.Context, items []model.Item, discount *model.Discount, tax *model.Tax) (model.Order, error) {
	order := model.Order{Items: items}
	if discount != nil {
		id := discount.ID
		order.DiscountID = &id
	}
	if tax != nil {
		id := tax.ID
		order.TaxID = &id
	}

	var created model.Order
	err := r.tx.WithinTx(ctx, func(txr repo.TxRepos) error {
		o, err := txr.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		created = o
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return model.Order{}, err
		}
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}
