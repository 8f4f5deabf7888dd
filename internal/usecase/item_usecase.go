package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/currency"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 商品一覧・商品ページ
type ItemUsecase struct {
	items   repo.ItemRepository
	gateway PaymentGateway
}

// DI
func NewItemUsecase(items repo.ItemRepository, gateway PaymentGateway) *ItemUsecase {
	return &ItemUsecase{items: items, gateway: gateway}
}

type ItemDetailOutput struct {
	Item            model.Item    `json:"item"`
	DisplayPrice    string        `json:"display_price"`
	Currency        currency.Code `json:"currency"`
	StripePublicKey string        `json:"stripe_public_key"`
}

func (u *ItemUsecase) List(ctx context.Context) ([]model.Item, error) {
	items, err := u.items.List(ctx)
	if err != nil {
		return []model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// Detail は指定通貨での表示価格と、その通貨用の公開鍵を返す。
// 通貨が不正・未指定なら商品の通貨。
func (u *ItemUsecase) Detail(ctx context.Context, itemID int64, rawCurrency string) (ItemDetailOutput, error) {
	if itemID <= 0 {
		return ItemDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	item, err := u.items.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return ItemDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ItemDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cur := ResolveItemCurrency(rawCurrency, item)
	price := currency.Convert(item.Price, item.Currency, cur)

	return ItemDetailOutput{
		Item:            item,
		DisplayPrice:    currency.Quantize(price).StringFixed(2),
		Currency:        cur,
		StripePublicKey: u.gateway.PublishableKey(cur),
	}, nil
}
