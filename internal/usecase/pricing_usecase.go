package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/currency"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// カートのIDリストから決済用の明細と合計を作る。
type PricingUsecase struct {
	items repo.ItemRepository
}

func NewPricingUsecase(items repo.ItemRepository) *PricingUsecase {
	return &PricingUsecase{items: items}
}

// 換算後の1商品分
type PricedItem struct {
	Item  model.Item
	Price decimal.Decimal // 換算済み（通貨単位）
}

type Quote struct {
	Currency currency.Code
	Items    []PricedItem
	Lines    []LineItem
	Total    decimal.Decimal
	CouponID string
}

// カート・チェックアウト用。不正な通貨はusd。
func ResolveCheckoutCurrency(raw string) currency.Code {
	return currency.OrDefault(raw, currency.Default)
}

// 商品ページ用。不正・未指定の通貨はその商品の通貨。
func ResolveItemCurrency(raw string, item model.Item) currency.Code {
	return currency.OrDefault(raw, item.Currency)
}

// PriceCart は存在しないIDを黙って落として見積もりを作る。
func (u *PricingUsecase) PriceCart(ctx context.Context, itemIDs []int64, cur currency.Code, discount *model.Discount, tax *model.Tax) (Quote, error) {
	items, err := u.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return Quote{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return BuildQuote(items, cur, discount, tax), nil
}

// BuildQuote は解決済みの商品から見積もりを作る（DBには触らない）。
func BuildQuote(items []model.Item, cur currency.Code, discount *model.Discount, tax *model.Tax) Quote {
	q := Quote{
		Currency: cur,
		Items:    make([]PricedItem, 0, len(items)),
		Lines:    make([]LineItem, 0, len(items)),
		Total:    decimal.Zero,
	}

	var taxRates []string
	if tax != nil && tax.StripeTaxRateID != "" {
		taxRates = []string{tax.StripeTaxRateID}
	}

	for _, it := range items {
		price := currency.Convert(it.Price, it.Currency, cur)

		line := LineItem{
			Currency:    cur,
			ProductName: it.Name,
			UnitAmount:  currency.MinorUnits(price),
			Quantity:    1,
		}
		//税は全行に付ける
		if taxRates != nil {
			line.TaxRates = append([]string(nil), taxRates...)
		}

		q.Items = append(q.Items, PricedItem{Item: it, Price: currency.Quantize(price)})
		q.Lines = append(q.Lines, line)
		q.Total = q.Total.Add(price)
	}

	q.Total = currency.Quantize(q.Total)

	if discount != nil && discount.StripeCouponID != "" {
		q.CouponID = discount.StripeCouponID
	}
	return q
}
