package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/currency"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CartUsecase はセッションに持つカートの操作です。
// カート自体はDBに保存しない。
type CartUsecase struct {
	sessions  repo.CartSessionRepository
	discounts repo.DiscountRepository
	taxes     repo.TaxRepository
	pricing   *PricingUsecase
}

func NewCartUsecase(
	sessions repo.CartSessionRepository,
	discounts repo.DiscountRepository,
	taxes repo.TaxRepository,
	pricing *PricingUsecase,
) *CartUsecase {
	return &CartUsecase{
		sessions:  sessions,
		discounts: discounts,
		taxes:     taxes,
		pricing:   pricing,
	}
}

type CartLine struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
}

type CartView struct {
	Items              []CartLine       `json:"cart_items"`
	Total              string           `json:"total"`
	Currency           currency.Code    `json:"currency"`
	Discounts          []model.Discount `json:"discounts"`
	Taxes              []model.Tax      `json:"taxes"`
	SelectedDiscountID *int64           `json:"selected_discount_id"`
	SelectedTaxID      *int64           `json:"selected_tax_id"`
}

// Add はカートに商品IDを追加（既にあれば何もしない）。
// 商品の存在は見ない。価格計算のときに落ちる。
func (u *CartUsecase) Add(ctx context.Context, sessionID string, itemID int64) (model.CartSession, error) {
	if sessionID == "" {
		return model.CartSession{}, NewHTTPError(http.StatusBadRequest, "no session")
	}
	if itemID <= 0 {
		return model.CartSession{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	cart, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return model.CartSession{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}
	if !cart.Add(itemID) {
		return cart, nil
	}
	if err := u.sessions.Save(ctx, sessionID, cart); err != nil {
		return model.CartSession{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return cart, nil
}

// 割引・税の選択を上書きする（nilは未選択）。
func (u *CartUsecase) SelectAdjustments(ctx context.Context, sessionID string, discountID *int64, taxID *int64) error {
	if sessionID == "" {
		return NewHTTPError(http.StatusBadRequest, "no session")
	}

	cart, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session error")
	}
	cart.SelectDiscount(discountID)
	cart.SelectTax(taxID)

	if err := u.sessions.Save(ctx, sessionID, cart); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return nil
}

// Clear は商品と割引・税の選択を全部消す。
func (u *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return NewHTTPError(http.StatusBadRequest, "no session")
	}

	cart, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session error")
	}
	cart.Clear()

	if err := u.sessions.Save(ctx, sessionID, cart); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return nil
}

// 決済成功で戻ってきたらカートを空にする（キャンセル時は残す）。
func (u *CartUsecase) PaymentSucceeded(ctx context.Context, sessionID string) error {
	return u.Clear(ctx, sessionID)
}

// View はカートの表示用データを返す。セッションには書き込まない。
func (u *CartUsecase) View(ctx context.Context, sessionID string, rawCurrency string) (CartView, error) {
	cur := ResolveCheckoutCurrency(rawCurrency)

	cart, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	discount, err := findDiscount(ctx, u.discounts, cart.DiscountID)
	if err != nil {
		return CartView{}, err
	}
	tax, err := findTax(ctx, u.taxes, cart.TaxID)
	if err != nil {
		return CartView{}, err
	}

	q, err := u.pricing.PriceCart(ctx, cart.Items(), cur, discount, tax)
	if err != nil {
		return CartView{}, err
	}

	discounts, err := u.discounts.List(ctx)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	taxes, err := u.taxes.List(ctx)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines := make([]CartLine, 0, len(q.Items))
	for _, pi := range q.Items {
		lines = append(lines, CartLine{
			ItemID: pi.Item.ID,
			Name:   pi.Item.Name,
			Price:  pi.Price.StringFixed(2),
		})
	}

	return CartView{
		Items:              lines,
		Total:              q.Total.StringFixed(2),
		Currency:           cur,
		Discounts:          discounts,
		Taxes:              taxes,
		SelectedDiscountID: cart.DiscountID,
		SelectedTaxID:      cart.TaxID,
	}, nil
}

// 選択された割引を探す。無ければ「割引なし」。
func findDiscount(ctx context.Context, discounts repo.DiscountRepository, id *int64) (*model.Discount, error) {
	if id == nil || *id <= 0 {
		return nil, nil
	}
	d, err := discounts.FindByID(ctx, *id)
	if err == repo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &d, nil
}

// 選択された税を探す。無ければ「税なし」。
func findTax(ctx context.Context, taxes repo.TaxRepository, id *int64) (*model.Tax, error) {
	if id == nil || *id <= 0 {
		return nil, nil
	}
	t, err := taxes.FindByID(ctx, *id)
	if err == repo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &t, nil
}
