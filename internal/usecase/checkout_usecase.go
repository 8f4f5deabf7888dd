package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront/internal/domain/currency"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// CheckoutUsecase は「見積もり → 注文保存 → 決済セッション作成」をまとめる。
// 注文を保存できなかったら決済サービスは呼ばない。
type CheckoutUsecase struct {
	sessions  repo.CartSessionRepository
	items     repo.ItemRepository
	discounts repo.DiscountRepository
	taxes     repo.TaxRepository
	pricing   *PricingUsecase
	orders    *OrderRecorder
	gateway   PaymentGateway
	events    OrderEventPublisher
	logger    *zap.Logger
}

func NewCheckoutUsecase(
	sessions repo.CartSessionRepository,
	items repo.ItemRepository,
	discounts repo.DiscountRepository,
	taxes repo.TaxRepository,
	pricing *PricingUsecase,
	orders *OrderRecorder,
	gateway PaymentGateway,
	events OrderEventPublisher,
	logger *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		sessions:  sessions,
		items:     items,
		discounts: discounts,
		taxes:     taxes,
		pricing:   pricing,
		orders:    orders,
		gateway:   gateway,
		events:    events,
		logger:    logger,
	}
}

type CheckoutInput struct {
	SessionID string
	Currency  string
	BaseURL   string // success/cancel URLの組み立て用（末尾スラッシュなし）
}

type CheckoutOutput struct {
	OrderID     int64         `json:"order_id"`
	SessionID   string        `json:"session_id"`
	RedirectURL string        `json:"url"`
	Currency    currency.Code `json:"currency"`
	Total       string        `json:"total"`
}

// Checkout はセッションのカートで決済セッションを作る。
func (u *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	if in.SessionID == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "no session")
	}
	cur := ResolveCheckoutCurrency(in.Currency)

	cart, err := u.sessions.Load(ctx, in.SessionID)
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	//存在しない割引・税は「選択なし」扱い
	discount, err := findDiscount(ctx, u.discounts, cart.DiscountID)
	if err != nil {
		return CheckoutOutput{}, err
	}
	tax, err := findTax(ctx, u.taxes, cart.TaxID)
	if err != nil {
		return CheckoutOutput{}, err
	}

	q, err := u.pricing.PriceCart(ctx, cart.Items(), cur, discount, tax)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if len(q.Lines) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	items := make([]model.Item, 0, len(q.Items))
	for _, pi := range q.Items {
		items = append(items, pi.Item)
	}

	//決済より先に注文を保存
	order, err := u.orders.CreateOrder(ctx, items, discount, tax)
	if err != nil {
		u.logger.Error("order create failed", zap.Error(err))
		return CheckoutOutput{}, err
	}
	u.publishOrderCreated(ctx, order, cur)

	sess, err := u.gateway.CreateCheckoutSession(ctx, CheckoutSessionInput{
		Currency:   cur,
		Lines:      q.Lines,
		SuccessURL: in.BaseURL + "/success/",
		CancelURL:  in.BaseURL + "/cart/?" + url.Values{"currency": {string(cur)}}.Encode(),
		CouponID:   q.CouponID,
		Metadata:   map[string]string{"order_id": strconv.FormatInt(order.ID, 10)},
	})
	if err != nil {
		u.logger.Error("checkout session failed",
			zap.Int64("order_id", order.ID),
			zap.String("currency", string(cur)),
			zap.Error(err))
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}
	if sess.URL == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	u.logger.Info("checkout started",
		zap.Int64("order_id", order.ID),
		zap.String("session_id", sess.ID),
		zap.String("currency", string(cur)),
		zap.String("total", q.Total.StringFixed(2)),
		zap.Int("lines", len(q.Lines)))

	return CheckoutOutput{
		OrderID:     order.ID,
		SessionID:   sess.ID,
		RedirectURL: sess.URL,
		Currency:    cur,
		Total:       q.Total.StringFixed(2),
	}, nil
}

type BuyItemInput struct {
	ItemID   int64
	Currency string
	BaseURL  string
}

type BuyItemOutput struct {
	OrderID   int64  `json:"-"`
	SessionID string `json:"session_id"`
}

// BuyItem は商品1つだけの決済セッションを作る（クライアント側でリダイレクト）。
// 通貨が不正ならその商品の通貨を使う。
func (u *CheckoutUsecase) BuyItem(ctx context.Context, in BuyItemInput) (BuyItemOutput, error) {
	item, err := u.findItem(ctx, in.ItemID)
	if err != nil {
		return BuyItemOutput{}, err
	}
	cur := ResolveItemCurrency(in.Currency, item)
	q := BuildQuote([]model.Item{item}, cur, nil, nil)

	order, err := u.orders.CreateOrder(ctx, []model.Item{item}, nil, nil)
	if err != nil {
		u.logger.Error("order create failed", zap.Error(err))
		return BuyItemOutput{}, err
	}
	u.publishOrderCreated(ctx, order, cur)

	sess, err := u.gateway.CreateCheckoutSession(ctx, CheckoutSessionInput{
		Currency:   cur,
		Lines:      q.Lines,
		SuccessURL: in.BaseURL + "/success/",
		CancelURL:  fmt.Sprintf("%s/item/%d?bought=0", in.BaseURL, item.ID),
		Metadata:   map[string]string{"order_id": strconv.FormatInt(order.ID, 10)},
	})
	if err != nil {
		u.logger.Error("checkout session failed",
			zap.Int64("order_id", order.ID),
			zap.Int64("item_id", item.ID),
			zap.Error(err))
		return BuyItemOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}
	if sess.ID == "" {
		return BuyItemOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	return BuyItemOutput{OrderID: order.ID, SessionID: sess.ID}, nil
}

type PaymentIntentOutput struct {
	ClientSecret string `json:"clientSecret"`
}

// 商品1つ分のPaymentIntent（商品の通貨そのまま）
func (u *CheckoutUsecase) CreatePaymentIntent(ctx context.Context, itemID int64) (PaymentIntentOutput, error) {
	item, err := u.findItem(ctx, itemID)
	if err != nil {
		return PaymentIntentOutput{}, err
	}

	order, err := u.orders.CreateOrder(ctx, []model.Item{item}, nil, nil)
	if err != nil {
		u.logger.Error("order create failed", zap.Error(err))
		return PaymentIntentOutput{}, err
	}
	u.publishOrderCreated(ctx, order, item.Currency)

	intent, err := u.gateway.CreatePaymentIntent(ctx, PaymentIntentInput{
		Amount:   currency.MinorUnits(item.Price),
		Currency: item.Currency,
		Metadata: map[string]string{
			"item_id":  strconv.FormatInt(item.ID, 10),
			"order_id": strconv.FormatInt(order.ID, 10),
		},
	})
	if err != nil {
		u.logger.Error("payment intent failed",
			zap.Int64("order_id", order.ID),
			zap.Int64("item_id", item.ID),
			zap.Error(err))
		return PaymentIntentOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	return PaymentIntentOutput{ClientSecret: intent.ClientSecret}, nil
}

func (u *CheckoutUsecase) findItem(ctx context.Context, itemID int64) (model.Item, error) {
	if itemID <= 0 {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	item, err := u.items.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return model.Item{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return item, nil
}

// ブローカーが遅いときに決済サービス呼び出しまで待たせない上限
const orderEventTimeout = 2 * time.Second

// 注文は保存済みなので、イベント送信の失敗ではチェックアウトを止めない
func (u *CheckoutUsecase) publishOrderCreated(ctx context.Context, order model.Order, cur currency.Code) {
	ctx, cancel := context.WithTimeout(ctx, orderEventTimeout)
	defer cancel()

	ev := OrderCreatedEvent{
		OrderID:    order.ID,
		ItemIDs:    order.ItemIDs(),
		DiscountID: order.DiscountID,
		TaxID:      order.TaxID,
		Currency:   cur,
		Total:      order.Total(cur).StringFixed(2),
		CreatedAt:  order.CreatedAt,
	}
	if err := u.events.PublishOrderCreated(ctx, ev); err != nil {
		u.logger.Warn("order event publish failed",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
}
