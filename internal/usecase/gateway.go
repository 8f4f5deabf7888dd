package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/currency"
)

// 決済サービスに渡す1行分（数量は常に1）
type LineItem struct {
	Currency    currency.Code `json:"currency"`
	ProductName string        `json:"product_name"`
	UnitAmount  int64         `json:"unit_amount"` // 最小単位（セント）
	Quantity    int64         `json:"quantity"`
	TaxRates    []string      `json:"tax_rates,omitempty"`
}

type CheckoutSessionInput struct {
	Currency   currency.Code
	Lines      []LineItem
	SuccessURL string
	CancelURL  string
	CouponID   string // 空なら割引なし
	Metadata   map[string]string
}

// IDはクライアント側リダイレクト用、URLはサーバー側リダイレクト用
type CheckoutSession struct {
	ID  string
	URL string
}

type PaymentIntentInput struct {
	Amount   int64
	Currency currency.Code
	Metadata map[string]string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// 外部の決済サービス。
// 秘密鍵は通貨ごとに呼び出しのたびに選ぶ。
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (PaymentIntent, error)
	PublishableKey(cur currency.Code) string
}

// 注文作成イベント
type OrderCreatedEvent struct {
	OrderID    int64         `json:"order_id"`
	ItemIDs    []int64       `json:"item_ids"`
	DiscountID *int64        `json:"discount_id"`
	TaxID      *int64        `json:"tax_id"`
	Currency   currency.Code `json:"currency"`
	Total      string        `json:"total"`
	CreatedAt  time.Time     `json:"created_at"`
}

type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, ev OrderCreatedEvent) error
}
