package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"storefront/internal/domain/currency"
	"storefront/internal/usecase"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"go.uber.org/zap"
)

type StripeConfig struct {
	SecretKey  string // 通貨別のキーが無いときに使う
	PublicKey  string
	SecretKeys map[currency.Code]string
	PublicKeys map[currency.Code]string
	APIURL     string // 空ならStripe本番API
	Timeout    time.Duration
}

// StripeGateway はStripe Checkout / PaymentIntent の窓口。
// stripe.Key（グローバル）は使わず、呼び出しごとに通貨のキーを渡す。
// ブレーカーはキー（＝Stripeアカウント）ごとに持つ。EURアカウントの障害でUSDを止めない。
type StripeGateway struct {
	cfg     StripeConfig
	backend stripe.Backend
	logger  *zap.Logger

	mu       sync.Mutex
	breakers map[string]*accountBreakers
}

type accountBreakers struct {
	sessions *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
	intents  *gobreaker.CircuitBreaker[*stripe.PaymentIntent]
}

var _ usecase.PaymentGateway = (*StripeGateway)(nil)

func NewStripeGateway(cfg StripeConfig, logger *zap.Logger) *StripeGateway {
	bc := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		LeveledLogger:     logger.Sugar(),
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIURL != "" {
		bc.URL = stripe.String(cfg.APIURL)
	}

	return &StripeGateway{
		cfg:      cfg,
		backend:  stripe.GetBackendWithConfig(stripe.APIBackend, bc),
		logger:   logger,
		breakers: map[string]*accountBreakers{},
	}
}

// キーごとのブレーカーを初回利用時に作る。名前には通貨を使い、キーはログに出さない。
func (g *StripeGateway) breakersFor(cur currency.Code) (string, *accountBreakers) {
	key := g.secretKey(cur)
	account := "default"
	if k, ok := g.cfg.SecretKeys[cur]; ok && k != "" {
		account = string(cur)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.breakers[key]
	if !ok {
		b = &accountBreakers{
			sessions: gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](breakerSettings("stripe-checkout-session-"+account, g.logger)),
			intents:  gobreaker.NewCircuitBreaker[*stripe.PaymentIntent](breakerSettings("stripe-payment-intent-"+account, g.logger)),
		}
		g.breakers[key] = b
	}
	return key, b
}

func breakerSettings(name string, logger *zap.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
}

// 4xx（リクエスト不正・拒否）はStripe側の障害ではないので数えない
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var se *stripe.Error
	if errors.As(err, &se) {
		return se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500
	}
	return false
}

// 通貨別の秘密鍵。無ければ既定のキー。
func (g *StripeGateway) secretKey(cur currency.Code) string {
	if k, ok := g.cfg.SecretKeys[cur]; ok && k != "" {
		return k
	}
	return g.cfg.SecretKey
}

func (g *StripeGateway) PublishableKey(cur currency.Code) string {
	if k, ok := g.cfg.PublicKeys[cur]; ok && k != "" {
		return k
	}
	return g.cfg.PublicKey
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, in usecase.CheckoutSessionInput) (usecase.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(in.SuccessURL),
		CancelURL:          stripe.String(in.CancelURL),
		LineItems:          make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.Lines)),
	}
	params.Context = ctx

	for _, l := range in.Lines {
		li := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(l.Currency)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(l.ProductName),
				},
				UnitAmount: stripe.Int64(l.UnitAmount),
			},
			Quantity: stripe.Int64(l.Quantity),
		}
		if len(l.TaxRates) > 0 {
			li.TaxRates = stripe.StringSlice(l.TaxRates)
		}
		params.LineItems = append(params.LineItems, li)
	}

	if in.CouponID != "" {
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(in.CouponID)},
		}
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	// キーは通貨で決まる（セッション作成の前に選ぶ）
	key, b := g.breakersFor(in.Currency)
	client := session.Client{B: g.backend, Key: key}

	s, err := b.sessions.Execute(func() (*stripe.CheckoutSession, error) {
		return client.New(params)
	})
	if err != nil {
		return usecase.CheckoutSession{}, fmt.Errorf("stripe checkout session: %w", err)
	}
	return usecase.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, in usecase.PaymentIntentInput) (usecase.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(string(in.Currency)),
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	key, b := g.breakersFor(in.Currency)
	client := paymentintent.Client{B: g.backend, Key: key}

	pi, err := b.intents.Execute(func() (*stripe.PaymentIntent, error) {
		return client.New(params)
	})
	if err != nil {
		return usecase.PaymentIntent{}, fmt.Errorf("stripe payment intent: %w", err)
	}
	return usecase.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
