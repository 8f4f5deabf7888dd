package usecase_test

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain/currency"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks
// =====================

type ItemRepoMock struct{ mock.Mock }

func (m *ItemRepoMock) List(ctx context.Context) ([]model.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Error(1)
}

func (m *ItemRepoMock) FindByID(ctx context.Context, id int64) (model.Item, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(model.Item)
	return it, args.Error(1)
}

func (m *ItemRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Item)
	return items, args.Error(1)
}

type DiscountRepoMock struct{ mock.Mock }

func (m *DiscountRepoMock) List(ctx context.Context) ([]model.Discount, error) {
	args := m.Called(ctx)
	ds, _ := args.Get(0).([]model.Discount)
	return ds, args.Error(1)
}

func (m *DiscountRepoMock) FindByID(ctx context.Context, id int64) (model.Discount, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(model.Discount)
	return d, args.Error(1)
}

type TaxRepoMock struct{ mock.Mock }

func (m *TaxRepoMock) List(ctx context.Context) ([]model.Tax, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).([]model.Tax)
	return ts, args.Error(1)
}

func (m *TaxRepoMock) FindByID(ctx context.Context, id int64) (model.Tax, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.Tax)
	return t, args.Error(1)
}

type CartSessionRepoMock struct{ mock.Mock }

func (m *CartSessionRepoMock) Load(ctx context.Context, sessionID string) (model.CartSession, error) {
	args := m.Called(ctx, sessionID)
	c, _ := args.Get(0).(model.CartSession)
	return c, args.Error(1)
}

func (m *CartSessionRepoMock) Save(ctx context.Context, sessionID string, cart model.CartSession) error {
	args := m.Called(ctx, sessionID, cart)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定する
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders repo.OrderRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository { return r.orders }

// =====================
// Gateway / Event mocks
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateCheckoutSession(ctx context.Context, in usecase.CheckoutSessionInput) (usecase.CheckoutSession, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(usecase.CheckoutSession)
	return s, args.Error(1)
}

func (m *GatewayMock) CreatePaymentIntent(ctx context.Context, in usecase.PaymentIntentInput) (usecase.PaymentIntent, error) {
	args := m.Called(ctx, in)
	pi, _ := args.Get(0).(usecase.PaymentIntent)
	return pi, args.Error(1)
}

func (m *GatewayMock) PublishableKey(cur currency.Code) string {
	args := m.Called(cur)
	return args.String(0)
}

type EventPublisherMock struct{ mock.Mock }

func (m *EventPublisherMock) PublishOrderCreated(ctx context.Context, ev usecase.OrderCreatedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

var (
	_ repo.ItemRepository         = (*ItemRepoMock)(nil)
	_ repo.DiscountRepository     = (*DiscountRepoMock)(nil)
	_ repo.TaxRepository          = (*TaxRepoMock)(nil)
	_ repo.CartSessionRepository  = (*CartSessionRepoMock)(nil)
	_ repo.OrderRepository        = (*OrderRepoMock)(nil)
	_ repo.TransactionManager     = (*TxManagerMock)(nil)
	_ usecase.PaymentGateway      = (*GatewayMock)(nil)
	_ usecase.OrderEventPublisher = (*EventPublisherMock)(nil)
)

// =====================
// helper
// =====================

func assertErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), substr), "err=%q want contains %q", err.Error(), substr)
	}
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "want HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
	}
}

func newItem(id int64, name string, price string, cur currency.Code) model.Item {
	return model.Item{ID: id, Name: name, Price: decimal.RequireFromString(price), Currency: cur}
}

func int64Ptr(v int64) *int64 { return &v }
