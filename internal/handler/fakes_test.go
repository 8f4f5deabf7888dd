package handler_test

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/domain/currency"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// in-memory repositories
// =====================

type memItems struct {
	items map[int64]model.Item
}

func (m *memItems) List(ctx context.Context) ([]model.Item, error) {
	out := make([]model.Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memItems) FindByID(ctx context.Context, id int64) (model.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return model.Item{}, repo.ErrNotFound
	}
	return it, nil
}

func (m *memItems) FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error) {
	out := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := m.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

type memDiscounts struct{ ds []model.Discount }

func (m *memDiscounts) List(ctx context.Context) ([]model.Discount, error) { return m.ds, nil }

func (m *memDiscounts) FindByID(ctx context.Context, id int64) (model.Discount, error) {
	for _, d := range m.ds {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Discount{}, repo.ErrNotFound
}

type memTaxes struct{ ts []model.Tax }

func (m *memTaxes) List(ctx context.Context) ([]model.Tax, error) { return m.ts, nil }

func (m *memTaxes) FindByID(ctx context.Context, id int64) (model.Tax, error) {
	for _, t := range m.ts {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Tax{}, repo.ErrNotFound
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]model.CartSession
}

func (m *memCarts) Load(ctx context.Context, sid string) (model.CartSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[sid], nil
}

func (m *memCarts) Save(ctx context.Context, sid string, cart model.CartSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sid] = cart
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders []model.Order
}

func (m *memOrders) Create(ctx context.Context, o model.Order) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = int64(len(m.orders) + 1)
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memOrders) Orders() repo.OrderRepository { return m }

func (m *memOrders) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m)
}

// =====================
// Gateway mock
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

type nopEvents struct{}

func (nopEvents) PublishOrderCreated(context.Context, usecase.OrderCreatedEvent) error { return nil }
