package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/domain/currency"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const testSID = "11111111-1111-1111-1111-111111111111"

type testEnv struct {
	e       *echo.Echo
	carts   *memCarts
	orders  *memOrders
	gateway *GatewayMock
}

func newTestEnv(t *testing.T, publicBaseURL string) *testEnv {
	t.Helper()

	items := &memItems{items: map[int64]model.Item{
		1: {ID: 1, Name: "Banana", Price: decimal.RequireFromString("10.00"), Currency: currency.USD},
		2: {ID: 2, Name: "Apple", Price: decimal.RequireFromString("3.00"), Currency: currency.EUR},
	}}
	discounts := &memDiscounts{ds: []model.Discount{{ID: 1, Name: "10off", StripeCouponID: "coupon_10"}}}
	taxes := &memTaxes{ts: []model.Tax{{ID: 1, Name: "VAT", StripeTaxRateID: "txr_1"}}}
	carts := &memCarts{carts: map[string]model.CartSession{}}
	orders := &memOrders{}
	gw := new(GatewayMock)

	pricing := usecase.NewPricingUsecase(items)
	recorder := usecase.NewOrderRecorder(orders)

	e := echo.New()
	// セッションIDは固定
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxSessionIDKey, testSID)
			return next(c)
		}
	})

	handler.NewItemHandler(usecase.NewItemUsecase(items, gw)).RegisterRoutes(e)
	handler.NewCartHandler(usecase.NewCartUsecase(carts, discounts, taxes, pricing)).RegisterRoutes(e)
	handler.NewCheckoutHandler(
		usecase.NewCheckoutUsecase(carts, items, discounts, taxes, pricing, recorder, gw, nopEvents{}, zap.NewNop()),
		publicBaseURL,
	).RegisterRoutes(e)

	return &testEnv{e: e, carts: carts, orders: orders, gateway: gw}
}

func (env *testEnv) do(method, target string, body string, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	req.Host = "shop.test"
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	return env.do(http.MethodPost, target, form.Encode(), echo.MIMEApplicationForm)
}
