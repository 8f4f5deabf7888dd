package handler

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済まわり（カート決済・単品購入・PaymentIntent）
type CheckoutHandler struct {
	uc      *usecase.CheckoutUsecase
	baseURL string // 空ならリクエストから組み立てる
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase, publicBaseURL string) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/checkout", h.checkout)
	e.GET("/checkout/", h.checkout)
	e.GET("/buy/:id", h.buy)
	e.POST("/payment_intent/:id", h.paymentIntent)
}

// カート全体の決済。決済ページへ303で飛ばす。
func (h *CheckoutHandler) checkout(c echo.Context) error {
	out, err := h.uc.Checkout(c.Request().Context(), usecase.CheckoutInput{
		SessionID: middleware.SessionID(c),
		Currency:  c.QueryParam("currency"),
		BaseURL:   h.resolveBaseURL(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, out.RedirectURL)
}

// 単品購入。リダイレクトはクライアント側。
func (h *CheckoutHandler) buy(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.BuyItem(c.Request().Context(), usecase.BuyItemInput{
		ItemID:   itemID,
		Currency: c.QueryParam("currency"),
		BaseURL:  h.resolveBaseURL(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) paymentIntent(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.CreatePaymentIntent(c.Request().Context(), itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) resolveBaseURL(c echo.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	return c.Scheme() + "://" + c.Request().Host
}
