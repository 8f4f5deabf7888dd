package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// セッションカートのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// JSONで送る場合。formなら同名のフィールド。
type SelectAdjustmentsRequest struct {
	DiscountID *int64 `json:"discount_id"`
	TaxID      *int64 `json:"tax_id"`
	Currency   string `json:"currency"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/add_to_cart/:id", h.add)
	e.GET("/cart", h.view)
	e.GET("/cart/", h.view)
	e.POST("/cart", h.selectAdjustments)
	e.POST("/cart/", h.selectAdjustments)
	e.POST("/clear_cart", h.clear)
	e.GET("/success", h.success)
	e.GET("/success/", h.success)
}

func (h *CartHandler) add(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if _, err := h.uc.Add(c.Request().Context(), middleware.SessionID(c), itemID); err != nil {
		return writeError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *CartHandler) view(c echo.Context) error {
	out, err := h.uc.View(c.Request().Context(), middleware.SessionID(c), c.QueryParam("currency"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) selectAdjustments(c echo.Context) error {
	req, err := bindSelectAdjustments(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	if err := h.uc.SelectAdjustments(c.Request().Context(), middleware.SessionID(c), req.DiscountID, req.TaxID); err != nil {
		return writeError(c, err)
	}

	cur := usecase.ResolveCheckoutCurrency(req.Currency)
	return c.Redirect(http.StatusSeeOther, "/cart/?"+url.Values{"currency": {string(cur)}}.Encode())
}

func (h *CartHandler) clear(c echo.Context) error {
	if err := h.uc.Clear(c.Request().Context(), middleware.SessionID(c)); err != nil {
		return writeError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// 決済完了の戻り先
func (h *CartHandler) success(c echo.Context) error {
	if err := h.uc.PaymentSucceeded(c.Request().Context(), middleware.SessionID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "payment succeeded"})
}

// 空文字は「選択なし」
func bindSelectAdjustments(c echo.Context) (SelectAdjustmentsRequest, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		var req SelectAdjustmentsRequest
		if err := c.Bind(&req); err != nil {
			return SelectAdjustmentsRequest{}, errInvalidBody
		}
		return req, nil
	}

	discountID, err := parseOptionalID(c.FormValue("discount_id"))
	if err != nil {
		return SelectAdjustmentsRequest{}, errInvalidDiscountID
	}
	taxID, err := parseOptionalID(c.FormValue("tax_id"))
	if err != nil {
		return SelectAdjustmentsRequest{}, errInvalidTaxID
	}
	return SelectAdjustmentsRequest{
		DiscountID: discountID,
		TaxID:      taxID,
		Currency:   c.FormValue("currency"),
	}, nil
}

func parseOptionalID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
