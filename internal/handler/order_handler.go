package handler

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// チェックアウトフォーム。cart_dataはカートのJSON文字列。
// 空欄チェックはusecase側（空カートの判定を先にするため）。
type CheckoutRequest struct {
	FullName string `form:"full_name" json:"full_name" validate:"max=200"`
	Phone    string `form:"phone" json:"phone" validate:"max=20"`
	Province string `form:"province" json:"province" validate:"max=100"`
	Address  string `form:"address" json:"address" validate:"max=500"`
	CartData string `form:"cart_data" json:"cart_data"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	auth := middleware.AuthJWT(cfg)

	e.POST("/checkout", h.checkout, auth)

	g := e.Group("/orders")
	g.Use(auth)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	var lines []usecase.CartLine
	if raw := strings.TrimSpace(req.CartData); raw != "" {
		decoded, err := usecase.DecodeCartLines([]byte(raw))
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid cart_data"})
		}
		lines = decoded
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		Shipping: usecase.ShippingDetails{
			FullName: req.FullName,
			Phone:    req.Phone,
			Province: req.Province,
			Address:  req.Address,
		},
		Lines: lines,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
