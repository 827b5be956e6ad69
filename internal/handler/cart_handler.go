package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart/detail。カートはクライアント（localStorage）が持っている。
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// {"cart":[{"id":1,"note":"..."}]}
type CartDetailRequest struct {
	Cart json.RawMessage `json:"cart"`
}

// 認証なし
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/cart/detail", h.detail)
}

// 壊れた入力でもエラーにせず空配列を返す
func (h *CartHandler) detail(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return c.JSON(http.StatusOK, []usecase.ResolvedCartItem{})
	}

	var req CartDetailRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusOK, []usecase.ResolvedCartItem{})
	}

	lines, err := usecase.DecodeCartLines(req.Cart)
	if err != nil {
		return c.JSON(http.StatusOK, []usecase.ResolvedCartItem{})
	}

	return c.JSON(http.StatusOK, h.uc.Resolve(c.Request().Context(), lines))
}
