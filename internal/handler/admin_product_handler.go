package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type SuccessResponse struct {
	Message string `json:"message"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

// 価格は "15000" のような文字列で受ける
type ProductCreateRequest struct {
	Title             string          `json:"title" form:"title" validate:"required,max=255"`
	Description       string          `json:"description" form:"description"`
	Price             decimal.Decimal `json:"price" form:"price"`
	Category          string          `json:"category" form:"category" validate:"max=100"`
	University        string          `json:"university" form:"university" validate:"max=200"`
	College           string          `json:"college" form:"college" validate:"max=200"`
	GradYear          string          `json:"grad_year" form:"grad_year" validate:"max=10"`
	ImageURL          string          `json:"image_url" form:"image_url" validate:"omitempty,max=500"`
	Stock             int64           `json:"stock" form:"stock" validate:"gte=0"`
	CanCustomizeName  bool            `json:"can_customize_name" form:"can_customize_name"`
	CanCustomizePhoto bool            `json:"can_customize_photo" form:"can_customize_photo"`
	CanSelectYear     *bool           `json:"can_select_year" form:"can_select_year"`
}

type PriceUpdateRequest struct {
	Price decimal.Decimal `json:"price"`
}

// /admin/products
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/products", h.create)
	admin.PATCH("/products/:id/price", h.updatePrice)
}

func (h *AdminProductHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	//未指定なら年の選択は可
	canSelectYear := true
	if req.CanSelectYear != nil {
		canSelectYear = *req.CanSelectYear
	}

	id, err := h.uc.AdminCreateProduct(c.Request().Context(), adminID, usecase.AdminCreateProductInput{
		Title:             req.Title,
		Description:       req.Description,
		Price:             req.Price,
		Category:          req.Category,
		University:        req.University,
		College:           req.College,
		GradYear:          req.GradYear,
		ImageURL:          req.ImageURL,
		Stock:             req.Stock,
		CanCustomizeName:  req.CanCustomizeName,
		CanCustomizePhoto: req.CanCustomizePhoto,
		CanSelectYear:     canSelectYear,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}

func (h *AdminProductHandler) updatePrice(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req PriceUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AdminUpdatePrice(c.Request().Context(), adminID, productID, req.Price); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}
