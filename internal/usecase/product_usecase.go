package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/logkey"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	//詳細はキャッシュ経由で読む
	reader repo.ProductReader
	logger *slog.Logger
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, reader repo.ProductReader, logger *slog.Logger) *ProductUsecase {
	if reader == nil {
		reader = productRepo
	}
	return &ProductUsecase{
		productRepo: productRepo,
		reader:      reader,
		logger:      logger,
	}
}

// 価格列は decimal(12,2)
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return validationError("price must be >= 0")
	}
	if !price.Equal(price.Truncate(2)) {
		return validationError("price must have at most 2 decimal places")
	}
	return nil
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, validationError("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, validationError("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, validationError("q too long")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, validationError("invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, persistenceError()
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, validationError("invalid product id")
	}

	p, err := u.reader.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, notFoundError()
	}
	if err != nil {
		return model.Product{}, persistenceError()
	}
	return p, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	cs, err := u.productRepo.ListCategories(ctx)
	if err != nil {
		return []model.Category{}, persistenceError()
	}
	return cs, nil
}

// キャッシュを持つ実装だけが満たす
type ProductCacheInvalidator interface {
	Invalidate(ctx context.Context, id int64) error
}

type AdminCreateProductInput struct {
	Title             string
	Description       string
	Price             decimal.Decimal
	Category          string
	University        string
	College           string
	GradYear          string
	ImageURL          string
	Stock             int64
	CanCustomizeName  bool
	CanCustomizePhoto bool
	CanSelectYear     bool
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminCreateProductInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Title) == "" {
		return 0, validationError("title required")
	}
	if err := validatePrice(in.Price); err != nil {
		return 0, err
	}
	if in.Stock < 0 {
		return 0, validationError("stock must be >= 0")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		Price:             in.Price,
		Category:          strings.TrimSpace(in.Category),
		University:        in.University,
		College:           in.College,
		GradYear:          in.GradYear,
		ImageURL:          in.ImageURL,
		Stock:             in.Stock,
		CanCustomizeName:  in.CanCustomizeName,
		CanCustomizePhoto: in.CanCustomizePhoto,
		CanSelectYear:     in.CanSelectYear,
	})
	if err != nil {
		return 0, persistenceError()
	}
	return p.ID, nil
}

// 既存の注文明細の価格は変わらない
func (u *ProductUsecase) AdminUpdatePrice(ctx context.Context, adminUserID int64, productID int64, price decimal.Decimal) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return validationError("invalid product id")
	}
	if err := validatePrice(price); err != nil {
		return err
	}

	err := u.productRepo.UpdatePrice(ctx, productID, price)
	if errors.Is(err, repo.ErrNotFound) {
		return notFoundError()
	}
	if err != nil {
		return persistenceError()
	}

	//価格は保存済み。キャッシュはTTLで消えるのでログだけ残す
	if inv, ok := u.reader.(ProductCacheInvalidator); ok {
		if err := inv.Invalidate(ctx, productID); err != nil {
			u.logger.WarnContext(ctx, "product cache invalidate failed",
				slog.Int64(logkey.ProductID, productID),
				slog.String(logkey.Error, err.Error()))
		}
	}
	return nil
}
