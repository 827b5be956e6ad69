package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Sort     string
}

// カートの解決に必要な読み取りだけ。キャッシュ実装もこれを満たす。
type ProductReader interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
}

// カタログの読み取りと、seed用の作成。
type ProductRepository interface {
	ProductReader
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	CreateCategory(ctx context.Context, c model.Category) error
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) error
}
