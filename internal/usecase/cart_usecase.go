package usecase

import (
	"context"
	"errors"
	"log/slog"

	"storefront/internal/logkey"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase はクライアント側カートを商品情報で展開する。保存はしない。
type CartUsecase struct {
	products repo.ProductReader
	logger   *slog.Logger
}

func NewCartUsecase(products repo.ProductReader, logger *slog.Logger) *CartUsecase {
	return &CartUsecase{products: products, logger: logger}
}

type ResolvedCartItem struct {
	ProductID int64           `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Note      string          `json:"note"`
}

// Resolve は入力順のまま展開する。存在しない商品は黙って落とす。
// 同じ商品が複数行あれば複数行のまま返す。
func (u *CartUsecase) Resolve(ctx context.Context, lines []CartLine) []ResolvedCartItem {
	out := make([]ResolvedCartItem, 0, len(lines))

	for _, l := range lines {
		p, err := u.products.FindByID(ctx, l.ProductID)
		if err != nil {
			if !errors.Is(err, repo.ErrNotFound) {
				u.logger.WarnContext(ctx, "cart line lookup failed",
					slog.Int64(logkey.ProductID, l.ProductID),
					slog.String(logkey.Error, err.Error()))
			}
			continue
		}

		out = append(out, ResolvedCartItem{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Note:      l.Note,
		})
	}

	return out
}
