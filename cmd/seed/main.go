// seed は初期カタログと管理者を入れる。何度実行しても重複しない。
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const imageBase = "https://images.unsplash.com/"

var seedCategories = []model.Category{
	{Name: "بروشات", SortOrder: 1},
	{Name: "وشاحات", SortOrder: 2},
	{Name: "قبعات", SortOrder: 3},
}

var seedProducts = []model.Product{
	{
		Title:            "بروش التخرج - اختار الديزاين",
		Description:      "بروش مطلي بالذهب بجودة عالية. يرجى اختيار رقم الديزاين من الصور المرفقة وكتابة الاسم المطلوب.",
		Price:            decimal.NewFromInt(15000),
		Category:         "بروشات",
		GradYear:         "2026",
		CanCustomizeName: true,
		CanSelectYear:    true,
		ImageURL:         imageBase + "photo-1523050853063-bd388f675f53?q=80&w=600",
		Stock:            1000,
	},
	{
		Title:            "وشاح التخرج الملكي",
		Description:      "وشاح تخرج مخملي فاخر قابل للتخصيص بالاسم.",
		Price:            decimal.NewFromInt(30000),
		Category:         "وشاحات",
		GradYear:         "2026",
		CanCustomizeName: true,
		CanSelectYear:    true,
		ImageURL:         imageBase + "photo-1627556704290-2b1f5853ff78?q=80&w=600",
		Stock:            500,
	},
	{
		Title:         "قبعة التخرج الفاخرة",
		Description:   "قبعة تخرج بجودة ممتازة مع تطريز سنة التخرج.",
		Price:         decimal.NewFromInt(25000),
		Category:      "قبعات",
		GradYear:      "2026",
		CanSelectYear: true,
		ImageURL:      imageBase + "photo-1541178735423-479693dbba0e?q=80&w=600",
		Stock:         500,
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	products := infraRepo.NewProductGormRepository(gormDB)
	n, err := seedCatalog(ctx, products)
	if err != nil {
		return err
	}
	logger.Info("catalog seeded", slog.Int("products", n))

	if cfg.AdminUsername == "" {
		logger.Warn("ADMIN_USERNAME not set, admin user skipped")
		return nil
	}
	registerUC := auth.NewRegisterUserUsecase(
		infraRepo.NewUserGormRepository(gormDB),
		auth.NewBcryptPasswordHasher(12),
		usecase.SystemClock{},
	)
	created, err := registerUC.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	logger.Info("admin user", slog.String("username", cfg.AdminUsername), slog.Bool("created", created))
	return nil
}

// 足りないカテゴリを作り、商品が1件もなければ初期商品を入れる。
// 入れた商品数を返す。
func seedCatalog(ctx context.Context, products repository.ProductRepository) (int, error) {
	existing, err := products.ListCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.Name] = true
	}
	for _, c := range seedCategories {
		if have[c.Name] {
			continue
		}
		if err := products.CreateCategory(ctx, c); err != nil {
			return 0, fmt.Errorf("create category %q: %w", c.Name, err)
		}
	}

	_, total, err := products.List(ctx, repository.ProductListQuery{Page: 1, Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if total > 0 {
		return 0, nil
	}

	for _, p := range seedProducts {
		if _, err := products.Create(ctx, p); err != nil {
			return 0, fmt.Errorf("create product %q: %w", p.Title, err)
		}
	}
	return len(seedProducts), nil
}
