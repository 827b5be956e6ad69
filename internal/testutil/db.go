// Package testutil はテスト用のDBとデータを用意する。
package testutil

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テストごとに独立したin-memory sqlite
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := db.OpenSQLite(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// 価格だけ指定して商品を作る
func CreateProduct(t *testing.T, gdb *gorm.DB, title string, price string) model.Product {
	t.Helper()

	p := model.Product{
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Category: "بروشات",
		ImageURL: "https://example.com/" + title + ".jpg",
		Stock:    10,
	}
	require.NoError(t, gdb.WithContext(context.Background()).Create(&p).Error)
	return p
}

func CreateUser(t *testing.T, gdb *gorm.DB, username string, admin bool) model.User {
	t.Helper()

	email := username + "@example.com"
	u := model.User{
		Username:     username,
		Email:        &email,
		PasswordHash: "x",
		IsAdmin:      admin,
	}
	require.NoError(t, gdb.WithContext(context.Background()).Create(&u).Error)
	return u
}
