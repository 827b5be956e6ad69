package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 見つからない場合は ErrNotFound
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
}
