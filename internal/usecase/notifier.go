package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// OrderNotifier は注文作成をスタッフに知らせる。
// 失敗してもエラーは返さず、結果を値で返す。注文の成否には影響しない。
type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, order model.Order) NotifyResult
}

type NotifyResult struct {
	Delivered bool
	//未設定やブレーカーOPENで送らなかった
	Skipped bool
	Err     error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
