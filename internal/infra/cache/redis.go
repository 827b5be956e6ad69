// Package cache は商品詳細をredisに置く。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logkey"
	repo "storefront/internal/repository"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// ProductCache はrepo.ProductReaderの前に置くread-throughキャッシュ。
// redisが落ちていてもDBから読めれば成功にする。
type ProductCache struct {
	client  *redis.Client
	source  repo.ProductReader
	baseTTL time.Duration
	logger  *slog.Logger
}

func NewProductCache(client *redis.Client, source repo.ProductReader, baseTTL time.Duration, logger *slog.Logger) *ProductCache {
	if baseTTL <= 0 {
		baseTTL = time.Minute
	}
	return &ProductCache{
		client:  client,
		source:  source,
		baseTTL: baseTTL,
		logger:  logger,
	}
}

func (c *ProductCache) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, err := c.get(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.WarnContext(ctx, "product cache get failed",
			slog.Int64(logkey.ProductID, id),
			slog.String(logkey.Error, err.Error()))
	}

	p, err = c.source.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	if err := c.set(ctx, p); err != nil {
		c.logger.WarnContext(ctx, "product cache set failed",
			slog.Int64(logkey.ProductID, id),
			slog.String(logkey.Error, err.Error()))
	}
	return p, nil
}

// 価格変更などのあとに呼ぶ
func (c *ProductCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *ProductCache) get(ctx context.Context, id int64) (model.Product, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Product{}, ErrCacheMiss
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("redis get failed: %w", err)
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Product{}, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return p, nil
}

func (c *ProductCache) set(ctx context.Context, p model.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}

	//一斉に切れないように少しずらす
	jitter := time.Duration(rand.Int63n(int64(c.baseTTL)/4 + 1))
	if err := c.client.Set(ctx, cacheKey(p.ID), data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}
