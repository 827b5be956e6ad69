package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 呼ばれた回数を数えるだけのreader
type countingReader struct {
	products map[int64]model.Product
	calls    int
	err      error
}

func (r *countingReader) FindByID(ctx context.Context, id int64) (model.Product, error) {
	r.calls++
	if r.err != nil {
		return model.Product{}, r.err
	}
	p, ok := r.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func setupTestCache(t *testing.T) (*ProductCache, *countingReader, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := &countingReader{products: map[int64]model.Product{
		1: {ID: 1, Title: "بروش", Price: decimal.RequireFromString("15000"), ImageURL: "a.jpg"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProductCache(client, source, time.Minute, logger), source, mr
}

func TestFindByID_ReadThrough(t *testing.T) {
	c, source, mr := setupTestCache(t)
	ctx := context.Background()

	p, err := c.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "بروش", p.Title)
	assert.Equal(t, 1, source.calls)
	assert.True(t, mr.Exists(cacheKey(1)))

	//TTLは base〜base*1.25
	ttl := mr.TTL(cacheKey(1))
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.LessOrEqual(t, ttl, time.Minute+15*time.Second)

	p, err = c.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("15000").Equal(p.Price))
	assert.Equal(t, 1, source.calls)
}

func TestFindByID_ServesCachedValue(t *testing.T) {
	c, source, mr := setupTestCache(t)

	data, _ := json.Marshal(model.Product{ID: 7, Title: "cached", Price: decimal.RequireFromString("1.5")})
	require.NoError(t, mr.Set(cacheKey(7), string(data)))

	p, err := c.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "cached", p.Title)
	assert.Equal(t, 0, source.calls)
}

func TestFindByID_NotFoundIsNotCached(t *testing.T) {
	c, source, mr := setupTestCache(t)

	_, err := c.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.False(t, mr.Exists(cacheKey(404)))
	assert.Equal(t, 1, source.calls)
}

func TestFindByID_RedisDownFallsBackToSource(t *testing.T) {
	c, source, mr := setupTestCache(t)
	mr.Close()

	p, err := c.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, 1, source.calls)
}

func TestFindByID_SourceError(t *testing.T) {
	c, source, _ := setupTestCache(t)
	source.err = errors.New("db down")

	_, err := c.FindByID(context.Background(), 1)
	assert.EqualError(t, err, "db down")
}

func TestInvalidate(t *testing.T) {
	c, source, mr := setupTestCache(t)
	ctx := context.Background()

	_, err := c.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, 1))
	assert.False(t, mr.Exists(cacheKey(1)))

	_, err = c.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}
