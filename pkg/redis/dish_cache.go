package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	rd "github.com/redis/go-redis/v9"

	"github.com/ada-zs1125/sky-take-out/internal/service"
)

// DishCache 基于 Redis 的菜品列表缓存，实现 service.DishCache。
// 值为 JSON 序列化的 []DishVO，带 TTL；菜品任何变更后由服务层失效。
type DishCache struct {
	rdb *rd.Client
	ttl time.Duration
}

func NewDishCache(rdb *rd.Client, ttl time.Duration) *DishCache {
	return &DishCache{rdb: rdb, ttl: ttl}
}

var _ service.DishCache = (*DishCache)(nil)

func (c *DishCache) GetList(ctx context.Context, categoryID uint) ([]service.DishVO, bool, error) {
	raw, err := c.rdb.Get(ctx, DishListKey(categoryID)).Bytes()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var list []service.DishVO
	if err := json.Unmarshal(raw, &list); err != nil {
		// 缓存内容损坏按未命中处理，由回源覆盖
		return nil, false, nil
	}
	return list, true, nil
}

func (c *DishCache) SetList(ctx context.Context, categoryID uint, list []service.DishVO) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, DishListKey(categoryID), raw, c.ttl).Err()
}

func (c *DishCache) Invalidate(ctx context.Context, categoryIDs ...uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		keys = append(keys, DishListKey(id))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// InvalidateAll SCAN 匹配删除全部分类缓存，避免 KEYS 阻塞。
func (c *DishCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, DishListPattern(), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
