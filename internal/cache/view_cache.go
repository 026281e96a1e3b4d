package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewVersionKey = "view:version"

// ViewVersion 获取汇总视图缓存版本号
func ViewVersion(ctx context.Context) (int64, error) {
	if !Enabled() {
		return 0, nil
	}
	version, err := redisClient.Get(ctx, buildKey(viewVersionKey)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return version, nil
}

// BumpViewVersion 递增版本号使所有汇总视图缓存失效
func BumpViewVersion(ctx context.Context) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Incr(ctx, buildKey(viewVersionKey)).Err()
}

// ConsolidatedViewKey 构建汇总视图缓存 key
func ConsolidatedViewKey(version int64, businessID uint, from, to time.Time) string {
	return fmt.Sprintf("view:v%d:%d:%s:%s", version, businessID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}
