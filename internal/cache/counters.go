package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counters 用 Redis 缓存点赞数与关注计数，带 TTL。
// client 为 nil 时完全旁路（直接走 loader），部署可不带 Redis。
type Counters struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCounters(rdb *redis.Client, ttl time.Duration) *Counters {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Counters{rdb: rdb, ttl: ttl}
}

func likeKey(postID string) string    { return fmt.Sprintf("post:likes:%s", postID) }
func followsKey(userID string) string { return fmt.Sprintf("user:follows:%s", userID) }

// LikeCount 读取帖子点赞数；缓存未命中时执行 load 并回填
func (c *Counters) LikeCount(ctx context.Context, postID string, load func(context.Context) (int64, error)) (int64, error) {
	if c == nil || c.rdb == nil {
		return load(ctx)
	}
	if v, err := c.rdb.Get(ctx, likeKey(postID)).Result(); err == nil {
		if n, pErr := strconv.ParseInt(v, 10, 64); pErr == nil {
			return n, nil
		}
	}
	n, err := load(ctx)
	if err != nil {
		return 0, err
	}
	// 回填失败不影响读路径
	_ = c.rdb.Set(ctx, likeKey(postID), strconv.FormatInt(n, 10), c.ttl).Err()
	return n, nil
}

// InvalidateLike 点赞翻转后失效
func (c *Counters) InvalidateLike(ctx context.Context, postID string) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, likeKey(postID)).Err()
}

type followCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// FollowCounts 读取用户的粉丝数与关注数；未命中时执行 load 并回填
func (c *Counters) FollowCounts(ctx context.Context, userID string, load func(context.Context) (int64, int64, error)) (int64, int64, error) {
	if c == nil || c.rdb == nil {
		return load(ctx)
	}
	if data, err := c.rdb.Get(ctx, followsKey(userID)).Bytes(); err == nil {
		var fc followCounts
		if uErr := json.Unmarshal(data, &fc); uErr == nil {
			return fc.Followers, fc.Following, nil
		}
	}
	followers, following, err := load(ctx)
	if err != nil {
		return 0, 0, err
	}
	if payload, mErr := json.Marshal(followCounts{Followers: followers, Following: following}); mErr == nil {
		_ = c.rdb.Set(ctx, followsKey(userID), payload, c.ttl).Err()
	}
	return followers, following, nil
}

// InvalidateFollows 关注翻转后对两端失效
func (c *Counters) InvalidateFollows(ctx context.Context, userID string) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, followsKey(userID)).Err()
}
