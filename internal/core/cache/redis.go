package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // 所有键统一加前缀，默认 "taskboard:"
}

// Store JSON 值缓存；redis 故障时退化为直接回源
type Store struct {
	rdb    *redis.Client
	prefix string
	group  singleflight.Group
}

func NewStore(o Options) *Store {
	if o.Prefix == "" {
		o.Prefix = "taskboard:"
	}
	return &Store{
		rdb:    redis.NewClient(&redis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB}),
		prefix: o.Prefix,
	}
}

func (s *Store) Ping(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }

func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) key(k string) string { return s.prefix + k }

// Invalidate 删除若干键（不带前缀）
func (s *Store) Invalidate(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.rdb.Del(ctx, full...).Err()
}

// Fetch 命中则解码返回；未命中、解码失败或 redis 出错时回源。
// 同一个键的并发回源合并成一次，回源成功后尽力写回，写回失败不影响结果。
func Fetch[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	k := s.key(key)
	raw, err := s.rdb.Get(ctx, k).Bytes()
	if err == nil {
		var v T
		if json.Unmarshal(raw, &v) == nil {
			return v, nil
		}
	}
	reachable := err == nil || errors.Is(err, redis.Nil)

	v, err, _ := s.group.Do(k, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if reachable {
			if b, err := json.Marshal(v); err == nil {
				_ = s.rdb.Set(ctx, k, b, ttl).Err()
			}
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
