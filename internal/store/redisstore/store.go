// Package redisstore backs the content cache and the popularity counters
// with redis. Cache reads degrade to a miss and cache writes to a no-op on
// transport errors: losing cache entries must never fail a request.
package redisstore

import (
	"context"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/popularity"
)

const (
	cachePrefix    = "aischool:cache:"
	popularityHash = "aischool:popularity"
)

type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{rdb: rdb}
}

// Ping lets the caller decide at startup whether to use this store or fall
// back to the no-op cache.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, cachePrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		log.Printf("redisstore get key=%s err=%v (treated as miss)", key, err)
		return "", false, nil
	}
	return v, true, nil
}

func (s *Store) Put(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, cachePrefix+key, value, ttl).Err(); err != nil {
		log.Printf("redisstore put key=%s err=%v (dropped)", key, err)
	}
	return nil
}

func (s *Store) Invalidate(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, cachePrefix+key).Err(); err != nil {
		log.Printf("redisstore invalidate key=%s err=%v", key, err)
	}
	return nil
}

func (s *Store) Incr(ctx context.Context, lessonID uint64) error {
	return s.rdb.HIncrBy(ctx, popularityHash, strconv.FormatUint(lessonID, 10), 1).Err()
}

func (s *Store) Counts(ctx context.Context) ([]popularity.LessonCount, error) {
	fields, err := s.rdb.HGetAll(ctx, popularityHash).Result()
	if err != nil {
		return nil, err
	}
	out := make([]popularity.LessonCount, 0, len(fields))
	for f, v := range fields {
		id, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, popularity.LessonCount{LessonID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out, nil
}
