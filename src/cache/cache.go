// Package cache wraps the shared Redis client with the read-through helpers
// used by the catalog and media services. Every helper is a no-op when Redis
// is not configured.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"nefllix/src/config"
	"nefllix/src/logger"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 16 * time.Hour

func client() *redis.Client {
	return config.RDB
}

// GetJSON loads key into dest and reports whether it was a hit.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	rdb := client()
	if rdb == nil {
		return false
	}
	cached, err := rdb.Get(ctx, key).Bytes()
	if err != nil || len(cached) == 0 {
		return false
	}
	if err := json.Unmarshal(cached, dest); err != nil {
		logger.Warn("[Cache] dropping unreadable entry", "key", key, "err", err)
		_ = rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// SetJSON stores value under key and registers the key in tagKey so the
// whole group can be invalidated together.
func SetJSON(ctx context.Context, key, tagKey string, value interface{}, ttl time.Duration) {
	rdb := client()
	if rdb == nil {
		return
	}
	jsonStr, err := json.Marshal(value)
	if err != nil {
		logger.Warn("[Cache] failed to encode entry", "key", key, "err", err)
		return
	}

	pipe := rdb.Pipeline()
	pipe.Set(ctx, key, jsonStr, ttl)
	if tagKey != "" {
		pipe.SAdd(ctx, tagKey, key)
		pipe.Expire(ctx, tagKey, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("[Cache] failed to store entry", "key", key, "err", err)
	}
}

// GetBlob returns a cached binary payload together with its content type.
func GetBlob(ctx context.Context, key string) ([]byte, string, bool) {
	rdb := client()
	if rdb == nil {
		return nil, "", false
	}
	fields, err := rdb.HGetAll(ctx, key).Result()
	if err != nil || len(fields["data"]) == 0 {
		return nil, "", false
	}
	return []byte(fields["data"]), fields["type"], true
}

func SetBlob(ctx context.Context, key string, data []byte, contentType string, ttl time.Duration) {
	rdb := client()
	if rdb == nil {
		return
	}
	pipe := rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "data", data, "type", contentType)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("[Cache] failed to store blob", "key", key, "err", err)
	}
}

// RequestKey derives a cache key from the JSON form of a normalized request,
// so free-text fields cannot bleed into neighbouring ones.
func RequestKey(prefix string, req interface{}) string {
	raw, err := json.Marshal(req)
	if err != nil {
		raw = []byte(fmt.Sprintf("%#v", req))
	}
	sum := sha256.Sum256(raw)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Delete drops individual keys.
func Delete(ctx context.Context, keys ...string) {
	rdb := client()
	if rdb == nil || len(keys) == 0 {
		return
	}
	_ = rdb.Del(ctx, keys...).Err()
}

// InvalidateTags drops every key registered under the given tag sets, and the sets themselves.
func InvalidateTags(ctx context.Context, tagKeys ...string) {
	rdb := client()
	if rdb == nil {
		return
	}
	for _, tagKey := range tagKeys {
		keys, err := rdb.SMembers(ctx, tagKey).Result()
		if err != nil {
			logger.Warn("[Cache] failed to read tag set", "tag", tagKey, "err", err)
			continue
		}
		keys = append(keys, tagKey)
		if err := rdb.Del(ctx, keys...).Err(); err != nil {
			logger.Warn("[Cache] failed to invalidate tag set", "tag", tagKey, "err", err)
		}
	}
}
