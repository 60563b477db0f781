package http

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/car-dealership/pkg/logger"
)

const cacheKeyPrefix = "cars:cache:"

// ResponseCache caches public GET responses in Redis. A nil cache is a
// pass-through, so handlers can be wired without Redis.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache with the given TTL
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Middleware serves cached bodies for GET requests and captures
// successful responses for later hits
func (c *ResponseCache) Middleware(next http.HandlerFunc) http.HandlerFunc {
	if c == nil || c.client == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := cacheKey(r)

		if cached, err := c.client.Get(ctx, key).Bytes(); err == nil && len(cached) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}

		rec := &cachingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		rec.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(rec, r)

		if rec.statusCode == http.StatusOK {
			if err := c.client.Set(ctx, key, rec.body.Bytes(), c.ttl).Err(); err != nil {
				logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache response")
			}
		}
	}
}

// Invalidate drops every cached catalog response. Called after any
// mutation, including favorite toggles, since those change read results.
func (c *ResponseCache) Invalidate(r *http.Request) {
	if c == nil || c.client == nil {
		return
	}

	ctx := r.Context()
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Cache scan failed")
		return
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			logger.Warn(ctx).Err(err).Msg("Cache invalidation failed")
			return
		}
		logger.Info(ctx).Int("count", len(keys)).Msg("Catalog cache invalidated")
	}
}

func cacheKey(r *http.Request) string {
	components := fmt.Sprintf("%s:%s:%s", r.Method, r.URL.Path, r.URL.RawQuery)
	hash := sha256.Sum256([]byte(components))
	return cacheKeyPrefix + hex.EncodeToString(hash[:])
}

// cachingResponseWriter duplicates the body into a buffer while writing
type cachingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (w *cachingResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *cachingResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
