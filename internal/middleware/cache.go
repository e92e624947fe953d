package middleware

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CacheConfig controls the redis-backed GET response cache.
type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
}

// cachedResponse is the serialized form of a cached HTTP response.
type cachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Cache serves repeated GET requests from redis. With no redis client the
// middleware is a no-op, so the service degrades gracefully when the cache
// backend is absent.
func Cache(rdb *redis.Client, cfg CacheConfig, logger *logrus.Logger) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	return func(c *gin.Context) {
		if c.Request.Method != "GET" || shouldSkipCaching(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := cacheKey(c, cfg.KeyPrefix)

		if data, err := rdb.Get(c.Request.Context(), key).Bytes(); err == nil {
			var response cachedResponse
			if err := json.Unmarshal(data, &response); err == nil {
				c.Header("X-Cache", "HIT")
				c.Data(response.StatusCode, response.ContentType, response.Body)
				c.Abort()
				return
			}
		}

		writer := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 || len(writer.body) == 0 {
			return
		}

		data, err := json.Marshal(cachedResponse{
			StatusCode:  status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body,
		})
		if err != nil {
			return
		}
		if err := rdb.Set(context.Background(), key, data, ttl).Err(); err != nil {
			logger.WithError(err).WithField("cache_key", key).Warn("Failed to cache response")
		}
	}
}

// cacheWriter captures the response body as it is written.
type cacheWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *cacheWriter) Write(data []byte) (int, error) {
	w.body = append(w.body, data...)
	return w.ResponseWriter.Write(data)
}

func cacheKey(c *gin.Context, prefix string) string {
	if prefix == "" {
		prefix = "httpcache"
	}
	keyStr := strings.Join([]string{
		c.Request.Method,
		c.Request.URL.Path,
		c.Request.URL.RawQuery,
	}, ":")
	return fmt.Sprintf("%s:%x", prefix, md5.Sum([]byte(keyStr)))
}

func shouldSkipCaching(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/api/v1/datasets",
		"/api/v1/admin",
	}
	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}
