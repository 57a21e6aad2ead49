package middleware

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"storefront/internal/adapter/http/helper"
	"storefront/internal/core/telemetry"
	"storefront/pkg/tracing"
)

type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// ResponseCache serves repeated GETs on configured routes from memory. A
// successful write to a route drops every cached entry under that path.
type ResponseCache struct {
	cache   *cache.Cache
	config  map[string]ResponseCacheConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
}

type CachedResponse struct {
	StatusCode  int
	ContentType string
	Headers     http.Header
	Body        []byte
	Timestamp   time.Time
}

// NewResponseCache caches the given route paths (gin FullPath form) for
// ttl. Routes not listed are never cached.
func NewResponseCache(ttl time.Duration, paths []string, logger *zap.Logger, metrics *telemetry.AppMetrics) *ResponseCache {
	configs := make(map[string]ResponseCacheConfig, len(paths))

	for _, path := range paths {
		configs[path] = ResponseCacheConfig{TTL: ttl, Enabled: ttl > 0}
	}

	return &ResponseCache{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if c.Request.Method != http.MethodGet {
			c.Next()
			rc.invalidateAfterWrite(c, path)
			return
		}

		config, exists := rc.config[path]
		if !exists || !config.Enabled {
			c.Next()
			return
		}

		cacheKey := rc.generateCacheKey(c, path)

		if cachedResp, found := rc.cache.Get(cacheKey); found {
			cached := cachedResp.(CachedResponse)
			age := time.Since(cached.Timestamp)

			_, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
				attribute.String("cache.key", cacheKey),
				attribute.String("cache.path", path),
				attribute.String("cache.age", age.String()),
				attribute.Int("cache.status_code", cached.StatusCode),
				attribute.Int("cache.body_size", len(cached.Body)),
			})
			defer span.End()

			if rc.metrics != nil {
				rc.metrics.RecordCacheHit(c.Request.Context(), path)
			}

			rc.logger.Debug("Cache hit",
				zap.String("path", path),
				zap.String("cache_key", cacheKey),
				zap.Duration("age", age))

			for key, values := range cached.Headers {
				for _, value := range values {
					c.Writer.Header().Add(key, value)
				}
			}

			c.Header("X-Cache", "HIT")
			c.Header("X-Cache-Age", fmt.Sprintf("%.0f", age.Seconds()))

			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		ctx, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.miss", []attribute.KeyValue{
			attribute.String("cache.key", cacheKey),
			attribute.String("cache.path", path),
		})
		defer span.End()

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(ctx, path)
		}

		rc.logger.Debug("Cache miss",
			zap.String("path", path),
			zap.String("cache_key", cacheKey))

		c.Header("X-Cache", "MISS")

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		headers := writer.Header().Clone()
		contentType := headers.Get("Content-Type")
		for _, key := range []string{"Content-Type", "X-Cache", "X-Cache-Age", "Set-Cookie", "X-Request-Id", "X-Ratelimit-Limit", "X-Ratelimit-Remaining", "X-Ratelimit-Reset"} {
			headers.Del(key)
		}

		rc.cache.Set(cacheKey, CachedResponse{
			StatusCode:  status,
			ContentType: contentType,
			Headers:     headers,
			Body:        writer.body.Bytes(),
			Timestamp:   time.Now(),
		}, config.TTL)
	}
}

func (rc *ResponseCache) invalidateAfterWrite(c *gin.Context, path string) {
	status := c.Writer.Status()

	if path == "" || status < 200 || status >= 300 {
		return
	}

	rc.InvalidatePath(path)
}

func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string) string {
	keyParts := []string{c.Request.URL.Path}

	if c.Request.URL.RawQuery != "" {
		keyParts = append(keyParts, c.Request.URL.RawQuery)
	}

	if accountID := c.GetString(AccountIDKey); accountID != "" {
		keyParts = append(keyParts, "account_"+accountID)
	} else {
		keyParts = append(keyParts, "ip_"+helper.GetClientIP(c))
	}

	hash := md5.Sum([]byte(strings.Join(keyParts, "|")))

	return fmt.Sprintf("cache:%s:%x", path, hash)
}

// InvalidatePath drops entries for path and every route nested under it,
// so a write to /products also clears /products/:uuid.
func (rc *ResponseCache) InvalidatePath(path string) {
	prefix := "cache:" + path

	for key := range rc.cache.Items() {
		if key == prefix || strings.HasPrefix(key, prefix+":") || strings.HasPrefix(key, prefix+"/") {
			rc.cache.Delete(key)
		}
	}

	rc.logger.Debug("Cache invalidated", zap.String("path", path))
}

func (rc *ResponseCache) InvalidateAllCache() {
	rc.cache.Flush()
	rc.logger.Info("All cache invalidated")
}

func (rc *ResponseCache) SetConfig(path string, config ResponseCacheConfig) {
	rc.config[path] = config
}

func (rc *ResponseCache) GetStats() map[string]any {
	return map[string]any{
		"active_entries": rc.cache.ItemCount(),
		"configs":        len(rc.config),
	}
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
