package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"storefront/internal/adapter/http/helper"
	"storefront/internal/core/telemetry"
	"storefront/pkg/config"
)

type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

type RateLimiter struct {
	enabled bool
	cache   *cache.Cache
	config  map[string]RateLimitEndpointConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.RWMutex
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

var defaultRateLimit = RateLimitEndpointConfig{
	Requests: 60,
	Window:   time.Minute,
	KeyFunc:  helper.GetClientIP,
}

// NewRateLimiter builds per-route limits from cfg. Route keys are
// "METHOD /path", a bare path, or "default". Per-user routes key on the
// identified account and fall back to the client IP.
func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	configs := make(map[string]RateLimitEndpointConfig, len(cfg.Routes)+1)

	for route, limit := range cfg.Routes {
		keyFunc := helper.GetClientIP
		if limit.PerUser {
			keyFunc = getAccountKey
		}

		configs[route] = RateLimitEndpointConfig{
			Requests: limit.Requests,
			Window:   limit.Window,
			KeyFunc:  keyFunc,
		}
	}

	if _, ok := configs["default"]; !ok {
		configs["default"] = defaultRateLimit
	}

	return &RateLimiter{
		enabled: cfg.Enabled,
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path
		config := rl.lookup(methodPath, path)
		key := rl.generateKey(c, methodPath, config.KeyFunc)

		allowed, remaining, resetTime := rl.checkRateLimit(key, config)

		keyType := "ip"
		if strings.Contains(key, "account_") {
			keyType = "user"
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", config.Requests),
				zap.Duration("window", config.Window))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", config.Requests, config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, keyType)
		}

		c.Next()
	}
}

func (rl *RateLimiter) lookup(methodPath, path string) RateLimitEndpointConfig {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	if config, ok := rl.config[methodPath]; ok {
		return config
	}

	if config, ok := rl.config[path]; ok {
		return config
	}

	return rl.config["default"]
}

func (rl *RateLimiter) checkRateLimit(key string, config RateLimitEndpointConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if entry, found := rl.cache.Get(key); found {
		rateLimitEntry := entry.(RateLimitEntry)

		if !now.After(rateLimitEntry.ResetTime) {
			if rateLimitEntry.Count >= config.Requests {
				return false, 0, rateLimitEntry.ResetTime
			}

			rateLimitEntry.Count++
			rl.cache.Set(key, rateLimitEntry, time.Until(rateLimitEntry.ResetTime))

			return true, config.Requests - rateLimitEntry.Count, rateLimitEntry.ResetTime
		}
	}

	resetTime := now.Add(config.Window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, config.Window)

	return true, config.Requests - 1, resetTime
}

func (rl *RateLimiter) generateKey(c *gin.Context, path string, keyFunc func(*gin.Context) string) string {
	return fmt.Sprintf("rate_limit:%s:%s", path, keyFunc(c))
}

func getAccountKey(c *gin.Context) string {
	if accountID := c.GetString(AccountIDKey); accountID != "" {
		return "account_" + accountID
	}

	return helper.GetClientIP(c)
}

func (rl *RateLimiter) SetConfig(path string, config RateLimitEndpointConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.config[path] = config
}

func (rl *RateLimiter) GetStats() map[string]any {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	return map[string]any{
		"active_entries": rl.cache.ItemCount(),
		"configs":        len(rl.config),
	}
}
