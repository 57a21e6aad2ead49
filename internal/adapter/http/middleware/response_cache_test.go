package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"storefront/internal/core/telemetry"
)

func newTestCache(ttl time.Duration) *ResponseCache {
	return NewResponseCache(ttl, []string{"/products", "/products/:uuid"}, zap.NewNop(), telemetry.NewAppMetrics(prometheus.NewRegistry()))
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestNewResponseCache(t *testing.T) {
	RegisterTestingT(t)
	cache := newTestCache(time.Second)

	Expect(cache.config).To(HaveKey("/products"))
	Expect(cache.config["/products"].TTL).To(Equal(time.Second))
	Expect(cache.config["/products"].Enabled).To(BeTrue())
}

func TestResponseCacheMiddleware_UnlistedRoute(t *testing.T) {
	RegisterTestingT(t)
	cache := newTestCache(time.Second)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cache.CacheMiddleware())

	callCount := 0
	router.GET("/", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"count": callCount})
	})

	Expect(get(router, "/").Header().Get("X-Cache")).To(BeEmpty())
	Expect(get(router, "/").Header().Get("X-Cache")).To(BeEmpty())
	Expect(callCount).To(Equal(2))
}

func TestResponseCacheMiddleware_HitAndMiss(t *testing.T) {
	RegisterTestingT(t)
	cache := newTestCache(time.Second)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cache.CacheMiddleware())

	callCount := 0
	router.GET("/products", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"message": "test", "count": callCount})
	})

	w1 := get(router, "/products")
	Expect(w1.Code).To(Equal(200))
	Expect(w1.Header().Get("X-Cache")).To(Equal("MISS"))

	var body map[string]any
	Expect(json.Unmarshal(w1.Body.Bytes(), &body)).To(Succeed())
	Expect(body).To(HaveKeyWithValue("count", float64(1)))

	w2 := get(router, "/products")
	Expect(w2.Code).To(Equal(200))
	Expect(w2.Header().Get("X-Cache")).To(Equal("HIT"))
	Expect(w2.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
	Expect(w2.Body.String()).To(Equal(w1.Body.String()))
	Expect(callCount).To(Equal(1))
}

func TestResponseCacheMiddleware_Expiration(t *testing.T) {
	RegisterTestingT(t)
	cache := newTestCache(10 * time.Millisecond)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cache.CacheMiddleware())

	callCount := 0
	router.GET("/products", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"count": callCount})
	})

	get(router, "/products")
	Expect(get(router, "/products").Header().Get("X-Cache")).To(Equal("HIT"))

	time.Sleep(20 * time.Millisecond)

	Expect(get(router, "/products").Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(callCount).To(Equal(2))
}

func TestResponseCacheMiddleware_DifferentQueryParams(t *testing.T) {
	RegisterTestingT(t)
	cache := newTestCache(time.Second)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cache.CacheMiddleware())

	callCount := 0
	router.GET("/products", func(c *gin.Context) {
		callCount++
		c.JSON(200, gin.H{"limit": c.Query("limit")})
	})

	get(router, "/products?limit=1")
	Expect(get(router, "/products?limit=2").Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(get(router, "/products?limit=1").Header().Get("X-Cache")).To(Equal("HIT"))
	Expect(callCount).To(Equal(2))
}

func TestResponseCacheMiddleware_ErrorsAreNotCached(t *testing.T) {
	RegisterTestingT(t)
	cache := newTestCache(time.Second)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cache.CacheMiddleware())

	callCount := 0
	router.GET("/products/:uuid", func(c *gin.Context) {
		callCount++
		c.JSON(404, gin.H{"error": "not found"})
	})

	get(router, "/products/abc")
	get(router, "/products/abc")

	Expect(callCount).To(Equal(2))
}

func TestResponseCacheMiddleware_WriteInvalidatesNestedRoutes(t *testing.T) {
	RegisterTestingT(t)
	cache := newTestCache(time.Minute)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cache.CacheMiddleware())

	listCalls, showCalls := 0, 0
	router.GET("/products", func(c *gin.Context) {
		listCalls++
		c.JSON(200, gin.H{"count": listCalls})
	})
	router.GET("/products/:uuid", func(c *gin.Context) {
		showCalls++
		c.JSON(200, gin.H{"count": showCalls})
	})
	router.POST("/products", func(c *gin.Context) {
		c.JSON(201, gin.H{})
	})

	get(router, "/products")
	get(router, "/products/abc")
	Expect(cache.GetStats()["active_entries"]).To(Equal(2))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/products", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(201))

	Expect(get(router, "/products").Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(get(router, "/products/abc").Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(listCalls).To(Equal(2))
	Expect(showCalls).To(Equal(2))
}

func TestResponseCache_InvalidateAllCache(t *testing.T) {
	RegisterTestingT(t)
	cache := newTestCache(time.Minute)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cache.CacheMiddleware())
	router.GET("/products", func(c *gin.Context) {
		c.JSON(200, gin.H{})
	})

	get(router, "/products")
	cache.InvalidateAllCache()

	Expect(cache.GetStats()["active_entries"]).To(Equal(0))
}
