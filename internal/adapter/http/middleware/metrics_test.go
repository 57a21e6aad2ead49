package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/adapter/logger"
	"storefront/internal/core/telemetry"
)

func TestMetricsAndLoggingMiddleware(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CurrentMiddleware())
	router.Use(LoggingMiddleware(logger.NewNop()))
	router.Use(MetricsMiddleware(metrics))
	router.GET("/products/:uuid", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/abc", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusNotFound))

	families, err := registry.Gather()
	Expect(err).ToNot(HaveOccurred())

	var labels map[string]string
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}

		for _, metric := range family.GetMetric() {
			labels = map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
		}
	}

	Expect(labels).To(HaveKeyWithValue("status", "404"))
	Expect(labels).To(HaveKeyWithValue("path", "/products/:uuid"))
}

func TestCORSMiddleware(t *testing.T) {
	RegisterTestingT(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware())
	router.POST("/products", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/products", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusNoContent))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
}
