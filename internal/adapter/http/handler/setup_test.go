package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/adapter/database"
	server "storefront/internal/adapter/http"
	"storefront/internal/adapter/http/routes"
	"storefront/internal/adapter/logger"
	"storefront/internal/adapter/session"
	"storefront/internal/core/port"
	"storefront/internal/core/telemetry"
	"storefront/pkg/config"
	. "storefront/pkg/test"
)

type testApp struct {
	DB        *database.DB
	Store     port.SessionStore
	Container *server.Container
	Router    *gin.Engine
	Config    *config.AppConfig
}

func newTestApp(mutate ...func(*config.AppConfig)) *testApp {
	gin.SetMode(gin.TestMode)

	cfg := config.GetDefaultConfig()
	cfg.RateLimit.Enabled = false
	cfg.Cache.Enabled = false
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Cursor.Secret = "test-cursor-secret"

	for _, fn := range mutate {
		fn(cfg)
	}

	db := InitTestDB()
	store := session.NewMemoryStore(time.Hour)
	log := logger.NewNop()

	container := server.NewContainer(db, cfg, log, telemetry.NewNoOpProbe())
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())

	router := routes.SetupRouterWithConfig(container.Handlers(), container.Dependencies(store, metrics, log), cfg)

	return &testApp{
		DB:        db,
		Store:     store,
		Container: container,
		Router:    router,
		Config:    cfg,
	}
}

func (a *testApp) Close() {
	a.Store.Close()
	a.DB.Close()
}

// request sends body as JSON unless contentType says otherwise.
func (a *testApp) request(method, path, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, fn := range mutate {
		fn(req)
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	return rr
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(cookie *http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(cookie)
	}
}

func asForm(r *http.Request) {
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var data T
	json.Unmarshal(rr.Body.Bytes(), &data)
	return data
}

func errorMessages(rr *httptest.ResponseRecorder) map[string][]string {
	body := decode[struct {
		Error struct {
			Code   string `json:"code"`
			Errors []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"errors"`
		} `json:"error"`
	}](rr)

	messages := map[string][]string{}
	for _, e := range body.Error.Errors {
		messages[e.Field] = append(messages[e.Field], e.Message)
	}

	return messages
}
