package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const EnvPrefix = "STOREFRONT_"

type AppConfig struct {
	Env       string          `koanf:"env"`
	HTTP      HTTPConfig      `koanf:"http"`
	Database  DatabaseConfig  `koanf:"database"`
	Session   SessionConfig   `koanf:"session"`
	Auth      AuthConfig      `koanf:"auth"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Cache     CacheConfig     `koanf:"cache"`
	Cursor    CursorConfig    `koanf:"cursor"`
}

type HTTPConfig struct {
	Port         string        `koanf:"port"`
	EnforceHTTPS bool          `koanf:"enforcehttps"`
	ReadTimeout  time.Duration `koanf:"readtimeout"`
	WriteTimeout time.Duration `koanf:"writetimeout"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver          string        `koanf:"driver"`
	Path            string        `koanf:"path"`
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"maxopenconns"`
	MaxIdleConns    int           `koanf:"maxidleconns"`
	ConnMaxLifetime time.Duration `koanf:"connmaxlifetime"`
	LogQueries      bool          `koanf:"logqueries"`
}

type SessionConfig struct {
	// Store is "memory" or "redis".
	Store         string        `koanf:"store"`
	CookieName    string        `koanf:"cookiename"`
	TTL           time.Duration `koanf:"ttl"`
	Secure        bool          `koanf:"secure"`
	RedisAddr     string        `koanf:"redisaddr"`
	RedisPassword string        `koanf:"redispassword"`
	RedisDB       int           `koanf:"redisdb"`
}

type AuthConfig struct {
	JWTSecret  string        `koanf:"jwtsecret"`
	TokenTTL   time.Duration `koanf:"tokenttl"`
	BcryptCost int           `koanf:"bcryptcost"`
}

type TelemetryConfig struct {
	Enabled        bool   `koanf:"enabled"`
	ServiceName    string `koanf:"servicename"`
	ServiceVersion string `koanf:"serviceversion"`
	MetricsPort    string `koanf:"metricsport"`
	OTLPEndpoint   string `koanf:"otlpendpoint"`
	LokiURL        string `koanf:"lokiurl"`
}

type RateLimitConfig struct {
	Enabled bool                  `koanf:"enabled"`
	Routes  map[string]RouteLimit `koanf:"routes"`
}

// RouteLimit is keyed by "METHOD /path", a bare path, or "default".
type RouteLimit struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	PerUser  bool          `koanf:"peruser"`
}

type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

type CursorConfig struct {
	Secret string `koanf:"secret"`
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Env: "development",
		HTTP: HTTPConfig{
			Port:         "8080",
			EnforceHTTPS: false,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Path:            "storefront.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Session: SessionConfig{
			Store:      "memory",
			CookieName: "_storefront_session",
			TTL:        24 * time.Hour,
			RedisAddr:  "localhost:6379",
		},
		Auth: AuthConfig{
			JWTSecret:  "change-me",
			TokenTTL:   24 * time.Hour,
			BcryptCost: 10,
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			ServiceName:    "storefront",
			ServiceVersion: "1.0.0",
			MetricsPort:    "9091",
			OTLPEndpoint:   "localhost:4317",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Routes: map[string]RouteLimit{
				"POST /signup":     {Requests: 5, Window: time.Minute},
				"POST /auth":       {Requests: 10, Window: time.Minute},
				"POST /login":      {Requests: 10, Window: time.Minute},
				"GET /products":    {Requests: 100, Window: time.Minute},
				"POST /products":   {Requests: 20, Window: time.Minute, PerUser: true},
				"POST /categories": {Requests: 20, Window: time.Minute, PerUser: true},
				"default":          {Requests: 60, Window: time.Minute},
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Second,
		},
		Cursor: CursorConfig{
			Secret: "change-me",
		},
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// Load layers the YAML file at path (skipped when empty or missing) and
// STOREFRONT_* environment variables over the defaults.
func Load(path string) (*AppConfig, error) {
	return load(path, os.Environ)
}

func load(path string, environ func() []string) (*AppConfig, error) {
	cfg := GetDefaultConfig()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "read config %s failed", path)
			}
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	return cfg, nil
}

// envKey maps STOREFRONT_SESSION_REDIS_ADDR to session.redisaddr.
func envKey(k, v string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))

	section, rest, found := strings.Cut(key, "_")
	if !found {
		return section, v
	}

	return section + "." + strings.ReplaceAll(rest, "_", ""), v
}
