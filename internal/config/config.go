package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string `env:"APP_ENV" env-default:"development"`
	ServerAddr string `env:"SERVER_ADDR" env-default:":5001"`

	MongoURI                    string        `env:"MONGODB_URI" env-default:"mongodb://localhost:27017/portfolio"`
	MongoDB                     string        `env:"MONGODB_DB"`
	MongoMaxPoolSize            uint64        `env:"MONGODB_MAX_POOL_SIZE" env-default:"10"`
	MongoServerSelectionTimeout time.Duration `env:"MONGODB_SERVER_SELECTION_TIMEOUT" env-default:"5s"`
	MongoSocketTimeout          time.Duration `env:"MONGODB_SOCKET_TIMEOUT" env-default:"45s"`

	FrontendOrigins []string `env:"FRONTEND_ORIGINS" env-separator:"," env-default:"http://localhost:8080,http://localhost:8081,http://127.0.0.1:8080,http://127.0.0.1:8081"`

	// Per-client limits are opt-in anti-spam; 0 leaves the route unlimited.
	RateLimitContact   int           `env:"RATE_LIMIT_CONTACT" env-default:"0"`
	RateLimitLikes     int           `env:"RATE_LIMIT_LIKES" env-default:"0"`
	RateLimitWindow    time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_SIZE" env-default:"10485760"`

	RedisURL      string        `env:"REDIS_URL"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" env-default:"1m"`

	// Admin routes stay open unless one of these is set.
	AdminKeyHash  string        `env:"ADMIN_KEY_HASH"`
	JWTSecret     string        `env:"JWT_SECRET"`
	JWTIssuer     string        `env:"JWT_ISSUER" env-default:"portfolio-backend"`
	AdminTokenTTL time.Duration `env:"ADMIN_TOKEN_TTL" env-default:"24h"`

	BrevoAPIKey      string        `env:"BREVO_API_KEY"`
	BrevoSenderEmail string        `env:"BREVO_SENDER_EMAIL"`
	BrevoSenderName  string        `env:"BREVO_SENDER_NAME" env-default:"Portfolio"`
	BrevoSandbox     bool          `env:"BREVO_SANDBOX" env-default:"false"`
	NotifyRecipient  string        `env:"NOTIFY_RECIPIENT"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" env-default:"10s"`

	TZ        string `env:"TZ" env-default:"UTC"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`

	Timezone *time.Location `env:"-"`
}

func Load() (*Config, error) {
	// A missing .env is fine; real environment variables always win.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		return nil, fmt.Errorf("config: load timezone %q: %w", cfg.TZ, err)
	}
	cfg.Timezone = loc

	if cfg.MongoDB == "" {
		cfg.MongoDB = mongoDBFromURI(cfg.MongoURI)
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "portfolio"
	}

	if cfg.NotifyRecipient == "" {
		cfg.NotifyRecipient = cfg.BrevoSenderEmail
	}

	origins := cfg.FrontendOrigins[:0]
	for _, o := range cfg.FrontendOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.FrontendOrigins = origins

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	// mongodb URIs sometimes include extra path segments; we only support the first one as db name.
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
