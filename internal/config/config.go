package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env             string        `yaml:"env" env:"APP_ENV"`
	ListenAddr      string        `yaml:"listen_addr" env:"LISTEN_ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	BaseURL         string        `yaml:"base_url" env:"APP_URL"` // public origin used to build asset URLs

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	PrettyLog bool   `yaml:"pretty_log" env:"PRETTY_LOG"`

	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	Visits   VisitsConfig   `yaml:"visits"`
	Mail     MailConfig     `yaml:"mail"`

	// Frontend origins allowed by CORS.
	FrontendURLs []string `yaml:"frontend_urls"`
	FrontendURL  string   `yaml:"-" env:"FRONTEND_URL"`
	FrontendURL2 string   `yaml:"-" env:"FRONTEND_URL2"`

	// Static frontend rebuild hook, called after admin writes. Empty disables it.
	RevalidationURL    string `yaml:"revalidation_url" env:"NEXT_REVALIDATION_URL"`
	RevalidationSecret string `yaml:"revalidation_secret" env:"REVALIDATION_SECRET"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER"` // sqlite | postgres | mysql
	DSN    string `yaml:"dsn" env:"DB_DSN"`
}

type StorageConfig struct {
	Root               string `yaml:"root" env:"STORAGE_ROOT"`
	MaxImageBytes      int64  `yaml:"max_image_bytes" env:"UPLOAD_MAX_IMAGE_BYTES"`
	MaxThumbnailBytes  int64  `yaml:"max_thumbnail_bytes" env:"UPLOAD_MAX_THUMBNAIL_BYTES"`
	MaxMultipartMemory int64  `yaml:"max_multipart_memory" env:"UPLOAD_MAX_MEMORY"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL      time.Duration `yaml:"token_ttl" env:"JWT_TTL"`
	AdminEmail    string        `yaml:"admin_email" env:"ADMIN_EMAIL"`
	AdminPassword string        `yaml:"admin_password" env:"ADMIN_PASSWORD"`
	AdminName     string        `yaml:"admin_name" env:"ADMIN_NAME"`
	LoginBurst    int           `yaml:"login_burst" env:"LOGIN_RATE_BURST"`
	LoginPerMin   int           `yaml:"login_per_min" env:"LOGIN_RATE_PER_MIN"`
}

type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl" env:"CACHE_TTL"`
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"` // empty keeps the in-memory cache
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB"`
}

type VisitsConfig struct {
	ExcludedPrefixes []string `yaml:"excluded_prefixes" env:"VISIT_EXCLUDED_PREFIXES" envSeparator:","`
	CountryHeader    string   `yaml:"country_header" env:"VISIT_COUNTRY_HEADER"`
	TrustProxy       bool     `yaml:"trust_proxy" env:"TRUST_PROXY"`
	QueueSize        int      `yaml:"queue_size" env:"VISIT_QUEUE_SIZE"`
}

// MailConfig enables contact notifications when Host and To are set.
type MailConfig struct {
	Host     string `yaml:"host" env:"MAIL_HOST"`
	Port     int    `yaml:"port" env:"MAIL_PORT"`
	Username string `yaml:"username" env:"MAIL_USERNAME"`
	Password string `yaml:"password" env:"MAIL_PASSWORD"`
	From     string `yaml:"from" env:"MAIL_FROM_ADDRESS"`
	To       string `yaml:"to" env:"MAIL_TO"`
}

// Default returns the configuration used when neither a YAML file nor the
// environment says otherwise.
func Default() *Config {
	return &Config{
		Env:             "development",
		ListenAddr:      ":8081",
		ShutdownTimeout: 10 * time.Second,
		BaseURL:         "http://localhost:8081",
		LogLevel:        "info",
		PrettyLog:       true,
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "database/portfolio.db",
		},
		Storage: StorageConfig{
			Root:               "storage/app/public",
			MaxImageBytes:      2 << 20,
			MaxThumbnailBytes:  5 << 20,
			MaxMultipartMemory: 8 << 20,
		},
		Auth: AuthConfig{
			TokenTTL:    24 * time.Hour,
			AdminName:   "Admin",
			LoginBurst:  5,
			LoginPerMin: 5,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Visits: VisitsConfig{
			ExcludedPrefixes: []string{"dashboard", "admin", "storage", "build", "healthz", "readyz"},
			CountryHeader:    "CF-IPCountry",
			QueueSize:        256,
		},
		Mail: MailConfig{
			Port: 587,
		},
	}
}

// Load reads .env (if present), then the optional YAML file named by
// PORTFOLIO_CONFIG_FILE, then the environment. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("PORTFOLIO_CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.FrontendURLs = mergeOrigins(cfg.FrontendURLs, cfg.FrontendURL, cfg.FrontendURL2)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DB_DSN is required")
	}
	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.Auth.JWTSecret = "development-secret"
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0, got %v", c.Auth.TokenTTL)
	}
	if c.Storage.MaxImageBytes <= 0 || c.Storage.MaxThumbnailBytes <= 0 {
		return errors.New("upload size limits must be > 0")
	}
	if c.Mail.Host != "" && (c.Mail.Port <= 0 || c.Mail.Port > 65535) {
		return fmt.Errorf("MAIL_PORT out of range: %d", c.Mail.Port)
	}
	return nil
}

func mergeOrigins(base []string, extra ...string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, o := range append(append([]string{}, base...), extra...) {
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}
