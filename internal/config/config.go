package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/templui/blogfeed/internal/model"
)

type Config struct {
	// Application
	AppEnv string
	AppURL string
	Port   string

	// Site
	SiteTitle       string
	SiteDescription string
	SiteAuthor      string
	ShareImage      string
	ShareImageAlt   string
	ShowDate        bool
	PostsPerPage    int
	CopyrightYear   int // 0 leaves the year out of the footer

	// Content
	ContentPath     string
	PublicPath      string
	OutputPath      string
	MalformedPolicy string // "abort" or "skip"

	// Build manifest (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Observability (optional)
	SentryDSN string

	// Publish target (S3-compatible: AWS S3, MinIO, Cloudflare R2, etc.)
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3Endpoint     string // Optional: for S3-compatible services
	S3Prefix       string // Optional: key prefix inside the bucket
	S3TimeoutWrite time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv: envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL: envRequired("APP_URL"), // Required: canonical base URL for links, sitemap and feed
		Port:   envString("PORT", "8090"),

		SiteTitle:       envString("SITE_TITLE", "Blog"),
		SiteDescription: envString("SITE_DESCRIPTION", ""),
		SiteAuthor:      envString("SITE_AUTHOR", ""),
		ShareImage:      envString("SHARE_IMAGE", ""),
		ShareImageAlt:   envString("SHARE_IMAGE_ALT", ""),
		ShowDate:        envBool("SHOW_DATE", true),
		PostsPerPage:    envInt("POSTS_PER_PAGE", 10),
		CopyrightYear:   envInt("SITE_COPYRIGHT_YEAR", 0),

		ContentPath:     envString("CONTENT_PATH", "content/posts"),
		PublicPath:      envString("PUBLIC_PATH", "public"),
		OutputPath:      envString("OUTPUT_PATH", "out"),
		MalformedPolicy: envString("MALFORMED_POLICY", "abort"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/manifest.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:       envString("S3_REGION", "us-east-1"),
		S3Bucket:       envString("S3_BUCKET", ""),
		S3AccessKey:    envString("S3_ACCESS_KEY", ""),
		S3SecretKey:    envString("S3_SECRET_KEY", ""),
		S3Endpoint:     envString("S3_ENDPOINT", ""),
		S3Prefix:       envString("S3_PREFIX", ""),
		S3TimeoutWrite: envDuration("S3_TIMEOUT_WRITE", 30*time.Second),
	}

	err = cfg.Validate()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	_, err := model.ParseMode(c.AppEnv)
	if err != nil {
		return fmt.Errorf("APP_ENV: %w", err)
	}
	if c.PostsPerPage < 1 {
		return fmt.Errorf("POSTS_PER_PAGE must be at least 1, got %d", c.PostsPerPage)
	}
	if c.CopyrightYear < 0 {
		return fmt.Errorf("SITE_COPYRIGHT_YEAR must not be negative, got %d", c.CopyrightYear)
	}
	switch c.MalformedPolicy {
	case "abort", "skip":
	default:
		return fmt.Errorf("MALFORMED_POLICY must be abort or skip, got %q", c.MalformedPolicy)
	}
	return nil
}

// ValidatePublish ensures the publish target is configured.
func (c *Config) ValidatePublish() error {
	if c.S3Bucket == "" {
		return fmt.Errorf("publishing requires S3_BUCKET")
	}
	return nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	mode, _ := model.ParseMode(c.AppEnv)
	return mode == model.Development
}

func (c *Config) IsProduction() bool {
	return !c.IsDevelopment()
}

// RenderContext derives the explicit draft-visibility context from APP_ENV.
func (c *Config) RenderContext() model.RenderContext {
	mode, _ := model.ParseMode(c.AppEnv)
	return model.RenderContext{Mode: mode}
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx, templates and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppEnv: c.AppEnv,
		AppURL: c.AppURL,
		Port:   c.Port,

		SiteTitle:       c.SiteTitle,
		SiteDescription: c.SiteDescription,
		SiteAuthor:      c.SiteAuthor,
		ShareImage:      c.ShareImage,
		ShareImageAlt:   c.ShareImageAlt,
		ShowDate:        c.ShowDate,
		PostsPerPage:    c.PostsPerPage,
		CopyrightYear:   c.CopyrightYear,

		S3Endpoint: c.S3Endpoint,
	}
}
