package config

import (
	"testing"

	"github.com/templui/blogfeed/internal/model"
)

func validConfig() *Config {
	return &Config{
		AppEnv:          "production",
		AppURL:          "https://example.com",
		PostsPerPage:    10,
		MalformedPolicy: "abort",
		S3SecretKey:     "secret",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"development", func(c *Config) { c.AppEnv = "development" }, false},
		{"unknown env", func(c *Config) { c.AppEnv = "qa" }, true},
		{"zero page size", func(c *Config) { c.PostsPerPage = 0 }, true},
		{"skip policy", func(c *Config) { c.MalformedPolicy = "skip" }, false},
		{"unknown policy", func(c *Config) { c.MalformedPolicy = "ignore" }, true},
		{"copyright year", func(c *Config) { c.CopyrightYear = 2021 }, false},
		{"negative copyright year", func(c *Config) { c.CopyrightYear = -1 }, true},
	}
	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestRenderContext(t *testing.T) {
	cfg := validConfig()
	if cfg.RenderContext().ShowDrafts() {
		t.Error("production config should hide drafts")
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction should be true")
	}

	cfg.AppEnv = "development"
	if cfg.RenderContext().Mode != model.Development {
		t.Errorf("Mode = %v, want development", cfg.RenderContext().Mode)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment should be true")
	}
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg := validConfig()
	safe := cfg.Sanitized()
	if safe.S3SecretKey != "" {
		t.Error("Sanitized leaked S3SecretKey")
	}
	if safe.AppURL != cfg.AppURL {
		t.Errorf("AppURL = %q, want %q", safe.AppURL, cfg.AppURL)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("BLOG_TEST_INT", "7")
	t.Setenv("BLOG_TEST_BAD_INT", "seven")
	t.Setenv("BLOG_TEST_BOOL", "false")

	if got := envInt("BLOG_TEST_INT", 1); got != 7 {
		t.Errorf("envInt = %d, want 7", got)
	}
	if got := envInt("BLOG_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("envInt with bad value = %d, want default 1", got)
	}
	if got := envBool("BLOG_TEST_BOOL", true); got {
		t.Error("envBool = true, want false")
	}
	if got := envString("BLOG_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("envString = %q, want fallback", got)
	}
}
