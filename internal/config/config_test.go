package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:5000" {
		t.Errorf("Expected validated default backend URL, got %s", cfg.BackendURL)
	}
	if cfg.ListingPageSize != 10 {
		t.Errorf("Expected default page size 10, got %d", cfg.ListingPageSize)
	}
	if cfg.RefreshInterval != 14*time.Minute {
		t.Errorf("Expected default refresh interval 14m, got %s", cfg.RefreshInterval)
	}
	if cfg.MaxInactivity != 60*time.Minute {
		t.Errorf("Expected default inactivity cutoff 60m, got %s", cfg.MaxInactivity)
	}
	if !cfg.IsDevelopment() {
		t.Error("Expected development environment by default")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND_URL", "https://api.konnect.example.com")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LISTING_PAGE_SIZE", "25")
	t.Setenv("SESSION_REFRESH_INTERVAL", "10m")
	t.Setenv("SESSION_MAX_INACTIVITY", "45m")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.BackendURL != "https://api.konnect.example.com" {
		t.Errorf("Unexpected backend URL: %s", cfg.BackendURL)
	}
	if !cfg.IsProduction() {
		t.Error("Expected production environment")
	}
	if cfg.ListingPageSize != 25 {
		t.Errorf("Expected page size 25, got %d", cfg.ListingPageSize)
	}
	if cfg.RefreshInterval != 10*time.Minute {
		t.Errorf("Expected refresh interval 10m, got %s", cfg.RefreshInterval)
	}
	if cfg.MaxInactivity != 45*time.Minute {
		t.Errorf("Expected inactivity cutoff 45m, got %s", cfg.MaxInactivity)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("LISTING_PAGE_SIZE", "not-a-number")
	t.Setenv("SESSION_REFRESH_INTERVAL", "forever")

	cfg := Load()

	if cfg.ListingPageSize != 10 {
		t.Errorf("Expected fallback page size, got %d", cfg.ListingPageSize)
	}
	if cfg.RefreshInterval != 14*time.Minute {
		t.Errorf("Expected fallback refresh interval, got %s", cfg.RefreshInterval)
	}
}

func TestValidate_ClampsPageSize(t *testing.T) {
	cfg := &Config{ListingPageSize: -5}
	cfg.Validate()
	if cfg.ListingPageSize != 10 {
		t.Errorf("Expected page size clamped to 10, got %d", cfg.ListingPageSize)
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cases := []struct {
		env  string
		prod bool
		dev  bool
	}{
		{"production", true, false},
		{"prod", true, false},
		{"development", false, true},
		{"dev", false, true},
		{"", false, true},
		{"staging", false, false},
	}
	for _, tt := range cases {
		cfg := &Config{Environment: tt.env}
		if cfg.IsProduction() != tt.prod {
			t.Errorf("IsProduction(%q) = %v, want %v", tt.env, cfg.IsProduction(), tt.prod)
		}
		if cfg.IsDevelopment() != tt.dev {
			t.Errorf("IsDevelopment(%q) = %v, want %v", tt.env, cfg.IsDevelopment(), tt.dev)
		}
	}
}
