package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ASSET_TIMEOUT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Fatalf("expected memory store by default, got %q", cfg.StoreDriver)
	}
	if cfg.AssetTimeout != 0 {
		t.Fatalf("expected no asset timeout by default, got %v", cfg.AssetTimeout)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("PDF_COMPRESSION", "false")
	t.Setenv("ASSET_TIMEOUT", "15")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StoreMongo {
		t.Fatalf("expected mongo store, got %q", cfg.StoreDriver)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.PDFCompression {
		t.Fatalf("expected compression disabled")
	}
	if cfg.AssetTimeout != 15*time.Second {
		t.Fatalf("expected 15s asset timeout, got %v", cfg.AssetTimeout)
	}
}

func TestCheckStaffAuth(t *testing.T) {
	cases := []struct {
		name   string
		hash   string
		secret string
		want   error
	}{
		{"login disabled", "", "", nil},
		{"placeholder secret", "$2a$10$hash", DefaultJWTSecret, ErrInsecureJWTSecret},
		{"blank secret", "$2a$10$hash", "  ", ErrInsecureJWTSecret},
		{"private secret", "$2a$10$hash", "s3cr3t-value", nil},
	}
	for _, tc := range cases {
		cfg := &Config{StaffPasswordHash: tc.hash, JWTSecret: tc.secret}
		if err := cfg.CheckStaffAuth(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoadConfigDefaultSecretRefusedWithLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STAFF_PASSWORD_HASH", "$2a$10$hash")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.CheckStaffAuth(); !errors.Is(err, ErrInsecureJWTSecret) {
		t.Fatalf("expected ErrInsecureJWTSecret, got %v", err)
	}
}
