package db

import (
	"strings"
	"testing"
)

func TestNormalizeDSN(t *testing.T) {
	got, err := normalizeDSN("postgres://u:p@localhost:5432/royal?sslmode=disable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "binary_parameters=no") || !strings.Contains(got, "sslmode=disable") {
		t.Fatalf("expected both query params, got %q", got)
	}

	kv := "user=postgres password=postgres dbname=postgres sslmode=disable"
	got, err = normalizeDSN(kv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != kv {
		t.Fatalf("expected key=value DSN untouched, got %q", got)
	}
}

func TestRunMigrationsNilConn(t *testing.T) {
	if err := RunMigrations(nil); err == nil {
		t.Fatal("expected error for nil connection")
	}
}
