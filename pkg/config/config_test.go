package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNKeepsExplicitValue(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://user:pass@db:5432/books"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	if cfg.DSN != "postgres://user:pass@db:5432/books" {
		t.Fatalf("DSN changed: %s", cfg.DSN)
	}
}

func TestEnsureDSNAssemblesFromParts(t *testing.T) {
	cfg := DBConfig{
		LegacyHost:     "localhost",
		LegacyPort:     5432,
		LegacyUser:     "books",
		LegacyPassword: "secret",
		LegacyName:     "inventory",
		LegacySSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	for _, want := range []string{"postgres://", "books:secret@localhost:5432", "/inventory", "sslmode=disable"} {
		if !strings.Contains(cfg.DSN, want) {
			t.Fatalf("DSN %q missing %q", cfg.DSN, want)
		}
	}
}

func TestEnsureDSNMissingParts(t *testing.T) {
	cfg := DBConfig{LegacyHost: "localhost"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error for missing DB settings")
	}
	if !strings.Contains(err.Error(), EnvDBUser) || !strings.Contains(err.Error(), EnvDBName) {
		t.Fatalf("error should name missing vars: %v", err)
	}
}
