package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	clearSheetsEnv(t)
	t.Setenv("PEDIDOSYNC_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env dev, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.App.Port)
	}
	if cfg.Orders.Prefix != "REQ-" {
		t.Fatalf("unexpected order prefix %q", cfg.Orders.Prefix)
	}
	if cfg.Queue.Interval != 5*time.Second {
		t.Fatalf("expected 5s sync interval, got %v", cfg.Queue.Interval)
	}
	if cfg.Queue.Operator != "Pedido Mobile" {
		t.Fatalf("unexpected queue operator %q", cfg.Queue.Operator)
	}
}

func TestLoad_EnvCredentialsStripQuotes(t *testing.T) {
	clearSheetsEnv(t)
	t.Setenv(EnvSheetsCredentials, `  "{\"client_email\":\"svc@example.iam\"}"  `)
	t.Setenv(EnvSheetsURL, " https://docs.google.com/spreadsheets/d/abc123/edit ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Sheets.CredentialsJSON != `{\"client_email\":\"svc@example.iam\"}` {
		t.Fatalf("credentials not trimmed: %q", cfg.Sheets.CredentialsJSON)
	}
	if cfg.Sheets.URL != "https://docs.google.com/spreadsheets/d/abc123/edit" {
		t.Fatalf("url not trimmed: %q", cfg.Sheets.URL)
	}
}

func TestLoad_ConfigFileFallback(t *testing.T) {
	clearSheetsEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
  "sheets_credentials": {"client_email": "svc@example.iam", "private_key": "k"},
  "sheets_url": "https://docs.google.com/spreadsheets/d/file123/edit"
}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("PEDIDOSYNC_CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Sheets.URL != "https://docs.google.com/spreadsheets/d/file123/edit" {
		t.Fatalf("unexpected url %q", cfg.Sheets.URL)
	}
	if cfg.Sheets.CredentialsJSON == "" {
		t.Fatal("expected credentials from config file")
	}
}

func TestLoad_EnvWinsOverConfigFile(t *testing.T) {
	clearSheetsEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"sheets_credentials": {"client_email": "file@example.iam"}, "sheets_url": "https://docs.google.com/spreadsheets/d/file/edit"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("PEDIDOSYNC_CONFIG_FILE", path)
	t.Setenv(EnvSheetsURL, "https://docs.google.com/spreadsheets/d/env/edit")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Sheets.URL != "https://docs.google.com/spreadsheets/d/env/edit" {
		t.Fatalf("env var should win, got %q", cfg.Sheets.URL)
	}
	if cfg.Sheets.CredentialsJSON == "" {
		t.Fatal("missing credentials should still fall back to the file")
	}
}

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvSheetsCredentials, EnvSheetsURL,
		"SHEETS_CREDENTIALS", "SHEETS_URL",
		"PEDIDOSYNC_CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}
