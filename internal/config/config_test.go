package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"FINDBUDDY_HOME": "/tmp/fb",
	}))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8001/api" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Storage.Kind != "file" {
		t.Errorf("Storage.Kind = %q, want file", cfg.Storage.Kind)
	}
	if want := filepath.Join("/tmp/fb", "session.json"); cfg.Storage.Path != want {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, want)
	}
	if want := filepath.Join("/tmp/fb", "findbuddy.log"); cfg.LogFile != want {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.Storage.RedisPrefix != "findbuddy:" {
		t.Errorf("RedisPrefix = %q", cfg.Storage.RedisPrefix)
	}
	if !cfg.Dev.Seed || cfg.Dev.Addr != ":8001" {
		t.Errorf("Dev = %+v", cfg.Dev)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"FINDBUDDY_HOME":    "/tmp/fb",
		"FINDBUDDY_API_URL": "https://api.example.com/api/",
		"FINDBUDDY_STORAGE": "sqlite",
		"FINDBUDDY_TIMEOUT": "5s",
		"FINDBUDDY_TRACING": "true",
	}))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if cfg.APIURL != "https://api.example.com/api" {
		t.Errorf("APIURL = %q, trailing slash should be trimmed", cfg.APIURL)
	}
	if want := filepath.Join("/tmp/fb", "session.db"); cfg.Storage.Path != want {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, want)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if !cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled = false")
	}
}

func TestLoad_BadStorage(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"FINDBUDDY_HOME":    "/tmp/fb",
		"FINDBUDDY_STORAGE": "etcd",
	}))
	if err == nil {
		t.Fatal("expected error for unknown storage kind")
	}
}

func TestLoad_BadTimeout(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"FINDBUDDY_TIMEOUT": "soon",
	}))
	if err == nil {
		t.Fatal("expected error for malformed duration")
	}
}
