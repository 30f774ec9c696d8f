package config_test

import (
	"log/slog"
	"testing"

	"github.com/km-arc/go-slate/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load("does-not-exist.env")

	if cfg.Env != "local" {
		t.Errorf("env: got %q want local", cfg.Env)
	}
	if cfg.Debug || cfg.Strict {
		t.Error("debug and strict must default to false")
	}
	if cfg.InspectAddr != "" {
		t.Errorf("inspect addr: got %q want empty", cfg.InspectAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level: got %v want info", cfg.LogLevel)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SLATE_ENV", "testing")
	t.Setenv("SLATE_STRICT", "true")
	t.Setenv("SLATE_INSPECT_ADDR", ":9921")
	t.Setenv("SLATE_LOG_LEVEL", "debug")

	cfg := config.Load("does-not-exist.env")

	if cfg.Env != "testing" {
		t.Errorf("env: got %q", cfg.Env)
	}
	if !cfg.Strict {
		t.Error("strict: got false")
	}
	if cfg.InspectAddr != ":9921" {
		t.Errorf("inspect addr: got %q", cfg.InspectAddr)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level: got %v", cfg.LogLevel)
	}
}

func TestGetters(t *testing.T) {
	t.Setenv("SLATE_WORKERS", "7")
	t.Setenv("SLATE_FLAG", "yes-but-invalid")

	if got := config.Get("SLATE_MISSING", "fallback"); got != "fallback" {
		t.Errorf("Get: got %q", got)
	}
	if got := config.GetInt("SLATE_WORKERS", 1); got != 7 {
		t.Errorf("GetInt: got %d", got)
	}
	if got := config.GetInt("SLATE_MISSING", 3); got != 3 {
		t.Errorf("GetInt fallback: got %d", got)
	}
	if got := config.GetBool("SLATE_FLAG", true); got != true {
		t.Error("GetBool must fall back on unparsable values")
	}
}
