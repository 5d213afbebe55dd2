package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Production.DailyTarget != 1000 {
		t.Errorf("daily target = %d, want 1000", cfg.Production.DailyTarget)
	}
	if cfg.Production.BatchSize != 50 {
		t.Errorf("batch size = %d, want 50", cfg.Production.BatchSize)
	}
	if cfg.Production.GateSize != 10 {
		t.Errorf("gate size = %d, want 10", cfg.Production.GateSize)
	}
	if cfg.Inference.Timeout != 60*time.Second {
		t.Errorf("inference timeout = %v, want 60s", cfg.Inference.Timeout)
	}
	if cfg.Inference.Model != "llama3.1:8b" {
		t.Errorf("model = %q, want llama3.1:8b", cfg.Inference.Model)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled by default")
	}
	if !cfg.Stages.Voice || !cfg.Stages.Background || !cfg.Stages.Subtitles {
		t.Error("all stages should be enabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRODUCTION_DAILY_TARGET", "20")
	t.Setenv("PRODUCTION_GATE_SIZE", "3")
	t.Setenv("INFERENCE_BALANCER_URL", "http://balancer:9000")
	t.Setenv("VIDFORGE_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Production.DailyTarget != 20 {
		t.Errorf("daily target = %d, want 20", cfg.Production.DailyTarget)
	}
	if cfg.Production.GateSize != 3 {
		t.Errorf("gate size = %d, want 3", cfg.Production.GateSize)
	}
	if cfg.Inference.BalancerURL != "http://balancer:9000" {
		t.Errorf("balancer url = %q", cfg.Inference.BalancerURL)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Server.LogLevel)
	}
}

func TestDBPath(t *testing.T) {
	cfg := &Config{Server: ServerConfig{DataDir: "/data"}}
	want := filepath.Join("/data", "vidforge.db")
	if got := cfg.DBPath(); got != want {
		t.Errorf("DBPath() = %q, want %q", got, want)
	}
}
