package config

import (
	"strings"
	"testing"
)

func setRequiredEnvs(t *testing.T) {
	t.Helper()
	t.Setenv("DATA_DIR", "/tmp/movielens")
}

func TestLoadSuccess(t *testing.T) {
	setRequiredEnvs(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "30")
	t.Setenv("CHART_WIDTH", "1280")
	t.Setenv("CHART_HEIGHT", "480")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.DataDir != "/tmp/movielens" {
		t.Fatalf("DataDir = %s, want /tmp/movielens", cfg.DataDir)
	}
	if cfg.ReadTimeoutSecs != 30 {
		t.Fatalf("ReadTimeoutSecs = %d, want 30", cfg.ReadTimeoutSecs)
	}
	if cfg.ChartWidth != 1280 {
		t.Fatalf("ChartWidth = %d, want 1280", cfg.ChartWidth)
	}
	if cfg.ChartHeight != 480 {
		t.Fatalf("ChartHeight = %d, want 480", cfg.ChartHeight)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnvs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.ChartWidth != 960 || cfg.ChartHeight != 400 {
		t.Fatalf("chart size = %dx%d, want 960x400", cfg.ChartWidth, cfg.ChartHeight)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T)
		wantErr string
	}{
		{
			name: "missing data dir",
			setup: func(t *testing.T) {
				t.Setenv("DATA_DIR", "")
			},
			wantErr: "DATA_DIR",
		},
		{
			name: "negative read timeout",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("SERVER_READ_TIMEOUT", "-1")
			},
			wantErr: "SERVER_READ_TIMEOUT",
		},
		{
			name: "chart width too small",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("CHART_WIDTH", "100")
			},
			wantErr: "CHART_WIDTH",
		},
		{
			name: "chart height too large",
			setup: func(t *testing.T) {
				setRequiredEnvs(t)
				t.Setenv("CHART_HEIGHT", "9000")
			},
			wantErr: "CHART_HEIGHT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}
