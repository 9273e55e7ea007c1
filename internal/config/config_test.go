package config_test

import (
	"testing"
	"time"

	"nfsft/internal/config"
	"nfsft/internal/ledger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("output dir = %q, want output", cfg.OutputDir)
	}
	if cfg.ReportPeriod != "2025-01" {
		t.Errorf("report period = %q, want 2025-01", cfg.ReportPeriod)
	}
	if cfg.AmountTolerance != 0.01 {
		t.Errorf("tolerance = %v, want 0.01", cfg.AmountTolerance)
	}
	if !cfg.SDIStrict {
		t.Error("SDI strict should default to true")
	}
	if cfg.RunRetention != time.Hour {
		t.Errorf("run retention = %v, want 1h", cfg.RunRetention)
	}
	if cfg.KeyMode() != ledger.KeyStrict {
		t.Error("key mode should be strict by default")
	}
	if cfg.Period().Label() != "2025-01" {
		t.Errorf("period label = %q", cfg.Period().Label())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REPORT_PERIOD", "2025-03")
	t.Setenv("AMOUNT_TOLERANCE", "0.05")
	t.Setenv("SDI_STRICT", "false")
	t.Setenv("RUN_RETENTION", "30m")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Period().Label() != "2025-03" {
		t.Errorf("period = %q, want 2025-03", cfg.Period().Label())
	}
	if cfg.AmountTolerance != 0.05 {
		t.Errorf("tolerance = %v, want 0.05", cfg.AmountTolerance)
	}
	if cfg.KeyMode() != ledger.KeyLoose {
		t.Error("key mode should be loose when SDI_STRICT=false")
	}
	if cfg.RunRetention != 30*time.Minute {
		t.Errorf("run retention = %v, want 30m", cfg.RunRetention)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"REPORT_PERIOD", "gennaio"},
		{"AMOUNT_TOLERANCE", "many"},
		{"AMOUNT_TOLERANCE", "-1"},
		{"SDI_STRICT", "maybe"},
		{"RUN_RETENTION", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := config.Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
