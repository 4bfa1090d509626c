package builder

import (
	"testing"
	"time"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

func TestEnvOr(t *testing.T) {
	const key = "MUEDIT_TEST_ENV_OR"
	t.Setenv(key, "")
	if got := EnvOr(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	t.Setenv(key, `"  value  "`)
	if got := EnvOr(key, "fallback"); got != "value" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestEnvIntOr(t *testing.T) {
	const key = "MUEDIT_TEST_ENV_INT"
	t.Setenv(key, "")
	if got := EnvIntOr(key, 7); got != 7 {
		t.Fatalf("expected default int, got %d", got)
	}

	t.Setenv(key, "12")
	if got := EnvIntOr(key, 7); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}

	t.Setenv(key, "not-int")
	if got := EnvIntOr(key, 7); got != 7 {
		t.Fatalf("expected default on bad int, got %d", got)
	}
}

func TestEnvFloatBoolDuration(t *testing.T) {
	t.Setenv("MUEDIT_TEST_FLOAT", "0.5")
	t.Setenv("MUEDIT_TEST_BOOL", "false")
	t.Setenv("MUEDIT_TEST_DUR", "250ms")

	if got := EnvFloatOr("MUEDIT_TEST_FLOAT", 1); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := EnvBoolOr("MUEDIT_TEST_BOOL", true); got {
		t.Fatalf("expected false")
	}
	if got := EnvDurationOr("MUEDIT_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", got)
	}

	t.Setenv("MUEDIT_TEST_DUR", "soon")
	if got := EnvDurationOr("MUEDIT_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("expected default on bad duration, got %v", got)
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		EnvExtensionTarget, EnvExtensionFactor, EnvDifferentialMode,
		EnvBandPassEnabled, EnvBandPassLowHz, EnvBandPassHighHz, EnvBandPassOrder,
		EnvEdgeTrim, EnvMinPeakDistance, EnvTopK,
		EnvClusterSeed, EnvClusterRestarts, EnvClusterMaxIter,
		EnvBandThreshold, EnvMaxDeletions, EnvIED,
	} {
		t.Setenv(key, "")
	}
	got := ConfigFromEnv()
	want := types.DefaultRecalcConfig()
	if got != want {
		t.Fatalf("expected defaults %+v, got %+v", want, got)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvExtensionTarget, "500")
	t.Setenv(EnvBandPassEnabled, "false")
	t.Setenv(EnvEdgeTrim, "50ms")
	t.Setenv(EnvTopK, "5")
	t.Setenv(EnvClusterSeed, "42")
	t.Setenv(EnvBandThreshold, "0.05")
	t.Setenv(EnvMaxDeletions, "3")

	cfg := ConfigFromEnv()
	if cfg.ExtensionTarget != 500 {
		t.Fatalf("expected extension target 500, got %d", cfg.ExtensionTarget)
	}
	if !cfg.BandPass.Disabled {
		t.Fatalf("expected band-pass disabled")
	}
	if cfg.BandPass.LowHz != 20 || cfg.BandPass.HighHz != 500 {
		t.Fatalf("band edges should keep their defaults, got %+v", cfg.BandPass)
	}
	if cfg.EdgeTrim != 50*time.Millisecond {
		t.Fatalf("expected 50ms edge trim, got %v", cfg.EdgeTrim)
	}
	if cfg.TopK != 5 || cfg.Cluster.Seed != 42 || cfg.MaxDeletions != 3 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.BandThreshold != 0.05 {
		t.Fatalf("expected threshold 0.05, got %v", cfg.BandThreshold)
	}
}
