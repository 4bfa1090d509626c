package builder

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvExtensionTarget  = "MUEDIT_EXTENSION_TARGET"
	EnvExtensionFactor  = "MUEDIT_EXTENSION_FACTOR"
	EnvDifferentialMode = "MUEDIT_DIFFERENTIAL"
	EnvBandPassEnabled  = "MUEDIT_BANDPASS"
	EnvBandPassLowHz    = "MUEDIT_BANDPASS_LOW_HZ"
	EnvBandPassHighHz   = "MUEDIT_BANDPASS_HIGH_HZ"
	EnvBandPassOrder    = "MUEDIT_BANDPASS_ORDER"
	EnvEdgeTrim         = "MUEDIT_EDGE_TRIM"
	EnvMinPeakDistance  = "MUEDIT_MIN_PEAK_DISTANCE"
	EnvTopK             = "MUEDIT_TOP_K"
	EnvClusterSeed      = "MUEDIT_CLUSTER_SEED"
	EnvClusterRestarts  = "MUEDIT_CLUSTER_RESTARTS"
	EnvClusterMaxIter   = "MUEDIT_CLUSTER_MAX_ITER"
	EnvBandThreshold    = "MUEDIT_BAND_THRESHOLD"
	EnvMaxDeletions     = "MUEDIT_MAX_DELETIONS"
	EnvIED              = "MUEDIT_IED"
)

// EnvOr returns the trimmed env value or def when empty.
func EnvOr(key, def string) string {
	v := strings.TrimSpace(strings.Trim(os.Getenv(key), `"`))
	if v == "" {
		return def
	}
	return v
}

// EnvIntOr returns the parsed int env value or def on empty/parse failure.
func EnvIntOr(key string, def int) int {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvFloatOr returns the parsed float env value or def on empty/parse failure.
func EnvFloatOr(key string, def float64) float64 {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// EnvBoolOr accepts the strconv.ParseBool spellings.
func EnvBoolOr(key string, def bool) bool {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvDurationOr parses a Go duration ("100ms", "5ms").
func EnvDurationOr(key string, def time.Duration) time.Duration {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// ConfigFromEnv starts from the default recalculation constants and
// overrides every one that has a MUEDIT_* variable set.
func ConfigFromEnv() types.RecalcConfig {
	cfg := types.DefaultRecalcConfig()

	cfg.ExtensionTarget = EnvIntOr(EnvExtensionTarget, cfg.ExtensionTarget)
	cfg.ExtensionFactor = EnvIntOr(EnvExtensionFactor, cfg.ExtensionFactor)
	cfg.DifferentialMode = EnvBoolOr(EnvDifferentialMode, cfg.DifferentialMode)

	cfg.BandPass.Disabled = !EnvBoolOr(EnvBandPassEnabled, !cfg.BandPass.Disabled)
	cfg.BandPass.LowHz = EnvFloatOr(EnvBandPassLowHz, cfg.BandPass.LowHz)
	cfg.BandPass.HighHz = EnvFloatOr(EnvBandPassHighHz, cfg.BandPass.HighHz)
	cfg.BandPass.Order = EnvIntOr(EnvBandPassOrder, cfg.BandPass.Order)

	cfg.EdgeTrim = EnvDurationOr(EnvEdgeTrim, cfg.EdgeTrim)
	cfg.MinPeakDistance = EnvDurationOr(EnvMinPeakDistance, cfg.MinPeakDistance)
	cfg.TopK = EnvIntOr(EnvTopK, cfg.TopK)

	cfg.Cluster.Seed = int64(EnvIntOr(EnvClusterSeed, int(cfg.Cluster.Seed)))
	cfg.Cluster.Restarts = EnvIntOr(EnvClusterRestarts, cfg.Cluster.Restarts)
	cfg.Cluster.MaxIter = EnvIntOr(EnvClusterMaxIter, cfg.Cluster.MaxIter)

	cfg.BandThreshold = EnvFloatOr(EnvBandThreshold, cfg.BandThreshold)
	cfg.MaxDeletions = EnvIntOr(EnvMaxDeletions, cfg.MaxDeletions)
	cfg.IED = EnvFloatOr(EnvIED, cfg.IED)

	return cfg.WithDefaults()
}
