package types

import (
	"math"
	"time"
)

// BandPassConfig configures the Butterworth band-pass applied to the raw
// signal before extension. The filter runs unless Disabled is set.
type BandPassConfig struct {
	Disabled bool
	LowHz    float64
	HighHz   float64
	Order    int
}

// ClusterConfig configures the amplitude k-means.
type ClusterConfig struct {
	Seed     int64
	Restarts int
	MaxIter  int
}

// RecalcConfig carries every tunable constant of the recalculation pipeline.
type RecalcConfig struct {
	ExtensionTarget  int // extended rows aimed for; factor = round(target/channels)
	ExtensionFactor  int // explicit factor; 0 derives it from ExtensionTarget
	DifferentialMode bool
	BandPass         BandPassConfig
	EdgeTrim         time.Duration // negative disables edge zeroing
	MinPeakDistance  time.Duration
	TopK             int
	Cluster          ClusterConfig
	BandThreshold    float64
	MaxDeletions     int
	IED              float64
}

const (
	DefaultExtensionTarget = 1000
	DefaultEdgeTrim        = 100 * time.Millisecond
	DefaultMinPeakDistance = 5 * time.Millisecond
	DefaultTopK            = 10
	DefaultBandThreshold   = 0.02
	DefaultMaxDeletions    = 10
	DefaultIED             = 8.75 // mm, grid 4-8-L
	DefaultGridName        = "4-8-L"
)

// DefaultRecalcConfig returns the reference constants.
func DefaultRecalcConfig() RecalcConfig {
	return RecalcConfig{
		ExtensionTarget: DefaultExtensionTarget,
		BandPass: BandPassConfig{
			LowHz:  20,
			HighHz: 500,
			Order:  2,
		},
		EdgeTrim:        DefaultEdgeTrim,
		MinPeakDistance: DefaultMinPeakDistance,
		TopK:            DefaultTopK,
		Cluster: ClusterConfig{
			Seed:     1,
			Restarts: 1,
			MaxIter:  300,
		},
		BandThreshold: DefaultBandThreshold,
		MaxDeletions:  DefaultMaxDeletions,
		IED:           DefaultIED,
	}
}

// WithDefaults fills zero fields from DefaultRecalcConfig. Steps are turned
// off explicitly: BandPass.Disabled skips the filter and a negative EdgeTrim
// skips edge zeroing. A zero Cluster.Seed takes the default seed.
func (c RecalcConfig) WithDefaults() RecalcConfig {
	def := DefaultRecalcConfig()
	if c.ExtensionTarget <= 0 {
		c.ExtensionTarget = def.ExtensionTarget
	}
	if c.BandPass.LowHz <= 0 {
		c.BandPass.LowHz = def.BandPass.LowHz
	}
	if c.BandPass.HighHz <= 0 {
		c.BandPass.HighHz = def.BandPass.HighHz
	}
	if c.BandPass.Order <= 0 {
		c.BandPass.Order = def.BandPass.Order
	}
	if c.EdgeTrim == 0 {
		c.EdgeTrim = def.EdgeTrim
	}
	if c.Cluster.Seed == 0 {
		c.Cluster.Seed = def.Cluster.Seed
	}
	if c.MinPeakDistance <= 0 {
		c.MinPeakDistance = def.MinPeakDistance
	}
	if c.TopK <= 0 {
		c.TopK = def.TopK
	}
	if c.Cluster.Restarts <= 0 {
		c.Cluster.Restarts = def.Cluster.Restarts
	}
	if c.Cluster.MaxIter <= 0 {
		c.Cluster.MaxIter = def.Cluster.MaxIter
	}
	if c.BandThreshold <= 0 {
		c.BandThreshold = def.BandThreshold
	}
	if c.MaxDeletions <= 0 {
		c.MaxDeletions = def.MaxDeletions
	}
	if c.IED <= 0 {
		c.IED = def.IED
	}
	return c
}

// Samples converts a duration to a sample count at fs. Halves round to even.
func Samples(d time.Duration, fs float64) int {
	return int(math.RoundToEven(d.Seconds() * fs))
}
