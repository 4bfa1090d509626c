package meter

import "github.com/joeydtaylor/muedit/pkg/internal/types"

// WithLogger attaches loggers to the meter.
func WithLogger(loggers ...types.Logger) types.Option[*Meter] {
	return func(m *Meter) {
		m.ConnectLogger(loggers...)
	}
}

// WithComponentMetadata sets the meter name and id.
func WithComponentMetadata(name string, id string) types.Option[*Meter] {
	return func(m *Meter) {
		m.SetComponentMetadata(name, id)
	}
}

// WithResourceSampler replaces the gopsutil sampler. A nil sampler disables
// resource sampling.
func WithResourceSampler(sampler ResourceSampler) types.Option[*Meter] {
	return func(m *Meter) {
		m.sampler = sampler
	}
}

// WithInitialMetricCount sets an initial count for a specific metric.
func WithInitialMetricCount(metricName string, count uint64) types.Option[*Meter] {
	return func(m *Meter) {
		m.mu.Lock()
		m.counts[metricName] = count
		m.mu.Unlock()
	}
}
