package meter

import (
	"runtime"
	"time"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// IncrementCount adds one to a counter.
func (m *Meter) IncrementCount(metricName string) {
	m.AddToCount(metricName, 1)
}

// AddToCount adds n to a counter, creating it when needed.
func (m *Meter) AddToCount(metricName string, n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[metricName] += n
}

// GetMetricCount returns the current value of a counter.
func (m *Meter) GetMetricCount(metricName string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[metricName]
}

// GetMetricPercentage returns the last recorded percentage of a metric.
func (m *Meter) GetMetricPercentage(metricName string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.percentages[metricName]
}

// GetDuration returns the last recorded duration of a timer.
func (m *Meter) GetDuration(metricName string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.durations[metricName]
}

func (m *Meter) StartTimer(metricName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startTimes[metricName] = time.Now()
}

// StopTimer records the time since StartTimer. Stopping the recalculation
// timer also accumulates into the total recalculation time.
func (m *Meter) StopTimer(metricName string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	startTime, exists := m.startTimes[metricName]
	if !exists {
		return 0
	}
	d := time.Since(startTime)
	delete(m.startTimes, metricName)
	m.durations[metricName] = d
	if metricName == types.MetricRecalculationTime {
		m.durations[types.MetricTotalRecalculationTime] += d
	}
	return d
}

// SampleResources records current and peak CPU and RAM usage plus the number
// of live goroutines. Sampler errors are logged and leave the previous values.
func (m *Meter) SampleResources() {
	if m.sampler == nil {
		return
	}
	cpuPct, ramPct, err := m.sampler()
	if err != nil {
		m.NotifyLoggers(types.WarnLevel, "Resource sampling failed",
			"component", m.componentMetadata,
			"event", "SampleResources",
			"result", "FAILURE",
			"error", err,
		)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.percentages[types.MetricCurrentCpuPercentage] = cpuPct
	m.percentages[types.MetricCurrentRamPercentage] = ramPct
	if cpuPct > m.percentages[types.MetricPeakCpuPercentage] {
		m.percentages[types.MetricPeakCpuPercentage] = cpuPct
	}
	if ramPct > m.percentages[types.MetricPeakRamPercentage] {
		m.percentages[types.MetricPeakRamPercentage] = ramPct
	}
	m.counts[types.MetricCurrentGoRoutinesActive] = uint64(runtime.NumGoroutine())
	m.lastSample = time.Now()
}

// Snapshot copies every metric.
func (m *Meter) Snapshot() types.MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := types.MetricsSnapshot{
		Counts:       make(map[string]uint64, len(m.counts)),
		Percentages:  make(map[string]float64, len(m.percentages)),
		Durations:    make(map[string]time.Duration, len(m.durations)),
		LastSampleAt: m.lastSample,
	}
	for k, v := range m.counts {
		snap.Counts[k] = v
	}
	for k, v := range m.percentages {
		snap.Percentages[k] = v
	}
	for k, v := range m.durations {
		snap.Durations[k] = v
	}
	return snap
}

// ResetMetrics zeroes counters, percentages and durations.
func (m *Meter) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.counts {
		m.counts[k] = 0
	}
	m.percentages = make(map[string]float64)
	m.durations = make(map[string]time.Duration)
	m.startTimes = make(map[string]time.Time)
	m.lastSample = time.Time{}
}

// ReportData logs a summary of the current metrics at info level.
func (m *Meter) ReportData() {
	snap := m.Snapshot()
	m.NotifyLoggers(types.InfoLevel, "Session metrics",
		"component", m.componentMetadata,
		"event", "ReportData",
		"recalculations", snap.Counts[types.MetricRecalculations],
		"recalculationFailures", snap.Counts[types.MetricRecalculationFailures],
		"acceptedPeaks", snap.Counts[types.MetricAcceptedPeaks],
		"rejectedPeaks", snap.Counts[types.MetricRejectedPeaks],
		"dischargesAdded", snap.Counts[types.MetricDischargesAdded],
		"dischargesRemoved", snap.Counts[types.MetricDischargesRemoved],
		"unitsDeleted", snap.Counts[types.MetricUnitsDeleted],
		"saves", snap.Counts[types.MetricSaves],
		"lastRecalculation", snap.Durations[types.MetricRecalculationTime],
		"totalRecalculation", snap.Durations[types.MetricTotalRecalculationTime],
		"whiteningBuild", snap.Durations[types.MetricWhiteningBuildTime],
		"cpuPercent", snap.Percentages[types.MetricCurrentCpuPercentage],
		"ramPercent", snap.Percentages[types.MetricCurrentRamPercentage],
	)
}

// GetComponentMetadata returns the metadata.
func (m *Meter) GetComponentMetadata() types.ComponentMetadata {
	return m.componentMetadata
}

// SetComponentMetadata sets the component metadata.
func (m *Meter) SetComponentMetadata(name string, id string) {
	m.componentMetadata.Name = name
	m.componentMetadata.ID = id
}
