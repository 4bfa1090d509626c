package types

import "time"

const (
	MetricRecalculations          = "recalculation_count"
	MetricRecalculationFailures   = "recalculation_failure_count"
	MetricAcceptedPeaks           = "accepted_peak_count"
	MetricRejectedPeaks           = "rejected_peak_count"
	MetricDischargesAdded         = "discharge_added_count"
	MetricDischargesRemoved       = "discharge_removed_count"
	MetricUnitsDeleted            = "unit_deleted_count"
	MetricSaves                   = "save_count"
	MetricSaveFailures            = "save_failure_count"
	MetricEventPublishFailures    = "event_publish_failure_count"
	MetricCurrentCpuPercentage    = "current_cpu_percentage"
	MetricCurrentRamPercentage    = "current_ram_percentage"
	MetricPeakCpuPercentage       = "peak_cpu_percentage"
	MetricPeakRamPercentage       = "peak_ram_percentage"
	MetricWhiteningBuildTime      = "whitening_build_time"
	MetricRecalculationTime       = "recalculation_time"
	MetricTotalRecalculationTime  = "total_recalculation_time"
	MetricCurrentGoRoutinesActive = "current_go_routines_active"
)

// MetricsSnapshot is a point-in-time copy of a meter.
type MetricsSnapshot struct {
	Counts       map[string]uint64
	Percentages  map[string]float64
	Durations    map[string]time.Duration
	LastSampleAt time.Time
}

// Meter records counters, timers and process resource usage of a session.
type Meter interface {
	IncrementCount(metricName string)
	AddToCount(metricName string, n uint64)
	GetMetricCount(metricName string) uint64
	GetMetricPercentage(metricName string) float64
	GetDuration(metricName string) time.Duration
	StartTimer(metricName string)
	StopTimer(metricName string) time.Duration
	SampleResources()
	Snapshot() MetricsSnapshot
	ResetMetrics()
	ReportData()
	ConnectLogger(...Logger)
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
}
