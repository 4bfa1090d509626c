package builder

import (
	"github.com/joeydtaylor/muedit/pkg/internal/meter"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// MetricName is a type alias for metric names used in the Meter.
type MetricName string

type MetricsSnapshot = types.MetricsSnapshot

// Here we re-export the constants from the types package
const (
	MetricRecalculations          MetricName = MetricName(types.MetricRecalculations)
	MetricRecalculationFailures   MetricName = MetricName(types.MetricRecalculationFailures)
	MetricAcceptedPeaks           MetricName = MetricName(types.MetricAcceptedPeaks)
	MetricRejectedPeaks           MetricName = MetricName(types.MetricRejectedPeaks)
	MetricDischargesAdded         MetricName = MetricName(types.MetricDischargesAdded)
	MetricDischargesRemoved       MetricName = MetricName(types.MetricDischargesRemoved)
	MetricUnitsDeleted            MetricName = MetricName(types.MetricUnitsDeleted)
	MetricSaves                   MetricName = MetricName(types.MetricSaves)
	MetricSaveFailures            MetricName = MetricName(types.MetricSaveFailures)
	MetricEventPublishFailures    MetricName = MetricName(types.MetricEventPublishFailures)
	MetricCurrentCpuPercentage    MetricName = MetricName(types.MetricCurrentCpuPercentage)
	MetricCurrentRamPercentage    MetricName = MetricName(types.MetricCurrentRamPercentage)
	MetricPeakCpuPercentage       MetricName = MetricName(types.MetricPeakCpuPercentage)
	MetricPeakRamPercentage       MetricName = MetricName(types.MetricPeakRamPercentage)
	MetricWhiteningBuildTime      MetricName = MetricName(types.MetricWhiteningBuildTime)
	MetricRecalculationTime       MetricName = MetricName(types.MetricRecalculationTime)
	MetricTotalRecalculationTime  MetricName = MetricName(types.MetricTotalRecalculationTime)
	MetricCurrentGoRoutinesActive MetricName = MetricName(types.MetricCurrentGoRoutinesActive)
)

// NewMeter creates a session meter. Resources are sampled through gopsutil
// unless MeterWithResourceSampler replaces it.
func NewMeter(options ...types.Option[*meter.Meter]) types.Meter {
	return meter.NewMeter(options...)
}

func MeterWithLogger(loggers ...types.Logger) types.Option[*meter.Meter] {
	return meter.WithLogger(loggers...)
}

func MeterWithComponentMetadata(name string, id string) types.Option[*meter.Meter] {
	return meter.WithComponentMetadata(name, id)
}

func MeterWithInitialMetricCount(metricName MetricName, count uint64) types.Option[*meter.Meter] {
	return meter.WithInitialMetricCount(string(metricName), count)
}

// MeterWithResourceSampler replaces the CPU/RAM probe.
func MeterWithResourceSampler(sampler meter.ResourceSampler) types.Option[*meter.Meter] {
	return meter.WithResourceSampler(sampler)
}
