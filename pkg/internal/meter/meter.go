// Package meter tracks what an editing session did: how many recalculations
// ran or failed, how many peaks were accepted or rejected, how long the
// whitening build and each recalculation took, and the process CPU and RAM
// usage sampled after heavy work.
package meter

import (
	"sync"
	"time"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// ResourceSampler returns the current CPU and RAM usage in percent.
type ResourceSampler func() (cpu float64, ram float64, err error)

type Meter struct {
	componentMetadata types.ComponentMetadata

	mu          sync.Mutex
	counts      map[string]uint64
	percentages map[string]float64
	durations   map[string]time.Duration
	startTimes  map[string]time.Time
	lastSample  time.Time

	sampler ResourceSampler

	loggers   []types.Logger
	loggersMu sync.Mutex
}

// NewMeter returns a meter that samples resources through gopsutil unless
// another sampler is configured.
func NewMeter(options ...types.Option[*Meter]) *Meter {
	m := &Meter{
		componentMetadata: types.ComponentMetadata{
			Type: "METER",
		},
		counts:      make(map[string]uint64),
		percentages: make(map[string]float64),
		durations:   make(map[string]time.Duration),
		startTimes:  make(map[string]time.Time),
		sampler:     gopsutilSampler,
		loggers:     make([]types.Logger, 0),
	}
	m.initializeMetrics()

	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Meter) initializeMetrics() {
	for _, name := range []string{
		types.MetricRecalculations,
		types.MetricRecalculationFailures,
		types.MetricAcceptedPeaks,
		types.MetricRejectedPeaks,
		types.MetricDischargesAdded,
		types.MetricDischargesRemoved,
		types.MetricUnitsDeleted,
		types.MetricSaves,
		types.MetricSaveFailures,
		types.MetricEventPublishFailures,
		types.MetricCurrentGoRoutinesActive,
	} {
		m.counts[name] = 0
	}
}
