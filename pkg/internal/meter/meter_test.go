package meter

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

type stubLogger struct {
	level       types.LogLevel
	infoCount   int32
	debugCount  int32
	warnCount   int32
	errorCount  int32
	panicCount  int32
	lastMessage string
}

func (s *stubLogger) GetLevel() types.LogLevel {
	return s.level
}

func (s *stubLogger) SetLevel(level types.LogLevel) {
	s.level = level
}

func (s *stubLogger) Debug(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.debugCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Info(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.infoCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Warn(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.warnCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Error(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.errorCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) DPanic(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.panicCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Panic(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.panicCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Fatal(msg string, _ ...interface{}) {
	atomic.AddInt32(&s.panicCount, 1)
	s.lastMessage = msg
}

func (s *stubLogger) Flush() error { return nil }

func (s *stubLogger) AddSink(string, types.SinkConfig) error { return nil }

func (s *stubLogger) RemoveSink(string) error { return nil }

func (s *stubLogger) ListSinks() ([]string, error) { return nil, nil }

func TestCountsAndReset(t *testing.T) {
	m := NewMeter(WithResourceSampler(nil))

	m.IncrementCount(types.MetricRecalculations)
	m.AddToCount(types.MetricAcceptedPeaks, 12)
	m.IncrementCount("custom")

	if got := m.GetMetricCount(types.MetricRecalculations); got != 1 {
		t.Fatalf("expected 1 recalculation, got %d", got)
	}
	if got := m.GetMetricCount(types.MetricAcceptedPeaks); got != 12 {
		t.Fatalf("expected 12 accepted peaks, got %d", got)
	}
	if got := m.GetMetricCount("custom"); got != 1 {
		t.Fatalf("expected custom count 1, got %d", got)
	}

	m.ResetMetrics()
	if got := m.GetMetricCount(types.MetricAcceptedPeaks); got != 0 {
		t.Fatalf("expected count reset to 0, got %d", got)
	}
}

func TestInitialMetricCount(t *testing.T) {
	m := NewMeter(WithResourceSampler(nil), WithInitialMetricCount(types.MetricSaves, 4))
	if got := m.GetMetricCount(types.MetricSaves); got != 4 {
		t.Fatalf("expected 4 saves, got %d", got)
	}
}

func TestTimersAccumulateRecalculationTotal(t *testing.T) {
	m := NewMeter(WithResourceSampler(nil))

	if d := m.StopTimer(types.MetricRecalculationTime); d != 0 {
		t.Fatalf("expected zero duration for unstarted timer, got %s", d)
	}

	var sum time.Duration
	for i := 0; i < 2; i++ {
		m.StartTimer(types.MetricRecalculationTime)
		time.Sleep(2 * time.Millisecond)
		sum += m.StopTimer(types.MetricRecalculationTime)
	}
	if got := m.GetDuration(types.MetricTotalRecalculationTime); got != sum {
		t.Fatalf("expected total %s, got %s", sum, got)
	}
	if got := m.GetDuration(types.MetricRecalculationTime); got <= 0 || got > sum {
		t.Fatalf("unexpected last duration %s", got)
	}
}

func TestSampleResourcesTracksPeaks(t *testing.T) {
	samples := [][2]float64{{40, 60}, {20, 70}}
	i := 0
	m := NewMeter(WithResourceSampler(func() (float64, float64, error) {
		s := samples[i]
		i++
		return s[0], s[1], nil
	}))

	m.SampleResources()
	m.SampleResources()

	snap := m.Snapshot()
	if snap.Percentages[types.MetricCurrentCpuPercentage] != 20 {
		t.Fatalf("expected current cpu 20, got %.2f", snap.Percentages[types.MetricCurrentCpuPercentage])
	}
	if snap.Percentages[types.MetricPeakCpuPercentage] != 40 {
		t.Fatalf("expected peak cpu 40, got %.2f", snap.Percentages[types.MetricPeakCpuPercentage])
	}
	if snap.Percentages[types.MetricPeakRamPercentage] != 70 {
		t.Fatalf("expected peak ram 70, got %.2f", snap.Percentages[types.MetricPeakRamPercentage])
	}
	if snap.LastSampleAt.IsZero() {
		t.Fatal("expected sample timestamp")
	}
	if snap.Counts[types.MetricCurrentGoRoutinesActive] == 0 {
		t.Fatal("expected goroutine count")
	}
}

func TestSampleResourcesFailureLogs(t *testing.T) {
	log := &stubLogger{level: types.DebugLevel}
	m := NewMeter(
		WithLogger(log),
		WithResourceSampler(func() (float64, float64, error) {
			return 0, 0, errors.New("no procfs")
		}),
	)
	m.SampleResources()

	if atomic.LoadInt32(&log.warnCount) != 1 {
		t.Fatalf("expected one warning")
	}
	if !m.Snapshot().LastSampleAt.IsZero() {
		t.Fatal("failed sample must not update timestamp")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := NewMeter(WithResourceSampler(nil))
	m.IncrementCount(types.MetricSaves)

	snap := m.Snapshot()
	snap.Counts[types.MetricSaves] = 99

	if got := m.GetMetricCount(types.MetricSaves); got != 1 {
		t.Fatalf("snapshot mutation leaked into meter: %d", got)
	}
}

func TestNotifyLoggersRespectsLevel(t *testing.T) {
	log := &stubLogger{level: types.InfoLevel}
	m := NewMeter(WithResourceSampler(nil), WithComponentMetadata("session-meter", "m1"))
	m.ConnectLogger(log, nil)

	m.ReportData()
	if atomic.LoadInt32(&log.infoCount) != 1 {
		t.Fatalf("expected info log")
	}
	if log.lastMessage != "Session metrics" {
		t.Fatalf("unexpected log message: %q", log.lastMessage)
	}

	m.NotifyLoggers(types.DebugLevel, "debug")
	if atomic.LoadInt32(&log.debugCount) != 0 {
		t.Fatalf("expected debug log to be skipped")
	}

	if md := m.GetComponentMetadata(); md.Name != "session-meter" || md.ID != "m1" || md.Type != "METER" {
		t.Fatalf("unexpected metadata: %+v", md)
	}
}
