package session

import (
	"context"
	"fmt"

	"github.com/joeydtaylor/muedit/pkg/internal/cluster"
	"github.com/joeydtaylor/muedit/pkg/internal/projection"
	"github.com/joeydtaylor/muedit/pkg/internal/quality"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/internal/whitening"
)

// WhiteningState returns the session's whitening state, building it on the
// first call.
func (s *Session) WhiteningState() (*types.WhiteningState, error) {
	s.whiteningOnce.Do(func() {
		if s.meter != nil {
			s.meter.StartTimer(types.MetricWhiteningBuildTime)
		}
		s.whiteningState, s.whiteningErr = whitening.Prepare(s.raw, s.cfg)
		s.whiteningBuilt++

		var d interface{}
		if s.meter != nil {
			d = s.meter.StopTimer(types.MetricWhiteningBuildTime)
		}
		if s.whiteningErr != nil {
			s.NotifyLoggers(types.ErrorLevel, "Whitening failed",
				"component", s.componentMetadata,
				"event", "WhiteningState",
				"result", "FAILURE",
				"error", s.whiteningErr,
			)
			return
		}
		s.NotifyLoggers(types.InfoLevel, "Whitening state built",
			"component", s.componentMetadata,
			"event", "WhiteningState",
			"result", "SUCCESS",
			"factor", s.whiteningState.Extended.Factor,
			"rank", s.whiteningState.Rank(),
			"duration", d,
		)
	})
	return s.whiteningState, s.whiteningErr
}

// Recalculate re-estimates a unit from its current discharges: separation
// filter, projected pulse train, peak candidates and their two-cluster split.
// On success the unit takes the new pulse train and the accepted peaks, its
// SIL after-score is refreshed and the recalculated flag is raised for the
// next View. On any error the unit is left untouched. ctx is checked between
// stages.
func (s *Session) Recalculate(ctx context.Context, id int) (*types.MotorUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	u, err := s.lookupLocked(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.meter != nil {
		s.meter.StartTimer(types.MetricRecalculationTime)
	}

	res, err := s.recalculateLocked(ctx, u)
	if err != nil {
		s.mu.Unlock()
		if s.meter != nil {
			s.meter.StopTimer(types.MetricRecalculationTime)
		}
		s.count(types.MetricRecalculationFailures, 1)
		s.NotifyLoggers(types.ErrorLevel, "Recalculation failed",
			"component", s.componentMetadata,
			"event", "Recalculate",
			"result", "FAILURE",
			"unit", id,
			"error", err,
		)
		return nil, err
	}

	u.Pulse = res.pulse
	u.Discharges = res.accepted
	u.SIL.After = res.sil
	u.State = types.StateRecalculated
	u.Recalculated = true
	out := u.Clone()
	ev := s.editEventLocked(u, types.EventRecalculated, nil)
	ev.Band = quality.Classify(u.SIL.Delta(), s.cfg.BandThreshold).String()
	s.mu.Unlock()

	s.count(types.MetricRecalculations, 1)
	s.count(types.MetricAcceptedPeaks, uint64(len(res.accepted)))
	s.count(types.MetricRejectedPeaks, uint64(res.rejected))
	var elapsed interface{}
	if s.meter != nil {
		elapsed = s.meter.StopTimer(types.MetricRecalculationTime)
		s.meter.SampleResources()
	}

	s.NotifyLoggers(types.InfoLevel, "Unit recalculated",
		"component", s.componentMetadata,
		"event", "Recalculate",
		"result", "SUCCESS",
		"unit", id,
		"accepted", len(res.accepted),
		"rejected", res.rejected,
		"sil", out.SIL,
		"state", out.State,
		"duration", elapsed,
	)
	s.publish(ctx, ev)
	return out, nil
}

type recalcResult struct {
	pulse    types.PulseTrain
	accepted types.DischargeTrain
	rejected int
	sil      float64
}

func (s *Session) recalculateLocked(ctx context.Context, u *types.MotorUnit) (*recalcResult, error) {
	if len(u.Discharges) == 0 {
		return nil, fmt.Errorf("unit %d: %w", u.ID, types.ErrInsufficientData)
	}

	state, err := s.WhiteningState()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	est, err := projection.Estimate(state, u.Discharges, s.raw.SampleRate, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("unit %d: %w", u.ID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(est.Candidates) == 0 {
		return nil, fmt.Errorf("unit %d: %w", u.ID, ErrNoCandidates)
	}

	amps := make([]float64, len(est.Candidates))
	for i, idx := range est.Candidates {
		amps[i] = est.Pulse[idx]
	}
	accepted, rejected := cluster.SplitHigh(est.Candidates, amps, s.cfg.Cluster)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	train := types.NewDischargeTrain(accepted, len(est.Pulse))
	sil, err := quality.SIL(est.Pulse, train)
	if err != nil {
		return nil, fmt.Errorf("unit %d: %w", u.ID, err)
	}

	return &recalcResult{
		pulse:    est.Pulse,
		accepted: train,
		rejected: len(rejected),
		sil:      sil,
	}, nil
}
