package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/joeydtaylor/muedit/pkg/builder"
)

const (
	fs      = 2048.0
	samples = 6000
)

// syntheticDecomposition builds a four-channel recording with a regular
// firing pattern buried in noise, and hands over only every other discharge
// so the recalculation has something to find.
func syntheticDecomposition() builder.Decomposition {
	rng := rand.New(rand.NewSource(7))
	var spikes []int
	for s := 300; s < samples-300; s += 180 + rng.Intn(40) {
		spikes = append(spikes, s)
	}

	rows := make([][]float64, 4)
	for c := range rows {
		rows[c] = make([]float64, samples)
		for i := range rows[c] {
			rows[c][i] = rng.NormFloat64() * 0.3
		}
		for _, s := range spikes {
			rows[c][s] += 4 + float64(c)
		}
	}
	raw, err := builder.NewMultichannelSignal(rows, fs)
	if err != nil {
		panic(err)
	}

	pulse := make([]float64, samples)
	var partial []int
	for i, s := range spikes {
		pulse[s] = 1
		if i%2 == 0 {
			partial = append(partial, s)
		}
	}
	return builder.Decomposition{
		Raw:   raw,
		Units: []builder.UnitInput{{Pulse: pulse, Discharges: partial}},
		Metadata: builder.SessionMetadata{
			Source:   "CUSTOMCSV",
			Filename: "synthetic",
			GridName: "4-8-L",
			IED:      8.75,
		},
	}
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := builder.NewLogger(builder.LoggerWithDevelopment(true), builder.LoggerWithLevel("debug"))
	defer logger.Flush()

	outDir := builder.EnvOr("MUEDIT_OUT_DIR", "out")
	store := builder.NewFileStore(outDir)

	// Reopen a previous snapshot when one is given, otherwise start fresh.
	decomp := syntheticDecomposition()
	if path := builder.EnvOr("MUEDIT_SNAPSHOT", ""); path != "" {
		snap, err := store.Load(ctx, path)
		if err != nil {
			fmt.Printf("Failed to load %s: %v\n", path, err)
			return
		}
		decomp = snap.Decomposition()
	}

	cfg := builder.ConfigFromEnv()
	cfg.BandPass.Disabled = !builder.EnvBoolOr(builder.EnvBandPassEnabled, false)

	meter := builder.NewMeter(builder.MeterWithLogger(logger))
	session, err := builder.NewSession(decomp,
		builder.SessionWithConfig(cfg),
		builder.SessionWithLogger(logger),
		builder.SessionWithMeter(meter),
		builder.SessionWithComponentMetadata("recalc-example", "recalc-1"),
	)
	if err != nil {
		fmt.Printf("Failed to open session: %v\n", err)
		return
	}

	for _, u := range session.Units() {
		if _, err := session.Recalculate(ctx, u.ID); err != nil {
			fmt.Printf("Unit %d: recalculation failed: %v\n", u.ID, err)
			continue
		}
		view, err := session.View(u.ID)
		if err != nil {
			fmt.Printf("Unit %d: %v\n", u.ID, err)
			continue
		}
		fmt.Printf("Unit %d: %d -> %d discharges, SIL %.3f -> %.3f (%s)\n",
			u.ID, len(u.Discharges), len(view.Unit.Discharges),
			view.Unit.SIL.Before, view.Unit.SIL.After, view.Band)
	}

	location, err := session.Save(ctx, store, "synthetic")
	if err != nil {
		fmt.Printf("Save failed: %v\n", err)
		return
	}
	fmt.Printf("Snapshot written to %s\n", location)

	meter.ReportData()
}
