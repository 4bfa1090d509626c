package session

import (
	"context"
	"math/rand"
	"testing"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/stretchr/testify/require"
)

func TestWhiteningStateBuiltOnceAcrossUnits(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	rows := [][]float64{make([]float64, 1500), make([]float64, 1500)}
	for c := range rows {
		for i := range rows[c] {
			rows[c][i] = rng.NormFloat64()
		}
		rows[c][500] += 6
		rows[c][900] += 6
	}
	raw, err := types.NewMultichannelSignal(rows, 2048)
	require.NoError(t, err)

	cfg := types.DefaultRecalcConfig()
	cfg.BandPass.Disabled = true
	cfg.ExtensionFactor = 3

	s, err := New(types.Decomposition{
		Raw: raw,
		Units: []types.UnitInput{
			{Pulse: make([]float64, 1500), Discharges: []int{500, 900}},
			{Pulse: make([]float64, 1500), Discharges: []int{900}},
		},
	}, WithConfig(cfg))
	require.NoError(t, err)

	require.Zero(t, s.whiteningBuilt)

	first, err := s.WhiteningState()
	require.NoError(t, err)
	for _, id := range []int{0, 1, 0} {
		_, err := s.Recalculate(context.Background(), id)
		require.NoError(t, err)
	}
	again, err := s.WhiteningState()
	require.NoError(t, err)

	require.Equal(t, 1, s.whiteningBuilt)
	require.Same(t, first, again)
}
