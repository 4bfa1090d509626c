package builder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/muedit/pkg/builder"
	s3client "github.com/joeydtaylor/muedit/pkg/internal/adapter/s3client"
)

func smallDecomposition(t *testing.T) builder.Decomposition {
	t.Helper()
	const n = 400
	rows := make([][]float64, 2)
	for c := range rows {
		rows[c] = make([]float64, n)
		for i := range rows[c] {
			rows[c][i] = float64((i*(c+3))%17) - 8
		}
	}
	raw, err := builder.NewMultichannelSignal(rows, 2048)
	require.NoError(t, err)

	pulse := make([]float64, n)
	for _, d := range []int{50, 150, 250} {
		pulse[d] = 1
	}
	return builder.Decomposition{
		Raw:   raw,
		Units: []builder.UnitInput{{Pulse: pulse, Discharges: []int{250, 50, 150}}},
		Metadata: builder.SessionMetadata{
			Filename: "trial.csv",
			GridName: "4-8-L",
		},
	}
}

func TestSessionSavesThroughFileStore(t *testing.T) {
	ctx := context.Background()
	store := builder.NewFileStore(t.TempDir(), builder.CompressZstd)

	s, err := builder.NewSession(smallDecomposition(t),
		builder.SessionWithConfig(builder.DefaultRecalcConfig()),
		builder.SessionWithMeter(builder.NewMeter(builder.MeterWithResourceSampler(func() (float64, float64, error) {
			return 0, 0, nil
		}))),
	)
	require.NoError(t, err)

	loc, err := s.Save(ctx, store, "trial.csv")
	require.NoError(t, err)
	assert.Contains(t, loc, "trial_edited.json")

	snap, err := store.Load(ctx, loc)
	require.NoError(t, err)
	require.Len(t, snap.Discharges, 1)
	assert.Equal(t, []int{50, 150, 250}, []int(snap.Discharges[0]))
}

func TestAlwaysConfirmDeletes(t *testing.T) {
	s, err := builder.NewSession(smallDecomposition(t))
	require.NoError(t, err)

	units := s.Units()
	require.Len(t, units, 1)

	_, deleted, err := s.Delete(context.Background(), units[0].ID, builder.AlwaysConfirm)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, s.Units())
}

func TestS3SnapshotStoreWithoutClient(t *testing.T) {
	store := builder.NewS3SnapshotStore(builder.S3SnapshotStoreWithPrefix("edits/"))
	_, err := store.Save(context.Background(), "trial", &builder.Snapshot{})
	assert.True(t, errors.Is(err, s3client.ErrNotConfigured))
	assert.Equal(t, "edits/trial_edited.json", store.ObjectKey("trial"))
}

func TestParseCompression(t *testing.T) {
	c, err := builder.ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, builder.CompressGzip, c)

	_, err = builder.ParseCompression("rar")
	assert.Error(t, err)
}
