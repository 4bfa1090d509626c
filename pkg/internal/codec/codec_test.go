package codec_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeydtaylor/muedit/pkg/internal/codec"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(t *testing.T) *types.Snapshot {
	t.Helper()
	raw, err := types.NewMultichannelSignal([][]float64{
		{0.1, -0.2, 0.3, 0.05, 0, 1.5, -0.7, 0.2},
		{1, 2, 3, 4, 5, 6, 7, 8},
	}, 2048)
	require.NoError(t, err)
	ref, err := types.NewMultichannelSignal([][]float64{{0, 0, 1, 1, 2, 2, 3, 3}}, 2048)
	require.NoError(t, err)

	discharges := []types.DischargeTrain{{1, 5}, {2, 3, 7}}
	return &types.Snapshot{
		Source:     "CUSTOMCSV",
		Filename:   "training40",
		Raw:        raw,
		Reference:  ref,
		Accuracy:   []float64{0.91, 0.87},
		Pulses:     []types.PulseTrain{{0, 0.8, 0.1, 0, 0, 1, 0.2, 0}, {0, 0, 0.9, 1.1, 0, 0, 0.1, 1}},
		Discharges: discharges,
		SampleRate: 2048,
		IED:        8.75,
		Length:     8,
		Units:      2,
		Firing:     types.BinaryFiring(discharges, 8),
		Extras:     map[string]string{"grid": "4-8-L"},
	}
}

func TestSnapshotRoundTripAllCompressions(t *testing.T) {
	for _, c := range []codec.Compression{
		codec.CompressGzip,
		codec.CompressZstd,
		codec.CompressSnappy,
		codec.CompressBrotli,
		codec.CompressLZ4,
		codec.CompressNone,
	} {
		t.Run(string(c), func(t *testing.T) {
			in := sampleSnapshot(t)
			var buf bytes.Buffer
			require.NoError(t, codec.NewSnapshotCodec(c).Encode(&buf, in))

			assert.Equal(t, c, codec.DetectCompression(buf.Bytes()))

			out, err := codec.NewSnapshotCodec("").Decode(&buf)
			require.NoError(t, err)

			assert.Equal(t, in.Discharges, out.Discharges)
			assert.Equal(t, in.SampleRate, out.SampleRate)
			require.Len(t, out.Pulses, 2)
			for u := range in.Pulses {
				assert.InDeltaSlice(t, in.Pulses[u], out.Pulses[u], 1e-12)
			}
			assert.Equal(t, in.Raw.Rows(), out.Raw.Rows())
			assert.Equal(t, in.Reference.Rows(), out.Reference.Rows())
			assert.Equal(t, in.Accuracy, out.Accuracy)
			assert.Equal(t, in.Firing, out.Firing)
			assert.Equal(t, in.Extras, out.Extras)
			assert.Equal(t, "CUSTOMCSV", out.Source)
			assert.Equal(t, "training40", out.Filename)
			assert.Equal(t, 8.75, out.IED)
			assert.Equal(t, 8, out.Length)
			assert.Equal(t, 2, out.Units)
		})
	}
}

func TestDocumentLayout(t *testing.T) {
	data, err := codec.NewSnapshotCodec(codec.CompressNone).Marshal(sampleSnapshot(t))
	require.NoError(t, err)

	var doc map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, k := range []string{"SOURCE", "FILENAME", "RAW_SIGNAL", "REF_SIGNAL", "ACCURACY", "IPTS", "MUPULSES",
		"FSAMP", "IED", "EMG_LENGTH", "NUMBER_OF_MUS", "BINARY_MUS_FIRING", "EXTRAS"} {
		assert.Contains(t, doc, k)
	}
	assert.Equal(t, `"CUSTOMCSV"`, doc["SOURCE"])
	assert.Equal(t, `[[1,5],[2,3,7]]`, doc["MUPULSES"])
	assert.Equal(t, `2048`, doc["FSAMP"])

	var raw struct {
		Columns []int       `json:"columns"`
		Index   []int       `json:"index"`
		Data    [][]float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc["RAW_SIGNAL"]), &raw))
	assert.Equal(t, []int{0, 1}, raw.Columns)
	assert.Len(t, raw.Index, 8)
	assert.Equal(t, []float64{0.1, 1}, raw.Data[0])
}

func TestGzipOutputIsPlainGzip(t *testing.T) {
	data, err := codec.NewSnapshotCodec(codec.CompressGzip).Marshal(sampleSnapshot(t))
	require.NoError(t, err)
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = io.ReadAll(zr)
	require.NoError(t, err)
}

func TestDecodeHandwrittenDocument(t *testing.T) {
	doc := map[string]string{
		"SOURCE":            `"CUSTOMCSV"`,
		"FILENAME":          `"training40"`,
		"RAW_SIGNAL":        `{"columns":[0],"index":[0,1,2,3],"data":[[0.5],[null],[1.0],[2.0]]}`,
		"REF_SIGNAL":        `{"columns":[],"index":[],"data":[]}`,
		"ACCURACY":          `{"columns":[0],"index":[0],"data":[[0.9]]}`,
		"IPTS":              `{"columns":[0],"index":[0,1,2,3],"data":[[0.0],[1.0],[0.0],[0.5]]}`,
		"MUPULSES":          `[[3,1,1]]`,
		"FSAMP":             `2048.0`,
		"IED":               `8.75`,
		"EMG_LENGTH":        `4`,
		"NUMBER_OF_MUS":     `1`,
		"BINARY_MUS_FIRING": `{"columns":[0],"index":[0,1,2,3],"data":[[0],[1],[0],[1]]}`,
		"EXTRAS":            `{"columns":[],"index":[],"data":[]}`,
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	snap, err := codec.NewSnapshotCodec("").Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, types.DischargeTrain{1, 3}, snap.Discharges[0])
	assert.Nil(t, snap.Reference)
	assert.True(t, math.IsNaN(snap.Raw.RawRow(0)[1]))
	assert.Empty(t, snap.Extras)
	assert.Equal(t, [][]uint8{{0}, {1}, {0}, {1}}, snap.Firing)
}

func TestDecodeRejectsInconsistentDocuments(t *testing.T) {
	c := codec.NewSnapshotCodec(codec.CompressNone)
	data, err := c.Marshal(sampleSnapshot(t))
	require.NoError(t, err)

	var doc map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))

	broken := map[string]string{}
	for k, v := range doc {
		broken[k] = v
	}
	broken["EMG_LENGTH"] = "9"
	b, _ := json.Marshal(broken)
	_, err = c.Unmarshal(b)
	assert.ErrorIs(t, err, codec.ErrInvalidSnapshot)

	delete(broken, "FSAMP")
	broken["EMG_LENGTH"] = doc["EMG_LENGTH"]
	b, _ = json.Marshal(broken)
	_, err = c.Unmarshal(b)
	assert.ErrorIs(t, err, codec.ErrMissingField)

	broken["FSAMP"] = doc["FSAMP"]
	broken["MUPULSES"] = "[[1]]"
	b, _ = json.Marshal(broken)
	_, err = c.Unmarshal(b)
	assert.ErrorIs(t, err, codec.ErrInvalidSnapshot)
}

func TestMarshalRejectsInvalidSnapshot(t *testing.T) {
	snap := sampleSnapshot(t)
	snap.Discharges[0] = types.DischargeTrain{5, 1}
	_, err := codec.NewSnapshotCodec("").Marshal(snap)
	assert.ErrorIs(t, err, codec.ErrInvalidSnapshot)

	_, err = codec.NewSnapshotCodec("").Marshal(&types.Snapshot{})
	assert.ErrorIs(t, err, codec.ErrMissingField)
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]codec.Compression{
		"":       codec.CompressGzip,
		"GZIP":   codec.CompressGzip,
		"zstd":   codec.CompressZstd,
		"br":     codec.CompressBrotli,
		"snappy": codec.CompressSnappy,
		"lz4":    codec.CompressLZ4,
		"none":   codec.CompressNone,
	} {
		got, err := codec.ParseCompression(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := codec.ParseCompression("rar")
	assert.ErrorIs(t, err, codec.ErrUnknownCompression)
}

func TestFileStoreSaveLoad(t *testing.T) {
	dir := t.TempDir()
	store := codec.NewFileStore(dir)

	in := sampleSnapshot(t)
	path, err := store.Save(context.Background(), "/data/recordings/training40.csv", in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "training40_edited.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, codec.CompressGzip, codec.DetectCompression(raw))

	out, err := store.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, in.Discharges, out.Discharges)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := codec.NewFileStore(t.TempDir()).Save(ctx, "x", sampleSnapshot(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEditedName(t *testing.T) {
	assert.Equal(t, "training40_edited.json", codec.EditedName("training40"))
	assert.Equal(t, "a.b_edited.json", codec.EditedName("dir/a.b.json"))
	assert.Equal(t, "snapshot_edited.json", codec.EditedName(""))
}

func TestDischargesParquetRoundTrip(t *testing.T) {
	snap := sampleSnapshot(t)
	rows := codec.DischargeRows(snap)
	require.Len(t, rows, 5)
	assert.Equal(t, codec.DischargeRow{Unit: 0, Sample: 1, Seconds: 1.0 / 2048, Amplitude: 0.8}, rows[0])
	assert.InDelta(t, 2048.0/4, rows[1].InstantaneousRate, 1e-9)

	for _, comp := range []string{"snappy", "zstd", "gzip"} {
		data, err := codec.MarshalDischargesParquet(rows, comp)
		require.NoError(t, err, comp)
		got, err := codec.ReadDischargesParquet(bytes.NewReader(data))
		require.NoError(t, err, comp)
		assert.Equal(t, rows, got, comp)
	}
}
