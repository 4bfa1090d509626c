package codec

import (
	"bytes"
	"io"
	"strings"

	"github.com/joeydtaylor/muedit/pkg/internal/quality"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	parquet "github.com/parquet-go/parquet-go"
)

// DischargeRow is one discharge of one unit in the flat export.
type DischargeRow struct {
	Unit              int32   `parquet:"unit"`
	Sample            int64   `parquet:"sample"`
	Seconds           float64 `parquet:"seconds"`
	Amplitude         float64 `parquet:"amplitude"`
	InstantaneousRate float64 `parquet:"instantaneous_rate"`
}

// DischargeRows flattens the snapshot's discharges. The first discharge of a
// unit has no instantaneous rate and carries 0.
func DischargeRows(snap *types.Snapshot) []DischargeRow {
	var rows []DischargeRow
	for u, train := range snap.Discharges {
		var pulse types.PulseTrain
		if u < len(snap.Pulses) {
			pulse = snap.Pulses[u]
		}
		rate, _ := quality.DischargeRate(train, snap.SampleRate)
		for i, idx := range train {
			row := DischargeRow{
				Unit:    int32(u),
				Sample:  int64(idx),
				Seconds: float64(idx) / snap.SampleRate,
			}
			if idx < len(pulse) {
				row.Amplitude = pulse[idx]
			}
			if i > 0 {
				row.InstantaneousRate = rate[i-1]
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// ParquetCompression maps a name to a parquet writer option; snappy is the
// default.
func ParquetCompression(name string) parquet.WriterOption {
	switch strings.ToLower(name) {
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "gzip", "gz":
		return parquet.Compression(&parquet.Gzip)
	default:
		return parquet.Compression(&parquet.Snappy)
	}
}

// WriteDischargesParquet writes rows as one parquet file to w.
func WriteDischargesParquet(w io.Writer, rows []DischargeRow, compression string) error {
	pw := parquet.NewGenericWriter[DischargeRow](w, ParquetCompression(compression))
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			return err
		}
	}
	return pw.Close()
}

// MarshalDischargesParquet returns the parquet bytes of rows.
func MarshalDischargesParquet(rows []DischargeRow, compression string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDischargesParquet(&buf, rows, compression); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadDischargesParquet reads every row of a parquet file.
func ReadDischargesParquet(ra io.ReaderAt) ([]DischargeRow, error) {
	gr := parquet.NewGenericReader[DischargeRow](ra)
	defer gr.Close()

	out := make([]DischargeRow, 0, 1024)
	batch := make([]DischargeRow, 1024)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
