package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// document is the on-disk layout. Every field holds a JSON text of its own,
// which keeps files interchangeable with the editor that introduced the
// format.
type document struct {
	Source          string `json:"SOURCE"`
	Filename        string `json:"FILENAME"`
	RawSignal       string `json:"RAW_SIGNAL"`
	RefSignal       string `json:"REF_SIGNAL"`
	Accuracy        string `json:"ACCURACY"`
	IPTS            string `json:"IPTS"`
	MUPulses        string `json:"MUPULSES"`
	FSamp           string `json:"FSAMP"`
	IED             string `json:"IED"`
	EMGLength       string `json:"EMG_LENGTH"`
	NumberOfMUs     string `json:"NUMBER_OF_MUS"`
	BinaryMUsFiring string `json:"BINARY_MUS_FIRING"`
	Extras          string `json:"EXTRAS"`
}

// SnapshotCodec encodes snapshots as compressed documents.
type SnapshotCodec struct {
	Compression Compression
	GzipLevel   int
}

// NewSnapshotCodec returns a codec writing with the given compression. An
// empty compression selects gzip at DefaultGzipLevel.
func NewSnapshotCodec(c Compression) *SnapshotCodec {
	if c == "" {
		c = CompressGzip
	}
	return &SnapshotCodec{Compression: c, GzipLevel: DefaultGzipLevel}
}

var _ Encoder[*types.Snapshot] = (*SnapshotCodec)(nil)
var _ Decoder[*types.Snapshot] = (*SnapshotCodec)(nil)

// Marshal renders snap into compressed bytes.
func (c *SnapshotCodec) Marshal(snap *types.Snapshot) ([]byte, error) {
	doc, err := newDocument(snap)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return compressData(raw, c.Compression, c.GzipLevel)
}

// Encode writes snap to w.
func (c *SnapshotCodec) Encode(w io.Writer, snap *types.Snapshot) error {
	b, err := c.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Unmarshal parses a document in any supported compression.
func (c *SnapshotCodec) Unmarshal(data []byte) (*types.Snapshot, error) {
	plain, err := decompressData(data, DetectCompression(data))
	if err != nil {
		return nil, fmt.Errorf("codec: decompress: %w", err)
	}
	var doc document
	if err := json.Unmarshal(plain, &doc); err != nil {
		return nil, fmt.Errorf("codec: parse document: %w", err)
	}
	return doc.snapshot()
}

// Decode reads a whole document from r.
func (c *SnapshotCodec) Decode(r io.Reader) (*types.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return c.Unmarshal(data)
}

func inner(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newDocument(snap *types.Snapshot) (*document, error) {
	if snap == nil || snap.Raw == nil {
		return nil, fmt.Errorf("%w: raw signal", ErrMissingField)
	}
	n := snap.Raw.Samples()
	if snap.Length != 0 && snap.Length != n {
		return nil, fmt.Errorf("%w: length %d, raw signal has %d samples", ErrInvalidSnapshot, snap.Length, n)
	}

	pulses := make([][]float64, len(snap.Pulses))
	for i, p := range snap.Pulses {
		if len(p) != n {
			return nil, fmt.Errorf("%w: pulse train %d: %v", ErrInvalidSnapshot, i, types.ErrLengthMismatch)
		}
		pulses[i] = p
	}
	mupulses := make([][]int, len(snap.Discharges))
	for i, d := range snap.Discharges {
		if !d.Valid(n) {
			return nil, fmt.Errorf("%w: discharge train %d out of order or range", ErrInvalidSnapshot, i)
		}
		mupulses[i] = append([]int{}, d...)
	}
	firing := snap.Firing
	if firing == nil {
		firing = types.BinaryFiring(snap.Discharges, n)
	}

	ref := frame{Columns: []int{}, Index: []int{}, Data: [][]cell{}}
	if snap.Reference != nil {
		ref = columnsFrame(snap.Reference.Rows(), snap.Reference.Samples())
	}

	doc := &document{}
	for _, f := range []struct {
		dst *string
		v   interface{}
	}{
		{&doc.Source, snap.Source},
		{&doc.Filename, snap.Filename},
		{&doc.RawSignal, columnsFrame(snap.Raw.Rows(), n)},
		{&doc.RefSignal, ref},
		{&doc.Accuracy, columnsFrame(accuracyColumn(snap.Accuracy), len(snap.Accuracy))},
		{&doc.IPTS, columnsFrame(pulses, n)},
		{&doc.MUPulses, mupulses},
		{&doc.FSamp, snap.SampleRate},
		{&doc.IED, snap.IED},
		{&doc.EMGLength, n},
		{&doc.NumberOfMUs, len(snap.Pulses)},
		{&doc.BinaryMUsFiring, firingFrame(firing, len(snap.Discharges))},
		{&doc.Extras, newExtrasFrame(snap.Extras)},
	} {
		text, err := inner(f.v)
		if err != nil {
			return nil, err
		}
		*f.dst = text
	}
	return doc, nil
}

func accuracyColumn(acc []float64) [][]float64 {
	if len(acc) == 0 {
		return nil
	}
	return [][]float64{acc}
}

func field(name, text string, dst interface{}) error {
	if text == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return fmt.Errorf("codec: field %s: %w", name, err)
	}
	return nil
}

func (d *document) snapshot() (*types.Snapshot, error) {
	snap := &types.Snapshot{}

	if err := field("SOURCE", d.Source, &snap.Source); err != nil {
		return nil, err
	}
	if err := field("FILENAME", d.Filename, &snap.Filename); err != nil {
		return nil, err
	}
	if err := field("FSAMP", d.FSamp, &snap.SampleRate); err != nil {
		return nil, err
	}
	if d.IED != "" {
		if err := field("IED", d.IED, &snap.IED); err != nil {
			return nil, err
		}
	}

	var rawFrame frame
	if err := field("RAW_SIGNAL", d.RawSignal, &rawFrame); err != nil {
		return nil, err
	}
	rawCols, err := rawFrame.series()
	if err != nil {
		return nil, err
	}
	if snap.Raw, err = types.NewMultichannelSignal(rawCols, snap.SampleRate); err != nil {
		return nil, fmt.Errorf("codec: RAW_SIGNAL: %w", err)
	}
	n := snap.Raw.Samples()

	if d.RefSignal != "" {
		var refFrame frame
		if err := field("REF_SIGNAL", d.RefSignal, &refFrame); err != nil {
			return nil, err
		}
		if len(refFrame.Columns) > 0 && len(refFrame.Data) > 0 {
			refCols, err := refFrame.series()
			if err != nil {
				return nil, err
			}
			if snap.Reference, err = types.NewMultichannelSignal(refCols, snap.SampleRate); err != nil {
				return nil, fmt.Errorf("codec: REF_SIGNAL: %w", err)
			}
		}
	}

	snap.Length = n
	if d.EMGLength != "" {
		if err := field("EMG_LENGTH", d.EMGLength, &snap.Length); err != nil {
			return nil, err
		}
		if snap.Length != n {
			return nil, fmt.Errorf("%w: EMG_LENGTH %d, raw signal has %d samples", ErrInvalidSnapshot, snap.Length, n)
		}
	}

	var ipts frame
	if err := field("IPTS", d.IPTS, &ipts); err != nil {
		return nil, err
	}
	pulseCols, err := ipts.series()
	if err != nil {
		return nil, err
	}
	for i, p := range pulseCols {
		if len(p) != n {
			return nil, fmt.Errorf("%w: pulse train %d: %v", ErrInvalidSnapshot, i, types.ErrLengthMismatch)
		}
		snap.Pulses = append(snap.Pulses, types.PulseTrain(p))
	}

	var mupulses [][]int
	if err := field("MUPULSES", d.MUPulses, &mupulses); err != nil {
		return nil, err
	}
	if len(mupulses) != len(snap.Pulses) {
		return nil, fmt.Errorf("%w: %d discharge trains for %d pulse trains", ErrInvalidSnapshot, len(mupulses), len(snap.Pulses))
	}
	for _, m := range mupulses {
		snap.Discharges = append(snap.Discharges, types.NewDischargeTrain(m, n))
	}

	snap.Units = len(snap.Pulses)
	if d.NumberOfMUs != "" {
		if err := field("NUMBER_OF_MUS", d.NumberOfMUs, &snap.Units); err != nil {
			return nil, err
		}
	}

	if d.Accuracy != "" {
		var acc frame
		if err := field("ACCURACY", d.Accuracy, &acc); err != nil {
			return nil, err
		}
		cols, err := acc.series()
		if err != nil {
			return nil, err
		}
		if len(cols) > 0 {
			snap.Accuracy = cols[0]
		}
	}

	if d.BinaryMUsFiring != "" {
		var f intFrame
		if err := field("BINARY_MUS_FIRING", d.BinaryMUsFiring, &f); err != nil {
			return nil, err
		}
		snap.Firing = f.firing()
	} else {
		snap.Firing = types.BinaryFiring(snap.Discharges, n)
	}

	snap.Extras = map[string]string{}
	if d.Extras != "" {
		var ex extrasFrame
		if err := field("EXTRAS", d.Extras, &ex); err != nil {
			return nil, err
		}
		snap.Extras = ex.extras()
	}
	return snap, nil
}
