package types

// Snapshot is the typed form of the persisted decomposition document.
type Snapshot struct {
	Source     string
	Filename   string
	Raw        *MultichannelSignal
	Reference  *MultichannelSignal
	Accuracy   []float64
	Pulses     []PulseTrain
	Discharges []DischargeTrain
	SampleRate float64
	IED        float64
	Length     int
	Units      int
	Firing     [][]uint8 // samples×units binary firing matrix
	Extras     map[string]string
}

// BinaryFiring builds the samples×units 0/1 matrix of the given trains.
func BinaryFiring(trains []DischargeTrain, length int) [][]uint8 {
	out := make([][]uint8, length)
	for i := range out {
		out[i] = make([]uint8, len(trains))
	}
	for u, train := range trains {
		for _, idx := range train {
			if idx >= 0 && idx < length {
				out[idx][u] = 1
			}
		}
	}
	return out
}

// Decomposition rebuilds the import bundle from a snapshot so an edited
// session can be reopened.
func (s *Snapshot) Decomposition() Decomposition {
	units := make([]UnitInput, 0, len(s.Pulses))
	for i, p := range s.Pulses {
		in := UnitInput{Pulse: []float64(p.Clone())}
		if i < len(s.Discharges) {
			in.Discharges = []int(s.Discharges[i].Clone())
		}
		units = append(units, in)
	}
	extras := make(map[string]string, len(s.Extras))
	for k, v := range s.Extras {
		extras[k] = v
	}
	return Decomposition{
		Raw:       s.Raw,
		Reference: s.Reference,
		Units:     units,
		Accuracy:  append([]float64(nil), s.Accuracy...),
		Metadata: SessionMetadata{
			Source:   s.Source,
			Filename: s.Filename,
			GridName: extras["grid"],
			IED:      s.IED,
			Extras:   extras,
		},
	}
}
