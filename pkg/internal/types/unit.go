package types

// EditState is the per-unit position in the edit cycle.
type EditState int

const (
	StateLoaded       EditState = iota // StateLoaded is the state right after import.
	StateEdited                        // StateEdited has pending manual additions or removals.
	StateRecalculated                  // StateRecalculated follows a successful recalculation.
	StateSaved                         // StateSaved follows a successful save.
	StateRemoved                       // StateRemoved is terminal.
)

func (s EditState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateEdited:
		return "edited"
	case StateRecalculated:
		return "recalculated"
	case StateSaved:
		return "saved"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// SILBand is the display classification of a SIL delta.
type SILBand int

const (
	BandNone SILBand = iota
	BandLargePositive
	BandSmallPositive
	BandSmallNegative
	BandLargeNegative
)

func (b SILBand) String() string {
	switch b {
	case BandLargePositive:
		return "large positive"
	case BandSmallPositive:
		return "small positive"
	case BandSmallNegative:
		return "small negative"
	case BandLargeNegative:
		return "large negative"
	default:
		return "none"
	}
}

// Color is the colour the editor uses to paint the SIL label for the band.
func (b SILBand) Color() string {
	switch b {
	case BandLargePositive:
		return "limegreen"
	case BandSmallPositive:
		return "lightgreen"
	case BandSmallNegative:
		return "lightcoral"
	case BandLargeNegative:
		return "red"
	default:
		return "black"
	}
}

// SILScore keeps the separability score before and after the latest edit.
type SILScore struct {
	Before float64
	After  float64
}

// Delta is After minus Before.
func (s SILScore) Delta() float64 {
	return s.After - s.Before
}

// MotorUnit is the editable state of one decomposed unit.
type MotorUnit struct {
	ID           int
	Pulse        PulseTrain
	Discharges   DischargeTrain
	SIL          SILScore
	State        EditState
	Recalculated bool
}

// Clone returns a deep copy of the unit.
func (u *MotorUnit) Clone() *MotorUnit {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Pulse = u.Pulse.Clone()
	cp.Discharges = u.Discharges.Clone()
	return &cp
}

// UnitView is what the display layer reads for one unit.
type UnitView struct {
	Unit     *MotorUnit
	Band     SILBand
	Delta    float64
	Rate     []float64 // instantaneous discharge rate at Discharges[1:]
	RateTime []int     // sample index of each Rate entry
}

// Selection is a rectangle drawn over a pulse train, in sample and amplitude
// coordinates. Bounds are exclusive.
type Selection struct {
	FromSample int
	ToSample   int
	MinAmp     float64
	MaxAmp     float64
}

// Normalized returns the selection with ordered bounds.
func (s Selection) Normalized() Selection {
	if s.FromSample > s.ToSample {
		s.FromSample, s.ToSample = s.ToSample, s.FromSample
	}
	if s.MinAmp > s.MaxAmp {
		s.MinAmp, s.MaxAmp = s.MaxAmp, s.MinAmp
	}
	return s
}

// Contains reports whether (sample, amp) lies strictly inside the box.
func (s Selection) Contains(sample int, amp float64) bool {
	return sample > s.FromSample && sample < s.ToSample && amp > s.MinAmp && amp < s.MaxAmp
}

// UnitInput seeds a motor unit at import.
type UnitInput struct {
	Pulse      []float64
	Discharges []int
}

// Decomposition is the bundle handed over by the decomposition collaborator.
type Decomposition struct {
	Raw       *MultichannelSignal
	Reference *MultichannelSignal
	Units     []UnitInput
	Accuracy  []float64 // stored SIL per unit, seeds the initial score

	Metadata  SessionMetadata
}

// SessionMetadata describes where the decomposition came from.
type SessionMetadata struct {
	Source   string
	Filename string
	GridName string
	IED      float64
	Extras   map[string]string
}
