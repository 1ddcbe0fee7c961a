package control

// DefaultSampleDuration is the sample length assumed until the synth reports one.
const DefaultSampleDuration = 10.0

// State is the complete control state of one session.
type State struct {
	Values         ParameterVector
	Frozen         bool
	Mode           Mode
	SampleDuration float64
	Assignments    Assignments
}

// NewState returns the start-up state: default values, synth mode, nothing assigned.
func NewState() State {
	return State{
		Values:         Defaults(),
		Mode:           Synth,
		SampleDuration: DefaultSampleDuration,
		Assignments:    NewAssignments(),
	}
}

// Get returns the current value of p.
func (s *State) Get(p ParameterName) float64 {
	return s.Values.Get(p)
}

// Set stores v as the value of p. Invalid names are ignored.
func (s *State) Set(p ParameterName, v float64) {
	if p.Valid() {
		s.Values[p.index()] = v
	}
}

// Reset clears the freeze and restores every parameter default. Mode,
// sample duration and assignments are kept.
func (s *State) Reset() {
	s.Frozen = false
	s.Values = Defaults()
}

// Snapshot is a JSON-friendly copy of State.
type Snapshot struct {
	Mode           string             `json:"mode"`
	Frozen         bool               `json:"frozen"`
	SampleDuration float64            `json:"sample_duration"`
	Values         map[string]float64 `json:"values"`
	Vector         []float64          `json:"vector"`
	FingerParams   []string           `json:"finger_parameters"`
	FingerDrums    []int              `json:"finger_drums"`
}

// Snapshot copies the state for readers outside the frame cycle.
func (s State) Snapshot() Snapshot {
	values := make(map[string]float64, NumParameters)
	for _, p := range Parameters {
		values[p.String()] = s.Get(p)
	}
	drums := make([]int, NumSlots)
	copy(drums, s.Assignments.Drum[:])

	return Snapshot{
		Mode:           s.Mode.String(),
		Frozen:         s.Frozen,
		SampleDuration: s.SampleDuration,
		Values:         values,
		Vector:         append([]float64(nil), s.Values[:]...),
		FingerParams:   s.Assignments.Synth.Names(),
		FingerDrums:    drums,
	}
}
