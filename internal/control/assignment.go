package control

import "fmt"

// NoSample marks a drum slot with no sample.
const NoSample = -1

// SynthAssignments maps right-hand fingers (index, middle, ring, pinky) to
// the parameter each one drives.
type SynthAssignments [NumSlots]ParameterName

// For returns the parameter assigned to finger i.
func (a SynthAssignments) For(i int) (ParameterName, bool) {
	if i < 0 || i >= NumSlots || !a[i].Valid() {
		return ParamNone, false
	}
	return a[i], true
}

// ParseSynthAssignments builds a whole synth table from up to four wire
// names. Fingers past the supplied names are unassigned.
func ParseSynthAssignments(names []string) (SynthAssignments, error) {
	var out SynthAssignments
	if len(names) > NumSlots {
		return out, fmt.Errorf("%w: %d finger parameters, at most %d", ErrInvalidEvent, len(names), NumSlots)
	}
	for i, name := range names {
		p, err := ParseParameterName(name)
		if err != nil {
			return SynthAssignments{}, err
		}
		out[i] = p
	}
	return out, nil
}

// Names returns the wire names of the table; unassigned fingers are "".
func (a SynthAssignments) Names() []string {
	out := make([]string, NumSlots)
	for i, p := range a {
		out[i] = p.String()
	}
	return out
}

// DrumAssignments maps each FingerSlot to a sample index or NoSample.
type DrumAssignments [NumSlots]int

// EmptyDrumAssignments returns a table with every slot cleared.
func EmptyDrumAssignments() DrumAssignments {
	return DrumAssignments{NoSample, NoSample, NoSample, NoSample}
}

// Sample returns the sample assigned to slot.
func (a DrumAssignments) Sample(slot FingerSlot) (int, bool) {
	if !slot.Valid() || a[slot] < 0 {
		return NoSample, false
	}
	return a[slot], true
}

// Merge applies a partial update: value i replaces slot i, negative values
// clear it, slots past the supplied values keep their assignment and values
// past the fourth are ignored.
func (a DrumAssignments) Merge(values []int) DrumAssignments {
	out := a
	for i, v := range values {
		if i >= NumSlots {
			break
		}
		if v < 0 {
			out[i] = NoSample
		} else {
			out[i] = v
		}
	}
	return out
}

// Assignments is the complete finger assignment table for both modes.
type Assignments struct {
	Synth SynthAssignments
	Drum  DrumAssignments
}

// NewAssignments returns a table with nothing assigned.
func NewAssignments() Assignments {
	return Assignments{Drum: EmptyDrumAssignments()}
}
