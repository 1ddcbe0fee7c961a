package control

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidEvent is wrapped by every rejected control event.
var ErrInvalidEvent = errors.New("invalid control event")

// Effect describes output an applied event requires from the caller.
type Effect int

const (
	// EffectNone requires no output.
	EffectNone Effect = iota
	// EffectEmitVector requires the current parameter vector to be sent.
	EffectEmitVector
)

// Event is an external configuration or control command. Apply either
// updates the state completely or returns an error and leaves it untouched.
type Event interface {
	Name() string
	Apply(s *State) (Effect, error)
}

// SetFingerParameters replaces the synth assignment table.
type SetFingerParameters struct {
	Params []string
}

func (SetFingerParameters) Name() string { return "SetFingerParameters" }

func (e SetFingerParameters) Apply(s *State) (Effect, error) {
	table, err := ParseSynthAssignments(e.Params)
	if err != nil {
		return EffectNone, err
	}
	s.Assignments.Synth = table
	return EffectNone, nil
}

// ValidSampleDuration reports whether seconds is a usable sample length:
// positive and finite.
func ValidSampleDuration(seconds float64) bool {
	return !math.IsNaN(seconds) && !math.IsInf(seconds, 0) && seconds > 0
}

// SetSampleDuration replaces the sample length that bounds position mappings.
type SetSampleDuration struct {
	Seconds float64
}

func (SetSampleDuration) Name() string { return "SetSampleDuration" }

func (e SetSampleDuration) Apply(s *State) (Effect, error) {
	if !ValidSampleDuration(e.Seconds) {
		return EffectNone, fmt.Errorf("%w: sample duration must be positive, got %g", ErrInvalidEvent, e.Seconds)
	}
	s.SampleDuration = e.Seconds
	return EffectNone, nil
}

// SetActivePage switches between synth and drum mode.
type SetActivePage struct {
	Page string
}

func (SetActivePage) Name() string { return "SetActivePage" }

func (e SetActivePage) Apply(s *State) (Effect, error) {
	mode, err := ParseMode(e.Page)
	if err != nil {
		return EffectNone, err
	}
	s.Mode = mode
	return EffectNone, nil
}

// SetFingerDrums updates the drum assignment table; negative values clear a slot.
type SetFingerDrums struct {
	Samples []int
}

func (SetFingerDrums) Name() string { return "SetFingerDrums" }

func (e SetFingerDrums) Apply(s *State) (Effect, error) {
	s.Assignments.Drum = s.Assignments.Drum.Merge(e.Samples)
	return EffectNone, nil
}

// ResetParameters clears the freeze and restores the default parameter values.
type ResetParameters struct{}

func (ResetParameters) Name() string { return "ResetParameters" }

func (ResetParameters) Apply(s *State) (Effect, error) {
	s.Reset()
	return EffectEmitVector, nil
}
