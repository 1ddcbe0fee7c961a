package engine

import (
	"errors"

	"github.com/ayusman/handgrain/internal/control"
)

// SynthSink receives the messages addressed to the synthesis engine.
// Implementations must not block; delivery is best effort.
type SynthSink interface {
	SendParameters(v control.ParameterVector) error
	SendTrigger(sample int) error
}

// VisualSink receives the messages addressed to the visualizer.
// Implementations must not block; delivery is best effort.
type VisualSink interface {
	SendHandPoint(hand, index int, x, y float64) error
	SendParameters(v control.ParameterVector) error
}

// MultiVisual fans visual messages out to several sinks. Every sink is tried
// even when an earlier one fails.
type MultiVisual []VisualSink

func (m MultiVisual) SendHandPoint(hand, index int, x, y float64) error {
	var errs []error
	for _, s := range m {
		if err := s.SendHandPoint(hand, index, x, y); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiVisual) SendParameters(v control.ParameterVector) error {
	var errs []error
	for _, s := range m {
		if err := s.SendParameters(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every message. It stands in for an unconfigured sink.
type Discard struct{}

func (Discard) SendParameters(control.ParameterVector) error { return nil }
func (Discard) SendTrigger(int) error                          { return nil }
func (Discard) SendHandPoint(int, int, float64, float64) error { return nil }
