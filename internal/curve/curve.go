// Package curve provides power-law remapping between an input range and an output range.
package curve

import (
	"errors"
	"fmt"
	"math"
)

// DefaultPower is the easing exponent used for every hand-to-parameter mapping.
const DefaultPower = 2.5

// ErrRangeConfiguration is matched by every RangeConfigurationError.
var ErrRangeConfiguration = errors.New("invalid range configuration")

// RangeConfigurationError reports a range that cannot be mapped from.
type RangeConfigurationError struct {
	InMin  float64
	InMax  float64
	Reason string
}

func (e *RangeConfigurationError) Error() string {
	return fmt.Sprintf("range [%g, %g]: %s", e.InMin, e.InMax, e.Reason)
}

// Is lets errors.Is match ErrRangeConfiguration.
func (e *RangeConfigurationError) Is(target error) bool {
	return target == ErrRangeConfiguration
}

// Range describes one mapping from an input interval onto an output interval.
type Range struct {
	InMin  float64
	InMax  float64
	OutMin float64
	OutMax float64
	Power  float64
}

// Validate checks that the range can be mapped from without dividing by zero.
func (r Range) Validate() error {
	if r.InMin == r.InMax {
		return &RangeConfigurationError{InMin: r.InMin, InMax: r.InMax, Reason: "input bounds are equal"}
	}
	for _, v := range []float64{r.InMin, r.InMax, r.OutMin, r.OutMax, r.Power} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &RangeConfigurationError{InMin: r.InMin, InMax: r.InMax, Reason: "bounds must be finite"}
		}
	}
	if r.Power <= 0 {
		return &RangeConfigurationError{InMin: r.InMin, InMax: r.InMax, Reason: "power must be positive"}
	}
	return nil
}

// Map normalizes x into [0,1], clamps it, applies the power curve and rescales
// the result into [OutMin, OutMax].
func Map(x float64, r Range) (float64, error) {
	if r.InMin == r.InMax {
		return 0, &RangeConfigurationError{InMin: r.InMin, InMax: r.InMax, Reason: "input bounds are equal"}
	}

	norm := (x - r.InMin) / (r.InMax - r.InMin)
	if math.IsNaN(norm) {
		norm = 0
	}
	norm = math.Max(0, math.Min(1, norm))

	curved := math.Pow(norm, r.Power)

	// The end points are returned verbatim so they are exact regardless of rounding.
	switch curved {
	case 0:
		return r.OutMin, nil
	case 1:
		return r.OutMax, nil
	}
	return r.OutMin + curved*(r.OutMax-r.OutMin), nil
}

// MapLinear maps x with the default power curve onto a fixed output range.
func MapLinear(x, inMin, inMax, outMin, outMax float64) (float64, error) {
	return Map(x, Range{InMin: inMin, InMax: inMax, OutMin: outMin, OutMax: outMax, Power: DefaultPower})
}

// MapPositional maps x with the default power curve onto a range whose upper
// bound follows the live sample duration.
func MapPositional(x, inMin, inMax, outMin, sampleDuration float64) (float64, error) {
	return Map(x, Range{InMin: inMin, InMax: inMax, OutMin: outMin, OutMax: sampleDuration, Power: DefaultPower})
}
