package control

import (
	"fmt"
	"math"

	"github.com/ayusman/handgrain/internal/curve"
)

// Default distance band and reverse threshold for the synth curves.
const (
	DefaultDistanceMin      = 0.02
	DefaultDistanceMax      = 0.70
	DefaultReverseThreshold = 0.05
)

// Output bounds of the continuous parameters.
const (
	grainDurMin     = 0.005
	grainDurCeiling = 0.5
	grainDurShare   = 0.1
	cutOffMin       = 50.0
	cutOffMax       = 15000.0
	densityMin      = 0.005
	densityMax      = 5.0
	pitchMin        = -12.0
	pitchMax        = 12.0
	lfoRateMin      = 100.0
	lfoRateMax      = 20000.0
)

// Curves maps thumb distances onto parameter values.
type Curves struct {
	DistanceMin      float64
	DistanceMax      float64
	Power            float64
	ReverseThreshold float64
}

// DefaultCurves returns the tuned curve settings.
func DefaultCurves() Curves {
	return Curves{
		DistanceMin:      DefaultDistanceMin,
		DistanceMax:      DefaultDistanceMax,
		Power:            curve.DefaultPower,
		ReverseThreshold: DefaultReverseThreshold,
	}
}

// Validate checks the distance band once, so that Compute never divides by zero.
func (c Curves) Validate() error {
	r := curve.Range{InMin: c.DistanceMin, InMax: c.DistanceMax, OutMin: 0, OutMax: 1, Power: c.Power}
	if err := r.Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.ReverseThreshold) || c.ReverseThreshold <= 0 {
		return fmt.Errorf("reverse threshold must be positive, got %g", c.ReverseThreshold)
	}
	return nil
}

// Range returns the curve for p at the given sample duration. GrainReverse
// and ParamNone have no curve.
func (c Curves) Range(p ParameterName, sampleDuration float64) (curve.Range, bool) {
	r := curve.Range{InMin: c.DistanceMin, InMax: c.DistanceMax, Power: c.Power}

	switch p {
	case GrainDur:
		r.OutMin, r.OutMax = grainDurMin, math.Min(grainDurCeiling, grainDurShare*sampleDuration)
	case GrainPos:
		r.OutMin, r.OutMax = 0, sampleDuration
	case GrainCutOff:
		r.OutMin, r.OutMax = cutOffMin, cutOffMax
	case GrainDensity:
		r.OutMin, r.OutMax = densityMin, densityMax
	case GrainPitch:
		r.OutMin, r.OutMax = pitchMin, pitchMax
	case LfoRate:
		r.OutMin, r.OutMax = lfoRateMin, lfoRateMax
	case GrainReverse, ParamNone:
		return curve.Range{}, false
	default:
		return curve.Range{}, false
	}
	return r, true
}

// Compute returns the value of p for a thumb distance.
func (c Curves) Compute(p ParameterName, distance, sampleDuration float64) (float64, error) {
	if p == GrainReverse {
		if distance < c.ReverseThreshold {
			return 1.0, nil
		}
		return 0.0, nil
	}

	r, ok := c.Range(p, sampleDuration)
	if !ok {
		return 0, fmt.Errorf("no curve for parameter %v", p)
	}
	return curve.Map(distance, r)
}
