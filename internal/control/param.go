// Package control holds the control state of the engine: the synthesis
// parameters, the finger assignment tables and the events that change them.
package control

import (
	"fmt"
	"strings"
)

// ParameterName identifies one synthesis parameter.
type ParameterName int

const (
	// ParamNone marks an unassigned finger.
	ParamNone ParameterName = iota
	GrainDur
	GrainPos
	GrainCutOff
	GrainDensity
	GrainPitch
	GrainReverse
	LfoRate
)

// NumParameters is the number of synthesis parameters.
const NumParameters = 7

// Parameters lists every parameter in parameter-vector order.
var Parameters = [NumParameters]ParameterName{
	GrainDur, GrainPos, GrainCutOff, GrainDensity, GrainPitch, GrainReverse, LfoRate,
}

var parameterNames = map[ParameterName]string{
	GrainDur:     "GrainDur",
	GrainPos:     "GrainPos",
	GrainCutOff:  "GrainCutOff",
	GrainDensity: "GrainDensity",
	GrainPitch:   "GrainPitch",
	GrainReverse: "GrainReverse",
	LfoRate:      "lfoRate",
}

// String returns the name used on the wire, e.g. "GrainDur" or "lfoRate".
func (p ParameterName) String() string {
	if name, ok := parameterNames[p]; ok {
		return name
	}
	if p == ParamNone {
		return ""
	}
	return fmt.Sprintf("ParameterName(%d)", int(p))
}

// Valid reports whether p is one of the seven parameters.
func (p ParameterName) Valid() bool {
	return p >= GrainDur && p <= LfoRate
}

func (p ParameterName) index() int {
	return int(p) - 1
}

// ParseParameterName parses a wire name. Matching is case-insensitive; the
// empty string parses as ParamNone.
func ParseParameterName(s string) (ParameterName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ParamNone, nil
	}
	for _, p := range Parameters {
		if strings.EqualFold(parameterNames[p], s) {
			return p, nil
		}
	}
	return ParamNone, fmt.Errorf("%w: unknown parameter %q", ErrInvalidEvent, s)
}

// ParameterVector is the seven parameter values in fixed order:
// GrainDur, GrainPos, GrainCutOff, GrainDensity, GrainPitch, GrainReverse, LfoRate.
type ParameterVector [NumParameters]float64

// Get returns the value of p in the vector.
func (v ParameterVector) Get(p ParameterName) float64 {
	if !p.Valid() {
		return 0
	}
	return v[p.index()]
}

// Default parameter values restored by a reset.
const (
	DefaultGrainDur     = 0.02
	DefaultGrainPos     = 0.01
	DefaultGrainCutOff  = 3000.0
	DefaultGrainDensity = 0.8
	DefaultGrainPitch   = 1.0
	DefaultGrainReverse = 0.0
	DefaultLfoRate      = 0.0
)

// Defaults returns the default parameter vector.
func Defaults() ParameterVector {
	return ParameterVector{
		DefaultGrainDur,
		DefaultGrainPos,
		DefaultGrainCutOff,
		DefaultGrainDensity,
		DefaultGrainPitch,
		DefaultGrainReverse,
		DefaultLfoRate,
	}
}
