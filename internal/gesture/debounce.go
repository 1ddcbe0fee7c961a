package gesture

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/handgrain/internal/control"
)

// Default pinch thresholds in normalized image units.
const (
	DefaultPinchThreshold   = 0.05
	DefaultReleaseThreshold = 0.08
)

// ErrInvalidThresholds is returned when pinch and release thresholds overlap.
var ErrInvalidThresholds = errors.New("invalid pinch thresholds")

// Thresholds holds the hysteresis band of the pinch debouncer.
type Thresholds struct {
	Pinch   float64
	Release float64
}

// DefaultThresholds returns the tuned pinch/release band.
func DefaultThresholds() Thresholds {
	return Thresholds{Pinch: DefaultPinchThreshold, Release: DefaultReleaseThreshold}
}

// Validate requires 0 < Pinch < Release, so there is always a dead band.
func (t Thresholds) Validate() error {
	if !(t.Pinch > 0 && t.Release > t.Pinch) || math.IsInf(t.Release, 0) {
		return fmt.Errorf("%w: pinch=%g release=%g", ErrInvalidThresholds, t.Pinch, t.Release)
	}
	return nil
}

// Debouncer converts per-slot thumb distances into pinch triggers. A slot
// becomes pinched below Pinch and released above Release; distances inside
// the band leave it unchanged.
type Debouncer struct {
	thresholds Thresholds
	pinched    [control.NumSlots]bool
}

// NewDebouncer returns a debouncer with every slot released.
func NewDebouncer(t Thresholds) *Debouncer {
	return &Debouncer{thresholds: t}
}

// Update feeds one distance sample for slot and reports whether it produced
// a trigger. Only the released to pinched transition triggers.
func (d *Debouncer) Update(slot control.FingerSlot, distance float64) bool {
	if !slot.Valid() {
		return false
	}

	switch {
	case !d.pinched[slot] && distance < d.thresholds.Pinch:
		d.pinched[slot] = true
		return true
	case d.pinched[slot] && distance > d.thresholds.Release:
		d.pinched[slot] = false
	}
	return false
}

// Pinched reports the current state of slot.
func (d *Debouncer) Pinched(slot control.FingerSlot) bool {
	if !slot.Valid() {
		return false
	}
	return d.pinched[slot]
}

// Reset releases every slot.
func (d *Debouncer) Reset() {
	d.pinched = [control.NumSlots]bool{}
}
