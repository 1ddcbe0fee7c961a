package store

import (
	"github.com/ayusman/handgrain/internal/control"
)

// Control is the persisted part of the control state: everything a
// listener can configure. Parameter values and the freeze flag are not kept.
type Control struct {
	Page             string   `json:"page,omitempty"`
	FingerParameters []string `json:"finger_parameters"`
	FingerDrums      []int    `json:"finger_drums"`
	SampleDuration   float64  `json:"sample_duration,omitempty"`
}

// ControlFromSnapshot extracts the persisted fields of snap.
func ControlFromSnapshot(snap control.Snapshot) Control {
	return Control{
		Page:             snap.Mode,
		FingerParameters: append([]string(nil), snap.FingerParams...),
		FingerDrums:      append([]int(nil), snap.FingerDrums...),
		SampleDuration:   snap.SampleDuration,
	}
}

// Events returns the control events that restore c. Empty fields produce no event.
func (c Control) Events() []control.Event {
	var events []control.Event
	if c.SampleDuration > 0 {
		events = append(events, control.SetSampleDuration{Seconds: c.SampleDuration})
	}
	if c.FingerParameters != nil {
		events = append(events, control.SetFingerParameters{Params: c.FingerParameters})
	}
	if c.FingerDrums != nil {
		drums := make([]int, control.NumSlots)
		for i := range drums {
			drums[i] = control.NoSample
		}
		copy(drums, c.FingerDrums)
		events = append(events, control.SetFingerDrums{Samples: drums})
	}
	if c.Page != "" {
		events = append(events, control.SetActivePage{Page: c.Page})
	}
	return events
}
