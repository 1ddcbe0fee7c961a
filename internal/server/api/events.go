package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ayusman/handgrain/internal/control"
)

// EventRequest is the JSON form of a control event. Only the fields the
// named event uses are read.
type EventRequest struct {
	Event   string   `json:"event"`
	Params  []string `json:"params,omitempty"`
	Samples []int    `json:"samples,omitempty"`
	Seconds float64  `json:"seconds,omitempty"`
	Page    string   `json:"page,omitempty"`
}

// ErrUnknownEvent is returned for event names no control event answers to.
var ErrUnknownEvent = errors.New("unknown event")

// ToEvent converts the request into a control event. Names match the event
// names ("SetActivePage") or the OSC address without its slash ("activePage").
func (r EventRequest) ToEvent() (control.Event, error) {
	switch strings.ToLower(r.Event) {
	case "setfingerparameters", "fingerparameters":
		return control.SetFingerParameters{Params: r.Params}, nil
	case "setsampleduration", "sampleduration":
		return control.SetSampleDuration{Seconds: r.Seconds}, nil
	case "setactivepage", "activepage":
		return control.SetActivePage{Page: r.Page}, nil
	case "setfingerdrums", "fingerdrums":
		return control.SetFingerDrums{Samples: r.Samples}, nil
	case "resetparameters":
		return control.ResetParameters{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, r.Event)
}

// validate applies ev to a scratch state. None of the events depend on prior
// state to be accepted, so this predicts whether the engine will accept it.
func validate(ev control.Event) error {
	scratch := control.NewState()
	_, err := ev.Apply(&scratch)
	return err
}

// ControlHandler serves the live control state and accepts control events.
type ControlHandler struct {
	ctl Controller
}

// NewControlHandler creates a ControlHandler for ctl.
func NewControlHandler(ctl Controller) *ControlHandler {
	return &ControlHandler{ctl: ctl}
}

// ServeState handles GET /api/state.
func (h *ControlHandler) ServeState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.ctl.Snapshot())
}

// ServeEvents handles POST /api/events with one event object or an array of them.
func (h *ControlHandler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var reqs []EventRequest
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &reqs); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	} else {
		var req EventRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		reqs = []EventRequest{req}
	}

	events := make([]control.Event, 0, len(reqs))
	for _, req := range reqs {
		ev, err := req.ToEvent()
		if err == nil {
			err = validate(ev)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		events = append(events, ev)
	}

	if err := postAll(r, h.ctl, events); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Engine is not accepting events")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]int{"accepted": len(events)})
}

func postAll(r *http.Request, ctl Controller, events []control.Event) error {
	for _, ev := range events {
		if err := ctl.Post(r.Context(), ev); err != nil {
			return err
		}
	}
	return nil
}
