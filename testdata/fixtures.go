// Package testdata embeds recorded landmark sessions for tests.
package testdata

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"

	"github.com/ayusman/handgrain/internal/detector"
)

//go:embed sessions/*.jsonl
var sessionsFS embed.FS

// Session names shipped with the repository.
const (
	SynthSweep  = "synth_sweep.jsonl"
	Freeze      = "freeze.jsonl"
	DrumPinches = "drum_pinches.jsonl"
)

// OpenSession returns a replay source over the named recording.
func OpenSession(name string) (*detector.ReplaySource, error) {
	data, err := sessionsFS.ReadFile(path.Join("sessions", name))
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", name, err)
	}
	return detector.NewReplaySource(bytes.NewReader(data)), nil
}

// Sessions lists the embedded recordings by name.
func Sessions() ([]string, error) {
	entries, err := sessionsFS.ReadDir("sessions")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
