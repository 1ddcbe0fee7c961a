package control

import (
	"fmt"
	"strings"
)

// FingerSlot is one of the four pinch slots, in table order.
type FingerSlot int

const (
	RightIndex FingerSlot = iota
	RightMiddle
	LeftIndex
	LeftMiddle
)

// NumSlots is the size of every assignment table.
const NumSlots = 4

func (s FingerSlot) String() string {
	switch s {
	case RightIndex:
		return "RightIndex"
	case RightMiddle:
		return "RightMiddle"
	case LeftIndex:
		return "LeftIndex"
	case LeftMiddle:
		return "LeftMiddle"
	}
	return fmt.Sprintf("FingerSlot(%d)", int(s))
}

// Valid reports whether s indexes an assignment table.
func (s FingerSlot) Valid() bool {
	return s >= RightIndex && s <= LeftMiddle
}

// Mode is the active interaction scheme.
type Mode int

const (
	// Synth maps finger distances continuously onto parameters.
	Synth Mode = iota
	// Drum fires samples on pinch.
	Drum
)

func (m Mode) String() string {
	switch m {
	case Synth:
		return "synth"
	case Drum:
		return "drum"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a page name sent by the controller UI.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "synth":
		return Synth, nil
	case "drum":
		return Drum, nil
	}
	return Synth, fmt.Errorf("%w: unknown page %q", ErrInvalidEvent, s)
}
