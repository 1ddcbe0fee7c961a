// Package detector provides hand landmark types and the sources that produce
// them frame by frame. It has no camera or OpenCV dependency.
package detector

import (
	"fmt"
	"strings"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Side identifies which hand an observation belongs to.
type Side string

const (
	Left  Side = "Left"
	Right Side = "Right"
)

// ParseSide converts a handedness label into a Side.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return "", fmt.Errorf("unknown handedness %q", s)
}

// Index returns the hand index used on the visualization wire: 0 for Left, 1 for Right.
func (s Side) Index() int {
	if s == Left {
		return 0
	}
	return 1
}

// Point3D represents a 3D point in normalized image coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one hand observed in one frame: the 21 MediaPipe landmarks
// plus the side it was classified as.
type HandLandmarks struct {
	Points [NumLandmarks]Point3D `json:"points"`
	Side   Side                  `json:"handedness"`
	Score  float64               `json:"score"`
}

// PickSides returns at most one hand per side, keeping the first of each
// side in delivery order. A nil entry means that side is absent.
func PickSides(hands []HandLandmarks) (left, right *HandLandmarks) {
	for i := range hands {
		h := &hands[i]
		switch h.Side {
		case Left:
			if left == nil {
				left = h
			}
		case Right:
			if right == nil {
				right = h
			}
		}
	}
	return left, right
}
