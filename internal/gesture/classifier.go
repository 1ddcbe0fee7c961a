// Package gesture classifies single-hand poses and turns pinch distances into
// discrete trigger events.
package gesture

import (
	"math"

	"github.com/ayusman/handgrain/internal/detector"
)

// fistPairs lists (tip, PIP) landmark pairs for the four non-thumb fingers.
var fistPairs = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// FingerTips are the tips measured against the thumb, in index, middle, ring, pinky order.
var FingerTips = [4]int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}

// IsFist reports whether every non-thumb fingertip lies below its PIP joint.
// Image Y grows downward, so "below" means a larger Y.
func IsFist(hand *detector.HandLandmarks) bool {
	if hand == nil {
		return false
	}
	for _, pair := range fistPairs {
		if hand.Points[pair[0]].Y <= hand.Points[pair[1]].Y {
			return false
		}
	}
	return true
}

// ThumbDistance returns the distance in the image plane between the thumb tip
// and the landmark at tip.
func ThumbDistance(hand *detector.HandLandmarks, tip int) float64 {
	thumb := hand.Points[detector.ThumbTip]
	p := hand.Points[tip]
	return math.Hypot(p.X-thumb.X, p.Y-thumb.Y)
}

// FingerDistances returns the thumb distance of each of the four fingertips.
func FingerDistances(hand *detector.HandLandmarks) [4]float64 {
	var out [4]float64
	for i, tip := range FingerTips {
		out[i] = ThumbDistance(hand, tip)
	}
	return out
}
