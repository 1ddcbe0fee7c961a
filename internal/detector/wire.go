package detector

import "fmt"

// WireHand is one hand as the MediaPipe service reports it and replay files
// store it.
type WireHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

// Landmarks validates h and converts it to HandLandmarks.
func (h WireHand) Landmarks() (HandLandmarks, error) {
	side, err := ParseSide(h.Handedness)
	if err != nil {
		return HandLandmarks{}, err
	}
	if len(h.Points) < NumLandmarks {
		return HandLandmarks{}, fmt.Errorf("hand has %d landmarks, want %d", len(h.Points), NumLandmarks)
	}

	lm := HandLandmarks{
		Side:  side,
		Score: h.Score,
	}
	copy(lm.Points[:], h.Points[:NumLandmarks])

	return lm, nil
}
