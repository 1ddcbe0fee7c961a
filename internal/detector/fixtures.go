package detector

// FistLandmarks returns a closed fist: every fingertip sits below its PIP joint.
func FistLandmarks(side Side) HandLandmarks {
	landmarks := HandLandmarks{
		Side:  side,
		Score: 0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb folded across the palm
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.70, Z: -0.02}
	landmarks.Points[ThumbIP] = Point3D{X: 0.54, Y: 0.67, Z: -0.04}
	landmarks.Points[ThumbTip] = Point3D{X: 0.51, Y: 0.66, Z: -0.05}

	// Fingers curled, tips tucked under the PIP joints
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66, Z: -0.02}
	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.62, Z: -0.05}
	landmarks.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.66, Z: -0.06}
	landmarks.Points[IndexTip] = Point3D{X: 0.54, Y: 0.69, Z: -0.04}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.65, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.61, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.65, Z: -0.06}
	landmarks.Points[MiddleTip] = Point3D{X: 0.49, Y: 0.68, Z: -0.04}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.66, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.62, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: 0.44, Y: 0.66, Z: -0.06}
	landmarks.Points[RingTip] = Point3D{X: 0.44, Y: 0.69, Z: -0.04}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.68, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.65, Z: -0.04}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.40, Y: 0.68, Z: -0.05}
	landmarks.Points[PinkyTip] = Point3D{X: 0.40, Y: 0.71, Z: -0.03}

	return landmarks
}

// OpenPalmLandmarks returns an open palm with all fingers extended upward.
func OpenPalmLandmarks(side Side) HandLandmarks {
	landmarks := HandLandmarks{
		Side:  side,
		Score: 0.95,
	}

	// Wrist at base
	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// pinchDirections spreads the four fingertips around the thumb tip so that
// each one stays above its PIP joint.
var pinchDirections = [4][2]float64{
	{-1, 0},
	{1, 0},
	{-0.6, -0.8},
	{0.6, -0.8},
}

// HandWithDistances returns an open hand whose index, middle, ring and pinky
// tips sit at the given 2-D distances from the thumb tip.
func HandWithDistances(side Side, distances [4]float64) HandLandmarks {
	landmarks := OpenPalmLandmarks(side)

	thumb := Point3D{X: 0.5, Y: 0.2, Z: 0.0}
	landmarks.Points[ThumbTip] = thumb

	tips := [4]int{IndexTip, MiddleTip, RingTip, PinkyTip}
	for i, tip := range tips {
		landmarks.Points[tip] = Point3D{
			X: thumb.X + distances[i]*pinchDirections[i][0],
			Y: thumb.Y + distances[i]*pinchDirections[i][1],
		}
	}

	return landmarks
}
