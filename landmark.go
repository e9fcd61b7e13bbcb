package grove

import (
	"math"
	"time"
)

// Landmark indices into LandmarkFrame.Points, following the 21-point hand
// topology emitted by MediaPipe-class detectors: wrist first, then four
// joints per finger from base to tip.
const (
	LandmarkWrist = 0

	LandmarkThumbBase = 2
	LandmarkThumbTip  = 4

	LandmarkIndexBase = 5
	LandmarkIndexTip  = 8

	LandmarkMiddleBase = 9
	LandmarkMiddleTip  = 12

	LandmarkRingBase = 13
	LandmarkRingTip  = 16

	LandmarkPinkyBase = 17
	LandmarkPinkyTip  = 20
)

// LandmarkCount is the number of points in a complete hand observation.
const LandmarkCount = 21

// Point is a single labeled hand landmark. X and Y are normalized image
// coordinates in [0, 1] with the origin at the top-left; Z is depth relative
// to the wrist, in roughly the same scale as X.
type Point struct {
	X, Y, Z float64
}

// Distance returns the 3D Euclidean distance between two points.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// LandmarkFrame is one raw hand pose observation. Frames are produced
// externally each detection tick, read once by the Stabilizer, and discarded.
type LandmarkFrame struct {
	Points []Point
	At     time.Time
}

// Valid reports whether the frame carries a complete set of landmarks.
// Incomplete frames are treated as a missed observation, not an error.
func (f *LandmarkFrame) Valid() bool {
	return f != nil && len(f.Points) >= LandmarkCount
}
