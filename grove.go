package grove

import "github.com/chewxy/math32"

// Vec3 is a 3D vector used for positions, rotations (Euler radians), and
// per-axis scales throughout the API.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Mul returns v scaled by s.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo returns the Euclidean distance between v and other.
func (v Vec3) DistanceTo(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Normalized returns v scaled to unit length. Returns the zero vector if v
// has zero length.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Lerp returns the componentwise linear interpolation between v and other at
// parameter t.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return Vec3{
		v.X + (other.X-v.X)*t,
		v.Y + (other.Y-v.Y)*t,
		v.Z + (other.Z-v.Z)*t,
	}
}

// Role identifies one of the six ornament populations. Each role receives its
// own angular offset in the formed spiral so populations interleave around
// the trunk instead of overlapping.
type Role uint8

const (
	RoleBauble Role = iota // spherical ornaments
	RoleLight              // point lights strung between branches
	RoleStar               // star toppers and accents
	RoleGift               // wrapped boxes at the base
	RoleRibbon             // ribbon curls
	RolePhoto              // photo cards; the overlay/closest-scan role
)

// NumRoles is the number of distinct roles spaced around the spiral.
const NumRoles = 6

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleBauble:
		return "bauble"
	case RoleLight:
		return "light"
	case RoleStar:
		return "star"
	case RoleGift:
		return "gift"
	case RoleRibbon:
		return "ribbon"
	case RolePhoto:
		return "photo"
	default:
		return "unknown"
	}
}

// TreeTarget selects which arrangement the scene is easing toward.
type TreeTarget uint8

const (
	TreeChaos  TreeTarget = iota // scattered arrangement
	TreeFormed                   // golden-angle spiral arrangement
)

// String returns the lowercase target name.
func (t TreeTarget) String() string {
	if t == TreeFormed {
		return "formed"
	}
	return "chaos"
}

// GestureEvent is one classified, debounced gesture observation emitted by
// the Stabilizer. Cursor coordinates are normalized to [-1, 1] with X
// mirrored to match the on-screen view of the hand.
type GestureEvent struct {
	IsDetected bool
	IsOpen     bool
	IsPinch    bool
	CursorX    float64
	CursorY    float64
}
