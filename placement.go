package grove

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/chewxy/math32"
)

// goldenAngle is the angular step that distributes successive indices evenly
// around the vertical axis with no two ever aligning.
var goldenAngle = float32(math.Pi * (3 - math.Sqrt(5)))

// Spiral and scatter dimensions, in scene units. The formed tree tapers from
// apexY down to apexY-treeHeight as the spiral widens to baseRadius.
const (
	spiralBaseRadius = 5.5
	spiralApexY      = 6.0
	treeHeight       = 7.0

	chaosRadius = 9.0

	// photoColumnRadius and photoColumnBase/Span define the cylindrical
	// scatter of the photo role: photos keep a recognizable per-object
	// position under chaos so the closest-object scan stays meaningful.
	photoColumnRadius = 7.0
	photoColumnBase   = -1.0
	photoColumnSpan   = 6.0

	// tiltStep spaces the five distinct chaos tilt values.
	tiltStep = 0.12
)

// ErrInvalidPopulation is returned when population parameters are rejected.
var ErrInvalidPopulation = errors.New("grove: invalid population parameters")

// Placement is one static pose: position, Euler rotation, and per-axis
// scale. Placements are computed once per population and never mutated.
type Placement struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// SceneObject is one ornament instance. Chaos and Formed are fixed at
// generation time; Mix, Current, LookAt, and Tilt are mutated every tick by
// the Engine and by nothing else.
type SceneObject struct {
	Index        int
	Role         Role
	PaletteIndex int

	Chaos  Placement
	Formed Placement

	// ChaosTilt is the deterministic resting tilt this object eases toward
	// while scattered.
	ChaosTilt float32

	// Mix is the eased interpolation parameter: 0 at the chaos placement,
	// 1 at the formed placement.
	Mix float32

	// Current is the interpolated transform for this tick, consumed by the
	// external renderer.
	Current Placement

	// LookAt is the world point the object should face this tick.
	LookAt Vec3

	// Tilt is the animated roll applied while scattered, in radians.
	Tilt float32
}

// Population is one role's ordered set of scene objects.
type Population struct {
	Role    Role
	Objects []SceneObject
}

// GeneratePopulation computes chaos and formed placements for count objects
// of the given role. Formed placements are a pure function of (role, index,
// count) and are bit-reproducible; chaos placements, per-object scale, and
// rotation draw from rng. The whole population is regenerated wholesale when
// any parameter changes; placements are never mutated in place.
func GeneratePopulation(role Role, count, paletteSize int, rng *rand.Rand) (Population, error) {
	if count <= 0 {
		return Population{}, fmt.Errorf("%w: count %d", ErrInvalidPopulation, count)
	}
	if paletteSize <= 0 {
		return Population{}, fmt.Errorf("%w: palette size %d", ErrInvalidPopulation, paletteSize)
	}

	pop := Population{Role: role, Objects: make([]SceneObject, count)}
	for i := 0; i < count; i++ {
		obj := &pop.Objects[i]
		obj.Index = i
		obj.Role = role
		obj.PaletteIndex = rng.Intn(paletteSize)

		obj.Formed = formedPlacement(role, i, count)
		obj.Chaos = chaosPlacement(role, i, count, rng)
		obj.ChaosTilt = float32(i%5-2) * tiltStep

		// Scale and spin are rolled once and shared by both placements so
		// only position and resting rotation interpolate.
		s := randomScale(role, rng)
		obj.Formed.Scale = s
		obj.Chaos.Scale = s
		// Photos keep the deterministic outward facing from the cylinder.
		if role != RolePhoto {
			obj.Chaos.Rotation = randomRotation(rng)
		}

		obj.Mix = 1
		obj.Current = obj.Formed
	}
	return pop, nil
}

// formedPlacement lays index i of count on the golden-angle spiral: radius
// and height follow sqrt progress so density stays even down the cone, and
// each role's angular offset interleaves the six populations.
func formedPlacement(role Role, i, count int) Placement {
	progress := sqrt32(float32(i+1)/float32(count)) * 0.9
	r := progress * spiralBaseRadius * trunkPush(role)
	y := spiralApexY - progress*treeHeight
	theta := float32(i)*goldenAngle + roleAngleOffset(role)

	sin, cos := sincos32(theta)
	return Placement{
		Position: Vec3{r * cos, y, r * sin},
		Rotation: Vec3{0, -theta, 0},
		Scale:    Vec3{1, 1, 1},
	}
}

// chaosPlacement scatters most roles uniformly in direction at a fixed
// radius. The photo role instead gets a cylindrical layout (golden-angle
// around, height spread linearly across the population) so each photo keeps
// a distinguishable identity while scattered.
func chaosPlacement(role Role, i, count int, rng *rand.Rand) Placement {
	if role == RolePhoto {
		theta := float32(i) * goldenAngle
		frac := float32(0.5)
		if count > 1 {
			frac = float32(i) / float32(count-1)
		}
		sin, cos := sincos32(theta)
		return Placement{
			Position: Vec3{
				photoColumnRadius * cos,
				photoColumnBase + frac*photoColumnSpan,
				photoColumnRadius * sin,
			},
			Rotation: Vec3{0, -theta, 0},
			Scale:    Vec3{1, 1, 1},
		}
	}

	return Placement{
		Position: randomDirection(rng).Mul(chaosRadius),
		Scale:    Vec3{1, 1, 1},
	}
}

// trunkPush keeps ornaments outside the notional trunk. Lights and ribbons
// wrap the trunk most closely and need the larger push.
func trunkPush(role Role) float32 {
	if role == RoleLight || role == RoleRibbon {
		return 1.15
	}
	return 1.08
}

// roleAngleOffset spaces the six roles evenly around the vertical axis.
func roleAngleOffset(role Role) float32 {
	return float32(role) * (2 * math.Pi / NumRoles)
}

// randomDirection returns a uniformly distributed unit vector, by rejection
// sampling the unit cube.
func randomDirection(rng *rand.Rand) Vec3 {
	for {
		v := Vec3{
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
		}
		l := v.Length()
		if l > 1e-6 && l <= 1 {
			return v.Mul(1 / l)
		}
	}
}

// randomScale rolls a uniform per-object scale within the role's bounds.
func randomScale(role Role, rng *rand.Rand) Vec3 {
	min, max := scaleBounds(role)
	s := min + float32(rng.Float64())*(max-min)
	return Vec3{s, s, s}
}

func scaleBounds(role Role) (min, max float32) {
	switch role {
	case RoleBauble:
		return 0.7, 1.3
	case RoleLight:
		return 0.4, 0.6
	case RoleStar:
		return 0.8, 1.2
	case RoleGift:
		return 0.9, 1.5
	case RoleRibbon:
		return 0.6, 1.1
	case RolePhoto:
		return 0.9, 1.1
	default:
		return 1, 1
	}
}

// randomRotation rolls the resting chaos spin: full random yaw, slight pitch
// and roll.
func randomRotation(rng *rand.Rand) Vec3 {
	yaw := float32(rng.Float64()) * 2 * math.Pi
	return Vec3{
		float32(rng.Float64()-0.5) * 0.6,
		yaw,
		float32(rng.Float64()-0.5) * 0.6,
	}
}

func sqrt32(v float32) float32 {
	return math32.Sqrt(v)
}

func sincos32(v float32) (sin, cos float32) {
	return math32.Sincos(v)
}
