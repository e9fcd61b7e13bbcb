package grove

// Engine tuning constants.
const (
	// mixRate is the exponential approach rate toward the tree target, per
	// second. The mix reaches >99% of the way in about 2.3 seconds and
	// never overshoots.
	mixRate = 2.0

	// tiltRate is the approach rate of the scatter tilt animation.
	tiltRate = 3.0

	// mixSettled is the point past which an object is treated as resting
	// in the formed arrangement: perspective compensation is dropped.
	mixSettled = 0.99

	// mixFacesCenter is the point past which an object billboards toward
	// the trunk axis instead of the viewpoint.
	mixFacesCenter = 0.8

	// Perspective compensation band: distance to the viewpoint is mapped
	// linearly from [perspNear, perspFar] onto a scale boost, so objects
	// drifting far away during the chaos phase still read at depth.
	perspNear = 10.0
	perspFar  = 24.0
	boostMin  = 1.0
	boostMax  = 1.6
	// boostMaxSmall caps the boost on small viewports, where the full
	// factor makes near objects crowd the frame.
	boostMaxSmall = 1.4
)

// Engine eases every scene object toward the interaction target each render
// tick, interpolates placements, applies perspective compensation, and scans
// the photo population for the object nearest the viewpoint.
//
// The Engine is the only component that mutates per-object transforms and
// the closest-photo index. It reads InteractionState and never mutates it.
type Engine struct {
	populations []Population

	// Viewpoint is the camera position objects are measured against and
	// face while scattered.
	Viewpoint Vec3

	// SceneCenter is the trunk axis point formed objects billboard toward.
	SceneCenter Vec3

	// SmallViewport selects the reduced perspective boost bound.
	SmallViewport bool

	target       func() TreeTarget
	closestPhoto int
}

// NewEngine returns an Engine reading its tree target from the given
// function (typically Interaction.Tree). The closest-photo index starts
// at -1.
func NewEngine(target func() TreeTarget) *Engine {
	return &Engine{
		Viewpoint:    Vec3{0, 2, 14},
		SceneCenter:  Vec3{0, 2, 0},
		target:       target,
		closestPhoto: -1,
	}
}

// SetPopulations replaces all populations wholesale. Called at startup and
// whenever population parameters change; the previous objects are discarded.
func (e *Engine) SetPopulations(pops []Population) {
	e.populations = pops
	e.closestPhoto = -1
}

// Populations returns the engine's populations. The returned slice MUST NOT
// be mutated; per-object transforms are owned by the render loop.
func (e *Engine) Populations() []Population {
	return e.populations
}

// ClosestPhoto returns the index of the photo object nearest the viewpoint
// as of the last Step while the target was CHAOS, or -1 if no photo
// population exists.
func (e *Engine) ClosestPhoto() int {
	return e.closestPhoto
}

// Step advances every object by dt seconds: eases the mix factor toward the
// current tree target, interpolates chaos and formed placements, applies
// perspective-aware scaling, resolves facing, and refreshes the
// closest-photo scan.
func (e *Engine) Step(dt float64) {
	var targetMix float32
	if e.target() == TreeFormed {
		targetMix = 1
	}

	step := float32(mixRate * dt)
	if step > 1 {
		step = 1
	}
	tiltApproach := float32(tiltRate * dt)
	if tiltApproach > 1 {
		tiltApproach = 1
	}

	boostCap := float32(boostMax)
	if e.SmallViewport {
		boostCap = boostMaxSmall
	}

	scanPhotos := targetMix < 0.5
	closest := -1
	var closestDist float32

	for pi := range e.populations {
		pop := &e.populations[pi]
		for i := range pop.Objects {
			obj := &pop.Objects[i]

			obj.Mix += (targetMix - obj.Mix) * step

			obj.Current.Position = obj.Chaos.Position.Lerp(obj.Formed.Position, obj.Mix)
			obj.Current.Rotation = obj.Chaos.Rotation.Lerp(obj.Formed.Rotation, obj.Mix)
			obj.Current.Scale = obj.Chaos.Scale.Lerp(obj.Formed.Scale, obj.Mix)

			dist := obj.Current.Position.DistanceTo(e.Viewpoint)

			if obj.Mix < mixSettled {
				boost := perspectiveBoost(dist, boostCap)
				// Blend the boost out as the object settles.
				factor := 1 + (boost-1)*(1-obj.Mix)
				obj.Current.Scale = obj.Current.Scale.Mul(factor)
			}

			if obj.Mix > mixFacesCenter {
				obj.LookAt = Vec3{e.SceneCenter.X, obj.Current.Position.Y, e.SceneCenter.Z}
				obj.Tilt += (0 - obj.Tilt) * tiltApproach
			} else {
				obj.LookAt = e.Viewpoint
				obj.Tilt += (obj.ChaosTilt*(1-obj.Mix) - obj.Tilt) * tiltApproach
			}

			if scanPhotos && pop.Role == RolePhoto {
				if closest < 0 || dist < closestDist {
					closest = i
					closestDist = dist
				}
			}
		}
	}

	if scanPhotos {
		e.closestPhoto = closest
	}
}

// perspectiveBoost maps a viewpoint distance through the fixed linear band
// onto a clamped scale multiplier.
func perspectiveBoost(dist, boostCap float32) float32 {
	t := (dist - perspNear) / (perspFar - perspNear)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	boost := boostMin + (boostCap-boostMin)*t
	return boost
}
