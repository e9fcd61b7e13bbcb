package grove

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Overlay presentation timings, in seconds.
const (
	overlayOpenDuration  = 0.35
	overlayCloseDuration = 0.25
)

// OverlayAnimator drives the overlay's presentation scalar between 0
// (hidden) and 1 (fully presented). The Interaction state machine remains
// the source of truth for the logical open state; the animator only follows
// it with a tween so the overlay slides rather than pops.
//
// Call Update once per render tick. There is no global animation manager;
// the render loop owns the animator the same way it owns the Engine.
type OverlayAnimator struct {
	value   float32
	open    bool
	tween   *gween.Tween
	settled bool
}

// NewOverlayAnimator returns an animator starting hidden.
func NewOverlayAnimator() *OverlayAnimator {
	return &OverlayAnimator{settled: true}
}

// Update advances the presentation by dt seconds toward the given logical
// open state, starting a new tween whenever the state flips mid-flight or at
// rest.
func (o *OverlayAnimator) Update(dt float64, open bool) {
	if open != o.open {
		o.open = open
		o.settled = false
		if open {
			o.tween = gween.New(o.value, 1, overlayOpenDuration, ease.OutCubic)
		} else {
			o.tween = gween.New(o.value, 0, overlayCloseDuration, ease.InCubic)
		}
	}
	if o.settled || o.tween == nil {
		return
	}
	v, finished := o.tween.Update(float32(dt))
	o.value = v
	if finished {
		o.settled = true
		o.tween = nil
	}
}

// Value returns the current presentation scalar in [0, 1].
func (o *OverlayAnimator) Value() float32 {
	return o.value
}

// Settled reports whether the presentation has reached its target.
func (o *OverlayAnimator) Settled() bool {
	return o.settled
}
