package grove

// ClosestLookup returns the population index of the photo object currently
// nearest the viewpoint, or -1 when none is available. The Engine publishes
// this signal; the Interaction state machine reads it exactly once per
// gesture-opened overlay.
type ClosestLookup func() int

// Interaction owns the tree-formation target and overlay visibility. It is
// mutated only through OnGesture and the manual control methods, and read by
// the Engine and external UI.
//
// Gesture events are applied with a strict priority order: an active pinch
// always wins, a pinch release suppresses any tree-target change on the same
// tick, and tree-target updates only apply while the overlay is closed.
// Tree-target updates stay suppressed while a manually opened overlay is
// open as well; the scene holds still while the user is reading.
type Interaction struct {
	tree          TreeTarget
	overlayOpen   bool
	heldByGesture bool
	selection     int

	closest ClosestLookup
}

// NewInteraction returns an Interaction starting at TreeFormed with the
// overlay closed. The lookup may be nil, in which case gesture-opened
// overlays select index -1.
func NewInteraction(closest ClosestLookup) *Interaction {
	return &Interaction{
		tree:      TreeFormed,
		selection: -1,
		closest:   closest,
	}
}

// OnGesture applies one debounced gesture event. Rules are evaluated in
// priority order and at most one rule acts per event.
func (in *Interaction) OnGesture(evt GestureEvent) {
	// Rule 1: an active pinch freezes everything else this tick. It may
	// open (or keep holding) the overlay only from CHAOS, or if the
	// overlay is already gesture-held.
	if evt.IsPinch {
		if !in.heldByGesture && in.tree == TreeChaos {
			in.selection = -1
			if in.closest != nil {
				in.selection = in.closest()
			}
			in.overlayOpen = true
			in.heldByGesture = true
		}
		return
	}

	// Rule 2: pinch released while gesture-held closes the overlay and
	// suppresses the tree-target update for this tick, so the tree does
	// not flash toward the open-hand reading that rode along with the
	// release.
	if in.heldByGesture {
		in.overlayOpen = false
		in.heldByGesture = false
		return
	}

	// Rule 3: with the overlay closed, an open hand scatters and a closed
	// hand forms. Rule 4: while the overlay is open (manually), the tree
	// target is frozen until it closes.
	if !in.overlayOpen {
		if evt.IsOpen {
			in.tree = TreeChaos
		} else {
			in.tree = TreeFormed
		}
	}
}

// --- Manual control surface ---
//
// Manual controls bypass the gesture priority rules but always clear the
// gesture-held flag so a stale hold cannot outlive the gesture that set it.

// ToggleTree flips the tree target between CHAOS and FORMED.
func (in *Interaction) ToggleTree() {
	if in.tree == TreeChaos {
		in.tree = TreeFormed
	} else {
		in.tree = TreeChaos
	}
	in.heldByGesture = false
}

// SetTree sets the tree target directly.
func (in *Interaction) SetTree(t TreeTarget) {
	in.tree = t
	in.heldByGesture = false
}

// OpenOverlay opens the overlay with an explicit content selection.
func (in *Interaction) OpenOverlay(selection int) {
	in.overlayOpen = true
	in.heldByGesture = false
	in.selection = selection
}

// CloseOverlay closes the overlay.
func (in *Interaction) CloseOverlay() {
	in.overlayOpen = false
	in.heldByGesture = false
}

// Tree returns the current tree-formation target.
func (in *Interaction) Tree() TreeTarget {
	return in.tree
}

// OverlayOpen reports whether the overlay is logically open.
func (in *Interaction) OverlayOpen() bool {
	return in.overlayOpen
}

// HeldByGesture reports whether the overlay is being held open by an active
// pinch.
func (in *Interaction) HeldByGesture() bool {
	return in.heldByGesture
}

// Selection returns the population index selected when the overlay was
// opened, or -1 if none was.
func (in *Interaction) Selection() int {
	return in.selection
}
