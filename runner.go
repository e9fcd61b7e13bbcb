package grove

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Runner wires the two logical loops into an ebiten game: the detection loop
// ticks (and internally gates itself to ~10 Hz), then the state machine's
// freshly settled target feeds the interpolation engine, strictly in that
// order within each display frame.
//
// Runner implements [ebiten.Game]. Use NewRunner plus [Run] for the common
// case, or embed a Runner in your own Game and call Step from its Update.
type Runner struct {
	Loop    *DetectLoop
	State   *Interaction
	Engine  *Engine
	Overlay *OverlayAnimator

	// DrawFunc renders the engine's per-object transforms. Rendering is
	// entirely the caller's concern; the Runner only guarantees the
	// transforms are settled for this frame before it is called.
	DrawFunc func(screen *ebiten.Image, r *Runner)

	width, height int
	now           func() time.Time
}

// NewRunner builds the full pipeline from a config: populations are
// generated from the population specs, the engine reads the interaction's
// tree target, and the interaction's closest-object lookup reads the
// engine's scan, the one deliberate cross-component signal.
func NewRunner(cfg Config, src LandmarkSource, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var engine *Engine
	state := NewInteraction(func() int { return engine.ClosestPhoto() })
	engine = NewEngine(state.Tree)

	pops := make([]Population, 0, len(cfg.Populations))
	for _, spec := range cfg.Populations {
		role, err := ParseRole(spec.Role)
		if err != nil {
			return nil, err
		}
		pop, err := GeneratePopulation(role, spec.Count, spec.Palette, rng)
		if err != nil {
			return nil, fmt.Errorf("population %s: %w", spec.Role, err)
		}
		pops = append(pops, pop)
	}
	engine.SetPopulations(pops)
	engine.SmallViewport = cfg.Width < 600

	return &Runner{
		Loop:    NewDetectLoop(src, NewStabilizer(), state, logger),
		State:   state,
		Engine:  engine,
		Overlay: NewOverlayAnimator(),
		width:   cfg.Width,
		height:  cfg.Height,
		now:     time.Now,
	}, nil
}

// Step advances one display frame: detection tick first, then interpolation
// at the given dt. Exposed separately from Update for headless callers and
// tests.
func (r *Runner) Step(dt float64) {
	r.Loop.Tick(r.now())
	r.Engine.Step(dt)
	r.Overlay.Update(dt, r.State.OverlayOpen())
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	r.Step(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	if r.DrawFunc != nil {
		r.DrawFunc(screen, r)
	}
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.width, r.height
}

// Run opens a window and runs the Runner until the window closes. The
// detection loop is stopped on all exit paths, discarding any in-flight
// acquisition.
func Run(r *Runner, cfg Config) error {
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	defer r.Loop.Stop()
	if err := ebiten.RunGame(r); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
