package grove

import (
	"context"
	"testing"
	"time"
)

// pinchSource always reports a pinching hand at frame center.
type pinchSource struct{}

func (pinchSource) Acquire(ctx context.Context) (*LandmarkFrame, error) {
	return testHand(0.5, 0.5, 0.25, true), nil
}

func testRunnerConfig() Config {
	return Config{
		Title:  "test",
		Width:  960,
		Height: 640,
		Seed:   1,
		Populations: []PopulationSpec{
			{Role: "bauble", Count: 5, Palette: 2},
			{Role: "photo", Count: 3, Palette: 1},
		},
	}
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	cfg := testRunnerConfig()
	cfg.Populations[0].Count = 0
	if _, err := NewRunner(cfg, pinchSource{}, nil); err == nil {
		t.Error("expected invalid config to be rejected")
	}
}

func TestRunnerWiresClosestPhotoIntoPinchOpen(t *testing.T) {
	r, err := NewRunner(testRunnerConfig(), pinchSource{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Loop.Stop()

	// Drive the clock manually so every frame passes the 10 Hz gate.
	clock := time.Now()
	r.now = func() time.Time { return clock }

	r.State.SetTree(TreeChaos)

	// Step until the pinch majority lands and opens the overlay. Each
	// acquisition resolves on a goroutine, so poll with real sleeps while
	// advancing the virtual clock.
	deadline := time.Now().Add(3 * time.Second)
	for !r.State.OverlayOpen() && time.Now().Before(deadline) {
		clock = clock.Add(AcceptInterval)
		r.Step(1.0 / 60)
		time.Sleep(time.Millisecond)
	}

	if !r.State.OverlayOpen() || !r.State.HeldByGesture() {
		t.Fatal("sustained pinch during CHAOS should gesture-open the overlay")
	}
	if r.State.Selection() != r.Engine.ClosestPhoto() {
		t.Errorf("Selection = %d, want engine's closest photo %d",
			r.State.Selection(), r.Engine.ClosestPhoto())
	}
	if r.State.Selection() < 0 {
		t.Error("selection should be a real photo index")
	}
}

func TestRunnerStepOrderStateBeforeEngine(t *testing.T) {
	// An open-hand source flips the target to CHAOS; the same frame's
	// engine step must already ease toward it, so after delivery the mix
	// moves down from its formed rest.
	src := &queueSource{frames: []*LandmarkFrame{testHand(0.5, 0.5, 0.25, false)}}
	r, err := NewRunner(testRunnerConfig(), src, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Loop.Stop()

	clock := time.Now()
	r.now = func() time.Time { return clock }

	deadline := time.Now().Add(3 * time.Second)
	for r.State.Tree() != TreeChaos && time.Now().Before(deadline) {
		clock = clock.Add(AcceptInterval)
		r.Step(1.0 / 60)
		time.Sleep(time.Millisecond)
	}
	if r.State.Tree() != TreeChaos {
		t.Fatal("open hand never scattered the tree")
	}

	r.Step(1.0 / 60)
	obj := r.Engine.Populations()[0].Objects[0]
	if obj.Mix >= 1 {
		t.Error("mix should be easing away from formed after the target flip")
	}
}

func TestRunnerOverlayFollowsState(t *testing.T) {
	r, err := NewRunner(testRunnerConfig(), pinchSource{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Loop.Stop()
	r.now = time.Now

	r.State.OpenOverlay(0)
	for i := 0; i < 60; i++ {
		r.Engine.Step(1.0 / 60)
		r.Overlay.Update(1.0/60, r.State.OverlayOpen())
	}
	if r.Overlay.Value() < 0.99 {
		t.Errorf("overlay value = %f, want ~1 after manual open", r.Overlay.Value())
	}

	r.State.CloseOverlay()
	for i := 0; i < 60; i++ {
		r.Overlay.Update(1.0/60, r.State.OverlayOpen())
	}
	if r.Overlay.Value() > 0.01 {
		t.Errorf("overlay value = %f, want ~0 after close", r.Overlay.Value())
	}
}
