// Package grove is the interaction core for a gesture-driven formation
// scene: ornaments scatter into chaos or gather into a golden-angle spiral
// tree, steered by debounced hand gestures or manual controls.
//
// Grove does not render. It turns noisy per-frame hand-landmark samples into
// stable gesture events, runs them through a priority-ordered interaction
// state machine, and eases every scene object's transform toward the current
// arrangement each tick. An external renderer consumes the per-object
// transforms; external UI consumes the overlay state and closest-object
// index.
//
// # Quick start
//
// [Run] hosts the whole pipeline in an ebiten window:
//
//	cfg := grove.DefaultConfig()
//	runner, err := grove.NewRunner(cfg, source, slog.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	runner.DrawFunc = drawScene
//	if err := grove.Run(runner, cfg); err != nil {
//		log.Fatal(err)
//	}
//
// where source is any [LandmarkSource]. The feed subpackage provides one
// backed by a websocket feed from a browser-side hand detector, and tests
// use scripted sources.
//
// # Pipeline
//
// Data flows one way per tick:
//
//	LandmarkFrame -> Stabilizer -> GestureEvent -> Interaction -> target
//	              -> Engine -> per-object transforms + closest photo index
//
// The [Stabilizer] smooths cursor position over an 8-sample window, holds
// hand openness behind a hysteresis latch, majority-votes pinches over three
// samples, and rides out up to five missed detections before declaring the
// hand lost. The [Interaction] state machine applies pinch-priority rules so
// an overlay opened by pinching never fights the tree target. The [Engine]
// eases each object's mix factor toward the target with an exponential
// approach that never overshoots.
//
// For full control, drive the pieces directly: call [DetectLoop.Tick] then
// [Engine.Step] once per frame, in that order.
package grove
