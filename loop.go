package grove

import (
	"context"
	"log/slog"
	"time"
)

// LandmarkSource is the external landmark-acquisition capability. Acquire
// blocks until one observation attempt completes and returns zero or one
// frame: a nil frame with a nil error is the normal no-hand-visible outcome,
// not an error. A non-nil error means the capability itself is unavailable.
type LandmarkSource interface {
	Acquire(ctx context.Context) (*LandmarkFrame, error)
}

// acquireResult is the single-slot delivery for an in-flight acquisition.
// gen identifies which loop generation started the request, so a result
// straggling in across a Restart is discarded rather than consumed.
type acquireResult struct {
	frame *LandmarkFrame
	err   error
	gen   int
}

// DetectLoop runs the detection side of the system: once per display tick it
// polls the one in-flight landmark acquisition, classifies any resolved
// frame through its Stabilizer, and feeds accepted GestureEvents into the
// Interaction state machine, always before the same frame's Engine step, so
// the engine never observes a mid-update world.
//
// At most one acquisition is in flight at a time; the 10 Hz classification
// gate also gates acquisition starts, so the source is never hammered at
// render rate. All loop state is explicitly owned here and mutated only from
// the tick caller's goroutine; the acquisition goroutine communicates solely
// through the buffered slot channel.
type DetectLoop struct {
	src   LandmarkSource
	stab  *Stabilizer
	state *Interaction
	log   *slog.Logger

	slot    chan acquireResult
	pending bool
	gen     int

	ctx      context.Context
	cancel   context.CancelFunc
	stopped  bool
	degraded bool
}

// NewDetectLoop wires a source, stabilizer, and state machine into a loop.
// logger may be nil to disable logging.
func NewDetectLoop(src LandmarkSource, stab *Stabilizer, state *Interaction, logger *slog.Logger) *DetectLoop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &DetectLoop{
		src:    src,
		stab:   stab,
		state:  state,
		log:    logger,
		slot:   make(chan acquireResult, 1),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Tick advances the loop by one display frame. If an acquisition is in
// flight it is polled without blocking; a resolved result is classified and,
// when a GestureEvent is accepted, applied to the state machine. Otherwise a
// new acquisition is started, but only when the stabilizer's throttle window
// has elapsed.
func (l *DetectLoop) Tick(now time.Time) {
	if l.stopped {
		return
	}

	if l.pending {
		select {
		case res := <-l.slot:
			// A stale-generation result is a pre-restart straggler:
			// drop it and keep waiting for the current acquisition,
			// which is still in flight.
			if res.gen == l.gen {
				l.pending = false
				l.consume(res, now)
			}
		default:
		}
		return
	}

	if l.degraded || !l.stab.Ready(now) {
		return
	}

	l.pending = true
	ctx, gen := l.ctx, l.gen
	go func() {
		frame, err := l.src.Acquire(ctx)
		// Buffered slot; never blocks. A result landing after Stop sits in
		// the slot and is drained, not delivered.
		l.slot <- acquireResult{frame: frame, err: err, gen: gen}
	}()
}

func (l *DetectLoop) consume(res acquireResult, now time.Time) {
	if res.err != nil {
		// Capability unavailable. Hold the last interaction state; manual
		// controls keep working. Restart recovers.
		l.degraded = true
		l.log.Warn("landmark source unavailable", "err", res.err)
		return
	}
	evt, ok := l.stab.Classify(res.frame, now)
	if !ok {
		return
	}
	l.state.OnGesture(evt)
	l.log.Debug("gesture",
		"detected", evt.IsDetected,
		"open", evt.IsOpen,
		"pinch", evt.IsPinch,
	)
}

// Degraded reports whether the landmark capability has failed. External UI
// surfaces this as a degraded-mode signal.
func (l *DetectLoop) Degraded() bool {
	return l.degraded
}

// Stop halts the loop. An in-flight acquisition is allowed to complete but
// its result is discarded. Stop is idempotent.
func (l *DetectLoop) Stop() {
	if l.stopped {
		return
	}
	l.stopped = true
	l.cancel()
}

// Restart resumes a stopped or degraded loop from a clean state: the
// in-flight slot is drained, all stabilizer windows and latches reset, and
// the gap is treated as an extended miss run.
func (l *DetectLoop) Restart() {
	l.cancel()
	select {
	case <-l.slot:
	default:
	}
	l.pending = false
	l.degraded = false
	l.stopped = false
	l.gen++
	l.stab.Reset()
	l.ctx, l.cancel = context.WithCancel(context.Background())
}
