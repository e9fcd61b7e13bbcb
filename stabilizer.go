package grove

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stabilizer tuning constants. The window capacities and thresholds trade
// responsiveness against flicker; they were settled empirically against a
// 30 fps detector feed.
const (
	// AcceptInterval caps classification at ~10 Hz regardless of how often
	// the capture or render loop calls Classify.
	AcceptInterval = 100 * time.Millisecond

	cursorWindowCap = 8
	ratioWindowCap  = 5
	pinchWindowCap  = 3

	// Openness hysteresis band. The latch opens above openHigh and closes
	// below openLow; the band between them is dead zone, so a single noisy
	// sample can never toggle the latch.
	openHigh = 1.6
	openLow  = 1.2

	// pinchThreshold is the normalized thumb-index distance below which a
	// single frame counts as a pinch frame.
	pinchThreshold = 0.25

	// missGrace is how many consecutive missed observations are tolerated
	// before tracking is declared lost.
	missGrace = 5

	// cursorMirrorScale widens the effective horizontal control range so a
	// comfortable wrist sweep covers the full [-1, 1] span.
	cursorMirrorScale = 1.2
)

// Stabilizer turns noisy per-frame hand-landmark samples into stable,
// debounced GestureEvents. It owns all rolling smoothing state; callers feed
// it one frame per detection tick via Classify.
//
// A Stabilizer is not safe for concurrent use. The detection loop is its
// only caller.
type Stabilizer struct {
	cursorX floatWindow
	cursorY floatWindow
	ratios  floatWindow
	pinches boolWindow

	openLatch    bool
	missed       int
	lost         bool
	lastAccepted time.Time
}

// NewStabilizer returns a Stabilizer with empty windows and the openness
// latch closed.
func NewStabilizer() *Stabilizer {
	s := &Stabilizer{}
	s.cursorX.init(cursorWindowCap)
	s.cursorY.init(cursorWindowCap)
	s.ratios.init(ratioWindowCap)
	s.pinches.init(pinchWindowCap)
	return s
}

// Ready reports whether a call to Classify at the given time would pass the
// throttle gate. The detection loop uses this to avoid starting a landmark
// acquisition whose result would be discarded.
func (s *Stabilizer) Ready(now time.Time) bool {
	return s.lastAccepted.IsZero() || now.Sub(s.lastAccepted) >= AcceptInterval
}

// Classify consumes one raw observation and returns a debounced GestureEvent.
// The second return value is false when the call was suppressed: either the
// throttle window has not elapsed, or the frame was a miss still inside the
// grace window, or tracking was already lost.
//
// A nil or incomplete frame is a miss, not an error. Only after more than
// missGrace consecutive misses does Classify clear all smoothing state and
// emit a single not-detected event; until then the consumer's last event
// stands.
func (s *Stabilizer) Classify(frame *LandmarkFrame, now time.Time) (GestureEvent, bool) {
	if !s.Ready(now) {
		return GestureEvent{}, false
	}
	s.lastAccepted = now

	if !frame.Valid() {
		return s.classifyMiss()
	}

	s.missed = 0
	s.lost = false

	wrist := frame.Points[LandmarkWrist]

	// Cursor: mirror X (sensor sees the hand flipped relative to the
	// on-screen view) and remap both axes from [0, 1] image space to
	// [-1, 1], Y up.
	s.cursorX.push((0.5 - wrist.X) * 2 * cursorMirrorScale)
	s.cursorY.push((0.5 - wrist.Y) * 2)

	s.ratios.push(opennessRatio(frame, wrist))
	smoothed := s.ratios.mean()
	if !s.openLatch && smoothed > openHigh {
		s.openLatch = true
	} else if s.openLatch && smoothed < openLow {
		s.openLatch = false
	}

	s.pinches.push(pinchRatio(frame, wrist) < pinchThreshold)

	return GestureEvent{
		IsDetected: true,
		IsOpen:     s.openLatch,
		IsPinch:    s.pinches.trueCount() >= 2,
		CursorX:    s.cursorX.mean(),
		CursorY:    s.cursorY.mean(),
	}, true
}

// classifyMiss advances the miss counter and, once the grace window is
// exhausted, resets all smoothing state and emits the single lost event.
func (s *Stabilizer) classifyMiss() (GestureEvent, bool) {
	if s.lost {
		return GestureEvent{}, false
	}
	s.missed++
	if s.missed <= missGrace {
		return GestureEvent{}, false
	}
	s.Reset()
	s.lost = true
	return GestureEvent{IsDetected: false}, true
}

// Reset clears all windows, the openness latch, and the miss counter. The
// detection loop calls this when restarting after the landmark capability
// was unavailable, making the gap equivalent to an extended miss run.
func (s *Stabilizer) Reset() {
	s.cursorX.clear()
	s.cursorY.clear()
	s.ratios.clear()
	s.pinches.clear()
	s.openLatch = false
	s.missed = 0
	s.lost = false
}

// opennessRatio computes mean fingertip-to-wrist distance over mean
// finger-base-to-wrist distance for the four non-thumb fingers. An open hand
// reads well above 1, a fist near or below 1. A degenerate base distance
// falls back to a neutral 1.0.
func opennessRatio(frame *LandmarkFrame, wrist Point) float64 {
	tips := [4]int{LandmarkIndexTip, LandmarkMiddleTip, LandmarkRingTip, LandmarkPinkyTip}
	bases := [4]int{LandmarkIndexBase, LandmarkMiddleBase, LandmarkRingBase, LandmarkPinkyBase}

	var tipSum, baseSum float64
	for i := 0; i < 4; i++ {
		tipSum += wrist.Distance(frame.Points[tips[i]])
		baseSum += wrist.Distance(frame.Points[bases[i]])
	}
	if baseSum <= 0 {
		return 1.0
	}
	return tipSum / baseSum
}

// pinchRatio computes the thumb-tip to index-tip distance normalized by the
// wrist to middle-finger-base distance, making the measure invariant to hand
// size and distance from the sensor.
func pinchRatio(frame *LandmarkFrame, wrist Point) float64 {
	palmScale := wrist.Distance(frame.Points[LandmarkMiddleBase])
	if palmScale <= 0 {
		return 1.0
	}
	d := frame.Points[LandmarkThumbTip].Distance(frame.Points[LandmarkIndexTip])
	return d / palmScale
}

// floatWindow is a fixed-capacity FIFO of float64 samples. Pushing onto a
// full window evicts the oldest sample.
type floatWindow struct {
	buf []float64
	cap int
}

func (w *floatWindow) init(capacity int) {
	w.cap = capacity
	w.buf = make([]float64, 0, capacity)
}

func (w *floatWindow) push(v float64) {
	if len(w.buf) == w.cap {
		copy(w.buf, w.buf[1:])
		w.buf = w.buf[:len(w.buf)-1]
	}
	w.buf = append(w.buf, v)
}

func (w *floatWindow) mean() float64 {
	if len(w.buf) == 0 {
		return 0
	}
	return stat.Mean(w.buf, nil)
}

func (w *floatWindow) clear() {
	w.buf = w.buf[:0]
}

// boolWindow is a fixed-capacity FIFO of votes.
type boolWindow struct {
	buf []bool
	cap int
}

func (w *boolWindow) init(capacity int) {
	w.cap = capacity
	w.buf = make([]bool, 0, capacity)
}

func (w *boolWindow) push(v bool) {
	if len(w.buf) == w.cap {
		copy(w.buf, w.buf[1:])
		w.buf = w.buf[:len(w.buf)-1]
	}
	w.buf = append(w.buf, v)
}

func (w *boolWindow) trueCount() int {
	n := 0
	for _, v := range w.buf {
		if v {
			n++
		}
	}
	return n
}

func (w *boolWindow) clear() {
	w.buf = w.buf[:0]
}
