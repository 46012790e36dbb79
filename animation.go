package kit2d

import "time"

// AnimationState is the playback state of an [Animation].
type AnimationState uint8

const (
	// Playing advances on Step.
	Playing AnimationState = iota
	// Paused keeps the current frame and accumulated time.
	Paused
	// Stopped rewinds to the first frame.
	Stopped
)

// String returns the state name.
func (s AnimationState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Animation is a looping sequence of frames shown for a fixed delay each.
//
// Step accumulates elapsed time and advances one frame per full delay
// consumed, keeping the remainder for the next call. Many short steps
// therefore play every frame in order, however the frame rate varies.
type Animation[T any] struct {
	frames   []T
	delay    time.Duration
	state    AnimationState
	cursor   int
	residual time.Duration
	// steps counts Step calls since the last advance. Each call may
	// have lost up to 1ns to integer division by its caller, so the
	// advance test allows that much shortfall.
	steps int
}

// NewAnimation returns a playing animation over frames.
func NewAnimation[T any](frames []T, delay time.Duration) *Animation[T] {
	return &Animation[T]{
		frames: append([]T(nil), frames...),
		delay:  delay,
		state:  Playing,
	}
}

// Step advances the animation by dt. It has no effect unless playing.
func (a *Animation[T]) Step(dt time.Duration) {
	if a.state != Playing || a.delay <= 0 || len(a.frames) == 0 {
		return
	}
	a.residual += dt
	a.steps++
	slack := time.Duration(a.steps)
	if a.residual+slack < a.delay {
		return
	}
	n := (a.residual + slack) / a.delay
	a.residual = max(a.residual-n*a.delay, 0)
	a.steps = 0
	a.cursor = (a.cursor + int(n%time.Duration(len(a.frames)))) % len(a.frames)
}

// Play resumes or starts playback.
func (a *Animation[T]) Play() { a.state = Playing }

// Pause halts playback, keeping the current frame.
func (a *Animation[T]) Pause() { a.state = Paused }

// Stop halts playback and rewinds to the first frame.
func (a *Animation[T]) Stop() {
	a.state = Stopped
	a.cursor = 0
	a.residual = 0
	a.steps = 0
}

// State returns the playback state.
func (a *Animation[T]) State() AnimationState { return a.state }

// IsPlaying reports whether the animation advances on Step.
func (a *Animation[T]) IsPlaying() bool { return a.state == Playing }

// Cursor returns the index of the current frame.
func (a *Animation[T]) Cursor() int { return a.cursor }

// Elapsed returns the time accumulated toward the next frame.
func (a *Animation[T]) Elapsed() time.Duration { return a.residual }

// Delay returns the time each frame is shown.
func (a *Animation[T]) Delay() time.Duration { return a.delay }

// Len returns the number of frames.
func (a *Animation[T]) Len() int { return len(a.frames) }

// Val returns the current frame, or the zero value if there are no frames.
func (a *Animation[T]) Val() T {
	if len(a.frames) == 0 {
		var zero T
		return zero
	}
	return a.frames[a.cursor]
}

// PushFrame appends a frame.
func (a *Animation[T]) PushFrame(frame T) {
	a.frames = append(a.frames, frame)
}

// PopFrame removes and returns the last frame. The cursor wraps if it
// pointed past the new end.
func (a *Animation[T]) PopFrame() (T, bool) {
	var zero T
	if len(a.frames) == 0 {
		return zero, false
	}
	last := a.frames[len(a.frames)-1]
	a.frames[len(a.frames)-1] = zero
	a.frames = a.frames[:len(a.frames)-1]
	if a.cursor >= len(a.frames) {
		a.cursor = 0
	}
	return last, true
}
