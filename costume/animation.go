package costume

import "time"

// Animation steps through a costume's frames on the session clock. Index
// always stays below the frame count once the animation is bound to a
// costume.
type Animation struct {
	FrameTime time.Duration
	Loop      bool
	Started   bool
	Index     int

	frames      int
	lastAdvance time.Duration
}

func (a *Animation) bind(frames int) {
	a.frames = frames
	a.Index = clampIndex(a.Index, frames)
}

// Frames returns the number of frames the animation cycles through.
func (a *Animation) Frames() int {
	return a.frames
}

// Start resets the timer at now and shows frame from.
func (a *Animation) Start(now time.Duration, loop bool, from int, frameTime time.Duration) {
	if a == nil {
		return
	}
	a.Loop = loop
	a.FrameTime = frameTime
	a.Index = clampIndex(from, a.frames)
	a.lastAdvance = now
	a.Started = true
}

// Stop freezes the current frame.
func (a *Animation) Stop() {
	if a == nil {
		return
	}
	a.Started = false
}

// Update moves to the next frame once FrameTime has elapsed since the last
// advance and reports whether the frame changed. A non-looping animation
// stops on its last frame.
func (a *Animation) Update(now time.Duration) bool {
	if a == nil || !a.Started || a.frames == 0 {
		return false
	}
	if now-a.lastAdvance < a.FrameTime {
		return false
	}
	a.lastAdvance = now

	next := a.Index + 1
	if next >= a.frames {
		if !a.Loop {
			a.Index = a.frames - 1
			a.Started = false
			return false
		}
		next = 0
	}
	changed := next != a.Index
	a.Index = next
	return changed
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
