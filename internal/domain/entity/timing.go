package entity

import (
	"math"
	"time"
)

// Timing controls how keyframes are stretched into a video.
type Timing struct {
	FPS int
	// StepHold is how long each keyframe stays on screen.
	StepHold time.Duration
	// Duration, when set, overrides StepHold and targets the length of the
	// whole video. The intro, outro and transition frames are taken out
	// first and the rest is spread evenly over the keyframes; each keyframe
	// still gets at least one frame, so a too short Duration runs over.
	Duration         time.Duration
	IntroHold        int
	OutroHold        int
	TransitionFrames int
}

func DefaultTiming() Timing {
	return Timing{
		FPS:              10,
		IntroHold:        5,
		OutroHold:        5,
		TransitionFrames: 15,
	}
}

// Normalized clamps negative frame counts to zero.
func (t Timing) Normalized() Timing {
	t.IntroHold = max(t.IntroHold, 0)
	t.OutroHold = max(t.OutroHold, 0)
	t.TransitionFrames = max(t.TransitionFrames, 0)
	return t
}

// FixedFrames is the number of frames of an n keyframe video that do not
// depend on the hold: intro, outro and the transitions between keyframes.
func (t Timing) FixedFrames(n int) int {
	if n <= 0 {
		return 0
	}
	t = t.Normalized()
	return t.IntroHold + t.OutroHold + (n-1)*t.TransitionFrames
}

// HoldFrames returns how many times each of n keyframes is repeated.
func (t Timing) HoldFrames(n int) int {
	if t.FPS <= 0 || n <= 0 {
		return 1
	}
	var frames float64
	switch {
	case t.Duration > 0:
		total := t.Duration.Seconds() * float64(t.FPS)
		frames = (total - float64(t.FixedFrames(n))) / float64(n)
	case t.StepHold > 0:
		frames = t.StepHold.Seconds() * float64(t.FPS)
	default:
		return 1
	}
	return max(1, int(math.Round(frames)))
}
