// Package compositor turns a plan into the ordered frames of its solution
// video. It keeps no state between calls.
package compositor

import (
	"fmt"
	"image"

	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
)

type Compositor struct {
	renderer output.FrameRendererPort
}

func New(renderer output.FrameRendererPort) *Compositor {
	return &Compositor{renderer: renderer}
}

// Keyframes returns one frame per entry of plan.Order. Frame k shows the
// first k segments.
func (c *Compositor) Keyframes(plan entity.Plan) ([]image.Image, error) {
	frames := make([]image.Image, 0, len(plan.Order))
	for k := range len(plan.Order) {
		img, err := c.renderer.Render(plan, output.FrameSpec{Prefix: k})
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return frames, nil
}

// Frames expands the keyframes into a video-ready sequence: an intro hold on
// the first keyframe, each keyframe held per timing with optional growing
// transitions to the next one, and an outro hold on the last keyframe.
func (c *Compositor) Frames(plan entity.Plan, timing entity.Timing) ([]image.Image, error) {
	keys, err := c.Keyframes(plan)
	if err != nil {
		return nil, err
	}
	return c.Expand(plan, keys, timing)
}

// Expand is Frames for keyframes that were already rendered. Negative holds
// and transition counts are treated as zero.
func (c *Compositor) Expand(plan entity.Plan, keys []image.Image, timing entity.Timing) ([]image.Image, error) {
	if len(keys) != len(plan.Order) {
		return nil, entity.RenderFailure(fmt.Sprintf("have %d keyframes for an order of %d", len(keys), len(plan.Order)), nil)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	timing = timing.Normalized()
	hold := timing.HoldFrames(len(keys))
	frames := make([]image.Image, 0, FrameCount(len(keys), timing))
	frames = repeat(frames, keys[0], timing.IntroHold)

	for k, key := range keys {
		frames = repeat(frames, key, hold)
		if k == len(keys)-1 || timing.TransitionFrames == 0 {
			continue
		}
		for i := 1; i <= timing.TransitionFrames; i++ {
			progress := float64(i) / float64(timing.TransitionFrames+1)
			img, err := c.renderer.Render(plan, output.FrameSpec{Prefix: k, Partial: progress})
			if err != nil {
				return nil, err
			}
			frames = append(frames, img)
		}
	}

	return repeat(frames, keys[len(keys)-1], timing.OutroHold), nil
}

// FrameCount is the length of the sequence Frames returns for an order of
// length n.
func FrameCount(n int, timing entity.Timing) int {
	if n <= 0 {
		return 0
	}
	return n*timing.HoldFrames(n) + timing.FixedFrames(n)
}

// repeat appends img n times. Frames are never written to after rendering,
// so repeats share pixels.
func repeat(frames []image.Image, img image.Image, n int) []image.Image {
	for range n {
		frames = append(frames, img)
	}
	return frames
}
