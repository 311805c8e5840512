package output

import (
	"image"

	"dotgen/internal/domain/entity"
)

// FrameSpec selects what part of a plan's drawing appears in a frame.
// Prefix is the number of completed segments. Partial in (0, 1) additionally
// draws that fraction of segment Prefix+1.
type FrameSpec struct {
	Prefix  int
	Partial float64
}

type FrameRendererPort interface {
	Render(plan entity.Plan, spec FrameSpec) (image.Image, error)
	Style() entity.Style
}
