package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
)

func trianglePlan() entity.Plan {
	return entity.Plan{
		Canvas: entity.Canvas{Width: 400, Height: 400},
		Points: []entity.Point{
			{Index: 1, X: 100, Y: 100},
			{Index: 2, X: 300, Y: 100},
			{Index: 3, X: 300, Y: 300},
		},
		Order: entity.ConnectionOrder{1, 2, 3},
		Type:  entity.ConnectionSequential,
	}
}

func newRenderer(t *testing.T, mutate func(*entity.Style)) *Renderer {
	t.Helper()
	style := entity.DefaultStyle()
	if mutate != nil {
		mutate(&style)
	}
	r, err := New(style)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func colorAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func assertNear(t *testing.T, want, got color.RGBA, msgAndArgs ...any) {
	t.Helper()
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	ok := diff(want.R, got.R) <= 3 && diff(want.G, got.G) <= 3 && diff(want.B, got.B) <= 3
	assert.True(t, ok, append([]any{"want %v, got %v", want, got}, msgAndArgs...)...)
}

func TestRender_Deterministic(t *testing.T) {
	r := newRenderer(t, nil)
	plan := trianglePlan()

	a, err := r.Render(plan, output.FrameSpec{Prefix: 2})
	require.NoError(t, err)
	b, err := r.Render(plan, output.FrameSpec{Prefix: 2})
	require.NoError(t, err)

	ra, ok := a.(*image.RGBA)
	require.True(t, ok)
	rb, ok := b.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, ra.Pix, rb.Pix)
}

func TestRender_PrefixControlsSegments(t *testing.T) {
	r := newRenderer(t, func(s *entity.Style) { s.ShowNumbers = false })
	plan := trianglePlan()
	style := r.Style()

	initial, err := r.Render(plan, output.FrameSpec{Prefix: 0})
	require.NoError(t, err)
	assertNear(t, style.Background, colorAt(initial, 200, 100), "segment 1 absent")
	assertNear(t, style.Background, colorAt(initial, 300, 200), "segment 2 absent")

	one, err := r.Render(plan, output.FrameSpec{Prefix: 1})
	require.NoError(t, err)
	assertNear(t, style.LineColor, colorAt(one, 200, 100), "segment 1 drawn")
	assertNear(t, style.Background, colorAt(one, 300, 200), "segment 2 absent")

	final, err := r.Render(plan, output.FrameSpec{Prefix: 2})
	require.NoError(t, err)
	assertNear(t, style.LineColor, colorAt(final, 200, 100))
	assertNear(t, style.LineColor, colorAt(final, 300, 200))

	// Never joined back to the start.
	assertNear(t, style.Background, colorAt(final, 200, 200))
}

func TestRender_DotsOnTopOfLines(t *testing.T) {
	r := newRenderer(t, func(s *entity.Style) { s.ShowNumbers = false })
	plan := trianglePlan()

	img, err := r.Render(plan, output.FrameSpec{Prefix: 2})
	require.NoError(t, err)
	for _, pt := range plan.Points {
		assertNear(t, r.Style().DotColor, colorAt(img, pt.X, pt.Y), "dot %d", pt.Index)
	}
}

func TestRender_PartialSegment(t *testing.T) {
	r := newRenderer(t, func(s *entity.Style) { s.ShowNumbers = false })
	plan := trianglePlan()

	img, err := r.Render(plan, output.FrameSpec{Prefix: 0, Partial: 0.5})
	require.NoError(t, err)
	assertNear(t, r.Style().LineColor, colorAt(img, 150, 100), "first half drawn")
	assertNear(t, r.Style().Background, colorAt(img, 250, 100), "second half pending")
}

func TestRender_LabelsAddInk(t *testing.T) {
	plain := newRenderer(t, func(s *entity.Style) { s.ShowNumbers = false })
	labelled := newRenderer(t, nil)
	plan := trianglePlan()

	a, err := plain.Render(plan, output.FrameSpec{})
	require.NoError(t, err)
	b, err := labelled.Render(plan, output.FrameSpec{})
	require.NoError(t, err)

	for _, pt := range plan.Points {
		dark := 0
		for y := pt.Y - 12; y <= pt.Y+12; y++ {
			for x := pt.X - 12; x <= pt.X+12; x++ {
				c := colorAt(b, x, y)
				if c.R < 60 && c.G < 60 && c.B < 60 && colorAt(a, x, y) != c {
					dark++
				}
			}
		}
		assert.Positive(t, dark, "dot %d has no label ink", pt.Index)
	}
}

func TestRender_LabelModes(t *testing.T) {
	order := entity.ConnectionOrder{3, 1, 2}

	byOrder := entity.DefaultStyle()
	assert.Equal(t, 1, byOrder.Label(order, 3))
	assert.Equal(t, 2, byOrder.Label(order, 1))

	byIndex := entity.DefaultStyle()
	byIndex.Labels = entity.LabelPlacement
	assert.Equal(t, 3, byIndex.Label(order, 3))
}

func TestRender_RejectsBadPrefix(t *testing.T) {
	r := newRenderer(t, nil)

	for _, prefix := range []int{-1, 3} {
		_, err := r.Render(trianglePlan(), output.FrameSpec{Prefix: prefix})
		assert.ErrorIs(t, err, entity.ErrRenderFailure, "prefix %d", prefix)
	}
}

func TestRender_UnknownPointInOrder(t *testing.T) {
	r := newRenderer(t, nil)
	plan := trianglePlan()
	plan.Order = entity.ConnectionOrder{1, 7, 3}

	_, err := r.Render(plan, output.FrameSpec{Prefix: 1})
	assert.ErrorIs(t, err, entity.ErrRenderFailure)
}
