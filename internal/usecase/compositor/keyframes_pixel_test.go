package compositor

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotgen/internal/domain/entity"
	"dotgen/internal/infrastructure/render"
)

func squarePlan() entity.Plan {
	return entity.Plan{
		Canvas: entity.Canvas{Width: 200, Height: 200},
		Points: []entity.Point{
			{Index: 1, X: 40, Y: 40},
			{Index: 2, X: 160, Y: 40},
			{Index: 3, X: 160, Y: 160},
			{Index: 4, X: 40, Y: 160},
		},
		Order: entity.ConnectionOrder{1, 2, 3, 4},
		Type:  entity.ConnectionSequential,
	}
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -8 && d <= 8
}

// linePixels returns the set of pixels painted in the line colour.
func linePixels(img image.Image, line color.RGBA) map[image.Point]bool {
	set := make(map[image.Point]bool)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if near(c.R, line.R) && near(c.G, line.G) && near(c.B, line.B) {
				set[image.Point{X: x, Y: y}] = true
			}
		}
	}
	return set
}

func TestKeyframes_RenderedLinesOnlyGrow(t *testing.T) {
	style := entity.DefaultStyle()
	r, err := render.New(style)
	require.NoError(t, err)
	defer r.Close()

	keys, err := New(r).Keyframes(squarePlan())
	require.NoError(t, err)
	require.Len(t, keys, 4)

	prev := linePixels(keys[0], style.LineColor)
	assert.Empty(t, prev, "first keyframe has no lines")
	for k := 1; k < len(keys); k++ {
		cur := linePixels(keys[k], style.LineColor)
		for p := range prev {
			require.True(t, cur[p], "keyframe %d lost line pixel %v", k, p)
		}
		assert.Greater(t, len(cur), len(prev), "keyframe %d adds line pixels", k)
		prev = cur
	}
}
