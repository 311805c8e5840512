package video

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"

	"golang.org/x/image/draw"

	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
)

var _ output.VideoEncoderPort = (*GIFEncoder)(nil)

const blendSteps = 24

// GIFEncoder writes animated GIFs with a palette derived from the render
// style, so anti-aliased edges map onto real blends instead of dithering.
type GIFEncoder struct {
	palette color.Palette
}

func NewGIFEncoder(style entity.Style) *GIFEncoder {
	return &GIFEncoder{palette: Palette(style)}
}

func (e *GIFEncoder) Ext() string {
	return "gif"
}

func (e *GIFEncoder) Encode(ctx context.Context, frames []image.Image, fps int) (*entity.Video, error) {
	if len(frames) == 0 {
		return nil, entity.RenderFailure("gif: no frames", nil)
	}
	if fps <= 0 {
		return nil, entity.RenderFailure("gif: fps must be positive", nil)
	}

	delay := max(1, 100/fps)
	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}

	// Repeated frames share one image; quantize each distinct one once.
	cache := make(map[image.Image]*image.Paletted)
	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pm, ok := cache[frame]
		if !ok {
			pm = image.NewPaletted(frame.Bounds(), e.palette)
			draw.Draw(pm, pm.Rect, frame, frame.Bounds().Min, draw.Src)
			cache[frame] = pm
		}
		anim.Image = append(anim.Image, pm)
		anim.Delay = append(anim.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, entity.RenderFailure("gif: encode", err)
	}
	return &entity.Video{Ext: e.Ext(), Data: buf.Bytes(), FrameCount: len(frames)}, nil
}

// Palette lists the style colours plus blends of every foreground colour
// over the background and over the other foreground colours.
func Palette(style entity.Style) color.Palette {
	fg := []color.RGBA{style.DotColor, style.LineColor, style.OutlineColor, style.LabelColor, style.HaloColor}
	seen := make(map[color.RGBA]bool)
	var p color.Palette
	add := func(c color.RGBA) {
		c.A = 255
		if len(p) >= 256 || seen[c] {
			return
		}
		seen[c] = true
		p = append(p, c)
	}

	add(style.Background)
	for _, c := range fg {
		add(c)
	}
	bases := append([]color.RGBA{style.Background}, fg[:3]...)
	for _, base := range bases {
		for _, c := range fg {
			for i := 1; i < blendSteps; i++ {
				add(lerp(base, c, float64(i)/blendSteps))
			}
		}
	}
	return p
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
