package render

import (
	"fmt"
	"image"
	"strconv"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"

	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
)

var _ output.FrameRendererPort = (*Renderer)(nil)

const minLabelSize = 16

// Renderer rasterizes plans with the gg software backend. It holds no
// per-frame state and is safe to share between goroutines.
type Renderer struct {
	style entity.Style
	font  *text.FontSource
}

func New(style entity.Style) (*Renderer, error) {
	src, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, entity.RenderFailure("load label font", err)
	}
	return &Renderer{style: style, font: src}, nil
}

func (r *Renderer) Style() entity.Style {
	return r.style
}

func (r *Renderer) Close() error {
	return r.font.Close()
}

// Render draws dots, their labels and the first spec.Prefix segments of
// plan.Order. Lines go underneath the dots.
func (r *Renderer) Render(plan entity.Plan, spec output.FrameSpec) (image.Image, error) {
	segs := plan.Order.Segments()
	if spec.Prefix < 0 || spec.Prefix > len(segs) {
		return nil, entity.RenderFailure(fmt.Sprintf("prefix %d outside 0..%d", spec.Prefix, len(segs)), nil)
	}
	if plan.Canvas.Width <= 0 || plan.Canvas.Height <= 0 {
		return nil, entity.RenderFailure("empty canvas "+plan.Canvas.String(), nil)
	}

	dc := gg.NewContext(plan.Canvas.Width, plan.Canvas.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.FromColor(r.style.Background))

	dc.SetColor(r.style.LineColor)
	dc.SetLineWidth(float64(r.style.LineWidth))
	dc.SetLineCap(gg.LineCapRound)
	for _, seg := range segs[:spec.Prefix] {
		if err := r.strokeSegment(dc, plan, seg, 1); err != nil {
			return nil, err
		}
	}
	if spec.Partial > 0 && spec.Partial < 1 && spec.Prefix < len(segs) {
		if err := r.strokeSegment(dc, plan, segs[spec.Prefix], spec.Partial); err != nil {
			return nil, err
		}
	}

	for _, pt := range plan.Points {
		if err := r.drawDot(dc, pt); err != nil {
			return nil, err
		}
	}

	if r.style.ShowNumbers {
		dc.SetFont(r.font.Face(float64(max(minLabelSize, r.style.DotRadius*2))))
		for _, pt := range plan.Points {
			r.drawLabel(dc, strconv.Itoa(r.style.Label(plan.Order, pt.Index)), pt)
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, entity.RenderFailure("flush", err)
	}
	return dc.Image(), nil
}

func (r *Renderer) strokeSegment(dc *gg.Context, plan entity.Plan, seg entity.Segment, progress float64) error {
	from, ok := plan.PointByIndex(seg.From)
	if !ok {
		return entity.RenderFailure(fmt.Sprintf("segment references unknown point %d", seg.From), nil)
	}
	to, ok := plan.PointByIndex(seg.To)
	if !ok {
		return entity.RenderFailure(fmt.Sprintf("segment references unknown point %d", seg.To), nil)
	}

	x1, y1 := float64(from.X), float64(from.Y)
	x2 := x1 + (float64(to.X)-x1)*progress
	y2 := y1 + (float64(to.Y)-y1)*progress
	dc.DrawLine(x1, y1, x2, y2)
	if err := dc.Stroke(); err != nil {
		return entity.RenderFailure("stroke segment", err)
	}
	return nil
}

func (r *Renderer) drawDot(dc *gg.Context, pt entity.Point) error {
	dc.DrawCircle(float64(pt.X), float64(pt.Y), float64(r.style.DotRadius))
	dc.SetColor(r.style.DotColor)
	if err := dc.FillPreserve(); err != nil {
		return entity.RenderFailure("fill dot", err)
	}
	dc.SetColor(r.style.OutlineColor)
	dc.SetLineWidth(float64(r.style.OutlineWidth))
	if err := dc.Stroke(); err != nil {
		return entity.RenderFailure("outline dot", err)
	}
	return nil
}

// drawLabel centres s on the dot: a 1px halo first, then the label itself.
func (r *Renderer) drawLabel(dc *gg.Context, s string, pt entity.Point) {
	face := dc.Font()
	m := face.Metrics()
	x := float64(pt.X) - face.Advance(s)/2
	capHeight := m.CapHeight
	if capHeight <= 0 {
		capHeight = m.Ascent * 0.7
	}
	y := float64(pt.Y) + capHeight/2

	dc.SetColor(r.style.HaloColor)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			dc.DrawString(s, x+float64(dx), y+float64(dy))
		}
	}
	dc.SetColor(r.style.LabelColor)
	dc.DrawString(s, x, y)
}
