package entity

import "image/color"

type LabelMode string

const (
	// LabelDrawOrder labels each dot with its position in the connection
	// order, so following the numbers reproduces the solution.
	LabelDrawOrder LabelMode = "order"
	// LabelPlacement labels each dot with its placement index.
	LabelPlacement LabelMode = "index"
)

type Style struct {
	Background   color.RGBA
	DotColor     color.RGBA
	LineColor    color.RGBA
	OutlineColor color.RGBA
	LabelColor   color.RGBA
	HaloColor    color.RGBA

	DotRadius    int
	LineWidth    int
	OutlineWidth int
	ShowNumbers  bool
	Labels       LabelMode
}

func DefaultStyle() Style {
	return Style{
		Background:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		DotColor:     color.RGBA{R: 50, G: 50, B: 200, A: 255},
		LineColor:    color.RGBA{R: 200, G: 50, B: 50, A: 255},
		OutlineColor: color.RGBA{A: 255},
		LabelColor:   color.RGBA{A: 255},
		HaloColor:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		DotRadius:    8,
		LineWidth:    3,
		OutlineWidth: 2,
		ShowNumbers:  true,
		Labels:       LabelDrawOrder,
	}
}

// Label returns the number printed on the dot with the given placement index.
func (s Style) Label(order ConnectionOrder, index int) int {
	if s.Labels == LabelPlacement {
		return index
	}
	if rank := order.Rank(index); rank > 0 {
		return rank
	}
	return index
}

// PathLabels returns the label printed on each dot of order, in visiting
// order. With draw-order labels this is always 1..len(order).
func (s Style) PathLabels(order ConnectionOrder) []int {
	labels := make([]int, len(order))
	for i, idx := range order {
		labels[i] = s.Label(order, idx)
	}
	return labels
}
