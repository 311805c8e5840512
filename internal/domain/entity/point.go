package entity

import "fmt"

// Point is a dot on the canvas. Index is the 1-based placement index.
type Point struct {
	Index int `json:"index"`
	X     int `json:"x"`
	Y     int `json:"y"`
}

// DistSq returns the squared euclidean distance between two points.
func (p Point) DistSq(o Point) int {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

type Canvas struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (c Canvas) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < c.Width && p.Y < c.Height
}

func (c Canvas) String() string {
	return fmt.Sprintf("%dx%d", c.Width, c.Height)
}
