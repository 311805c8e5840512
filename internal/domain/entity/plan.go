package entity

// Plan is the geometry of one task: where the dots are and in which order
// they are joined.
type Plan struct {
	Canvas Canvas          `json:"canvas"`
	Points []Point         `json:"points"`
	Order  ConnectionOrder `json:"connection_order"`
	Type   ConnectionType  `json:"connection_type"`
}

// PointByIndex returns the point with the given placement index.
func (p Plan) PointByIndex(index int) (Point, bool) {
	if index >= 1 && index <= len(p.Points) && p.Points[index-1].Index == index {
		return p.Points[index-1], true
	}
	for _, pt := range p.Points {
		if pt.Index == index {
			return pt, true
		}
	}
	return Point{}, false
}

// SegmentCount is the number of lines in the completed drawing.
func (p Plan) SegmentCount() int {
	if len(p.Order) < 2 {
		return 0
	}
	return len(p.Order) - 1
}

func (p Plan) Clone() Plan {
	return Plan{
		Canvas: p.Canvas,
		Points: append([]Point(nil), p.Points...),
		Order:  p.Order.Clone(),
		Type:   p.Type,
	}
}
