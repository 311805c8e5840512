package planner

import (
	"math/rand"

	"dotgen/internal/domain/entity"
)

// Order returns the visiting order of points for the given connection type.
func Order(ct entity.ConnectionType, points []entity.Point, rng *rand.Rand) entity.ConnectionOrder {
	switch ct {
	case entity.ConnectionPath:
		return nearestNeighbour(points, rng)
	case entity.ConnectionRandom:
		order := identity(points)
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		return order
	default:
		return identity(points)
	}
}

func identity(points []entity.Point) entity.ConnectionOrder {
	order := make(entity.ConnectionOrder, len(points))
	for i, pt := range points {
		order[i] = pt.Index
	}
	return order
}

// nearestNeighbour walks greedily from a random start to the closest
// unvisited point. On equal distance the lower placement index wins.
func nearestNeighbour(points []entity.Point, rng *rand.Rand) entity.ConnectionOrder {
	n := len(points)
	if n <= 1 {
		return identity(points)
	}

	visited := make([]bool, n)
	cur := rng.Intn(n)
	visited[cur] = true
	order := entity.ConnectionOrder{points[cur].Index}

	for len(order) < n {
		next := -1
		best := 0
		for i, pt := range points {
			if visited[i] {
				continue
			}
			d := points[cur].DistSq(pt)
			if next == -1 || d < best || (d == best && pt.Index < points[next].Index) {
				next, best = i, d
			}
		}
		visited[next] = true
		order = append(order, points[next].Index)
		cur = next
	}
	return order
}
