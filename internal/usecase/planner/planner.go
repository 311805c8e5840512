// Package planner places dots on the canvas and decides the order in which
// they are joined.
package planner

import (
	"math"
	"math/rand"

	"dotgen/internal/domain/entity"
)

type Config struct {
	NumDots       int
	Canvas        entity.Canvas
	Margin        int
	MinSeparation float64
	MaxAttempts   int
	Type          entity.ConnectionType
}

type Planner struct {
	cfg Config
}

func New(cfg Config) (*Planner, error) {
	switch {
	case cfg.NumDots < 1:
		return nil, entity.InvalidConfigf("planner: dot count %d must be positive", cfg.NumDots)
	case cfg.MaxAttempts < 1:
		return nil, entity.InvalidConfigf("planner: attempt budget %d must be positive", cfg.MaxAttempts)
	case cfg.MinSeparation < 0 || math.IsNaN(cfg.MinSeparation):
		return nil, entity.InvalidConfigf("planner: invalid min separation %g", cfg.MinSeparation)
	case cfg.Margin < 0:
		return nil, entity.InvalidConfigf("planner: margin %d must not be negative", cfg.Margin)
	case cfg.Canvas.Width-2*cfg.Margin < 0 || cfg.Canvas.Height-2*cfg.Margin < 0:
		return nil, entity.InvalidConfigf("planner: canvas %s too small for margin %d", cfg.Canvas, cfg.Margin)
	}
	if _, err := entity.ParseConnectionType(string(cfg.Type)); err != nil {
		return nil, err
	}
	return &Planner{cfg: cfg}, nil
}

// Plan draws a fresh layout from rng. All randomness of a task flows through
// rng so a seed reproduces the plan exactly.
func (p *Planner) Plan(rng *rand.Rand) (entity.Plan, error) {
	points, err := p.place(rng)
	if err != nil {
		return entity.Plan{}, err
	}
	return entity.Plan{
		Canvas: p.cfg.Canvas,
		Points: points,
		Order:  Order(p.cfg.Type, points, rng),
		Type:   p.cfg.Type,
	}, nil
}

func (p *Planner) place(rng *rand.Rand) ([]entity.Point, error) {
	c := p.cfg
	// Compare squared distances; candidates on integer coordinates keep this exact.
	// Both margins are reachable: x and y are drawn from [margin, size-margin].
	minSq := c.MinSeparation * c.MinSeparation
	spanX := c.Canvas.Width - 2*c.Margin
	spanY := c.Canvas.Height - 2*c.Margin

	points := make([]entity.Point, 0, c.NumDots)
	for i := 1; i <= c.NumDots; i++ {
		placed := false
		for attempt := 0; attempt < c.MaxAttempts; attempt++ {
			cand := entity.Point{
				Index: i,
				X:     c.Margin + rng.Intn(spanX+1),
				Y:     c.Margin + rng.Intn(spanY+1),
			}
			if clears(cand, points, minSq) {
				points = append(points, cand)
				placed = true
				break
			}
		}
		if !placed {
			return nil, entity.Unsatisfiablef("placed %d of %d dots with separation %g on %s after %d attempts",
				len(points), c.NumDots, c.MinSeparation, c.Canvas, c.MaxAttempts)
		}
	}
	return points, nil
}

func clears(cand entity.Point, accepted []entity.Point, minSq float64) bool {
	for _, pt := range accepted {
		if float64(cand.DistSq(pt)) < minSq {
			return false
		}
	}
	return true
}
