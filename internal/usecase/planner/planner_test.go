package planner

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotgen/internal/domain/entity"
)

func testConfig(ct entity.ConnectionType, n int) Config {
	return Config{
		NumDots:       n,
		Canvas:        entity.Canvas{Width: 512, Height: 512},
		Margin:        40,
		MinSeparation: 60,
		MaxAttempts:   100,
		Type:          ct,
	}
}

func TestPlan_SeparationHolds(t *testing.T) {
	for _, ct := range entity.ConnectionTypes {
		for _, n := range []int{3, 5, 10, 15} {
			p, err := New(testConfig(ct, n))
			require.NoError(t, err)

			for seed := int64(0); seed < 25; seed++ {
				plan, err := p.Plan(rand.New(rand.NewSource(seed)))
				if err != nil {
					// Dense layouts may legitimately run out of attempts.
					require.ErrorIs(t, err, entity.ErrConstraintUnsatisfiable)
					continue
				}
				require.Len(t, plan.Points, n)
				for i, a := range plan.Points {
					assert.Equal(t, i+1, a.Index)
					assert.True(t, plan.Canvas.Contains(a))
					assert.GreaterOrEqual(t, a.X, 40)
					assert.GreaterOrEqual(t, a.Y, 40)
					assert.LessOrEqual(t, a.X, 512-40)
					assert.LessOrEqual(t, a.Y, 512-40)
					for _, b := range plan.Points[i+1:] {
						assert.GreaterOrEqual(t, math.Sqrt(float64(a.DistSq(b))), 60.0)
					}
				}
			}
		}
	}
}

func TestPlan_SequentialIsIdentity(t *testing.T) {
	p, err := New(testConfig(entity.ConnectionSequential, 5))
	require.NoError(t, err)

	plan, err := p.Plan(rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, entity.ConnectionOrder{1, 2, 3, 4, 5}, plan.Order)
	assert.Equal(t, entity.ConnectionSequential, plan.Type)
}

func TestPlan_PathAndRandomArePermutations(t *testing.T) {
	for _, ct := range []entity.ConnectionType{entity.ConnectionPath, entity.ConnectionRandom} {
		p, err := New(testConfig(ct, 8))
		require.NoError(t, err)

		for seed := int64(0); seed < 50; seed++ {
			plan, err := p.Plan(rand.New(rand.NewSource(seed)))
			require.NoError(t, err)
			assert.NoError(t, plan.Order.Validate(8), "%s seed %d", ct, seed)
		}
	}
}

func TestPlan_Reproducible(t *testing.T) {
	p, err := New(testConfig(entity.ConnectionRandom, 6))
	require.NoError(t, err)

	a, err := p.Plan(rand.New(rand.NewSource(123)))
	require.NoError(t, err)
	b, err := p.Plan(rand.New(rand.NewSource(123)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlan_Unsatisfiable(t *testing.T) {
	cfg := testConfig(entity.ConnectionSequential, 3)
	cfg.MinSeparation = 2000

	p, err := New(cfg)
	require.NoError(t, err)

	_, err = p.Plan(rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrConstraintUnsatisfiable)
}

func TestPlan_ZeroSpanPlacesOnMargin(t *testing.T) {
	p, err := New(Config{
		NumDots:     1,
		Canvas:      entity.Canvas{Width: 100, Height: 60},
		Margin:      30,
		MaxAttempts: 1,
		Type:        entity.ConnectionSequential,
	})
	require.NoError(t, err)

	plan, err := p.Plan(rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.Len(t, plan.Points, 1)
	assert.Equal(t, 30, plan.Points[0].Y)
	assert.GreaterOrEqual(t, plan.Points[0].X, 30)
	assert.LessOrEqual(t, plan.Points[0].X, 70)
}

func TestPlan_FarMarginReachable(t *testing.T) {
	cfg := Config{
		NumDots:     1,
		Canvas:      entity.Canvas{Width: 12, Height: 12},
		Margin:      5,
		MaxAttempts: 1,
		Type:        entity.ConnectionSequential,
	}
	p, err := New(cfg)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for seed := int64(0); seed < 200; seed++ {
		plan, err := p.Plan(rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		seen[plan.Points[0].X] = true
	}
	assert.Equal(t, map[int]bool{5: true, 6: true, 7: true}, seen)
}

func TestNew_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no dots", func(c *Config) { c.NumDots = 0 }},
		{"no attempts", func(c *Config) { c.MaxAttempts = 0 }},
		{"negative separation", func(c *Config) { c.MinSeparation = -5 }},
		{"margin eats canvas", func(c *Config) { c.Margin = 257 }},
		{"unknown type", func(c *Config) { c.Type = "spiral" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(entity.ConnectionSequential, 5)
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, entity.ErrInvalidConfiguration)
		})
	}
}

func TestNearestNeighbour_GreedyWalk(t *testing.T) {
	points := []entity.Point{
		{Index: 1, X: 0, Y: 0},
		{Index: 2, X: 100, Y: 0},
		{Index: 3, X: 10, Y: 0},
		{Index: 4, X: 50, Y: 0},
	}

	// Search for a seed that starts the walk at point 1.
	for seed := int64(0); ; seed++ {
		if rand.New(rand.NewSource(seed)).Intn(len(points)) != 0 {
			continue
		}
		order := nearestNeighbour(points, rand.New(rand.NewSource(seed)))
		assert.Equal(t, entity.ConnectionOrder{1, 3, 4, 2}, order)
		return
	}
}

func TestNearestNeighbour_TieGoesToLowerIndex(t *testing.T) {
	points := []entity.Point{
		{Index: 1, X: 50, Y: 0},
		{Index: 2, X: 100, Y: 0},
		{Index: 3, X: 0, Y: 0},
	}

	// From point 1 both others are 50 away; point 2 must win.
	for seed := int64(0); ; seed++ {
		if rand.New(rand.NewSource(seed)).Intn(len(points)) != 0 {
			continue
		}
		order := nearestNeighbour(points, rand.New(rand.NewSource(seed)))
		assert.Equal(t, entity.ConnectionOrder{1, 2, 3}, order)
		return
	}
}
