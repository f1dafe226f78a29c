package maze

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cornerOptions(width, height int) Options {
	return Options{
		Width:  width,
		Height: height,
		Start:  Position{},
		Finish: Position{Row: height - 1, Col: width - 1},
	}
}

func TestGenerateConnectsStartAndFinish(t *testing.T) {
	sizeRNG := rand.New(rand.NewSource(7))
	for seed := int64(1); seed <= 60; seed++ {
		width := 2 + sizeRNG.Intn(14)
		height := 2 + sizeRNG.Intn(14)
		opts := cornerOptions(width, height)
		g, stats, e := GenerateWithSeed(opts, seed)
		require.NoError(t, e, "seed %d, %dx%d", seed, width, height)

		reachable := floodFill(g, opts.Start)
		_, ok := reachable[opts.Finish]
		assert.True(t, ok, "seed %d: finish not reachable", seed)

		// The component containing start is a tree.
		assert.Equal(t, len(reachable)-1, openWallsWithin(g, reachable),
			"seed %d: cycle in start's component", seed)
		// Every productive proposal opened exactly one wall.
		assert.Equal(t, stats.Productive, g.OpenCount())
		assert.GreaterOrEqual(t, stats.Total, stats.Productive)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := cornerOptions(25, 17)
	a, statsA, e := GenerateWithSeed(opts, 1234)
	require.NoError(t, e)
	b, statsB, e := GenerateWithSeed(opts, 1234)
	require.NoError(t, e)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, statsA.Productive, statsB.Productive)
	assert.Equal(t, statsA.Total, statsB.Total)

	c, _, e := GenerateWithSeed(opts, 4321)
	require.NoError(t, e)
	assert.False(t, a.Equal(c))
}

func TestGenerateTwoCells(t *testing.T) {
	opts := Options{
		Width:  2,
		Height: 1,
		Start:  Position{Row: 0, Col: 0},
		Finish: Position{Row: 0, Col: 1},
	}
	g, stats, e := GenerateWithSeed(opts, 99)
	require.NoError(t, e)
	assert.True(t, g.At(Position{}).East)
	assert.Equal(t, 1, g.OpenCount())
	assert.Equal(t, 1, stats.Productive)
	assert.Equal(t, 1, stats.Total)

	r, e := FindRoute(g, opts.Start, opts.Finish)
	require.NoError(t, e)
	assert.Equal(t, Route{{Row: 0, Col: 0}, {Row: 0, Col: 1}}, r)
}

func TestGenerateSingleCell(t *testing.T) {
	opts := Options{Width: 1, Height: 1}
	g, stats, e := GenerateWithSeed(opts, 5)
	require.NoError(t, e)
	assert.Equal(t, 0, g.OpenCount())
	assert.Equal(t, 0, stats.Total)

	r, e := FindRoute(g, Position{}, Position{})
	require.NoError(t, e)
	assert.Equal(t, Route{{}}, r)
}

func TestGenerateSingleColumn(t *testing.T) {
	opts := cornerOptions(1, 10)
	g, stats, e := GenerateWithSeed(opts, 3)
	require.NoError(t, e)
	// Every south wall has to be opened to connect the ends.
	assert.Equal(t, 9, g.OpenCount())
	assert.Equal(t, 9, stats.Productive)
	for row := 0; row < 9; row++ {
		assert.True(t, g.At(Position{Row: row}).South)
	}
}

func TestGenerateMaskOwnership(t *testing.T) {
	t.Run("protected cell never opens its own walls", func(t *testing.T) {
		protected := Position{Row: 2, Col: 2}
		mask, e := NewMask(5, 5)
		require.NoError(t, e)
		require.NoError(t, mask.Set(protected))
		opts := cornerOptions(5, 5)
		opts.Mask = mask

		neighborOpened := false
		for seed := int64(1); seed <= 300; seed++ {
			g, _, e := GenerateWithSeed(opts, seed)
			require.NoError(t, e)
			b := g.At(protected)
			assert.False(t, b.East, "seed %d", seed)
			assert.False(t, b.South, "seed %d", seed)
			if g.Open(protected, North) || g.Open(protected, West) {
				neighborOpened = true
			}
		}
		assert.True(t, neighborOpened,
			"walls owned by the neighbors should still open")
	})

	t.Run("protected finish reached through neighbor", func(t *testing.T) {
		mask, e := NewMask(2, 1)
		require.NoError(t, e)
		require.NoError(t, mask.Set(Position{Col: 1}))
		opts := Options{
			Width:  2,
			Height: 1,
			Finish: Position{Col: 1},
			Mask:   mask,
		}
		g, _, e := GenerateWithSeed(opts, 1)
		require.NoError(t, e)
		assert.True(t, g.Open(Position{Col: 1}, West))
	})

	t.Run("protected owner makes it unreachable", func(t *testing.T) {
		mask, e := NewMask(2, 1)
		require.NoError(t, e)
		require.NoError(t, mask.Set(Position{}))
		opts := Options{
			Width:  2,
			Height: 1,
			Finish: Position{Col: 1},
			Mask:   mask,
		}
		_, _, e = GenerateWithSeed(opts, 1)
		assert.ErrorIs(t, e, ErrUnreachable)
	})

	t.Run("isolated interior cell", func(t *testing.T) {
		// The center cell owns its east and south walls, and its north and
		// west walls belong to protected neighbors.
		mask, e := NewMask(3, 3)
		require.NoError(t, e)
		for _, p := range []Position{{1, 1}, {0, 1}, {1, 0}} {
			require.NoError(t, mask.Set(p))
		}
		opts := Options{
			Width:  3,
			Height: 3,
			Finish: Position{Row: 1, Col: 1},
			Mask:   mask,
		}
		_, _, e = GenerateWithSeed(opts, 1)
		assert.ErrorIs(t, e, ErrUnreachable)
	})
}

func TestGenerateRejectsBadOptions(t *testing.T) {
	t.Run("dimensions", func(t *testing.T) {
		_, _, e := GenerateWithSeed(Options{Width: 0, Height: 3}, 1)
		assert.ErrorIs(t, e, ErrInvalidDimensions)
	})

	t.Run("endpoints", func(t *testing.T) {
		opts := cornerOptions(3, 3)
		opts.Finish = Position{Row: 3, Col: 0}
		_, _, e := GenerateWithSeed(opts, 1)
		assert.ErrorIs(t, e, ErrOutOfBounds)

		opts = cornerOptions(3, 3)
		opts.Start = Position{Row: -1}
		_, _, e = GenerateWithSeed(opts, 1)
		assert.ErrorIs(t, e, ErrOutOfBounds)
	})

	t.Run("mask size", func(t *testing.T) {
		mask, e := NewMask(4, 3)
		require.NoError(t, e)
		opts := cornerOptions(3, 3)
		opts.Mask = mask
		_, _, e = GenerateWithSeed(opts, 1)
		assert.ErrorIs(t, e, ErrMaskSize)
	})
}

func TestGenerateIterationLimit(t *testing.T) {
	opts := cornerOptions(10, 10)
	opts.MaxIterations = 5
	_, stats, e := GenerateWithSeed(opts, 1)
	assert.ErrorIs(t, e, ErrIterationLimit)
	assert.Equal(t, 5, stats.Total)
}

func TestStatsString(t *testing.T) {
	s := Stats{Productive: 1, Total: 4}
	assert.Equal(t, "25.00% productive (1/4)", s.String())
	assert.InDelta(t, 0.25, s.Ratio(), 1e-9)
	assert.Equal(t, 0.0, Stats{}.Ratio())
}
