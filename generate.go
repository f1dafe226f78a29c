package maze

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	// Returned when the mask leaves no combination of openable walls that
	// could connect the start and finish cells.
	ErrUnreachable = errors.New("start and finish cannot be connected")
	// Returned when generation gives up after Options.MaxIterations attempts.
	ErrIterationLimit = errors.New("maze generation iteration limit reached")
)

// The default iteration limit is this many attempts per eligible wall.
const defaultIterationFactor = 256

// Parameters for Generate.
type Options struct {
	// The size of the maze, in cells. Both must be at least 1.
	Width  int
	Height int
	// The two cells that must end up connected.
	Start  Position
	Finish Position
	// Optional. If non-nil, must be exactly Width x Height.
	Mask *Mask
	// Optional. The maximum number of proposed walls before giving up with
	// ErrIterationLimit. If not positive, a generous limit is derived from
	// the number of walls in the grid.
	MaxIterations int
}

// Counts the work done by a call to Generate. Only informational.
type Stats struct {
	// Proposals that opened a wall and merged two components.
	Productive int
	// All proposals, including the productive ones.
	Total    int
	Duration time.Duration
}

// Returns the fraction of proposals that were productive, in [0, 1].
func (s Stats) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Productive) / float64(s.Total)
}

func (s Stats) String() string {
	return fmt.Sprintf("%.2f%% productive (%d/%d)", 100*s.Ratio(),
		s.Productive, s.Total)
}

// Checks dimensions, endpoints and the mask size, before any generation
// happens.
func (o *Options) validate() error {
	e := checkDimensions(o.Width, o.Height)
	if e != nil {
		return e
	}
	inBounds := func(p Position) bool {
		return (p.Row >= 0) && (p.Col >= 0) && (p.Row < o.Height) &&
			(p.Col < o.Width)
	}
	if !inBounds(o.Start) {
		return fmt.Errorf("%w: start %s in a %dx%d maze", ErrOutOfBounds,
			o.Start, o.Width, o.Height)
	}
	if !inBounds(o.Finish) {
		return fmt.Errorf("%w: finish %s in a %dx%d maze", ErrOutOfBounds,
			o.Finish, o.Width, o.Height)
	}
	return o.Mask.checkSize(o.Width, o.Height)
}

// Returns ErrUnreachable if start and finish would remain apart even if every
// wall not owned by a protected cell were opened. If this passes, the random
// proposals in Generate will eventually connect them.
func checkReachable(g *Grid, mask *Mask, start, finish Position) error {
	forest := newDisjointSet(len(g.cells))
	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			p := Position{Row: row, Col: col}
			if mask.Contains(p) {
				continue
			}
			index := g.index(p)
			if col != (g.width - 1) {
				forest.union(index, index+1)
			}
			if row != (g.height - 1) {
				forest.union(index, index+g.width)
			}
		}
	}
	if !forest.same(g.index(start), g.index(finish)) {
		return fmt.Errorf("%w: the mask isolates %s from %s", ErrUnreachable,
			start, finish)
	}
	return nil
}

// Builds a maze in which the start and finish cells are connected. Walls are
// proposed at random, choosing east or south with equal probability and then
// a cell that has a neighbor in that direction. A proposal opens the wall
// only if the owning cell is not protected by the mask and the two cells are
// not yet connected, so the open walls always form a forest and the route
// between start and finish is unique. Generation stops as soon as start and
// finish are connected; other cells may remain isolated.
//
// The result depends only on opts and the sequence of values drawn from rng,
// so a rng created from a fixed seed reproduces the same Grid.
func Generate(opts Options, rng *rand.Rand) (*Grid, Stats, error) {
	var stats Stats
	e := opts.validate()
	if e != nil {
		return nil, stats, e
	}
	g, e := NewGrid(opts.Width, opts.Height)
	if e != nil {
		return nil, stats, e
	}
	if opts.Start == opts.Finish {
		return g, stats, nil
	}
	e = checkReachable(g, opts.Mask, opts.Start, opts.Finish)
	if e != nil {
		return nil, stats, e
	}

	eastCount := (g.width - 1) * g.height
	southCount := g.width * (g.height - 1)
	limit := opts.MaxIterations
	if limit <= 0 {
		limit = defaultIterationFactor * (eastCount + southCount + 1)
	}
	forest := newDisjointSet(len(g.cells))
	startIndex := g.index(opts.Start)
	finishIndex := g.index(opts.Finish)
	startTime := time.Now()

	for {
		if stats.Total >= limit {
			stats.Duration = time.Since(startTime)
			return nil, stats, fmt.Errorf("%w: %s after %d attempts",
				ErrIterationLimit, stats, limit)
		}
		stats.Total++

		// Only flip a coin if both orientations have candidates, so 1-wide
		// and 1-high mazes don't waste draws.
		var east bool
		switch {
		case eastCount == 0:
			east = false
		case southCount == 0:
			east = true
		default:
			east = rng.Intn(2) == 0
		}
		var p Position
		var neighborIndex int
		if east {
			p.Col = rng.Intn(g.width - 1)
			p.Row = rng.Intn(g.height)
			neighborIndex = g.index(p) + 1
		} else {
			p.Col = rng.Intn(g.width)
			p.Row = rng.Intn(g.height - 1)
			neighborIndex = g.index(p) + g.width
		}

		// Only the owning cell's protection matters.
		if opts.Mask.Contains(p) {
			continue
		}
		index := g.index(p)
		cell := &(g.cells[index])
		if (east && cell.East) || (!east && cell.South) {
			continue
		}
		if !forest.union(index, neighborIndex) {
			// Would create a cycle.
			continue
		}
		if east {
			cell.East = true
		} else {
			cell.South = true
		}

		stats.Productive++
		if forest.same(startIndex, finishIndex) {
			break
		}
	}
	stats.Duration = time.Since(startTime)
	return g, stats, nil
}

// Calls Generate with a new random source created from the given seed.
func GenerateWithSeed(opts Options, seed int64) (*Grid, Stats, error) {
	return Generate(opts, rand.New(rand.NewSource(seed)))
}
