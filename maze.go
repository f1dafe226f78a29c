package maze

import (
	"fmt"
	"math/rand"
	"time"
)

// Bundles a generated Grid with everything needed to reproduce, solve and
// draw it. Create using NewGridMaze or NewGridMazeFromTemplate.
type GridMaze struct {
	options Options
	grid    *Grid
	// Nil unless ShowSolution(true) has been called.
	route Route
	// The seed that was last used to generate the maze.
	randomSeed int64
	stats      Stats
	// The number of times Erode has been applied since generation.
	erosions int
}

// Returns a seed for a new maze. If the given seed is positive it is returned
// unchanged; otherwise a new seed is selected based on the current time.
func ResolveSeed(seed int64) int64 {
	if seed > 0 {
		return seed
	}
	// Keep it positive, so it can be passed back in to reproduce the maze.
	seed = time.Now().UnixNano() & 0x7fffffffffffffff
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Generates a maze. If the given RNG seed is not positive, a new seed will be
// selected based on the current time in nanoseconds.
func NewGridMaze(opts Options, seed int64) (*GridMaze, error) {
	toReturn := &GridMaze{
		options: opts,
	}
	e := toReturn.RegenerateFromSeed(ResolveSeed(seed))
	if e != nil {
		return nil, fmt.Errorf("Error generating maze: %w", e)
	}
	return toReturn, nil
}

// Generates a maze shaped by a template. The template's mask is used as-is,
// and its start and finish candidates, if any, are chosen between using an RNG
// seeded with the same seed as the maze. Without candidates, the maze runs
// from the top-left to the bottom-right cell.
func NewGridMazeFromTemplate(t *Template, seed int64,
	maxIterations int) (*GridMaze, error) {
	seed = ResolveSeed(seed)
	width := t.Mask.Width()
	height := t.Mask.Height()
	start, finish := t.ChooseEndpoints(rand.New(rand.NewSource(seed)),
		Position{}, Position{Row: height - 1, Col: width - 1})
	return NewGridMaze(Options{
		Width:         width,
		Height:        height,
		Start:         start,
		Finish:        finish,
		Mask:          t.Mask,
		MaxIterations: maxIterations,
	}, seed)
}

// Discards the current layout, along with any erosion or solution, and builds
// a new one from the given seed.
func (m *GridMaze) RegenerateFromSeed(seed int64) error {
	g, stats, e := GenerateWithSeed(m.options, seed)
	if e != nil {
		return e
	}
	m.grid = g
	m.stats = stats
	m.randomSeed = seed
	m.route = nil
	m.erosions = 0
	return nil
}

// Replaces the maze's grid with an eroded copy. See Erode; walls owned by
// masked cells are kept. Any solution being shown is recomputed, since the
// erosion may have opened a different route.
func (m *GridMaze) ErodeWalls() error {
	m.grid = Erode(m.grid, m.options.Mask)
	m.erosions++
	if m.route != nil {
		return m.ShowSolution(true)
	}
	return nil
}

// Finds the route from start to finish if show is true, or forgets it
// otherwise. Returns ErrNoRoute if the maze has no route, which can only
// happen with a grid not produced by Generate.
func (m *GridMaze) ShowSolution(show bool) error {
	if !show {
		m.route = nil
		return nil
	}
	find := FindRoute
	if m.erosions > 0 {
		// Erosion can create cycles.
		find = FindRouteIndexed
	}
	r, e := find(m.grid, m.options.Start, m.options.Finish)
	if e != nil {
		return e
	}
	m.route = r
	return nil
}

func (m *GridMaze) Grid() *Grid {
	return m.grid
}

func (m *GridMaze) Mask() *Mask {
	return m.options.Mask
}

// Returns the solution, or nil if it isn't being shown.
func (m *GridMaze) Route() Route {
	return m.route
}

func (m *GridMaze) Seed() int64 {
	return m.randomSeed
}

func (m *GridMaze) Stats() Stats {
	return m.stats
}

func (m *GridMaze) Options() Options {
	return m.options
}

// Returns everything a renderer needs to draw the maze.
func (m *GridMaze) Scene() *Scene {
	return &Scene{
		Grid:   m.grid,
		Mask:   m.options.Mask,
		Route:  m.route,
		Start:  m.options.Start,
		Finish: m.options.Finish,
	}
}

// Holds information about a maze, for reporting and debugging.
type Info struct {
	Width       int
	Height      int
	Start       Position
	Finish      Position
	Seed        int64
	Stats       Stats
	OpenWalls   int
	MaskedCells int
	Erosions    int
	// A human-readable summary of the above.
	DebugInfo string
}

func (m *GridMaze) GetInfo() Info {
	toReturn := Info{
		Width:       m.grid.Width(),
		Height:      m.grid.Height(),
		Start:       m.options.Start,
		Finish:      m.options.Finish,
		Seed:        m.randomSeed,
		Stats:       m.stats,
		OpenWalls:   m.grid.OpenCount(),
		MaskedCells: m.options.Mask.Len(),
		Erosions:    m.erosions,
	}
	toReturn.DebugInfo = fmt.Sprintf("%dx%d grid maze with random seed %d, "+
		"%s, generated in %.03f seconds", toReturn.Width, toReturn.Height,
		toReturn.Seed, toReturn.Stats, toReturn.Stats.Duration.Seconds())
	return toReturn
}
