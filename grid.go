package maze

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
)

var (
	// Returned when a width or height is below 1 or the cell count overflows.
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	// Returned when a start or finish cell lies outside of the grid.
	ErrOutOfBounds = errors.New("position outside of the maze")
)

// The state of the two walls owned by a single cell. The wall to the north of
// a cell is owned by the cell above it, and the wall to the west is owned by
// the cell to its left, so every wall is stored exactly once.
type Boundary struct {
	// True if the wall between this cell and its east neighbor is open.
	East bool
	// True if the wall between this cell and its south neighbor is open.
	South bool
}

// A height x width array of boundary records. A Grid returned by Generate is
// never modified afterwards; functions that derive a different maze, such as
// Erode, return a new Grid.
type Grid struct {
	width  int
	height int
	cells  []Boundary
}

// Checks that a width x height grid can be allocated.
func checkDimensions(width, height int) error {
	if (width < 1) || (height < 1) {
		return fmt.Errorf("%w: width and height must be at least 1, got "+
			"%dx%d", ErrInvalidDimensions, width, height)
	}
	cellCount := width * height
	// Check for overflow.
	if (cellCount <= 0) || (cellCount/width != height) {
		return fmt.Errorf("%w: the maze's size was too big",
			ErrInvalidDimensions)
	}
	return nil
}

// Returns a new grid with every wall closed.
func NewGrid(width, height int) (*Grid, error) {
	e := checkDimensions(width, height)
	if e != nil {
		return nil, e
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Boundary, width*height),
	}, nil
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

// Returns true if p lies within the grid.
func (g *Grid) Contains(p Position) bool {
	return (p.Row >= 0) && (p.Col >= 0) && (p.Row < g.height) &&
		(p.Col < g.width)
}

func (g *Grid) index(p Position) int {
	return p.Row*g.width + p.Col
}

// Returns the boundary record owned by the cell at p. Panics if p is outside
// of the grid.
func (g *Grid) At(p Position) Boundary {
	if !g.Contains(p) {
		panic(fmt.Sprintf("Position %s outside of %dx%d grid", p, g.width,
			g.height))
	}
	return g.cells[g.index(p)]
}

// Returns true if the wall leading from p in the given direction is open.
// Walls on the outer edge of the grid are always closed. North and west walls
// are looked up in the neighbor that owns them.
func (g *Grid) Open(p Position, d Direction) bool {
	if !g.Contains(p) {
		return false
	}
	n := p.Step(d)
	if !g.Contains(n) {
		return false
	}
	switch d {
	case North:
		return g.cells[g.index(n)].South
	case East:
		return g.cells[g.index(p)].East
	case South:
		return g.cells[g.index(p)].South
	case West:
		return g.cells[g.index(n)].East
	}
	return false
}

// Returns the number of open walls in the grid.
func (g *Grid) OpenCount() int {
	count := 0
	for _, c := range g.cells {
		if c.East {
			count++
		}
		if c.South {
			count++
		}
	}
	return count
}

// Returns true if both grids have the same size and the same walls open.
func (g *Grid) Equal(other *Grid) bool {
	if (g.width != other.width) || (g.height != other.height) {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	toReturn := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make([]Boundary, len(g.cells)),
	}
	copy(toReturn.cells, g.cells)
	return toReturn
}

// Returns a 64-bit FNV-1a hash of the grid's size and wall states. Two grids
// with equal fingerprints are, for practical purposes, identical; this is
// what the run journal stores to verify that a replay reproduced a maze.
func (g *Grid) Fingerprint() uint64 {
	h := fnv.New64a()
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(g.width))
	binary.LittleEndian.PutUint32(header[4:8], uint32(g.height))
	h.Write(header[:])
	// Pack the two bits per cell, four cells per byte.
	var packed byte
	for i, c := range g.cells {
		shift := uint(i%4) * 2
		if c.East {
			packed |= 1 << shift
		}
		if c.South {
			packed |= 2 << shift
		}
		if (i % 4) == 3 {
			h.Write([]byte{packed})
			packed = 0
		}
	}
	if (len(g.cells) % 4) != 0 {
		h.Write([]byte{packed})
	}
	return h.Sum64()
}
