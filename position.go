// This defines a library for generating text-art mazes with a guaranteed route
// between two cells. Mazes are built by randomized union of neighboring cells
// over a disjoint-set forest, may be shaped by a mask of protected cells, and
// can be solved and drawn either as text or as an image.
package maze

import (
	"fmt"
)

// Identifies a single cell in a grid. Rows grow downward (south) and columns
// grow rightward (east); both are 0-indexed.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// One of the four directions a cell can be left through. The order of the
// constants is the order in which the path finder visits neighbors.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Lists the four directions in visitation order.
var Directions = [4]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("Unknown direction: %d", uint8(d))
}

// Returns the position one step away from p in the given direction. The
// result may lie outside of any grid.
func (p Position) Step(d Direction) Position {
	switch d {
	case North:
		return Position{Row: p.Row - 1, Col: p.Col}
	case East:
		return Position{Row: p.Row, Col: p.Col + 1}
	case South:
		return Position{Row: p.Row + 1, Col: p.Col}
	case West:
		return Position{Row: p.Row, Col: p.Col - 1}
	}
	return p
}
