package maze

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Builds a grid from lists of cells whose east and south walls are open.
func gridWithOpenWalls(t *testing.T, width, height int, east,
	south []Position) *Grid {
	t.Helper()
	g, e := NewGrid(width, height)
	require.NoError(t, e)
	for _, p := range east {
		require.True(t, g.Contains(p.Step(East)), "east wall of %s", p)
		g.cells[g.index(p)].East = true
	}
	for _, p := range south {
		require.True(t, g.Contains(p.Step(South)), "south wall of %s", p)
		g.cells[g.index(p)].South = true
	}
	return g
}

// Returns every cell reachable from start through open walls.
func floodFill(g *Grid, start Position) map[Position]struct{} {
	seen := map[Position]struct{}{start: {}}
	stack := []Position{start}
	for len(stack) != 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range Directions {
			if !g.Open(p, d) {
				continue
			}
			n := p.Step(d)
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			stack = append(stack, n)
		}
	}
	return seen
}

// Counts the open walls owned by cells in the given component. Since a wall's
// two cells are always in the same component, this counts every open wall
// touching the component exactly once.
func openWallsWithin(g *Grid, component map[Position]struct{}) int {
	count := 0
	for p := range component {
		b := g.At(p)
		if b.East {
			count++
		}
		if b.South {
			count++
		}
	}
	return count
}
