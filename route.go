package maze

import (
	"errors"
	"fmt"
)

// Returned by the route finders when start and finish are not connected. This
// is a normal result, not a sign that the grid is broken.
var ErrNoRoute = errors.New("no route between start and finish")

// An ordered sequence of cells from a start cell to a finish cell, where each
// consecutive pair is joined by an open wall and no cell repeats.
type Route []Position

// Returns true if p is on the route.
func (r Route) Contains(p Position) bool {
	return r.indexOf(p) >= 0
}

// Returns the index of p in the route, or -1. Searches from the end, since
// when extending a path the most recently added cells are the likeliest to
// repeat.
func (r Route) indexOf(p Position) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == p {
			return i
		}
	}
	return -1
}

// Returns a set of the route's cells, for renderers that look up membership
// for every cell.
func (r Route) Set() map[Position]struct{} {
	toReturn := make(map[Position]struct{}, len(r))
	for _, p := range r {
		toReturn[p] = struct{}{}
	}
	return toReturn
}

// Returns a non-nil error describing the first problem if the route does not
// lead from start to finish through open walls of g without repeating a cell.
func (r Route) Validate(g *Grid, start, finish Position) error {
	if len(r) == 0 {
		return fmt.Errorf("Route is empty")
	}
	if r[0] != start {
		return fmt.Errorf("Route begins at %s, not at the start %s", r[0],
			start)
	}
	if r[len(r)-1] != finish {
		return fmt.Errorf("Route ends at %s, not at the finish %s",
			r[len(r)-1], finish)
	}
	seen := make(map[Position]struct{}, len(r))
	for i, p := range r {
		if !g.Contains(p) {
			return fmt.Errorf("Route step %d (%s) is outside of the grid", i,
				p)
		}
		if _, repeated := seen[p]; repeated {
			return fmt.Errorf("Route visits %s twice", p)
		}
		seen[p] = struct{}{}
		if i == 0 {
			continue
		}
		prev := r[i-1]
		connected := false
		for _, d := range Directions {
			if (prev.Step(d) == p) && g.Open(prev, d) {
				connected = true
				break
			}
		}
		if !connected {
			return fmt.Errorf("No open wall between %s and %s", prev, p)
		}
	}
	return nil
}

// Finds a route from start to finish by depth-first search. The work list
// holds complete partial paths; the most recently pushed path is extended
// first, and its last cell's neighbors are tried north, east, south, west,
// skipping any neighbor already on that path. The returned route is the first
// path to reach finish, so it depends only on the grid.
//
// Only cells on the current path are excluded, so on a grid with cycles the
// number of paths tried can grow exponentially. Use FindRouteIndexed for grids
// that may contain cycles, such as eroded ones.
//
// Returns ErrNoRoute if finish can't be reached, or ErrOutOfBounds if either
// endpoint is outside of the grid.
func FindRoute(g *Grid, start, finish Position) (Route, error) {
	e := checkEndpoints(g, start, finish)
	if e != nil {
		return nil, e
	}
	fringe := []Route{{start}}
	for len(fringe) != 0 {
		path := fringe[len(fringe)-1]
		fringe[len(fringe)-1] = nil
		fringe = fringe[:len(fringe)-1]

		current := path[len(path)-1]
		if current == finish {
			return path, nil
		}
		for _, d := range Directions {
			if !g.Open(current, d) {
				continue
			}
			next := current.Step(d)
			if path.indexOf(next) >= 0 {
				continue
			}
			extended := make(Route, len(path), len(path)+1)
			copy(extended, path)
			fringe = append(fringe, append(extended, next))
		}
	}
	return nil, ErrNoRoute
}

// A cell reached by the search, and the index of the node it was reached
// from, or -1 for the start.
type routeNode struct {
	position Position
	parent   int
}

// Finds a route from start to finish by depth-first search over cells rather
// than paths, so it finishes in time proportional to the grid's size even if
// the grid contains cycles. Cells are popped from a stack and expanded at most
// once, pushing their unvisited neighbors north, east, south, west; each node
// keeps the index of the node it was reached from in a shared arena.
//
// On a grid without cycles (any grid produced by Generate), every cell is
// reachable along exactly one path, so this returns the same route as
// FindRoute. On eroded grids it returns a valid route, though not necessarily
// the one FindRoute would pick.
func FindRouteIndexed(g *Grid, start, finish Position) (Route, error) {
	e := checkEndpoints(g, start, finish)
	if e != nil {
		return nil, e
	}
	nodes := []routeNode{{position: start, parent: -1}}
	// Indices into nodes of the cells still to be expanded.
	fringe := []int{0}
	visited := make([]bool, len(g.cells))

	for len(fringe) != 0 {
		nodeIndex := fringe[len(fringe)-1]
		fringe = fringe[:len(fringe)-1]
		current := nodes[nodeIndex].position
		if visited[g.index(current)] {
			continue
		}
		visited[g.index(current)] = true
		if current == finish {
			return unwindRoute(nodes, nodeIndex), nil
		}
		for _, d := range Directions {
			if !g.Open(current, d) {
				continue
			}
			next := current.Step(d)
			if visited[g.index(next)] {
				continue
			}
			nodes = append(nodes, routeNode{position: next, parent: nodeIndex})
			fringe = append(fringe, len(nodes)-1)
		}
	}
	return nil, ErrNoRoute
}

// Follows parent indices from the given node back to the start, returning the
// cells in start-to-finish order.
func unwindRoute(nodes []routeNode, last int) Route {
	length := 0
	for i := last; i >= 0; i = nodes[i].parent {
		length++
	}
	toReturn := make(Route, length)
	for i := last; i >= 0; i = nodes[i].parent {
		length--
		toReturn[length] = nodes[i].position
	}
	return toReturn
}

func checkEndpoints(g *Grid, start, finish Position) error {
	if !g.Contains(start) {
		return fmt.Errorf("%w: start %s in a %dx%d grid", ErrOutOfBounds,
			start, g.width, g.height)
	}
	if !g.Contains(finish) {
		return fmt.Errorf("%w: finish %s in a %dx%d grid", ErrOutOfBounds,
			finish, g.width, g.height)
	}
	return nil
}
