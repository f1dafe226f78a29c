package maze

// Returns a copy of g in which every wall that "sticks out" into an interior
// corner, touching no other wall there, has been removed. This reduces the
// overall noise in the maze. Only does this *once*, so it may be applied
// repeatedly, though doing so too much will eventually trivialize the maze.
//
// A wall owned by a cell in mask is never removed, though it still counts as
// present at its corners. The mask may be nil.
//
// Eroded grids may contain cycles, so more than one route may connect two
// cells. Solve them with FindRouteIndexed.
func Erode(g *Grid, mask *Mask) *Grid {
	// Read from the original and write to the copy, so that a single call
	// never removes two segments of the same wall.
	toReturn := g.Clone()
	for row := 0; row < (g.height - 1); row++ {
		for col := 0; col < (g.width - 1); col++ {
			index := row*g.width + col
			below := index + g.width
			right := index + 1
			// The four walls meeting at this cell's bottom-right corner, in
			// the order above, left, below and right of the corner. A wall is
			// present when its owner's flag is not open.
			owners := [4]*Boundary{
				&(toReturn.cells[index]),
				&(toReturn.cells[index]),
				&(toReturn.cells[below]),
				&(toReturn.cells[right]),
			}
			present := [4]bool{
				!g.cells[index].East,
				!g.cells[index].South,
				!g.cells[below].East,
				!g.cells[right].South,
			}
			wallCount := 0
			onlyWall := -1
			for i, isPresent := range present {
				if isPresent {
					wallCount++
					onlyWall = i
				}
			}
			if wallCount != 1 {
				continue
			}
			if mask.Contains(wallOwner(onlyWall, row, col)) {
				continue
			}
			// Walls 0 and 2 run north-south and are east flags; walls 1 and 3
			// run east-west and are south flags.
			if (onlyWall % 2) == 0 {
				owners[onlyWall].East = true
			} else {
				owners[onlyWall].South = true
			}
		}
	}
	return toReturn
}

// Returns the cell owning the given wall at the bottom-right corner of the
// cell at row, col, using the wall order from Erode.
func wallOwner(wall, row, col int) Position {
	switch wall {
	case 2:
		return Position{Row: row + 1, Col: col}
	case 3:
		return Position{Row: row, Col: col + 1}
	}
	return Position{Row: row, Col: col}
}
