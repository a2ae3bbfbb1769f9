package grid

import "slices"

// Fill repaints the 4-connected region of start's colour with replacement.
//
// If the start cell already holds replacement, g is returned unchanged.
// Neighbours never wrap across row boundaries.
func Fill(g *Grid, start int, replacement Color) (*Grid, error) {
	if err := g.check(start); err != nil {
		return nil, err
	}
	if g.cells[start] == replacement {
		return g, nil
	}

	cells := slices.Clone(g.cells)
	floodFill(cells, g.size, start, replacement)
	return &Grid{size: g.size, cells: cells}, nil
}

// floodFill performs a breadth-first fill over cells in place and returns the
// number of cells repainted. start must be in range.
func floodFill(cells []Color, size, start int, replacement Color) int {
	target := cells[start]
	if target == replacement {
		return 0
	}

	visited := make([]bool, len(cells))
	queue := []int{start}
	visited[start] = true
	painted := 0

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		cells[current] = replacement
		painted++

		row, col := current/size, current%size
		neighbors := [4]int{-1, -1, -1, -1}
		if col > 0 {
			neighbors[0] = current - 1 // left
		}
		if col < size-1 {
			neighbors[1] = current + 1 // right
		}
		if row > 0 {
			neighbors[2] = current - size // up
		}
		if row < size-1 {
			neighbors[3] = current + size // down
		}

		for _, n := range neighbors {
			if n < 0 || visited[n] || cells[n] != target {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}

	return painted
}
