package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// CountCellKind counts the cells of a specific kind in the grid
func CountCellKind(grid Grid, kind CellKind) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell == kind {
				count++
			}
		}
	}
	return count
}

// NearestPursuer returns the pursuer closest to the hero by Manhattan distance
func NearestPursuer(w *World) (*Pursuer, int, bool) {
	var nearest *Pursuer
	minDistance := -1
	for _, p := range w.Pursuers {
		d := ManhattanDistance(p.Pos, w.Hero.Pos)
		if minDistance == -1 || d < minDistance {
			nearest, minDistance = p, d
		}
	}
	return nearest, minDistance, nearest != nil
}

// WallDensity returns the share of interior cells that are walls
func WallDensity(grid Grid) float64 {
	rows, cols := grid.Height(), grid.Width()
	if rows < 3 || cols < 3 {
		return 0
	}
	walls := 0
	for r := 1; r < rows-1; r++ {
		for c := 1; c < cols-1; c++ {
			if grid[r][c] == Wall {
				walls++
			}
		}
	}
	return float64(walls) / float64((rows-2)*(cols-2))
}
