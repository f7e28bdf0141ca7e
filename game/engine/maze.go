package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrMapUnplaceable    = errors.New("map cannot host entity")
	ErrInvalidLayout     = errors.New("invalid layout")
)

// Rand is the random source threaded through generation and spawning.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Grid is the static terrain, indexed [row][col]
type Grid [][]CellKind

// NewGrid returns a height x width grid of Empty cells
func NewGrid(height, width int) Grid {
	g := make(Grid, height)
	for r := range g {
		g[r] = make([]CellKind, width)
		for c := range g[r] {
			g[r][c] = Empty
		}
	}
	return g
}

// Height returns the number of rows
func (g Grid) Height() int {
	return len(g)
}

// Width returns the number of columns
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// InBounds reports whether p lies inside the grid
func (g Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Height() && p.Col >= 0 && p.Col < g.Width()
}

// At returns the cell at p. Anything outside the grid reads as Wall.
func (g Grid) At(p Position) CellKind {
	if !g.InBounds(p) {
		return Wall
	}
	return g[p.Row][p.Col]
}

// Set writes the cell at p; out of bounds writes are dropped
func (g Grid) Set(p Position, kind CellKind) {
	if g.InBounds(p) {
		g[p.Row][p.Col] = kind
	}
}

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r := range g {
		out[r] = make([]CellKind, len(g[r]))
		copy(out[r], g[r])
	}
	return out
}

// FillBorders sets the outer ring to Wall. Calling it twice is harmless.
func (g Grid) FillBorders() {
	h, w := g.Height(), g.Width()
	for c := 0; c < w; c++ {
		g[0][c] = Wall
		g[h-1][c] = Wall
	}
	for r := 0; r < h; r++ {
		g[r][0] = Wall
		g[r][w-1] = Wall
	}
}

// OddShape returns the grid dimensions Generate uses for a requested size
func OddShape(width, height int) (rows, cols int) {
	return (height/2)*2 + 1, (width/2)*2 + 1
}

// Generate builds a bordered maze and places an exit on its border.
//
// complexity sets the step budget of every carve (5*(rows+cols)*complexity)
// and density the number of carves ((rows/2)*(cols/2)*density). Both are
// fractions in [0,1]. The exit is not guaranteed to be reachable.
func Generate(width, height int, complexity, density float64, rng Rand) (Grid, Position, error) {
	if width < MinGridSize || height < MinGridSize {
		return nil, Position{}, fmt.Errorf("%w: %dx%d, minimum is %dx%d",
			ErrInvalidDimensions, width, height, MinGridSize, MinGridSize)
	}
	if complexity < 0 || complexity > 1 || density < 0 || density > 1 {
		return nil, Position{}, fmt.Errorf("%w: complexity %.2f and density %.2f must be within [0,1]",
			ErrInvalidDimensions, complexity, density)
	}

	rows, cols := OddShape(width, height)
	steps := int(complexity * float64(5*(rows+cols)))
	carves := int(density * float64((rows/2)*(cols/2)))

	grid := NewGrid(rows, cols)
	grid.FillBorders()
	for i := 0; i < carves; i++ {
		carve(grid, steps, rng)
	}
	grid.FillBorders()

	exit := placeExit(grid, rng)
	grid.Set(exit, Exit)
	return grid, exit, nil
}

// carve drops a wall on a random even-aligned cell and grows a wall segment
// from it for up to steps moves of two cells each.
func carve(grid Grid, steps int, rng Rand) {
	rows, cols := grid.Height(), grid.Width()
	pos := Position{Row: rng.Intn(rows/2+1) * 2, Col: rng.Intn(cols/2+1) * 2}
	grid.Set(pos, Wall)

	for j := 0; j < steps; j++ {
		neighbours := make([]Position, 0, 4)
		if pos.Col > 1 {
			neighbours = append(neighbours, Position{Row: pos.Row, Col: pos.Col - 2})
		}
		if pos.Col < cols-2 {
			neighbours = append(neighbours, Position{Row: pos.Row, Col: pos.Col + 2})
		}
		if pos.Row > 1 {
			neighbours = append(neighbours, Position{Row: pos.Row - 2, Col: pos.Col})
		}
		if pos.Row < rows-2 {
			neighbours = append(neighbours, Position{Row: pos.Row + 2, Col: pos.Col})
		}
		if len(neighbours) == 0 {
			continue
		}

		next := neighbours[rng.Intn(len(neighbours))]
		if grid.At(next) != Empty {
			continue
		}
		grid.Set(next, Wall)
		grid.Set(Position{Row: next.Row + (pos.Row-next.Row)/2, Col: next.Col + (pos.Col-next.Col)/2}, Wall)
		pos = next
	}
}

// placeExit picks a border side, then a non-corner cell along it
func placeExit(grid Grid, rng Rand) Position {
	rows, cols := grid.Height(), grid.Width()
	switch side := rng.Intn(4); side {
	case 0: // top
		return Position{Row: 0, Col: 1 + rng.Intn(cols-2)}
	case 1: // bottom
		return Position{Row: rows - 1, Col: 1 + rng.Intn(cols-2)}
	case 2: // left
		return Position{Row: 1 + rng.Intn(rows-2), Col: 0}
	default: // right
		return Position{Row: 1 + rng.Intn(rows-2), Col: cols - 1}
	}
}
