package engine

import "fmt"

// ParseLayout builds a world from glyph rows. '#' is a wall, '.' or ' '
// empty, 'X' the exit, '^' 'v' '<' '>' the hero with its facing and 't' a
// pursuer facing up. Pursuers are registered in reading order.
func ParseLayout(rows []string) (*World, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidLayout)
	}

	w := &World{Grid: NewGrid(len(rows), len(rows[0]))}
	heroes, exits := 0, 0
	for r, row := range rows {
		if len(row) != w.Grid.Width() {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidLayout, r+1, len(row), w.Grid.Width())
		}
		for c, ch := range []byte(row) {
			pos := Position{Row: r, Col: c}
			switch ch {
			case '#':
				w.Grid.Set(pos, Wall)
			case '.', ' ':
			case 'X':
				w.Grid.Set(pos, Exit)
				w.Exit = pos
				exits++
			case 't':
				w.Pursuers = append(w.Pursuers, &Pursuer{ID: len(w.Pursuers), Pos: pos, Dir: Up})
			default:
				d, ok := glyphDirections[ch]
				if !ok {
					return nil, fmt.Errorf("%w: unknown glyph %q at %s", ErrInvalidLayout, ch, pos)
				}
				w.Hero = Hero{Pos: pos, Dir: d}
				heroes++
			}
		}
	}

	if heroes != 1 {
		return nil, fmt.Errorf("%w: want exactly one hero, got %d", ErrInvalidLayout, heroes)
	}
	if exits > 1 {
		return nil, fmt.Errorf("%w: want at most one exit, got %d", ErrInvalidLayout, exits)
	}
	return w, nil
}

var glyphDirections = map[byte]Direction{
	'^': Up,
	'v': Down,
	'<': Left,
	'>': Right,
}

var directionGlyphs = map[Direction]byte{
	Up:    '^',
	Down:  'v',
	Left:  '<',
	Right: '>',
}

// Glyph returns the board character of an overlay cell
func (c OverlayCell) Glyph() byte {
	switch c.Occupant {
	case OccupantPursuer:
		return 't'
	case OccupantHero:
		if g, ok := directionGlyphs[c.Facing]; ok {
			return g
		}
	}
	switch c.Terrain {
	case Wall:
		return '#'
	case Exit:
		return 'X'
	}
	return ' '
}

// RenderBoard encodes an overlay as one string per row. hideHero drops the
// hero glyph, as the board shows once the hero has been eaten.
func RenderBoard(overlay [][]OverlayCell, hideHero bool) []string {
	rows := make([]string, len(overlay))
	for r, line := range overlay {
		buf := make([]byte, len(line))
		for c, cell := range line {
			if hideHero && cell.Occupant == OccupantHero {
				cell.Occupant = OccupantNone
			}
			buf[c] = cell.Glyph()
		}
		rows[r] = string(buf)
	}
	return rows
}
