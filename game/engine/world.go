package engine

import "fmt"

// Mover is the behaviour shared by the hero and the pursuers
type Mover interface {
	Position() Position
	Facing() Direction
	SetFacing(d Direction)
	MoveTo(p Position)
}

// Hero is the player controlled entity
type Hero struct {
	Pos Position  `json:"pos"`
	Dir Direction `json:"dir"`
}

func (h *Hero) Position() Position    { return h.Pos }
func (h *Hero) Facing() Direction     { return h.Dir }
func (h *Hero) SetFacing(d Direction) { h.Dir = d }
func (h *Hero) MoveTo(p Position)     { h.Pos = p }

// Pursuer chases the hero. lastSearch is per-turn scratch and is never
// serialized or carried over as input to the next search.
type Pursuer struct {
	ID  int       `json:"id"`
	Pos Position  `json:"pos"`
	Dir Direction `json:"dir"`

	lastSearch *SearchResult
}

func (p *Pursuer) Position() Position    { return p.Pos }
func (p *Pursuer) Facing() Direction     { return p.Dir }
func (p *Pursuer) SetFacing(d Direction) { p.Dir = d }
func (p *Pursuer) MoveTo(pos Position)   { p.Pos = pos }

// LastSearch returns the search run for this pursuer in the latest turn, or nil
func (p *Pursuer) LastSearch() *SearchResult {
	return p.lastSearch
}

// World owns the terrain and every live entity
type World struct {
	Grid     Grid
	Exit     Position
	Hero     Hero
	Pursuers []*Pursuer
}

// Snapshot returns a deep copy of the grid and entity positions
func (w *World) Snapshot() *World {
	s := &World{
		Grid:     w.Grid.Clone(),
		Exit:     w.Exit,
		Hero:     w.Hero,
		Pursuers: make([]*Pursuer, len(w.Pursuers)),
	}
	for i, p := range w.Pursuers {
		s.Pursuers[i] = &Pursuer{ID: p.ID, Pos: p.Pos, Dir: p.Dir}
	}
	return s
}

// CellAt returns the terrain at p; out of bounds is Wall
func (w *World) CellAt(p Position) CellKind {
	return w.Grid.At(p)
}

// PursuerAt reports whether any pursuer stands on p
func (w *World) PursuerAt(p Position) bool {
	for _, pursuer := range w.Pursuers {
		if pursuer.Pos == p {
			return true
		}
	}
	return false
}

// Occupied reports whether the hero or a pursuer stands on p
func (w *World) Occupied(p Position) bool {
	return w.Hero.Pos == p || w.PursuerAt(p)
}

// Overlay combines terrain and occupants. A pursuer hides the hero on the same cell.
func (w *World) Overlay() [][]OverlayCell {
	out := make([][]OverlayCell, w.Grid.Height())
	for r := range out {
		out[r] = make([]OverlayCell, w.Grid.Width())
		for c := range out[r] {
			out[r][c] = OverlayCell{Terrain: w.Grid[r][c]}
		}
	}
	if w.Grid.InBounds(w.Hero.Pos) {
		cell := &out[w.Hero.Pos.Row][w.Hero.Pos.Col]
		cell.Occupant = OccupantHero
		cell.Facing = w.Hero.Dir
	}
	for _, p := range w.Pursuers {
		if w.Grid.InBounds(p.Pos) {
			cell := &out[p.Pos.Row][p.Pos.Col]
			cell.Occupant = OccupantPursuer
			cell.Facing = ""
		}
	}
	return out
}

// CollidedPursuer returns the first pursuer sharing the hero's cell
func (w *World) CollidedPursuer() (*Pursuer, bool) {
	for _, p := range w.Pursuers {
		if p.Pos == w.Hero.Pos {
			return p, true
		}
	}
	return nil, false
}

// NewWorld builds a world from a preset: either its fixed layout or a freshly
// generated maze with a randomly spawned hero and pursuers.
func NewWorld(config *GameConfig, rng Rand) (*World, error) {
	if len(config.Layout) > 0 {
		return ParseLayout(config.Layout)
	}

	grid, exit, err := Generate(config.Width, config.Height, config.Complexity, config.Density, rng)
	if err != nil {
		return nil, err
	}

	w := &World{Grid: grid, Exit: exit}
	heroPos, err := w.placeEntity(rng)
	if err != nil {
		return nil, fmt.Errorf("hero: %w", err)
	}
	w.Hero = Hero{Pos: heroPos, Dir: randomDirection(rng)}

	for i := 0; i < config.Pursuers; i++ {
		pos, err := w.placeEntity(rng)
		if err != nil {
			return nil, fmt.Errorf("pursuer %d of %d: %w", i+1, config.Pursuers, err)
		}
		w.Pursuers = append(w.Pursuers, &Pursuer{ID: i, Pos: pos, Dir: randomDirection(rng)})
	}
	return w, nil
}

// placeEntity draws interior cells until it finds an empty, unoccupied one
func (w *World) placeEntity(rng Rand) (Position, error) {
	rows, cols := w.Grid.Height(), w.Grid.Width()
	var pos Position
	for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
		pos = Position{Row: 1 + rng.Intn(rows-2), Col: 1 + rng.Intn(cols-2)}
		if w.Grid.At(pos) == Empty && !w.Occupied(pos) {
			return pos, nil
		}
	}
	return Position{}, fmt.Errorf("%w: no free cell after %d attempts, last try %s was %s",
		ErrMapUnplaceable, MaxPlacementAttempts, pos, w.Grid.At(pos))
}

func randomDirection(rng Rand) Direction {
	return Directions[rng.Intn(len(Directions))]
}
