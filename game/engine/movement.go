package engine

// Turn points m toward d. It returns true when the facing changed, in which
// case the command is spent on turning and no step is taken.
func Turn(m Mover, d Direction) bool {
	if m.Facing() == d {
		return false
	}
	m.SetFacing(d)
	return true
}

// ResolveHeroAction applies one step of the hero toward d against the live world.
// Reads outside the grid count as Wall, so the edge of the map is always Blocked.
func ResolveHeroAction(w *World, hero *Hero, d Direction) Outcome {
	target := hero.Pos.Step(d, 1)
	if w.PursuerAt(target) {
		return OutcomeLost
	}

	switch w.CellAt(target) {
	case Empty:
		hero.MoveTo(target)
		return OutcomeMoved
	case Exit:
		return OutcomeWon
	}

	// Wall: slide it one cell further if there is room behind it.
	beyond := hero.Pos.Step(d, 2)
	if w.CellAt(beyond) != Empty || w.PursuerAt(beyond) {
		return OutcomeBlocked
	}
	w.Grid.Set(target, Empty)
	w.Grid.Set(beyond, Wall)
	hero.MoveTo(target)
	return OutcomePushed
}

// MovePursuer turns p toward d, or steps it one cell if it already faces d.
// Pursuers never push walls. It reports whether p changed cell.
func MovePursuer(w *World, p *Pursuer, d Direction) bool {
	if Turn(p, d) {
		return false
	}
	next := p.Pos.Step(d, 1)
	if w.CellAt(next) != Empty {
		return false
	}
	p.MoveTo(next)
	return true
}
