package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLayout(t *testing.T, rows ...string) *World {
	t.Helper()
	w, err := ParseLayout(rows)
	require.NoError(t, err)
	return w
}

func TestTurn(t *testing.T) {
	hero := &Hero{Dir: Up}

	assert.True(t, Turn(hero, Right), "changing facing spends the command")
	assert.Equal(t, Right, hero.Facing())
	assert.False(t, Turn(hero, Right), "already facing, caller should move")

	pursuer := &Pursuer{Dir: Left}
	assert.False(t, Turn(pursuer, Left))
	assert.True(t, Turn(pursuer, Down))
}

func TestResolveHeroAction_WallPush(t *testing.T) {
	w := mustLayout(t, ".>#..")

	outcome := ResolveHeroAction(w, &w.Hero, Right)

	assert.Equal(t, OutcomePushed, outcome)
	assert.Equal(t, Empty, w.CellAt(Position{Row: 0, Col: 2}))
	assert.Equal(t, Wall, w.CellAt(Position{Row: 0, Col: 3}))
	assert.Equal(t, Position{Row: 0, Col: 2}, w.Hero.Pos)
}

func TestResolveHeroAction_WallPushBlocked(t *testing.T) {
	tests := []struct {
		name   string
		layout string
	}{
		{"wall behind wall", ".>##."},
		{"grid edge behind wall", "...>#"},
		{"pursuer behind wall", ".>#t."},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := mustLayout(t, test.layout)
			before := w.Grid.Clone()
			heroBefore := w.Hero.Pos
			w.Hero.Dir = Right

			outcome := ResolveHeroAction(w, &w.Hero, Right)

			assert.Equal(t, OutcomeBlocked, outcome)
			assert.Equal(t, before, w.Grid)
			assert.Equal(t, heroBefore, w.Hero.Pos)
		})
	}
}

func TestResolveHeroAction_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		layout  []string
		dir     Direction
		outcome Outcome
		moved   bool
	}{
		{"move into empty", []string{"#####", "#.>.#", "#####"}, Right, OutcomeMoved, true},
		{"exit wins without stepping on it", []string{"#####", "#..>X", "#####"}, Right, OutcomeWon, false},
		{"pursuer on target", []string{"#####", "#.>t#", "#####"}, Right, OutcomeLost, false},
		{"edge of grid is a wall", []string{">.."}, Up, OutcomeBlocked, false},
		{"border wall cannot be pushed out", []string{"#####", "#.>.#", "#####"}, Up, OutcomeBlocked, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := mustLayout(t, test.layout...)
			start := w.Hero.Pos

			outcome := ResolveHeroAction(w, &w.Hero, test.dir)

			assert.Equal(t, test.outcome, outcome)
			if test.moved {
				assert.Equal(t, start.Step(test.dir, 1), w.Hero.Pos)
			} else {
				assert.Equal(t, start, w.Hero.Pos)
			}
		})
	}
}

func TestMovePursuer(t *testing.T) {
	w := mustLayout(t,
		"#####",
		"#t.>#",
		"#####",
	)
	p := w.Pursuers[0]
	require.Equal(t, Up, p.Dir)

	assert.False(t, MovePursuer(w, p, Right), "first command only turns")
	assert.Equal(t, Position{Row: 1, Col: 1}, p.Pos)
	assert.Equal(t, Right, p.Dir)

	assert.True(t, MovePursuer(w, p, Right))
	assert.Equal(t, Position{Row: 1, Col: 2}, p.Pos)
}

func TestMovePursuer_NeverPushesWalls(t *testing.T) {
	w := mustLayout(t,
		"######",
		"#t#..#",
		"#...>#",
		"######",
	)
	p := w.Pursuers[0]
	p.Dir = Right

	assert.False(t, MovePursuer(w, p, Right))
	assert.Equal(t, Position{Row: 1, Col: 1}, p.Pos)
	assert.Equal(t, Wall, w.CellAt(Position{Row: 1, Col: 2}))
	assert.Equal(t, Empty, w.CellAt(Position{Row: 1, Col: 3}))
}
