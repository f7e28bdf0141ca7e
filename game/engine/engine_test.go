package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layoutEngine(t *testing.T, rows ...string) *GameEngine {
	t.Helper()
	config := DefaultGameConfig()
	config.Layout = rows
	e, err := NewEngineWithWorld(config, mustLayout(t, rows...))
	require.NoError(t, err)
	return e
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(DefaultGameConfig(), 42)
	require.NoError(t, err)

	state := e.GetState()
	assert.Equal(t, StatusCreated, state.Status)
	assert.Equal(t, 0, state.Turn)
	assert.Equal(t, -1, state.WinningTurn)
	assert.Equal(t, "classic", state.ConfigName)
	assert.Len(t, state.Pursuers, DefaultPursuers)
	assert.Equal(t, 25, state.Height)
	assert.Equal(t, 61, state.Width)
	assert.Equal(t, DefaultMessages().Welcome, state.Message)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := DefaultGameConfig()
	config.Width = 1

	_, err := NewEngine(config, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation")
}

func TestNewEngine_SameSeedSameGame(t *testing.T) {
	a, err := NewEngine(DefaultGameConfig(), 5)
	require.NoError(t, err)
	b, err := NewEngine(DefaultGameConfig(), 5)
	require.NoError(t, err)

	for _, d := range []Direction{Up, Up, Left, Left, Down, Right} {
		ra, err := a.Move(d)
		require.NoError(t, err)
		rb, err := b.Move(d)
		require.NoError(t, err)
		assert.Equal(t, ra.Outcome, rb.Outcome)
	}
	assert.Equal(t, a.GetState().Overlay, b.GetState().Overlay)
}

func TestEngine_BeginOnFirstMove(t *testing.T) {
	e := layoutEngine(t,
		"#####",
		"#.^.#",
		"####X",
	)
	require.Equal(t, StatusCreated, e.GetStatus())

	e.Begin()
	assert.Equal(t, StatusPlaying, e.GetStatus())
	e.Begin()
	assert.Equal(t, StatusPlaying, e.GetStatus())
}

func TestEngine_TurnThenMove(t *testing.T) {
	e := layoutEngine(t,
		"#####",
		"#.^.#",
		"####X",
	)

	res, err := e.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTurned, res.Outcome)
	assert.Equal(t, res.HeroFrom, res.HeroTo)
	assert.Equal(t, StatusPlaying, res.Status)
	assert.Equal(t, 0, res.Turn)

	res, err = e.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMoved, res.Outcome)
	assert.Equal(t, Position{Row: 1, Col: 3}, res.HeroTo)
	assert.Equal(t, 2, e.GetTurn())
}

func TestEngine_InvalidDirection(t *testing.T) {
	e := layoutEngine(t,
		"#####",
		"#>..#",
		"####X",
	)

	_, err := e.Move(Direction("north"))
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Equal(t, 0, e.GetTurn())
}

func TestEngine_PursuerCollisionLoses(t *testing.T) {
	e := layoutEngine(t,
		"#######",
		"#>..t.#",
		"######X",
	)

	// The pursuer faces up, so its first command toward the hero only turns it.
	res, err := e.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMoved, res.Outcome)
	assert.Equal(t, StatusPlaying, res.Status)
	assert.Equal(t, 0, res.PursuerSteps)

	p, ok := e.DescribePursuer(0)
	require.True(t, ok)
	assert.Equal(t, Left, p.Dir)
	require.NotNil(t, p.LastSearch())
	assert.True(t, p.LastSearch().Reached)

	res, err = e.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, OutcomeLost, res.Outcome)
	assert.Equal(t, StatusLost, res.Status)
	assert.Equal(t, 1, res.PursuerSteps)
	assert.True(t, strings.HasPrefix(res.Message, "You've been eaten"))
	assert.Equal(t, 2, e.GetTurn())

	// Commands after losing are ignored and do not advance the turn.
	res, err = e.Move(Left)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, res.Outcome)
	assert.Equal(t, 2, e.GetTurn())
	assert.Len(t, e.GetMoveHistory(), 2)
}

func TestEngine_WalkingIntoPursuerLoses(t *testing.T) {
	e := layoutEngine(t,
		"#####",
		"#>t.#",
		"####X",
	)

	res, err := e.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, OutcomeLost, res.Outcome)
	assert.Equal(t, StatusLost, e.GetStatus())
	assert.Equal(t, 0, res.PursuerSteps)
}

func TestEngine_WinOnceThenRepeat(t *testing.T) {
	e := layoutEngine(t,
		"#####",
		"#t.>X",
		"#####",
	)

	res, err := e.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, res.Outcome)
	assert.Equal(t, StatusWon, res.Status)
	assert.False(t, res.RepeatWin)
	assert.True(t, strings.HasPrefix(res.Message, "You won!!!"))

	state := e.GetState()
	assert.Equal(t, 0, state.WinningTurn)
	assert.Empty(t, state.Pursuers, "a win clears every pursuer")
	assert.Equal(t, Position{Row: 1, Col: 3}, state.Hero.Pos)

	res, err = e.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, res.Outcome)
	assert.True(t, res.RepeatWin)
	assert.True(t, strings.HasPrefix(res.Message, "Seriously...You've already won"))

	state = e.GetState()
	assert.Equal(t, 0, state.WinningTurn, "a repeated win keeps the marker")
	assert.Equal(t, StatusWon, state.Status)
	assert.Equal(t, 2, state.Turn)

	res, err = e.Move(Right)
	require.NoError(t, err)
	assert.True(t, res.RepeatWin)
	assert.Equal(t, 0, e.GetState().WinningTurn)

	// A restart clears the marker, so the next win is fresh again.
	require.NoError(t, e.Restart())
	assert.Equal(t, -1, e.GetState().WinningTurn)
	res, err = e.Move(Right)
	require.NoError(t, err)
	assert.False(t, res.RepeatWin)
	assert.True(t, strings.HasPrefix(res.Message, "You won!!!"))
	assert.Equal(t, 0, e.GetState().WinningTurn)
}

func TestEngine_PushDuringTurn(t *testing.T) {
	e := layoutEngine(t,
		"#######",
		"#>#...#",
		"######X",
	)

	res, err := e.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, OutcomePushed, res.Outcome)

	state := e.GetState()
	assert.Equal(t, Empty, state.Grid.At(Position{Row: 1, Col: 2}))
	assert.Equal(t, Wall, state.Grid.At(Position{Row: 1, Col: 3}))
	assert.Equal(t, Position{Row: 1, Col: 2}, state.Hero.Pos)
}

func TestEngine_PursuersIgnoreEachOther(t *testing.T) {
	// Pursuers search and step on terrain only, so the one behind walks into
	// the cell its neighbour is about to leave.
	e := layoutEngine(t,
		"#########",
		"#...tt.>#",
		"########X",
	)
	for _, p := range e.world.Pursuers {
		p.Dir = Right
	}

	res, err := e.Move(Down)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTurned, res.Outcome)
	assert.Equal(t, StatusPlaying, res.Status)
	assert.Equal(t, 2, res.PursuerSteps)

	first, _ := e.DescribePursuer(0)
	second, _ := e.DescribePursuer(1)
	assert.Equal(t, Position{Row: 1, Col: 5}, first.Pos)
	assert.Equal(t, Position{Row: 1, Col: 6}, second.Pos)
}

func TestEngine_BulkMoveStopsAtTerminal(t *testing.T) {
	e := layoutEngine(t,
		"######",
		"#>..X#",
		"######",
	)

	results, err := e.BulkMove([]Direction{Right, Right, Right, Right, Left})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, OutcomeWon, results[2].Outcome)
	assert.Equal(t, StatusWon, e.GetStatus())
}

func TestEngine_BulkMoveRejectsInvalidBatch(t *testing.T) {
	e := layoutEngine(t,
		"#####",
		"#>..#",
		"####X",
	)

	_, err := e.BulkMove([]Direction{Right, "sideways"})
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Equal(t, 0, e.GetTurn())
}

func TestEngine_Restart(t *testing.T) {
	e, err := NewEngine(DefaultGameConfig(), 3)
	require.NoError(t, err)

	for _, d := range []Direction{Up, Down, Left, Right} {
		_, err := e.Move(d)
		require.NoError(t, err)
	}
	before := e.GetState()

	require.NoError(t, e.Restart())

	state := e.GetState()
	assert.Equal(t, StatusCreated, state.Status)
	assert.Equal(t, 0, state.Turn)
	assert.Equal(t, -1, state.WinningTurn)
	assert.Equal(t, 1, state.Restarts)
	assert.NotEqual(t, before.Grid, state.Grid, "restart builds a fresh maze")
	assert.Len(t, state.Pursuers, DefaultPursuers)
	assert.Equal(t, before.TotalMoves, state.TotalMoves, "history survives restarts")
	assert.Empty(t, state.CurrentMoves)
	assert.Equal(t, 0, state.CurrentMovesCount)
}

func TestEngine_RestartLayoutGame(t *testing.T) {
	e := layoutEngine(t,
		"#####",
		"#t.>X",
		"#####",
	)
	_, err := e.Move(Right)
	require.NoError(t, err)
	require.Equal(t, StatusWon, e.GetStatus())

	require.NoError(t, e.Restart())
	state := e.GetState()
	assert.Equal(t, StatusCreated, state.Status)
	assert.Len(t, state.Pursuers, 1)
	assert.Equal(t, Position{Row: 1, Col: 3}, state.Hero.Pos)
}

func TestEngine_StateIsACopy(t *testing.T) {
	e := layoutEngine(t,
		"#####",
		"#.>.#",
		"####X",
	)

	state := e.GetState()
	state.Grid.Set(Position{Row: 1, Col: 1}, Wall)
	state.Hero.Pos = Position{}

	fresh := e.GetState()
	assert.Equal(t, Empty, fresh.Grid.At(Position{Row: 1, Col: 1}))
	assert.Equal(t, Position{Row: 1, Col: 2}, fresh.Hero.Pos)
}

func TestEngine_HistoryRecordsTurns(t *testing.T) {
	e := layoutEngine(t,
		"######",
		"#>...#",
		"#####X",
	)

	_, err := e.Move(Right)
	require.NoError(t, err)
	_, err = e.Move(Down)
	require.NoError(t, err)

	history := e.GetMoveHistory()
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].MoveNumber)
	assert.Equal(t, OutcomeMoved, history[0].Outcome)
	assert.Equal(t, Position{Row: 1, Col: 1}, history[0].HeroFrom)
	assert.Equal(t, Position{Row: 1, Col: 2}, history[0].HeroTo)
	assert.Equal(t, OutcomeTurned, history[1].Outcome)
	assert.Equal(t, 1, history[1].Turn)
}
