package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	Begin()
	Restart() error
	GetState() *GameState
	GetStatus() GameStatus
	GetTurn() int

	// Turns
	Move(direction Direction) (TurnResult, error)
	BulkMove(directions []Direction) ([]TurnResult, error)

	// Views
	Overlay() [][]OverlayCell
	DescribePursuer(id int) (Pursuer, bool)

	// Configuration and history
	GetConfig() *GameConfig
	GetMoveHistory() []TurnRecord
}

// GameEngine implements Engine. It is not safe for concurrent use; the
// service layer serialises access.
type GameEngine struct {
	config *GameConfig
	rng    *rand.Rand
	world  *World

	status      GameStatus
	turn        int
	winningTurn int
	message     string
	lastOutcome Outcome
	repeatWin   bool
	restarts    int

	history []TurnRecord
	current []TurnRecord
}

// NewEngine creates a new game engine with the provided configuration. A zero
// seed falls back to config.Seed and then to the clock.
func NewEngine(config *GameConfig, seed int64) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	config.Messages.ApplyDefaults()
	if seed == 0 {
		seed = config.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &GameEngine{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
	if err := e.rebuild(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithWorld starts an engine on a prepared world, typically a
// layout fixture. Restart rebuilds from config.
func NewEngineWithWorld(config *GameConfig, world *World) (*GameEngine, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if world == nil {
		return nil, fmt.Errorf("world cannot be nil")
	}
	config.Messages.ApplyDefaults()

	e := &GameEngine{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
	e.reset(world)
	return e, nil
}

func (e *GameEngine) rebuild() error {
	world, err := NewWorld(e.config, e.rng)
	if err != nil {
		return err
	}
	e.reset(world)
	return nil
}

func (e *GameEngine) reset(world *World) {
	e.world = world
	e.status = StatusCreated
	e.turn = 0
	e.winningTurn = noWinningTurn
	e.message = e.config.Messages.Welcome
	e.lastOutcome = ""
	e.repeatWin = false
}

// Begin moves a freshly built game into Playing. It is called on the first
// render and on the first move; later calls do nothing.
func (e *GameEngine) Begin() {
	if e.status == StatusCreated {
		e.status = StatusPlaying
	}
}

// Restart discards the maze and every entity and builds a new game from the
// same configuration. The turn history is kept; the current segment is cleared.
func (e *GameEngine) Restart() error {
	if err := e.rebuild(); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	e.restarts++
	e.current = nil
	return nil
}

// Move plays one full turn: the hero command, then every pursuer, then the
// collision check.
func (e *GameEngine) Move(direction Direction) (TurnResult, error) {
	if !direction.Valid() {
		return TurnResult{}, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	e.Begin()

	hero := &e.world.Hero
	res := TurnResult{Turn: e.turn, Action: direction, HeroFrom: hero.Pos}

	if e.status == StatusLost {
		res.Outcome = OutcomeIgnored
		res.Status = e.status
		res.HeroTo = hero.Pos
		res.Message = e.message
		return res, nil
	}

	msgs := e.config.Messages
	e.repeatWin = false
	if Turn(hero, direction) {
		res.Outcome = OutcomeTurned
		e.message = fmt.Sprintf(msgs.Turned, direction)
	} else {
		res.Outcome = ResolveHeroAction(e.world, hero, direction)
		switch res.Outcome {
		case OutcomeWon:
			e.win()
		case OutcomeLost:
			e.lose()
		case OutcomeBlocked:
			e.message = msgs.Blocked
		case OutcomePushed:
			e.message = msgs.Pushed
		case OutcomeMoved:
			e.message = fmt.Sprintf(msgs.Moved, direction)
		}
	}

	if e.status == StatusPlaying {
		res.PursuerSteps = e.movePursuers()
		if _, caught := e.world.CollidedPursuer(); caught {
			res.Outcome = OutcomeLost
			e.lose()
		}
	}

	e.turn++
	e.lastOutcome = res.Outcome
	res.Status = e.status
	res.HeroTo = hero.Pos
	res.RepeatWin = e.repeatWin
	res.Message = e.message

	record := newTurnRecord(&res, len(e.history)+1)
	e.history = append(e.history, record)
	e.current = append(e.current, record)
	return res, nil
}

// movePursuers runs every pursuer in registration order against one shared
// snapshot taken after the hero's action.
func (e *GameEngine) movePursuers() int {
	snap := e.world.Snapshot()
	steps := 0
	for _, p := range e.world.Pursuers {
		search := FindPath(snap.Grid, p.Pos, snap.Hero.Pos)
		p.lastSearch = &search
		if d, ok := search.Step(); ok && MovePursuer(e.world, p, d) {
			steps++
		}
	}
	return steps
}

func (e *GameEngine) win() {
	msgs := e.config.Messages
	// The marker is cleared only by a restart, so every win after the
	// recorded one repeats it and leaves it in place.
	if e.winningTurn != noWinningTurn && e.turn > e.winningTurn {
		e.repeatWin = true
		e.message = msgs.AlreadyWon + "\n" + msgs.RestartHint
	} else {
		e.winningTurn = e.turn
		e.message = msgs.Victory + "\n" + msgs.RestartHint
	}
	e.status = StatusWon
	e.world.Pursuers = nil
}

func (e *GameEngine) lose() {
	msgs := e.config.Messages
	e.status = StatusLost
	e.message = msgs.Eaten + "\n" + msgs.RestartHint
}

// BulkMove plays several turns in sequence, stopping after the first one that
// ends in Won or Lost.
func (e *GameEngine) BulkMove(directions []Direction) ([]TurnResult, error) {
	for i, d := range directions {
		if !d.Valid() {
			return nil, fmt.Errorf("move %d: %w: %q", i+1, ErrInvalidDirection, d)
		}
	}

	results := make([]TurnResult, 0, len(directions))
	for _, d := range directions {
		res, err := e.Move(d)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if res.Status.Terminal() {
			break
		}
	}
	return results, nil
}

// GetState returns a copy of the externally visible game state
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		Status:      e.status,
		Turn:        e.turn,
		WinningTurn: e.winningTurn,
		Message:     e.message,
		LastOutcome: e.lastOutcome,
		RepeatWin:   e.repeatWin,
		ConfigName:  e.config.Name,
		Restarts:    e.restarts,
		Width:       e.world.Grid.Width(),
		Height:      e.world.Grid.Height(),
		Grid:        e.world.Grid.Clone(),
		Exit:        e.world.Exit,
		Hero:        e.world.Hero,
		Pursuers:    make([]Pursuer, 0, len(e.world.Pursuers)),
		Overlay:     e.world.Overlay(),

		MoveHistory:       append([]TurnRecord{}, e.history...),
		TotalMoves:        len(e.history),
		CurrentMoves:      append([]TurnRecord{}, e.current...),
		CurrentMovesCount: len(e.current),
	}
	for _, p := range e.world.Pursuers {
		state.Pursuers = append(state.Pursuers, *p)
	}
	return state
}

// GetStatus returns the current game status
func (e *GameEngine) GetStatus() GameStatus {
	return e.status
}

// GetTurn returns the index of the next turn
func (e *GameEngine) GetTurn() int {
	return e.turn
}

// Overlay returns the terrain combined with entity placements
func (e *GameEngine) Overlay() [][]OverlayCell {
	return e.world.Overlay()
}

// DescribePursuer returns a copy of the pursuer with the given ID, including
// its latest search.
func (e *GameEngine) DescribePursuer(id int) (Pursuer, bool) {
	for _, p := range e.world.Pursuers {
		if p.ID == id {
			return *p, true
		}
	}
	return Pursuer{}, false
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete turn history across restarts
func (e *GameEngine) GetMoveHistory() []TurnRecord {
	return e.history
}
