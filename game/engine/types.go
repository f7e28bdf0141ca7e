package engine

import (
	"fmt"
	"strings"
	"time"
)

// CellKind is the static terrain of a grid cell
type CellKind string

const (
	Empty CellKind = "empty"
	Wall  CellKind = "wall"
	Exit  CellKind = "exit"
)

// Direction is one of the four movement directions
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every Direction in the order used for tie-breaking.
var Directions = []Direction{Up, Down, Left, Right}

// Validation and search constants
const (
	MinGridSize          = 3
	MaxGridSize          = 101
	MaxPursuers          = 50
	MaxBulkMoves         = 50
	MaxPlacementAttempts = 99
	MaxSearchIterations  = 300
	DefaultPursuers      = 15
	DefaultComplexity    = 0.75
	DefaultDensity       = 0.75
	WebSocketBufferSize  = 256
	noWinningTurn        = -1
)

// ParseDirection converts user input such as "Up" or " left " into a Direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Valid reports whether d is one of Up, Down, Left, Right
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Delta returns the row and column offsets for one step in d
func (d Direction) Delta() (dRow, dCol int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	}
	return 0, 0
}

// Position is a (row, col) grid coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Step returns the position n cells away in direction d
func (p Position) Step(d Direction, n int) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr*n, Col: p.Col + dc*n}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// GameStatus is the turn engine state
type GameStatus string

const (
	StatusCreated GameStatus = "created"
	StatusPlaying GameStatus = "playing"
	StatusWon     GameStatus = "won"
	StatusLost    GameStatus = "lost"
)

// Terminal reports whether the status only changes through a restart
func (s GameStatus) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Outcome is the result of one hero command
type Outcome string

const (
	OutcomeMoved   Outcome = "moved"
	OutcomePushed  Outcome = "pushed"
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
	OutcomeBlocked Outcome = "blocked"

	// Produced by the turn engine, never by ResolveHeroAction.
	OutcomeTurned  Outcome = "turned"
	OutcomeIgnored Outcome = "ignored"
)

// Occupant identifies what stands on a cell in the overlay
type Occupant string

const (
	OccupantNone    Occupant = ""
	OccupantHero    Occupant = "hero"
	OccupantPursuer Occupant = "pursuer"
)

// OverlayCell combines terrain with the entity standing on it
type OverlayCell struct {
	Terrain  CellKind  `json:"terrain"`
	Occupant Occupant  `json:"occupant,omitempty"`
	Facing   Direction `json:"facing,omitempty"` // hero only
}

// GameConfig represents a game preset loaded from JSON
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Complexity  float64  `json:"complexity"`
	Density     float64  `json:"density"`
	Pursuers    int      `json:"pursuers"`
	Seed        int64    `json:"seed,omitempty"`
	Layout      []string `json:"layout,omitempty"`
	Messages    Messages `json:"messages"`
}

// Messages holds the player facing texts of a preset
type Messages struct {
	Welcome     string `json:"welcome"`
	Victory     string `json:"victory"`
	AlreadyWon  string `json:"already_won"`
	Eaten       string `json:"eaten"`
	Blocked     string `json:"blocked"`
	Pushed      string `json:"pushed"`
	Turned      string `json:"turned"`
	Moved       string `json:"moved"`
	RestartHint string `json:"restart_hint"`
}

// GameState represents the externally visible game state
type GameState struct {
	Status      GameStatus `json:"status"`
	Turn        int        `json:"turn"`
	WinningTurn int        `json:"winning_turn"`
	Message     string     `json:"message"`
	LastOutcome Outcome    `json:"last_outcome,omitempty"`
	RepeatWin   bool       `json:"repeat_win,omitempty"`
	ConfigName  string     `json:"config_name"`
	Restarts    int        `json:"restarts"`

	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Grid     Grid            `json:"grid"`
	Exit     Position        `json:"exit"`
	Hero     Hero            `json:"hero"`
	Pursuers []Pursuer       `json:"pursuers"`
	Overlay  [][]OverlayCell `json:"overlay,omitempty"`

	MoveHistory []TurnRecord `json:"move_history"`
	TotalMoves  int          `json:"total_moves"`

	// CurrentMoves mirrors MoveHistory entries since the last restart.
	CurrentMoves      []TurnRecord `json:"current_moves"`
	CurrentMovesCount int          `json:"current_moves_count"`

	// Rendered glyph rows, filled in by the service layer.
	Board []string `json:"board,omitempty"`
}

// TurnRecord represents a single turn in the game history
type TurnRecord struct {
	Turn         int        `json:"turn"`
	Action       Direction  `json:"action"`
	Outcome      Outcome    `json:"outcome"`
	HeroFrom     Position   `json:"hero_from"`
	HeroTo       Position   `json:"hero_to"`
	Status       GameStatus `json:"status"`
	PursuerSteps int        `json:"pursuer_steps"`
	Timestamp    int64      `json:"timestamp"`
	MoveNumber   int        `json:"move_number"`
}

// TurnResult is what one call to Move reports back
type TurnResult struct {
	Turn         int        `json:"turn"`
	Action       Direction  `json:"action"`
	Outcome      Outcome    `json:"outcome"`
	Status       GameStatus `json:"status"`
	HeroFrom     Position   `json:"hero_from"`
	HeroTo       Position   `json:"hero_to"`
	PursuerSteps int        `json:"pursuer_steps"`
	RepeatWin    bool       `json:"repeat_win,omitempty"`
	Message      string     `json:"message"`
}

func newTurnRecord(r *TurnResult, moveNumber int) TurnRecord {
	return TurnRecord{
		Turn:         r.Turn,
		Action:       r.Action,
		Outcome:      r.Outcome,
		HeroFrom:     r.HeroFrom,
		HeroTo:       r.HeroTo,
		Status:       r.Status,
		PursuerSteps: r.PursuerSteps,
		Timestamp:    time.Now().Unix(),
		MoveNumber:   moveNumber,
	}
}
