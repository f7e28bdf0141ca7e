package service

import (
	"time"

	"github.com/wricardo/trolls-escape/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a single turn
type MoveResult struct {
	Success   bool               `json:"success"` // false when the command changed nothing
	Outcome   engine.Outcome     `json:"outcome"`
	Turn      *engine.TurnResult `json:"turn"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events,omitempty"`
}

// BulkMoveResult contains the result of several turns played in one call
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // won|lost|repeat_win|already_lost
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	// Per-turn trace, only for this call
	Turns []engine.TurnResult `json:"turns,omitempty"`

	Status  engine.GameStatus `json:"status"`
	Message string            `json:"message,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"` // "turn", "push", "victory", "repeat_victory", "eaten", "restart"
	Message   string          `json:"message"`
	Turn      int             `json:"turn"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Moves       []engine.TurnRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Pursuers    int    `json:"pursuers"`
	FixedLayout bool   `json:"fixed_layout"`
}

// PursuerInfo describes one pursuer and the search it ran on the last turn
type PursuerInfo struct {
	ID       int                  `json:"id"`
	Position engine.Position      `json:"position"`
	Facing   engine.Direction     `json:"facing"`
	Distance int                  `json:"distance"` // Manhattan distance to the hero
	Search   *engine.SearchResult `json:"search,omitempty"`
}
