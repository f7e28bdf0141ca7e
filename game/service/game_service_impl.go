package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/trolls-escape/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPursuerNotFound = errors.New("pursuer not found")
	ErrConfigNotFound  = errors.New("configuration not found")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      renderState(sess.Engine),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Printf("[SESSION] created session=%s config=%s seed=%d", sess.ID, configID, sess.Seed)
	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information. It touches the access time, so
// it holds the write lock like every other caller that does.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Printf("[SESSION] deleted session=%s", sessionID)
	return nil
}

// Move plays one turn for a session, restarting it first when asked
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, restart bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if restart {
		ev, err := s.restart(sess)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	turn, err := sess.Engine.Move(dir)
	if err != nil {
		return nil, err
	}
	events = append(events, turnEvents(turn)...)

	log.Printf("[MOVE] session=%s turn=%d dir=%s outcome=%s status=%s from=%s to=%s trolls_moved=%d",
		sess.ID, turn.Turn, turn.Action, turn.Outcome, turn.Status, turn.HeroFrom, turn.HeroTo, turn.PursuerSteps)

	return &MoveResult{
		Success:   turn.Outcome != engine.OutcomeIgnored,
		Outcome:   turn.Outcome,
		Turn:      &turn,
		GameState: renderState(sess.Engine),
		Message:   turn.Message,
		Events:    events,
	}, nil
}

// BulkMove plays several turns in sequence. The batch is truncated to
// engine.MaxBulkMoves and stops after the first turn that ends the game.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, restart bool) (*BulkMoveResult, error) {
	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	dirs := make([]engine.Direction, 0, len(moves))
	for i, m := range moves {
		d, err := engine.ParseDirection(m)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		dirs = append(dirs, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if restart {
		ev, err := s.restart(sess)
		if err != nil {
			return nil, err
		}
		result.Events = append(result.Events, ev)
	}

	start := sess.Engine.GetState()
	result.StartPos = start.Hero.Pos

	if start.Status == engine.StatusLost && len(dirs) > 0 {
		result.Success = false
		result.StoppedReason = "the hero has been eaten; restart to play again"
		result.StopReasonCode = "already_lost"
		result.StoppedOnMove = 1
	} else {
		turns, err := sess.Engine.BulkMove(dirs)
		if err != nil {
			return nil, err
		}
		result.Turns = turns
		result.MovesExecuted = len(turns)
		for _, t := range turns {
			result.Events = append(result.Events, turnEvents(t)...)
		}
		if n := len(turns); n > 0 && turns[n-1].Status.Terminal() {
			last := turns[n-1]
			result.StoppedOnMove = n
			switch {
			case last.RepeatWin:
				result.StopReasonCode = "repeat_win"
			case last.Status == engine.StatusWon:
				result.StopReasonCode = "won"
			case last.Status == engine.StatusLost:
				result.StopReasonCode = "lost"
			}
			result.StoppedReason = fmt.Sprintf("move %d ended the game: %s", n, last.Outcome)
		}
	}

	state := renderState(sess.Engine)
	result.GameState = state
	result.EndPos = state.Hero.Pos
	result.Status = state.Status
	result.Message = state.Message

	log.Printf("[BULK] session=%s requested=%d executed=%d truncated=%t stop=%s status=%s",
		sess.ID, result.RequestedMoves, result.MovesExecuted, result.Truncated, result.StopReasonCode, result.Status)

	return result, nil
}

// Restart discards the session's maze and builds a fresh one
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if _, err := s.restart(sess); err != nil {
		return nil, err
	}
	return renderState(sess.Engine), nil
}

func (s *gameServiceImpl) restart(sess *Session) (GameEvent, error) {
	if err := sess.Engine.Restart(); err != nil {
		return GameEvent{}, fmt.Errorf("failed to restart session %s: %w", sess.ID, err)
	}
	log.Printf("[SESSION] restarted session=%s restarts=%d", sess.ID, sess.Engine.GetState().Restarts)
	return newEvent("restart", "A new maze has been built", 0, sess.Engine.GetState().Hero.Pos), nil
}

// GetGameState retrieves the current game state. The first render of a new
// game moves it into playing.
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Engine.Begin()
	return renderState(sess.Engine), nil
}

// GetMoveHistory returns paginated turn history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.TurnRecord{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// DescribePursuer reports one pursuer's position and the search it ran on
// the latest turn.
func (s *gameServiceImpl) DescribePursuer(ctx context.Context, sessionID string, pursuerID int) (*PursuerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	p, ok := sess.Engine.DescribePursuer(pursuerID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPursuerNotFound, pursuerID)
	}
	hero := sess.Engine.GetState().Hero
	return &PursuerInfo{
		ID:       p.ID,
		Position: p.Pos,
		Facing:   p.Dir,
		Distance: engine.ManhattanDistance(p.Pos, hero.Pos),
		Search:   p.LastSearch(),
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	return s.configs.SaveConfig(configName, config)
}

// renderState copies the engine state and adds the glyph board. The hero is
// hidden once eaten.
func renderState(e *engine.GameEngine) *engine.GameState {
	state := e.GetState()
	state.Board = engine.RenderBoard(state.Overlay, state.Status == engine.StatusLost)
	return state
}

// turnEvents generates events from one played turn
func turnEvents(t engine.TurnResult) []GameEvent {
	var events []GameEvent
	switch t.Outcome {
	case engine.OutcomeIgnored:
		return nil
	case engine.OutcomeTurned:
		events = append(events, newEvent("turn", fmt.Sprintf("Turned %s", t.Action), t.Turn, t.HeroTo))
	case engine.OutcomePushed:
		events = append(events, newEvent("push", fmt.Sprintf("Pushed a wall %s", t.Action), t.Turn, t.HeroTo))
	default:
		events = append(events, newEvent("move", fmt.Sprintf("Moved %s to %s", t.Action, t.HeroTo), t.Turn, t.HeroTo))
	}

	switch {
	case t.RepeatWin:
		events = append(events, newEvent("repeat_victory", firstLine(t.Message), t.Turn, t.HeroTo))
	case t.Outcome == engine.OutcomeWon:
		events = append(events, newEvent("victory", firstLine(t.Message), t.Turn, t.HeroTo))
	case t.Status == engine.StatusLost:
		events = append(events, newEvent("eaten", firstLine(t.Message), t.Turn, t.HeroTo))
	}
	return events
}

func newEvent(kind, message string, turn int, pos engine.Position) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		Turn:      turn,
		Timestamp: time.Now(),
		Position:  pos,
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
