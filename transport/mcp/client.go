package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/trolls-escape/game/engine"
	"github.com/wricardo/trolls-escape/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Trolls Escape",
		"2.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Trolls Escape - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Guide the hero (^ v < >) out of the maze through the exit (X) before a troll (t) catches you.

AVAILABLE TOOLS:
- game_state: Get the rendered board and status
- move: One turn (up/down/left/right) - requires intent explanation
- bulk_move: Several turns at once, stops on win or loss - requires intent explanation
- restart_game: Build a fresh world and start over
- move_history: View past turns
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_configs: List available presets
- game_instructions: Full rules
- describe_cell: What occupies a given row/col
- describe_pursuer: Where a troll is and the path it plans

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional preset and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for a reproducible maze (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board and game status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Play one turn. Facing a new direction only turns the hero; facing it already moves or pushes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to face or move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"restart": map[string]interface{}{
					"type":        "boolean",
					"description": "Restart before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Play up to %d turns in sequence, stopping early on a win or loss", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"restart": map[string]interface{}{
					"type":        "boolean",
					"description": "Restart before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Build a fresh world and start over",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get turn history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order, newest first by default",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe the terrain and occupant of one cell. Useful before pushing a wall.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-based, top is 0)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-based, left is 0)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_pursuer",
		Description: "Show where a troll stands, how far it is and the path its last search planned",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"pursuer_id": map[string]interface{}{
					"type":        "integer",
					"description": "Troll index as listed in game_state",
				},
			},
			Required: []string{"session_id", "pursuer_id"},
		},
	}, c.handleDescribePursuer)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	v, ok := args[key].(float64)
	return int(v), ok
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]interface{}{}
	if configID != "" {
		body["config_id"] = configID
	}
	if seed, ok := intArg(args, "seed"); ok {
		body["seed"] = seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n", session.ID, session.ConfigName, session.Seed)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := engine.StatusCreated
		if s.GameState != nil {
			status = s.GameState.Status
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Status: %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	restart, _ := args["restart"].(bool)

	body := map[string]interface{}{
		"direction": direction,
		"restart":   restart,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	restart, _ := args["restart"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves":   moves,
		"restart": restart,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/restart"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		kind := "generated"
		if config.FixedLayout {
			kind = "fixed layout"
		}
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Grid: %dx%d, Trolls: %d, %s\n\n",
			config.ConfigID, config.Name, config.Description, config.Width, config.Height, config.Pursuers, kind)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `# Trolls Escape

## Objective
Reach the exit (X) with your hero. If a troll steps onto your cell, or you step onto a troll, you are eaten.

## Board
- ' ' empty floor
- '#' wall
- 'X' exit
- '^' 'v' '<' '>' the hero and the way it faces
- 't' a troll

Rows and columns are 0-based from the top-left corner.

## Turns
Every command is one turn:
1. If the hero does not face the chosen direction it only turns. Trolls still move.
2. If it already faces that direction it tries to step forward:
   - empty floor or the exit: the hero moves
   - a wall with empty floor behind it: the wall slides one cell and the hero follows
   - a wall against another wall, a troll or the maze edge: nothing moves ("Something heavy is in the way")
3. After the hero acts, every troll takes one step along its shortest path towards the hero.
   Trolls never push walls and never share a cell.

## Winning and Losing
- Reaching X wins. Commands after a win keep the game won and report a repeat victory.
- Being caught loses. Commands after a loss are ignored until you restart.
- restart_game (or restart=true on move/bulk_move) builds a new world. History is kept.

## Tips
- Turning costs a turn, so plan corridors to avoid needless turns.
- Use describe_pursuer to see which way a troll intends to go.
- Pushed walls can seal a corridor behind you.
- bulk_move runs at most 50 turns and stops on the first win or loss.`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pos := engine.Position{Row: row, Col: col}
	if !state.Grid.InBounds(pos) {
		return mcp.NewToolResultError(fmt.Sprintf("Cell %s is out of bounds. Grid is %d rows by %d columns",
			pos, state.Height, state.Width)), nil
	}

	return mcp.NewToolResultText(describeCell(&state, pos)), nil
}

func (c *Client) handleDescribePursuer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	pursuerID, ok := intArg(args, "pursuer_id")
	if !ok {
		return mcp.NewToolResultError("pursuer_id is required"), nil
	}

	var info service.PursuerInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, fmt.Sprintf("/pursuers/%d", pursuerID)), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPursuerInfo(&info)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Seed,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Turn: %d | Status: %s | Hero: %s facing %s | Trolls: %d | Moves: %d\n",
		state.Turn, state.Status, state.Hero.Pos, state.Hero.Dir, len(state.Pursuers), state.TotalMoves)
	if p, d, ok := nearestPursuer(state); ok {
		fmt.Fprintf(&b, "Nearest troll: #%d at %s, distance %d\n", p.ID, p.Pos, d)
	}
	b.WriteString("\n")

	for _, row := range state.Board {
		b.WriteString(row)
		b.WriteString("\n")
	}

	switch state.Status {
	case engine.StatusWon:
		b.WriteString("\n🎉 ESCAPED!")
	case engine.StatusLost:
		b.WriteString("\n💀 EATEN")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func nearestPursuer(state *engine.GameState) (engine.Pursuer, int, bool) {
	best, bestDist, found := engine.Pursuer{}, 0, false
	for _, p := range state.Pursuers {
		d := engine.ManhattanDistance(p.Pos, state.Hero.Pos)
		if !found || d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, bestDist, found
}

func formatTurn(idx int, t engine.TurnResult) string {
	return fmt.Sprintf("%d. %s %s %s→%s trolls moved=%d status=%s\n",
		idx, t.Action, t.Outcome, t.HeroFrom, t.HeroTo, t.PursuerSteps, t.Status)
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s\n", result.Outcome)
	} else {
		fmt.Fprintf(&b, "✗ %s\n", result.Outcome)
	}

	if result.Turn != nil {
		b.WriteString("Turn: ")
		b.WriteString(formatTurn(result.Turn.Turn, *result.Turn))
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)

	fmt.Fprintf(&b, "Executed %d/%d moves", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Hero: %s → %s\n", result.StartPos, result.EndPos)
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}

	if len(result.Turns) > 0 {
		b.WriteString("\nTurns (this call):\n")
		for i, t := range result.Turns {
			b.WriteString(formatTurn(i+1, t))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func describeCell(state *engine.GameState, pos engine.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell %s\n", pos)
	fmt.Fprintf(&b, "Terrain: %s\n", state.Grid.At(pos))

	switch {
	case state.Hero.Pos == pos && state.Status != engine.StatusLost:
		fmt.Fprintf(&b, "Occupant: hero facing %s\n", state.Hero.Dir)
	default:
		for _, p := range state.Pursuers {
			if p.Pos == pos {
				fmt.Fprintf(&b, "Occupant: troll #%d facing %s\n", p.ID, p.Dir)
			}
		}
	}

	if state.Grid.At(pos) == engine.Wall {
		behind := pos.Step(state.Hero.Dir, 1)
		if state.Grid.InBounds(behind) && state.Grid.At(behind) == engine.Empty {
			fmt.Fprintf(&b, "Pushing %s from here would slide the wall to %s\n", state.Hero.Dir, behind)
		}
	}

	fmt.Fprintf(&b, "Distance from hero: %d\n", engine.ManhattanDistance(state.Hero.Pos, pos))
	return b.String()
}

func formatPursuerInfo(info *service.PursuerInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Troll #%d at %s facing %s, %d from the hero\n", info.ID, info.Position, info.Facing, info.Distance)

	if info.Search == nil {
		b.WriteString("No search yet\n")
		return b.String()
	}

	s := info.Search
	if dir, ok := s.Step(); ok {
		fmt.Fprintf(&b, "Next step: %s\n", dir)
	} else {
		b.WriteString("Next step: none\n")
	}
	fmt.Fprintf(&b, "Reached hero: %v, trapped: %v, iterations: %d, path cost: %d\n",
		s.Reached, s.Trapped, s.Iterations, s.TotalCost)
	for _, step := range s.Path {
		fmt.Fprintf(&b, "  %s %s\n", step.Pos, step.Dir)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn History (Page %d/%d, Total: %d)\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, m := range history.Moves {
		fmt.Fprintf(&b, "#%d turn %d: %s %s %s→%s (%s)\n",
			m.MoveNumber, m.Turn, m.Action, m.Outcome, m.HeroFrom, m.HeroTo, m.Status)
	}

	if history.HasNext {
		fmt.Fprintf(&b, "\nMore on page %d", history.Page+1)
	}
	return b.String()
}
