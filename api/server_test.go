package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/trolls-escape/game/engine"
	"github.com/wricardo/trolls-escape/game/service"
	"github.com/wricardo/trolls-escape/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string, seed int64) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	MoveFunc     func(ctx context.Context, sessionID, direction string, restart bool) (*service.MoveResult, error)
	BulkMoveFunc func(ctx context.Context, sessionID string, moves []string, restart bool) (*service.BulkMoveResult, error)
	RestartFunc  func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc    func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistoryFunc  func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)
	DescribePursuerFunc func(ctx context.Context, sessionID string, pursuerID int) (*service.PursuerInfo, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string, seed int64) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName, seed)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		Seed:       seed,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) Move(ctx context.Context, sessionID, direction string, restart bool) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, direction, restart)
	}
	return &service.MoveResult{
		Success:   true,
		Outcome:   engine.OutcomeMoved,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) BulkMove(ctx context.Context, sessionID string, moves []string, restart bool) (*service.BulkMoveResult, error) {
	if m.BulkMoveFunc != nil {
		return m.BulkMoveFunc(ctx, sessionID, moves, restart)
	}
	return &service.BulkMoveResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, sessionID)
	}
	return &engine.GameState{Status: engine.StatusPlaying}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Moves:      []engine.TurnRecord{},
		TotalMoves: 0,
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) DescribePursuer(ctx context.Context, sessionID string, pursuerID int) (*service.PursuerInfo, error) {
	if m.DescribePursuerFunc != nil {
		return m.DescribePursuerFunc(ctx, sessionID, pursuerID)
	}
	return &service.PursuerInfo{ID: pursuerID}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.GameConfig{
		Name:        configName,
		Description: "Test config",
	}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := websocket.NewHub()
	go hub.Run(ctx)
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", service.ErrSessionNotFound, id)
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, seed int64) (*service.SessionInfo, error) {
					if configName != "" {
						t.Errorf("Expected empty config name, got %q", configName)
					}
					return &service.SessionInfo{ID: "a1b2", ConfigName: "classic", CreatedAt: time.Now()}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "a1b2" {
					t.Errorf("Expected session ID a1b2, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with config_id and seed",
			requestBody: map[string]interface{}{"config_id": "easy", "seed": 42},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, seed int64) (*service.SessionInfo, error) {
					if configName != "easy" || seed != 42 {
						t.Errorf("Expected easy/42, got %s/%d", configName, seed)
					}
					return &service.SessionInfo{ID: "c3d4", ConfigName: configName, Seed: seed}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.Seed != 42 {
					t.Errorf("Expected seed 42, got %d", resp.Seed)
				}
			},
		},
		{
			name:        "Deprecated config_name still honored",
			requestBody: map[string]interface{}{"config_name": "hard"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, seed int64) (*service.SessionInfo, error) {
					return &service.SessionInfo{ID: "e5f6", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != "hard" {
					t.Errorf("Expected config hard, got %s", resp.ConfigName)
				}
			},
		},
		{
			name:        "Unknown config",
			requestBody: map[string]interface{}{"config_id": "nope"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, seed int64) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: %s", service.ErrConfigNotFound, configName)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Service failure",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string, seed int64) (*service.SessionInfo, error) {
					return nil, errors.New("maze generation failed")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}
			server := setupTestServer(t, mockService)

			req := makeRequest("POST", "/api/sessions", tt.requestBody)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	sessions := func(ctx context.Context) ([]*service.SessionInfo, error) {
		return []*service.SessionInfo{
			{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Minute)},
			{ID: "mid", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-time.Hour)},
			{ID: "new", CreatedAt: now, LastAccessedAt: now.Add(-30 * time.Minute)},
		}, nil
	}

	tests := []struct {
		name      string
		query     string
		wantOrder []string
		wantTotal int
	}{
		{name: "Default sorts by last access desc", query: "", wantOrder: []string{"old", "new", "mid"}, wantTotal: 3},
		{name: "Created ascending", query: "?sort=created&order=asc", wantOrder: []string{"old", "mid", "new"}, wantTotal: 3},
		{name: "Limit", query: "?sort=created&limit=1", wantOrder: []string{"new"}, wantTotal: 3},
		{name: "Invalid limit ignored", query: "?limit=abc", wantOrder: []string{"old", "new", "mid"}, wantTotal: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupTestServer(t, &MockGameService{ListSessionsFunc: sessions})

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Total != tt.wantTotal {
				t.Errorf("Expected total %d, got %d", tt.wantTotal, resp.Total)
			}
			if resp.Count != len(tt.wantOrder) {
				t.Fatalf("Expected count %d, got %d", len(tt.wantOrder), resp.Count)
			}
			for i, id := range tt.wantOrder {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID == "missing" {
				return nil, notFound(sessionID)
			}
			return &service.SessionInfo{ID: sessionID, ConfigName: "classic"}, nil
		},
	}
	server := setupTestServer(t, mockService)

	t.Run("Existing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var resp service.SessionInfo
		parseResponse(t, w, &resp)
		if resp.ID != "ab12" {
			t.Errorf("Expected ab12, got %s", resp.ID)
		}
	})

	t.Run("Missing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/missing", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestDeleteSession(t *testing.T) {
	deleted := ""
	mockService := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "missing" {
				return notFound(sessionID)
			}
			deleted = sessionID
			return nil
		},
	}
	server := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/ab12", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if deleted != "ab12" {
		t.Errorf("Expected ab12 to be deleted, got %q", deleted)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Game Operation Tests

func TestMove(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		body           interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:      "Valid move",
			sessionID: "ab12",
			body:      map[string]interface{}{"direction": "up"},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID, direction string, restart bool) (*service.MoveResult, error) {
					if direction != "up" || restart {
						t.Errorf("Unexpected arguments %s/%v", direction, restart)
					}
					return &service.MoveResult{
						Success:   true,
						Outcome:   engine.OutcomeTurned,
						Message:   "You turn to face up",
						GameState: &engine.GameState{Status: engine.StatusPlaying, Turn: 1},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.MoveResult
				parseResponse(t, w, &resp)
				if resp.Outcome != engine.OutcomeTurned {
					t.Errorf("Expected outcome turned, got %s", resp.Outcome)
				}
				if resp.GameState.Turn != 1 {
					t.Errorf("Expected turn 1, got %d", resp.GameState.Turn)
				}
			},
		},
		{
			name:      "Move with restart flag",
			sessionID: "ab12",
			body:      map[string]interface{}{"direction": "left", "restart": true},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID, direction string, restart bool) (*service.MoveResult, error) {
					if !restart {
						t.Error("Expected restart flag to be forwarded")
					}
					return &service.MoveResult{Success: true, GameState: &engine.GameState{}}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Malformed body",
			sessionID:      "ab12",
			body:           "not-json{",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:      "Invalid direction",
			sessionID: "ab12",
			body:      map[string]interface{}{"direction": "sideways"},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID, direction string, restart bool) (*service.MoveResult, error) {
					return nil, fmt.Errorf("%w: %q", engine.ErrInvalidDirection, direction)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:      "Unknown session",
			sessionID: "missing",
			body:      map[string]interface{}{"direction": "up"},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID, direction string, restart bool) (*service.MoveResult, error) {
					return nil, notFound(sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}
			server := setupTestServer(t, mockService)

			var req *http.Request
			if s, ok := tt.body.(string); ok {
				req = httptest.NewRequest("POST", "/api/sessions/"+tt.sessionID+"/move", bytes.NewBufferString(s))
			} else {
				req = makeRequest("POST", "/api/sessions/"+tt.sessionID+"/move", tt.body)
			}
			req = mux.SetURLVars(req, map[string]string{"id": tt.sessionID})

			w := httptest.NewRecorder()
			server.handleMove(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestBulkMove(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Stops on victory",
			body: map[string]interface{}{"moves": []string{"right", "right", "down"}},
			setupMock: func(m *MockGameService) {
				m.BulkMoveFunc = func(ctx context.Context, sessionID string, moves []string, restart bool) (*service.BulkMoveResult, error) {
					if len(moves) != 3 {
						t.Errorf("Expected 3 moves, got %d", len(moves))
					}
					return &service.BulkMoveResult{
						RequestedMoves: 3,
						MovesExecuted:  2,
						Success:        true,
						StopReasonCode: "won",
						StoppedOnMove:  2,
						Status:         engine.StatusWon,
						GameState:      &engine.GameState{Status: engine.StatusWon},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.BulkMoveResult
				parseResponse(t, w, &resp)
				if resp.StopReasonCode != "won" || resp.StoppedOnMove != 2 {
					t.Errorf("Unexpected stop info: %s on %d", resp.StopReasonCode, resp.StoppedOnMove)
				}
			},
		},
		{
			name: "Invalid move in batch",
			body: map[string]interface{}{"moves": []string{"up", "jump"}},
			setupMock: func(m *MockGameService) {
				m.BulkMoveFunc = func(ctx context.Context, sessionID string, moves []string, restart bool) (*service.BulkMoveResult, error) {
					return nil, fmt.Errorf("move 2: %w", engine.ErrInvalidDirection)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown session",
			body: map[string]interface{}{"moves": []string{"up"}},
			setupMock: func(m *MockGameService) {
				m.BulkMoveFunc = func(ctx context.Context, sessionID string, moves []string, restart bool) (*service.BulkMoveResult, error) {
					return nil, notFound(sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}
			server := setupTestServer(t, mockService)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/bulk-move", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestRestart(t *testing.T) {
	mockService := &MockGameService{
		RestartFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			if sessionID == "missing" {
				return nil, notFound(sessionID)
			}
			return &engine.GameState{Status: engine.StatusPlaying, Restarts: 1}, nil
		},
	}
	server := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/restart", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	parseResponse(t, w, &resp)
	if resp.State == nil || resp.State.Restarts != 1 {
		t.Errorf("Expected restarted state, got %+v", resp.State)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/missing/restart", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantOrder string
	}{
		{name: "Defaults", query: "", wantPage: 1, wantLimit: 20, wantOrder: "desc"},
		{name: "Explicit paging", query: "?page=3&limit=5&order=asc", wantPage: 3, wantLimit: 5, wantOrder: "asc"},
		{name: "Invalid values ignored", query: "?page=-1&limit=x&order=sideways", wantPage: 1, wantLimit: 20, wantOrder: "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockGameService{
				GetMoveHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{
						Moves:      []engine.TurnRecord{{Turn: 1, Action: engine.Up, Outcome: engine.OutcomeTurned}},
						TotalMoves: 1,
						Page:       opts.Page,
						PageSize:   opts.Limit,
						TotalPages: 1,
					}, nil
				},
			}
			server := setupTestServer(t, mockService)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/history"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit || got.Order != tt.wantOrder {
				t.Errorf("Expected %d/%d/%s, got %d/%d/%s",
					tt.wantPage, tt.wantLimit, tt.wantOrder, got.Page, got.Limit, got.Order)
			}

			var resp service.HistoryResponse
			parseResponse(t, w, &resp)
			if len(resp.Moves) != 1 || resp.Moves[0].Outcome != engine.OutcomeTurned {
				t.Errorf("Unexpected moves: %+v", resp.Moves)
			}
		})
	}
}

func TestGetGameState(t *testing.T) {
	mockService := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			if sessionID == "missing" {
				return nil, notFound(sessionID)
			}
			return &engine.GameState{
				Status: engine.StatusPlaying,
				Board:  []string{"#####", "#>  X", "#####"},
			}, nil
		},
	}
	server := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var state engine.GameState
	parseResponse(t, w, &state)
	if state.Status != engine.StatusPlaying || len(state.Board) != 3 {
		t.Errorf("Unexpected state: %+v", state)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/missing/state", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDescribePursuer(t *testing.T) {
	mockService := &MockGameService{
		DescribePursuerFunc: func(ctx context.Context, sessionID string, pursuerID int) (*service.PursuerInfo, error) {
			if pursuerID > 2 {
				return nil, fmt.Errorf("%w: %d", service.ErrPursuerNotFound, pursuerID)
			}
			return &service.PursuerInfo{
				ID:       pursuerID,
				Position: engine.Position{Row: 1, Col: 4},
				Facing:   engine.Left,
				Distance: 3,
			}, nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "Known pursuer", path: "/api/sessions/ab12/pursuers/1", expectedStatus: http.StatusOK},
		{name: "Unknown pursuer", path: "/api/sessions/ab12/pursuers/9", expectedStatus: http.StatusNotFound},
		{name: "Non numeric id", path: "/api/sessions/ab12/pursuers/abc", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

// Configuration Tests

func TestListConfigs(t *testing.T) {
	mockService := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{
				{ConfigID: "classic", Name: "classic", Width: 60, Height: 25, Pursuers: 15},
				{ConfigID: "easy", Name: "easy", Width: 21, Height: 11, Pursuers: 3},
			}, nil
		},
	}
	server := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/configs", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var configs []service.ConfigInfo
	parseResponse(t, w, &configs)
	if len(configs) != 2 || configs[0].Pursuers != 15 {
		t.Errorf("Unexpected configs: %+v", configs)
	}
}

func TestGetConfig(t *testing.T) {
	mockService := &MockGameService{
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
			if configName != "easy" {
				return nil, fmt.Errorf("%w: %s", service.ErrConfigNotFound, configName)
			}
			return &engine.GameConfig{Name: "easy", Description: "Small maze", Width: 21, Height: 11}, nil
		},
	}
	server := setupTestServer(t, mockService)

	for _, path := range []string{"/api/configs/easy", "/api/configs/easy.json"} {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/configs/unknown", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCreateConfig(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		wantSaved      string
	}{
		{
			name: "Valid fixed layout",
			body: map[string]interface{}{
				"config_id":   "tiny",
				"name":        "Tiny",
				"description": "One corridor",
				"layout":      []string{"#####", "#>.t#", "####X"},
				"messages": map[string]string{
					"welcome":     "Run!",
					"victory":     "Out!",
					"already_won": "Still out",
					"eaten":       "Gone",
				},
			},
			expectedStatus: http.StatusCreated,
			wantSaved:      "tiny",
		},
		{
			name:           "Missing name",
			body:           map[string]interface{}{"description": "nameless"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Invalid dimensions",
			body: map[string]interface{}{
				"name":        "huge",
				"description": "too big",
				"width":       500,
				"height":      500,
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := ""
			mockService := &MockGameService{
				SaveConfigFunc: func(ctx context.Context, configName string, config *engine.GameConfig) error {
					saved = configName
					if config.Messages.Victory == "" {
						t.Error("Expected message defaults to be applied before saving")
					}
					return nil
				},
			}
			server := setupTestServer(t, mockService)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/configs", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if saved != tt.wantSaved {
				t.Errorf("Expected saved config %q, got %q", tt.wantSaved, saved)
			}
		})
	}
}

func TestUnifiedSessions(t *testing.T) {
	all := []*service.SessionInfo{
		{ID: "a1", ConfigName: "classic", GameState: &engine.GameState{Status: engine.StatusPlaying, Pursuers: make([]engine.Pursuer, 15)}},
		{ID: "b2", ConfigName: "classic", GameState: &engine.GameState{Status: engine.StatusWon}},
		{ID: "c3", ConfigName: "easy", GameState: &engine.GameState{Status: engine.StatusLost}},
	}
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return all, nil
		},
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			for _, s := range all {
				if s.ID == sessionID {
					return s, nil
				}
			}
			return nil, notFound(sessionID)
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "All sessions", query: "", wantCount: 3},
		{name: "By config", query: "?configName=classic", wantCount: 2},
		{name: "By ids skips unknown", query: "?sessionIds=a1,zz,c3", wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions/unified"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Sessions []map[string]interface{} `json:"sessions"`
				Status   map[string]int           `json:"status"`
			}
			parseResponse(t, w, &resp)
			if len(resp.Sessions) != tt.wantCount {
				t.Errorf("Expected %d sessions, got %d", tt.wantCount, len(resp.Sessions))
			}
		})
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestWebSocket(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID == "missing" {
				return nil, notFound(sessionID)
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
	}{
		{name: "Missing session parameter", query: "", expectedStatus: http.StatusBadRequest},
		{name: "Unknown session", query: "?session=missing", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/ws"+tt.query, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
