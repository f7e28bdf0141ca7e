// Package api provides the HTTP REST API for Trolls Escape.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                      create a session {config_id, seed}
//   - GET    /api/sessions                      list sessions (sort, order, limit)
//   - GET    /api/sessions/unified              side-by-side view (sessionIds, configName)
//   - GET    /api/sessions/{id}                 session details with rendered state
//   - DELETE /api/sessions/{id}                 drop a session
//
// Game:
//   - GET  /api/sessions/{id}/state             rendered game state, begins the game
//   - POST /api/sessions/{id}/move              {direction, restart}
//   - POST /api/sessions/{id}/bulk-move         {moves, restart}, at most 50 moves
//   - POST /api/sessions/{id}/restart           regenerate the world
//   - GET  /api/sessions/{id}/history           paginated turns (page, limit, order)
//   - GET  /api/sessions/{id}/pursuers/{pid}    one troll and its last search
//
// Configuration:
//   - GET  /api/configs                         list presets
//   - GET  /api/configs/{name}                  load a preset
//   - POST /api/configs                         validate and save a preset
//
// Live updates are served on /ws?session={id}. After every move the server
// pushes a "state_update" followed by "turn_events".
//
// Errors are JSON objects {"error": "..."}. Unknown sessions, trolls and
// presets answer 404, bad directions and invalid presets 400.
package api
