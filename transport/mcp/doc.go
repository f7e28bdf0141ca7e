// Package mcp exposes Trolls Escape to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON answer is rendered as plain text that an
// agent can read, including the glyph board.
//
// MCP Tools:
//   - create_session, get_session, list_sessions
//   - game_state: rendered board and status
//   - move, bulk_move: play turns, with an optional restart first
//   - restart_game
//   - move_history: paginated turns
//   - list_configs
//   - game_instructions
//   - describe_cell: terrain and occupant of a row/col
//   - describe_pursuer: a troll's position and its planned path
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// The same MCP server is mounted on /mcp by the HTTP server mode.
package mcp
