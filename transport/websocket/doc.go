// Package websocket pushes live game updates to browsers and other watchers.
//
// The package uses a hub-and-spoke model where a central Hub tracks every
// connection by session. Each client has a read pump that keeps the
// connection alive and a write pump that drains its send buffer.
//
// Message Protocol:
//
// Outgoing messages are JSON objects {session_id, event, game_state, data}.
// After each turn the API sends a "state_update" carrying the rendered state,
// followed by a "turn_events" message whose data is the list of events the
// turn produced. Incoming messages are ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// A client whose buffer fills up is dropped rather than allowed to stall the
// other watchers of its session.
package websocket
