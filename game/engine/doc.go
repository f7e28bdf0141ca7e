// Package engine provides the core game logic for Trolls Escape.
//
// The engine package implements the game mechanics including:
//   - Maze generation with tunable complexity and density
//   - Wall pushing and collision rules for the hero
//   - A turn-penalised best-first search that moves every troll
//   - Turn orchestration and the created/playing/won/lost state machine
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. World owns the grid and the live entities,
// GameState is the copy handed to callers and GameConfig holds the preset
// loaded from JSON.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameEngine.Move(engine.Up)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Each command either turns the hero or, if it already faces that way,
// steps it. Stepping into a wall pushes the wall one cell further when the
// cell behind it is free. After the hero acts every troll takes one step
// along its best path. Reaching the exit wins and clears the trolls; sharing
// a cell with a troll loses.
package engine
