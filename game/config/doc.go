// Package config provides configuration management for Trolls Escape.
//
// The config package handles:
//   - Loading game presets from JSON files
//   - Default preset selection
//   - Preset discovery and listing
//
// Configuration Format:
//
// Presets are stored as JSON files in the configs directory. A preset either
// describes a generated maze (width, height, complexity, density and the
// number of trolls) or carries a fixed layout drawn with '#', '.', 'X', the
// hero glyphs '^', 'v', '<', '>' and 't' for trolls. Message texts the
// preset leaves out fall back to the stock ones.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("easy")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When the directory has no classic.json the first valid preset becomes the
// default, and an empty directory falls back to the built-in classic setup.
package config
