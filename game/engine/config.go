package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMessages returns the stock player texts
func DefaultMessages() Messages {
	return Messages{
		Welcome:     "Escape the trolls! Reach the X before they reach you.",
		Victory:     "You won!!!",
		AlreadyWon:  "Seriously...You've already won",
		Eaten:       "You've been eaten",
		Blocked:     "Something heavy is in the way",
		Pushed:      "You shove the wall one step back",
		Turned:      "You turn to face %s",
		Moved:       "You move %s",
		RestartHint: "R for restart",
	}
}

// DefaultGameConfig returns the classic 60x25 setup with 15 trolls
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "The classic escape: a 60x25 maze and 15 trolls",
		Width:       60,
		Height:      25,
		Complexity:  DefaultComplexity,
		Density:     DefaultDensity,
		Pursuers:    DefaultPursuers,
		Messages:    DefaultMessages(),
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if len(config.Layout) > 0 {
		if err := validateLayout(config.Layout); err != nil {
			return err
		}
	} else {
		if config.Width < MinGridSize || config.Width > MaxGridSize {
			return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Width)
		}
		if config.Height < MinGridSize || config.Height > MaxGridSize {
			return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Height)
		}
		if config.Complexity < 0 || config.Complexity > 1 {
			return fmt.Errorf("config validation: complexity must be between 0 and 1, got %.2f", config.Complexity)
		}
		if config.Density < 0 || config.Density > 1 {
			return fmt.Errorf("config validation: density must be between 0 and 1, got %.2f", config.Density)
		}
		if config.Pursuers < 0 || config.Pursuers > MaxPursuers {
			return fmt.Errorf("config validation: pursuers must be between 0 and %d, got %d", MaxPursuers, config.Pursuers)
		}
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Messages.AlreadyWon == "" {
		return fmt.Errorf("config validation: messages.already_won is required")
	}
	if config.Messages.Eaten == "" {
		return fmt.Errorf("config validation: messages.eaten is required")
	}
	if config.Messages.Turned != "" && !strings.Contains(config.Messages.Turned, "%s") {
		return fmt.Errorf("config validation: messages.turned must contain %%s for the direction")
	}
	if config.Messages.Moved != "" && !strings.Contains(config.Messages.Moved, "%s") {
		return fmt.Errorf("config validation: messages.moved must contain %%s for the direction")
	}

	return nil
}

func validateLayout(layout []string) error {
	width := len(layout[0])
	if len(layout) < MinGridSize || len(layout) > MaxGridSize || width < MinGridSize || width > MaxGridSize {
		return fmt.Errorf("config validation: layout must be between %dx%d and %dx%d, got %dx%d",
			MinGridSize, MinGridSize, MaxGridSize, MaxGridSize, width, len(layout))
	}

	heroes, exits, pursuers := 0, 0, 0
	for i, row := range layout {
		if len(row) != width {
			return fmt.Errorf("config validation: layout row %d must have %d characters, got %d", i+1, width, len(row))
		}
		for j, char := range row {
			switch char {
			case '#', '.', ' ':
			case 'X':
				exits++
			case '^', 'v', '<', '>':
				heroes++
			case 't':
				pursuers++
			default:
				return fmt.Errorf("config validation: invalid character '%c' at row %d, col %d", char, i+1, j+1)
			}
		}
	}

	if heroes != 1 {
		return fmt.Errorf("config validation: layout must contain exactly one hero, got %d", heroes)
	}
	if exits != 1 {
		return fmt.Errorf("config validation: layout must contain exactly one exit (X), got %d", exits)
	}
	if pursuers > MaxPursuers {
		return fmt.Errorf("config validation: layout holds %d pursuers, maximum is %d", pursuers, MaxPursuers)
	}
	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	config.Messages.ApplyDefaults()

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadConfigByName loads a game configuration by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	config, err := LoadGameConfig(filepath.Join("configs", configName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file '%s' not found", configName)
		}
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}

// ApplyDefaults fills the optional texts a preset left out
func (m *Messages) ApplyDefaults() {
	def := DefaultMessages()
	if m.Blocked == "" {
		m.Blocked = def.Blocked
	}
	if m.Pushed == "" {
		m.Pushed = def.Pushed
	}
	if m.Turned == "" {
		m.Turned = def.Turned
	}
	if m.Moved == "" {
		m.Moved = def.Moved
	}
	if m.RestartHint == "" {
		m.RestartHint = def.RestartHint
	}
}
