// Command mazegen is the operator tool for Trolls Escape presets.
//
//	mazegen generate --width 31 --height 15 --pursuers 4 --seed 7
//	mazegen validate configs/*.json
//	mazegen analyze --config-dir configs
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/trolls-escape/game/config"
	"github.com/wricardo/trolls-escape/game/engine"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "mazegen",
		Usage: "generate, validate and analyze Trolls Escape presets",
		Commands: []*cli.Command{
			generateCommand(out),
			validateCommand(out),
			analyzeCommand(out),
		},
	}
}

func generateCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "print a seeded maze with its hero and trolls",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Value: 60, Usage: "maze width in cells"},
			&cli.IntFlag{Name: "height", Value: 25, Usage: "maze height in cells"},
			&cli.FloatFlag{Name: "complexity", Value: engine.DefaultComplexity, Usage: "length of wall runs, 0..1"},
			&cli.FloatFlag{Name: "density", Value: engine.DefaultDensity, Usage: "number of wall runs, 0..1"},
			&cli.IntFlag{Name: "pursuers", Value: engine.DefaultPursuers, Usage: "trolls to spawn"},
			&cli.Int64Flag{Name: "seed", Usage: "random seed, 0 uses the clock"},
			&cli.BoolFlag{Name: "json", Usage: "print a fixed-layout preset instead of the board"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seed := cmd.Int64("seed")
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			preset := &engine.GameConfig{
				Name:        fmt.Sprintf("generated-%d", seed),
				Description: "Generated by mazegen",
				Width:       cmd.Int("width"),
				Height:      cmd.Int("height"),
				Complexity:  cmd.Float("complexity"),
				Density:     cmd.Float("density"),
				Pursuers:    cmd.Int("pursuers"),
				Messages:    engine.DefaultMessages(),
			}
			if err := engine.ValidateGameConfig(preset); err != nil {
				return err
			}

			world, err := engine.NewWorld(preset, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			board := engine.RenderBoard(world.Overlay(), false)

			if cmd.Bool("json") {
				preset.Layout = board
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(preset)
			}

			fmt.Fprintf(out, "seed %d, %dx%d, %d trolls\n", seed, world.Grid.Width(), world.Grid.Height(), len(world.Pursuers))
			for _, row := range board {
				fmt.Fprintln(out, row)
			}
			return nil
		},
	}
}

func validateCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check preset files and try to build a world from each",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "seed used for the trial build"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return errors.New("no preset files given")
			}

			failed := 0
			for _, file := range files {
				if err := validatePreset(file, cmd.Int64("seed")); err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", filepath.Base(file), err)
					continue
				}
				fmt.Fprintf(out, "ok   %s\n", filepath.Base(file))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d presets invalid", failed, len(files))
			}
			return nil
		},
	}
}

// validatePreset loads a preset file and builds one world from it, which
// catches presets too crowded to place every troll.
func validatePreset(path string, seed int64) error {
	preset, err := engine.LoadGameConfig(path)
	if err != nil {
		return err
	}
	_, err = engine.NewWorld(preset, rand.New(rand.NewSource(seed)))
	return err
}

func analyzeCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "report wall density, open cells and troll pressure of every preset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing presets"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "seed used to build each world"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			presets, err := manager.ListConfigs()
			if err != nil {
				return err
			}

			for _, info := range presets {
				preset, err := manager.LoadConfig(info.ConfigID)
				if err != nil {
					fmt.Fprintf(out, "\n=== %s ===\nerror: %v\n", info.ConfigID, err)
					continue
				}
				analyzePreset(out, info.ConfigID, preset, cmd.Int64("seed"))
			}
			return nil
		},
	}
}

func analyzePreset(out io.Writer, id string, preset *engine.GameConfig, seed int64) {
	fmt.Fprintf(out, "\n=== %s ===\n", id)
	fmt.Fprintf(out, "Name: %s\n", preset.Name)

	world, err := engine.NewWorld(preset, rand.New(rand.NewSource(seed)))
	if err != nil {
		fmt.Fprintf(out, "⚠️  cannot build world: %v\n", err)
		return
	}

	grid := world.Grid
	open := engine.CountCellKind(grid, engine.Empty)
	fmt.Fprintf(out, "Grid: %dx%d\n", grid.Width(), grid.Height())
	fmt.Fprintf(out, "Wall density: %.2f\n", engine.WallDensity(grid))
	fmt.Fprintf(out, "Open cells: %d\n", open)
	fmt.Fprintf(out, "Trolls: %d (one per %d open cells)\n", len(world.Pursuers), open/max(1, len(world.Pursuers)))
	fmt.Fprintf(out, "Hero to exit: %d\n", engine.ManhattanDistance(world.Hero.Pos, world.Exit))

	if p, d, ok := engine.NearestPursuer(world); ok {
		fmt.Fprintf(out, "Nearest troll: #%d at distance %d\n", p.ID, d)
	}

	// Without pushes; a miss only means the search budget ran out or walls must move.
	if path := engine.FindPath(grid, world.Hero.Pos, world.Exit); path.Reached {
		fmt.Fprintf(out, "✅ exit reachable without pushing, cost %d\n", path.TotalCost)
	} else {
		fmt.Fprintf(out, "⚠️  no push-free route to the exit found\n")
	}
}
