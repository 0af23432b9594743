// Command tileset checks and summarizes the TOML tileset files used by the
// game server.
//
//	tileset validate            # validate every *.toml in ./configs
//	tileset --dir sets validate classic desert
//	tileset analyze classic     # per-deck oasis and treasure counts
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/oasis-tiles/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File   string
	Name   string
	Valid  bool
	Errors []string
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "tileset",
		Usage:  "validate and analyze Oasis Tiles tileset files",
		Writer: w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Value:   "configs",
				Usage:   "directory containing *.toml tilesets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check tileset shape, oasis layouts and treasures",
				ArgsUsage: "[name ...]",
				Action:    runValidate,
			},
			{
				Name:      "analyze",
				Usage:     "print per-deck statistics",
				ArgsUsage: "[name ...]",
				Action:    runAnalyze,
			},
		},
	}
}

// tilesetFiles resolves the named tilesets, or every *.toml in dir when no
// names are given.
func tilesetFiles(dir string, names []string) ([]string, error) {
	if len(names) == 0 {
		files, err := filepath.Glob(filepath.Join(dir, "*.toml"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		return files, nil
	}
	files := make([]string, 0, len(names))
	for _, name := range names {
		files = append(files, filepath.Join(dir, strings.TrimSuffix(name, ".toml")+".toml"))
	}
	return files, nil
}

func validateFile(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	config, err := engine.LoadTilesetConfig(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.Name = config.Name
	return result
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	files, err := tilesetFiles(cmd.String("dir"), cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no tilesets found in %s", cmd.String("dir"))
	}

	invalid := 0
	for _, file := range files {
		result := validateFile(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintf(w, "✅ VALID (%s)\n", result.Name)
			continue
		}
		invalid++
		fmt.Fprintln(w, "❌ INVALID")
		for _, e := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+e)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if invalid > 0 {
		return fmt.Errorf("%d of %d tilesets have errors", invalid, len(files))
	}
	fmt.Fprintln(w, "✅ All tilesets are valid!")
	return nil
}

// DeckStats summarizes one deck
type DeckStats struct {
	Number      int
	Color       string
	Desert      int
	WithOasis   int
	OpenEdges   int
	Treasures   map[string]int
	MultiGroups int
}

func analyzeDeck(number int, tiles [engine.DeckSize]engine.TileData) DeckStats {
	stats := DeckStats{
		Number:    number,
		Color:     engine.DeckColors[number-1],
		Treasures: map[string]int{},
	}
	for _, t := range tiles {
		if t.IsDesert {
			stats.Desert++
		}
		if !t.OasisLayout.IsEmpty() {
			stats.WithOasis++
		}
		groups := 0
		for _, slot := range t.OasisLayout.Slots() {
			if !slot.IsEmpty() {
				groups++
			}
		}
		if groups > 1 {
			stats.MultiGroups++
		}
		stats.OpenEdges += len(t.OasisLayout.Connections().Directions())
		for _, tr := range t.TreasureLayout {
			if !tr.IsNone() {
				stats.Treasures[tr.Label()]++
			}
		}
	}
	return stats
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	files, err := tilesetFiles(cmd.String("dir"), cmd.Args().Slice())
	if err != nil {
		return err
	}

	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))

		config, err := engine.LoadTilesetConfig(file)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		tileset, err := engine.BuildTileset(config)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}

		fmt.Fprintf(w, "Name: %s\n", config.Name)
		if config.Description != "" {
			fmt.Fprintf(w, "Description: %s\n", config.Description)
		}

		for i, deck := range tileset.Decks {
			stats := analyzeDeck(i+1, deck)
			fmt.Fprintf(w, "Deck %d (%s): %d desert, %d with oasis, %d open edges",
				stats.Number, stats.Color, stats.Desert, stats.WithOasis, stats.OpenEdges)
			if stats.MultiGroups > 0 {
				fmt.Fprintf(w, ", %d split oases", stats.MultiGroups)
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Treasures: %s\n", formatTreasureCounts(stats.Treasures))
		}
	}
	return nil
}

func formatTreasureCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = fmt.Sprintf("%s x%d", label, counts[label])
	}
	return strings.Join(parts, ", ")
}
