package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordsearch/internal/grid"
)

var (
	rows        int
	cols        int
	maxAttempts int
)

func init() {
	gridCmd := &cobra.Command{
		Use:   "grid WORD...",
		Short: "Place the given words in a filled grid",
		Long: `Place the given words in a grid and fill the rest with random letters.

Examples:
  wsgen grid CAT DOG BIRD
  wsgen grid --rows 8 --cols 12 --seed 7 "sea lion" walrus otter`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGrid,
	}
	gridCmd.Flags().IntVarP(&rows, "rows", "r", 10, "Grid rows")
	gridCmd.Flags().IntVarP(&cols, "cols", "c", 10, "Grid columns")
	gridCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Attempts before giving up (0 = scaled to the word count)")

	rootCmd.AddCommand(gridCmd)
}

func runGrid(cmd *cobra.Command, args []string) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", rows, cols)
	}
	start := time.Now()
	res, err := grid.Generate(args, grid.Size{Rows: rows, Cols: cols}, grid.Options{Seed: seed, MaxAttempts: maxAttempts})
	if err != nil {
		return err
	}
	log.Debug().Int("words", len(args)).Dur("took", time.Since(start)).Msg("grid generated")

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintln(out, res.Grid.String())
	fmt.Fprintln(out)
	printPlacements(out, res.Placements)
	return nil
}

func printPlacements(out io.Writer, placements []grid.Placement) {
	for _, p := range placements {
		fmt.Fprintf(out, "%-16s (%d,%d) %s\n", p.Word, p.Start.Row, p.Start.Col, p.Dir.Name)
	}
}
