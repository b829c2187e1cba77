package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/viewport"
	"github.com/robalobadob/wordsearch/internal/words"
)

var (
	category  string
	topic     string
	viewClass string
)

func init() {
	puzzleCmd := &cobra.Command{
		Use:   "puzzle",
		Short: "Build a full puzzle from the word cache",
		Long: `Build a puzzle the way the server does: pick a topic, select words for
the viewport, generate the grid and sample facts.

The word cache is read from WORDCACHE_DIR, or the embedded copy when unset.

Examples:
  wsgen puzzle --category animals
  wsgen puzzle --category food --topic fruits --viewport mobile --seed 42 --json`,
		RunE: runPuzzle,
	}
	puzzleCmd.Flags().StringVar(&category, "category", "", "Category slug (required)")
	puzzleCmd.Flags().StringVar(&topic, "topic", "", "Topic slug (random when empty)")
	puzzleCmd.Flags().StringVar(&viewClass, "viewport", string(viewport.Desktop), "mobile | tablet | desktop")
	_ = puzzleCmd.MarkFlagRequired("category")

	rootCmd.AddCommand(puzzleCmd)
}

func runPuzzle(cmd *cobra.Command, args []string) error {
	vp, err := viewport.Parse(viewClass)
	if err != nil {
		return err
	}
	wc, err := words.FromEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cat, err := wc.Category(ctx, category)
	if err != nil {
		return err
	}
	p, err := game.Build(ctx, wc, game.BuildParams{Category: cat, Viewport: vp, TopicSlug: topic, Seed: seed})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	fmt.Fprintf(out, "%s / %s  (seed %d)\n\n", p.Category.Label, p.TopicLabel, p.Seed)
	fmt.Fprintln(out, p.Grid.String())
	fmt.Fprintln(out)
	printPlacements(out, p.Placements)
	for _, f := range p.Facts {
		fmt.Fprintf(out, "\n* %s", f)
	}
	if len(p.Facts) > 0 {
		fmt.Fprintln(out)
	}
	return nil
}
