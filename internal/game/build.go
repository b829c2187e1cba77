// internal/game/build.go
//
// Puzzle assembly: topic → word pools → selection → grid → Puzzle.
//
// Flow:
//   1. Use the requested topic, or pick one of the category's topics at random.
//   2. Resolve the topic's display label (falls back to the slug).
//   3. Fetch easy, medium and hard pools plus facts concurrently. Easy and
//      medium are required; a missing hard tier or facts file degrades to empty.
//   4. Select words for the viewport and generate the grid at its size.
//   5. Show up to 3 facts at random.
//
// All random choices come from one generator seeded by BuildParams.Seed, so a
// fixed seed rebuilds the same grid (the daily challenge depends on this).
// Generation failures are returned as-is; Build never retries.
package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordsearch/internal/grid"
	"github.com/robalobadob/wordsearch/internal/rng"
	"github.com/robalobadob/wordsearch/internal/viewport"
	"github.com/robalobadob/wordsearch/internal/words"
)

// factsShown is how many facts a puzzle displays.
const factsShown = 3

// ErrNoTopics is returned when a category has no topics to pick from.
var ErrNoTopics = errors.New("no topics available for category")

// Source supplies the data a puzzle is built from. *words.Cache implements it.
type Source interface {
	TopicSlugs(ctx context.Context, category string) ([]string, error)
	TopicLabels(ctx context.Context, category string) ([]words.TopicLabel, error)
	TopicWords(ctx context.Context, category, topic string, d words.Difficulty) ([]string, error)
	TopicFacts(ctx context.Context, category, topic string) ([]string, error)
}

// BuildParams selects what to build.
type BuildParams struct {
	Category  words.Category
	Viewport  viewport.Class
	TopicSlug string // optional; random when empty
	Seed      uint64 // 0 = random
	Grid      grid.Options
}

// Build assembles a new Puzzle with no words found.
func Build(ctx context.Context, src Source, p BuildParams) (*Puzzle, error) {
	seed := p.Seed
	if seed == 0 {
		seed = rng.New(0).Uint64()
	}
	r := rng.New(seed)
	cat := p.Category.Slug

	topic := p.TopicSlug
	if topic == "" {
		topics, err := src.TopicSlugs(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("game: load topics: %w", err)
		}
		var ok bool
		if topic, ok = rng.PickOne(r, topics); !ok {
			return nil, fmt.Errorf("game: %w: %q", ErrNoTopics, cat)
		}
	}

	labels, err := src.TopicLabels(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("game: load topic labels: %w", err)
	}

	var pools words.Pools
	var facts []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if pools.Easy, err = src.TopicWords(gctx, cat, topic, words.Easy); err != nil {
			return fmt.Errorf("game: load easy words: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if pools.Medium, err = src.TopicWords(gctx, cat, topic, words.Medium); err != nil {
			return fmt.Errorf("game: load medium words: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if hard, err := src.TopicWords(gctx, cat, topic, words.Hard); err == nil {
			pools.Hard = hard
		}
		return nil
	})
	g.Go(func() error {
		if f, err := src.TopicFacts(gctx, cat, topic); err == nil {
			facts = f
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sel := words.SelectForViewport(pools, p.Viewport, r)
	size := viewport.GridSize(p.Viewport)
	opts := p.Grid
	opts.Rand = r
	res, err := grid.Generate(sel.Words, grid.Size{Rows: size.Rows, Cols: size.Cols}, opts)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	shown := rng.Sample(r, facts, factsShown)
	if shown == nil {
		shown = []string{}
	}
	now := time.Now().UTC()
	return &Puzzle{
		ID:         puzzleID(cat, topic, now),
		Category:   p.Category,
		TopicSlug:  topic,
		TopicLabel: words.ResolveTopicLabel(labels, topic),
		Viewport:   p.Viewport,
		Rows:       size.Rows,
		Cols:       size.Cols,
		Words:      sel.Words,
		Grid:       res.Grid,
		Placements: res.Placements,
		FoundWords: []FoundWord{},
		Facts:      shown,
		Seed:       seed,
		CreatedAt:  now,
	}, nil
}

// puzzleID is <category>-<topic>-<unix ms>-<6 hex chars>.
func puzzleID(category, topic string, now time.Time) string {
	var b [3]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%s-%s-%d-%s", category, topic, now.UnixMilli(), hex.EncodeToString(b[:]))
}
