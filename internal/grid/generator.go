// internal/grid/generator.go
//
// Word placement by depth-first backtracking.
//
// Each attempt places words longest-first. For every word, all in-bounds
// (row, col, direction) candidates whose cells are empty or already hold the
// same letter are collected and ranked by overlap, the top MaxCandidates are
// shuffled and tried in turn. The search runs on an explicit frame stack; each
// frame remembers exactly which cells its current candidate wrote, so undo
// clears those and leaves shared letters alone.
//
// A failed attempt is thrown away whole and the next one starts from an empty
// grid, up to MaxAttempts times.
package grid

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/robalobadob/wordsearch/internal/geom"
	"github.com/robalobadob/wordsearch/internal/rng"
)

// DefaultMaxCandidates is the shortlist size per word.
const DefaultMaxCandidates = 12

var (
	ErrInputTooLarge       = errors.New("word longer than grid")
	ErrGenerationExhausted = errors.New("unable to place all words")
	ErrInvalidWord         = errors.New("word has no letters")
)

// Options tunes Generate. Zero values select the defaults.
type Options struct {
	MaxAttempts   int        // default clamp(wordCount*25, 80, 300)
	MaxCandidates int        // default DefaultMaxCandidates
	Seed          uint64     // 0 = seeded from the clock
	Rand          *rand.Rand // when set, used instead of Seed
}

// Result is a filled grid with the placement of every word.
type Result struct {
	Grid       Grid        `json:"grid"`
	Placements []Placement `json:"placements"`
}

// DefaultMaxAttempts returns the attempt budget for n words.
func DefaultMaxAttempts(n int) int {
	return min(300, max(80, n*25))
}

type entry struct {
	word    string
	letters []string
}

type candidate struct {
	start   geom.Cell
	dir     geom.Direction
	cells   []geom.Cell
	overlap int
}

type frame struct {
	word   int
	cands  []candidate
	next   int
	wrote  []geom.Cell
	placed bool
}

// Generate places every word on a fresh rows x cols grid and fills the rest.
//
// It fails with ErrInputTooLarge when a word is longer than the larger grid
// dimension and with ErrGenerationExhausted when no attempt succeeds.
func Generate(words []string, size Size, opts Options) (Result, error) {
	r := opts.Rand
	if r == nil {
		r = rng.New(opts.Seed)
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts(len(words))
	}
	maxCandidates := opts.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}

	limit := max(size.Rows, size.Cols)
	entries := make([]entry, 0, len(words))
	for _, w := range words {
		letters := Letters(w)
		switch {
		case len(letters) == 0:
			return Result{}, fmt.Errorf("grid: %w: %q", ErrInvalidWord, w)
		case len(letters) > limit:
			return Result{}, fmt.Errorf("grid: %w: %q has %d letters, grid is %dx%d",
				ErrInputTooLarge, w, len(letters), size.Rows, size.Cols)
		}
		entries = append(entries, entry{word: w, letters: letters})
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Compare(len(b.letters), len(a.letters))
	})

	for range maxAttempts {
		if g, placements, ok := attempt(entries, size, maxCandidates, r); ok {
			return Result{Grid: FillEmptyCells(g, r), Placements: placements}, nil
		}
	}
	return Result{}, fmt.Errorf("grid: %w: %d words on %dx%d after %d attempts",
		ErrGenerationExhausted, len(words), size.Rows, size.Cols, maxAttempts)
}

// attempt runs one full backtracking search from an empty grid.
func attempt(entries []entry, size Size, maxCandidates int, r *rand.Rand) (Grid, []Placement, bool) {
	g := New(size)
	placements := make([]Placement, 0, len(entries))
	if len(entries) == 0 {
		return g, placements, true
	}

	stack := make([]frame, 0, len(entries))
	stack = append(stack, frame{word: 0, cands: shortlist(g, entries[0].letters, maxCandidates, r)})
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.placed {
			g.undo(top.wrote)
			placements = placements[:len(placements)-1]
			top.placed = false
		}
		if top.next >= len(top.cands) {
			stack = stack[:len(stack)-1]
			continue
		}

		c := top.cands[top.next]
		top.next++
		e := entries[top.word]
		top.wrote = g.commit(e.letters, c.cells)
		top.placed = true
		placements = append(placements, Placement{Word: e.word, Start: c.start, Dir: c.dir, Cells: c.cells})

		next := top.word + 1
		if next == len(entries) {
			return g, placements, true
		}
		stack = append(stack, frame{word: next, cands: shortlist(g, entries[next].letters, maxCandidates, r)})
	}
	return nil, nil, false
}

// shortlist enumerates legal candidates for letters on g, keeps the
// maxCandidates with the most overlap and shuffles them.
func shortlist(g Grid, letters []string, maxCandidates int, r *rand.Rand) []candidate {
	var cands []candidate
	n := len(letters)
	for row := range g.Rows() {
		for col := range g.Cols() {
			start := geom.Cell{Row: row, Col: col}
			for _, d := range geom.Directions {
				if !g.InBounds(start.Step(d, n-1)) {
					continue
				}
				if c, ok := fit(g, letters, start, d); ok {
					cands = append(cands, c)
				}
			}
		}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(b.overlap, a.overlap)
	})
	cands = cands[:min(maxCandidates, len(cands))]
	r.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
	return cands
}

// fit checks letters against g from start along d and counts reused letters.
func fit(g Grid, letters []string, start geom.Cell, d geom.Direction) (candidate, bool) {
	cells := make([]geom.Cell, len(letters))
	overlap := 0
	for i, l := range letters {
		c := start.Step(d, i)
		switch g[c.Row][c.Col] {
		case "":
		case l:
			overlap++
		default:
			return candidate{}, false
		}
		cells[i] = c
	}
	return candidate{start: start, dir: d, cells: cells, overlap: overlap}, true
}

// commit writes letters into the empty cells along cells and returns the
// cells it wrote.
func (g Grid) commit(letters []string, cells []geom.Cell) []geom.Cell {
	var wrote []geom.Cell
	for i, c := range cells {
		if g[c.Row][c.Col] == "" {
			g[c.Row][c.Col] = letters[i]
			wrote = append(wrote, c)
		}
	}
	return wrote
}

func (g Grid) undo(wrote []geom.Cell) {
	for _, c := range wrote {
		g[c.Row][c.Col] = ""
	}
}
