// internal/game/engine.go
//
// Play-time logic for a generated puzzle.
// Responsibilities:
//   - Turn drag endpoints into a SelectionPreview (path + spelled text).
//   - Match a committed path against unfound placements, forward or reversed.
//   - Append FoundWords and report playing → completed.
//
// Notes:
//   - A path of one cell (or an unaligned drag, which yields no path) is a
//     no-op cancel, never a miss.
//   - Matching scans placements in generation order and returns the first hit.
package game

import (
	"errors"
	"slices"

	"github.com/robalobadob/wordsearch/internal/geom"
	"github.com/robalobadob/wordsearch/internal/grid"
)

// ErrPuzzleComplete is returned when committing on a finished puzzle.
var ErrPuzzleComplete = errors.New("puzzle already complete")

// SelectionPreviewFor computes the preview for a drag from anchor to current.
func SelectionPreviewFor(g grid.Grid, anchor, current geom.Cell) SelectionPreview {
	path := geom.BuildPathCells(anchor, current)
	if path == nil {
		path = []geom.Cell{}
	}
	return SelectionPreview{
		Anchor:      anchor,
		Current:     current,
		PathCells:   path,
		PreviewText: g.Spell(path),
	}
}

// FindMatchingPlacement returns the first placement whose word is not in
// found and whose cells equal path forward or reversed.
func FindMatchingPlacement(path []geom.Cell, placements []grid.Placement, found []string) (grid.Placement, bool) {
	for _, p := range placements {
		if slices.Contains(found, p.Word) {
			continue
		}
		if samePath(path, p.Cells) || reversePath(path, p.Cells) {
			return p, true
		}
	}
	return grid.Placement{}, false
}

func samePath(a, b []geom.Cell) bool {
	return slices.Equal(a, b)
}

func reversePath(a, b []geom.Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i, c := range a {
		if c != b[len(b)-1-i] {
			return false
		}
	}
	return true
}

// Preview is SelectionPreviewFor on this puzzle's grid.
func (p *Puzzle) Preview(anchor, current geom.Cell) SelectionPreview {
	return SelectionPreviewFor(p.Grid, anchor, current)
}

// Commit resolves a drag from anchor to current. See CommitSelection.
func (p *Puzzle) Commit(anchor, current geom.Cell) (*FoundWord, State, error) {
	return p.CommitSelection(geom.BuildPathCells(anchor, current))
}

// CommitSelection checks path against the puzzle.
// Returns the new FoundWord on a match, nil on a miss or a no-op cancel,
// and the puzzle state after the commit.
func (p *Puzzle) CommitSelection(path []geom.Cell) (*FoundWord, State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.complete() {
		return nil, StateCompleted, ErrPuzzleComplete
	}
	if len(path) <= 1 {
		return nil, p.state(), nil
	}

	found := make([]string, len(p.FoundWords))
	for i, f := range p.FoundWords {
		found[i] = f.Word
	}
	match, ok := FindMatchingPlacement(path, p.Placements, found)
	if !ok {
		return nil, p.state(), nil
	}

	fw := FoundWord{Word: match.Word, Placement: match, ColorIndex: len(p.FoundWords) % foundColors}
	p.FoundWords = append(p.FoundWords, fw)
	return &fw, p.state(), nil
}

// IsComplete reports whether every word has been found. A puzzle without
// words is never complete.
func (p *Puzzle) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.complete()
}

// State reports playing or completed.
func (p *Puzzle) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state()
}

// Found returns a copy of the found words so far.
func (p *Puzzle) Found() []FoundWord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.FoundWords)
}

// View returns the client projection of p.
func (p *Puzzle) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	found := slices.Clone(p.FoundWords)
	if found == nil {
		found = []FoundWord{}
	}
	return View{
		ID:         p.ID,
		Category:   p.Category,
		TopicSlug:  p.TopicSlug,
		TopicLabel: p.TopicLabel,
		Rows:       p.Rows,
		Cols:       p.Cols,
		Words:      p.Words,
		Grid:       p.Grid,
		FoundWords: found,
		Facts:      p.Facts,
		State:      p.state(),
	}
}

func (p *Puzzle) complete() bool {
	return len(p.Words) > 0 && len(p.FoundWords) >= len(p.Words)
}

func (p *Puzzle) state() State {
	if p.complete() {
		return StateCompleted
	}
	return StatePlaying
}
