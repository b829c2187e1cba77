// internal/game/types.go
//
// Core type definitions for a word search round.
// Defines:
//   - Puzzle: one generated round; fixed after Build except for FoundWords.
//   - FoundWord: a placement the player has located, with its highlight colour.
//   - SelectionPreview: the straight path under an in-progress drag.
//   - View: what a client is allowed to see of a Puzzle.

package game

import (
	"sync"
	"time"

	"github.com/robalobadob/wordsearch/internal/geom"
	"github.com/robalobadob/wordsearch/internal/grid"
	"github.com/robalobadob/wordsearch/internal/viewport"
	"github.com/robalobadob/wordsearch/internal/words"
)

// State is a coarse puzzle status.
type State string

const (
	StatePlaying   State = "playing"
	StateCompleted State = "completed"
)

// foundColors is the size of the client's highlight palette.
const foundColors = 6

// FoundWord records one located word.
type FoundWord struct {
	Word       string         `json:"word"`
	Placement  grid.Placement `json:"placement"`
	ColorIndex int            `json:"colorIndex"` // len(found so far) % 6
}

// SelectionPreview is recomputed on every drag move and dropped on release.
type SelectionPreview struct {
	Anchor      geom.Cell   `json:"anchor"`
	Current     geom.Cell   `json:"current"`
	PathCells   []geom.Cell `json:"pathCells"`   // empty when not aligned
	PreviewText string      `json:"previewText"` // letters along PathCells
}

// Puzzle holds one round. Everything but FoundWords is immutable after Build;
// FoundWords only grows, guarded by mu.
type Puzzle struct {
	ID         string           `json:"puzzleId"`
	Category   words.Category   `json:"category"`
	TopicSlug  string           `json:"topicSlug"`
	TopicLabel string           `json:"topicLabel"`
	Viewport   viewport.Class   `json:"viewport"`
	Rows       int              `json:"gridRows"`
	Cols       int              `json:"gridCols"`
	Words      []string         `json:"words"`
	Grid       grid.Grid        `json:"grid"`
	Placements []grid.Placement `json:"placements"`
	FoundWords []FoundWord      `json:"foundWords"`
	Facts      []string         `json:"facts"`
	Seed       uint64           `json:"seed"`
	CreatedAt  time.Time        `json:"createdAt"`

	mu sync.Mutex
}

// View is the client-facing projection of a Puzzle: placements of words not
// yet found stay hidden.
type View struct {
	ID         string         `json:"puzzleId"`
	Category   words.Category `json:"category"`
	TopicSlug  string         `json:"topicSlug"`
	TopicLabel string         `json:"topicLabel"`
	Rows       int            `json:"gridRows"`
	Cols       int            `json:"gridCols"`
	Words      []string       `json:"words"`
	Grid       grid.Grid      `json:"grid"`
	FoundWords []FoundWord    `json:"foundWords"`
	Facts      []string       `json:"facts"`
	State      State          `json:"state"`
}
