// internal/grid/grid.go
//
// Letter grid and placement types shared by the generator and the matcher.
//
// A Grid is rows x cols single-letter strings. During generation "" marks an
// empty cell; after FillEmptyCells every cell holds one uppercase letter.
package grid

import (
	"strings"
	"unicode"

	"github.com/robalobadob/wordsearch/internal/geom"
)

// Size is a grid shape in cells.
type Size struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Grid is a row-major letter matrix. Empty cells are "".
type Grid [][]string

// Placement is one word fixed on the grid.
type Placement struct {
	Word  string         `json:"word"`
	Start geom.Cell      `json:"start"`
	Dir   geom.Direction `json:"dir"`
	Cells []geom.Cell    `json:"cells"`
}

// New returns an empty grid of the given size.
func New(size Size) Grid {
	g := make(Grid, size.Rows)
	for r := range g {
		g[r] = make([]string, size.Cols)
	}
	return g
}

// Rows returns the row count.
func (g Grid) Rows() int { return len(g) }

// Cols returns the column count (0 for an empty grid).
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// InBounds reports whether c is inside the grid.
func (g Grid) InBounds(c geom.Cell) bool {
	return c.Row >= 0 && c.Row < len(g) && c.Col >= 0 && c.Col < len(g[c.Row])
}

// At returns the letter at c, or "" when c is out of bounds.
func (g Grid) At(c geom.Cell) string {
	if !g.InBounds(c) {
		return ""
	}
	return g[c.Row][c.Col]
}

// Spell concatenates the letters along cells. Out-of-bounds cells contribute nothing.
func (g Grid) Spell(cells []geom.Cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(g.At(c))
	}
	return b.String()
}

// Clone deep-copies g.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]string(nil), row...)
	}
	return out
}

// String renders one line per row, with "." for empty cells.
func (g Grid) String() string {
	lines := make([]string, len(g))
	for r, row := range g {
		var b strings.Builder
		for c, s := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			if s == "" {
				s = "."
			}
			b.WriteString(s)
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Letters returns the grid letters of a word: its letters upper-cased, with
// spaces, hyphens and other non-letters dropped.
func Letters(word string) []string {
	out := make([]string, 0, len(word))
	for _, r := range word {
		if unicode.IsLetter(r) {
			out = append(out, string(unicode.ToUpper(r)))
		}
	}
	return out
}
