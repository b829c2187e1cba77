package grid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/robalobadob/wordsearch/internal/geom"
)

// Verify checks that every placement lies inside g, runs in a straight line
// and spells its word. Shared cells are checked implicitly: two placements
// that disagree on a letter cannot both spell their words.
func Verify(g Grid, placements []Placement) error {
	for _, p := range placements {
		letters := Letters(p.Word)
		if len(p.Cells) != len(letters) {
			return fmt.Errorf("grid: placement %q has %d cells for %d letters", p.Word, len(p.Cells), len(letters))
		}
		if slices.ContainsFunc(p.Cells, func(c geom.Cell) bool { return !g.InBounds(c) }) {
			return fmt.Errorf("grid: placement %q leaves the grid", p.Word)
		}
		if !geom.IsLine(p.Cells) {
			return fmt.Errorf("grid: placement %q is not a straight line", p.Word)
		}
		if got, want := g.Spell(p.Cells), strings.Join(letters, ""); got != want {
			return fmt.Errorf("grid: placement %q spells %q", p.Word, got)
		}
	}
	return nil
}
