// internal/grid/filler.go
//
// Filler letters for the cells no word uses.
//
// About 30% of empty cells (rounded up) get one of the common letters E A R S T.
// The rest draw from a weighted pool: the alphabet once plus the common
// letters three more times each, so even those cells lean towards E A R S T.
package grid

import (
	"math/rand/v2"

	"github.com/robalobadob/wordsearch/internal/geom"
)

var commonLetters = []string{"E", "A", "R", "S", "T"}

var weightedLetters = func() []string {
	pool := make([]string, 0, 3*len(commonLetters)+26)
	for range 3 {
		pool = append(pool, commonLetters...)
	}
	for c := 'A'; c <= 'Z'; c++ {
		pool = append(pool, string(c))
	}
	return pool
}()

// FillEmptyCells returns a copy of g with every empty cell filled.
// g itself is never modified; non-empty cells are copied unchanged.
func FillEmptyCells(g Grid, r *rand.Rand) Grid {
	out := g.Clone()
	var empty []geom.Cell
	for row := range out {
		for col := range out[row] {
			if out[row][col] == "" {
				empty = append(empty, geom.Cell{Row: row, Col: col})
			}
		}
	}
	if len(empty) == 0 {
		return out
	}

	r.Shuffle(len(empty), func(i, j int) { empty[i], empty[j] = empty[j], empty[i] })
	reserved := (len(empty)*3 + 9) / 10 // ceil(30%)

	for i, c := range empty {
		if i < reserved {
			out[c.Row][c.Col] = commonLetters[r.IntN(len(commonLetters))]
		} else {
			out[c.Row][c.Col] = weightedLetters[r.IntN(len(weightedLetters))]
		}
	}
	return out
}
