// internal/geom/geom.go
//
// Straight-line geometry on a word search grid.
// Defines:
//   - Cell: a zero-indexed (row, col) coordinate.
//   - Direction: one of the 8 compass unit vectors a word may run along.
//   - IsStraightLine / BuildPathCells: turn two drag endpoints into a cell path.
//
// Everything here is pure and allocation-light; it runs on every drag-move event.
package geom

// Cell is a grid coordinate. Value type, compared with ==.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is a named unit step (DR, DC) with DR, DC in {-1, 0, 1}, not both zero.
type Direction struct {
	Name string `json:"name"`
	DR   int    `json:"dr"`
	DC   int    `json:"dc"`
}

// Directions lists the 8 allowed line directions. Order matters only for
// candidate enumeration in the generator, which shuffles ties anyway.
var Directions = [8]Direction{
	{Name: "right", DR: 0, DC: 1},
	{Name: "left", DR: 0, DC: -1},
	{Name: "down", DR: 1, DC: 0},
	{Name: "up", DR: -1, DC: 0},
	{Name: "down-right", DR: 1, DC: 1},
	{Name: "down-left", DR: 1, DC: -1},
	{Name: "up-right", DR: -1, DC: 1},
	{Name: "up-left", DR: -1, DC: -1},
}

// Step returns the cell i steps away from c along d.
func (c Cell) Step(d Direction, i int) Cell {
	return Cell{Row: c.Row + d.DR*i, Col: c.Col + d.DC*i}
}

// DirectionFor looks up the named direction for a unit step.
func DirectionFor(dr, dc int) (Direction, bool) {
	for _, d := range Directions {
		if d.DR == dr && d.DC == dc {
			return d, true
		}
	}
	return Direction{}, false
}

// IsStraightLine reports the direction from start to end when end lies on one
// of the 8 rays out of start (|Δrow| == |Δcol|, or one of them is zero).
//
// start == end has no direction and returns false; BuildPathCells still
// treats it as a trivial one-cell path.
func IsStraightLine(start, end Cell) (Direction, bool) {
	dr := end.Row - start.Row
	dc := end.Col - start.Col
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return Direction{}, false
	}
	return DirectionFor(sign(dr), sign(dc))
}

// BuildPathCells returns every cell from start to end inclusive when they are
// aligned, and nil otherwise. The length is max(|Δrow|, |Δcol|) + 1.
func BuildPathCells(start, end Cell) []Cell {
	if start == end {
		return []Cell{start}
	}
	d, ok := IsStraightLine(start, end)
	if !ok {
		return nil
	}
	n := max(abs(end.Row-start.Row), abs(end.Col-start.Col)) + 1
	cells := make([]Cell, n)
	for i := range n {
		cells[i] = start.Step(d, i)
	}
	return cells
}

// IsLine reports whether cells form a contiguous straight run along one of
// the 8 directions. Single cells count as a line.
func IsLine(cells []Cell) bool {
	if len(cells) <= 1 {
		return true
	}
	d, ok := DirectionFor(cells[1].Row-cells[0].Row, cells[1].Col-cells[0].Col)
	if !ok {
		return false
	}
	for i, c := range cells {
		if c != cells[0].Step(d, i) {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
