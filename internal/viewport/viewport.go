// internal/viewport/viewport.go
//
// Coarse screen-size classes and the puzzle shape each one gets.
//
//   class    width       grid    words (easy/medium/hard)
//   mobile   < 768px     10x10   6 / 4 / 0
//   tablet   < 1024px    12x12   6 / 4 / 0
//   desktop  >= 1024px   15x15   6 / 4 / 2
package viewport

import (
	"fmt"
	"strings"
)

// Class is a viewport category.
type Class string

const (
	Mobile  Class = "mobile"
	Tablet  Class = "tablet"
	Desktop Class = "desktop"
)

// Size is a grid shape in cells.
type Size struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Mix is the number of words drawn from each difficulty tier.
type Mix struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Total is the target word count.
func (m Mix) Total() int { return m.Easy + m.Medium + m.Hard }

// FromWidth classifies a viewport width in CSS pixels.
func FromWidth(px int) Class {
	switch {
	case px < 768:
		return Mobile
	case px < 1024:
		return Tablet
	}
	return Desktop
}

// Parse accepts a class name (case-insensitive).
func Parse(s string) (Class, error) {
	switch c := Class(strings.ToLower(strings.TrimSpace(s))); c {
	case Mobile, Tablet, Desktop:
		return c, nil
	}
	return "", fmt.Errorf("viewport: unknown class %q", s)
}

// GridSize returns the grid shape for c. Unknown classes get the desktop grid.
func GridSize(c Class) Size {
	switch c {
	case Mobile:
		return Size{Rows: 10, Cols: 10}
	case Tablet:
		return Size{Rows: 12, Cols: 12}
	}
	return Size{Rows: 15, Cols: 15}
}

// WordMix returns the per-tier word quota for c.
func WordMix(c Class) Mix {
	switch c {
	case Mobile, Tablet:
		return Mix{Easy: 6, Medium: 4, Hard: 0}
	}
	return Mix{Easy: 6, Medium: 4, Hard: 2}
}
