// internal/words/words.go
//
// Word selection for a puzzle round.
//
// Responsibilities:
//   - Normalize difficulty-tier pools (trim, drop empties, de-duplicate).
//   - Sample each tier's quota for a viewport, rejecting near-duplicates.
//   - Backfill any shortfall from easy, then medium, then hard.
//
// Near-duplicate rule:
//   Two words clash when the letters-only lowercase form of one is a substring
//   of the other ("cat" vs "catalog", "ice cream" vs "icecream"). Words with no
//   letters at all are dropped.
//
// All sampling goes through the caller's *rand.Rand, so a fixed seed always
// yields the same selection.
package words

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordsearch/internal/rng"
	"github.com/robalobadob/wordsearch/internal/viewport"
)

// Difficulty names a word tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Pools holds the candidate words per tier. Hard may be empty.
type Pools struct {
	Easy   []string
	Medium []string
	Hard   []string
}

// Selection is the outcome of SelectForViewport. Words may be shorter than
// Target when the pools run dry.
type Selection struct {
	Words  []string `json:"words"`
	Target int      `json:"target"`
}

// Shortfall is how many words are missing from the target.
func (s Selection) Shortfall() int { return max(0, s.Target-len(s.Words)) }

// selector tracks what has been picked so far.
type selector struct {
	r      *rand.Rand
	used   mapset.Set[string]
	picked []string
	keys   []string // letters-only lowercase forms of picked
}

// SelectForViewport picks the word set for one puzzle on viewport c.
func SelectForViewport(p Pools, c viewport.Class, r *rand.Rand) Selection {
	mix := viewport.WordMix(c)
	easy, medium, hard := Normalize(p.Easy), Normalize(p.Medium), Normalize(p.Hard)

	s := &selector{r: r, used: mapset.New[string]()}
	s.take(easy, mix.Easy)
	s.take(medium, mix.Medium)
	if mix.Hard > 0 {
		s.take(hard, mix.Hard)
	}

	target := mix.Total()
	s.take(easy, target-len(s.picked))
	s.take(medium, target-len(s.picked))
	if mix.Hard > 0 {
		s.take(hard, target-len(s.picked))
	}
	return Selection{Words: s.picked, Target: target}
}

// take samples up to count words from source that are unused and do not
// clash with anything already picked.
func (s *selector) take(source []string, count int) {
	if count <= 0 {
		return
	}
	added := 0
	for _, w := range rng.Shuffle(s.r, source) {
		if added == count {
			return
		}
		if s.used.Has(w) {
			continue
		}
		key := Key(w)
		if key == "" || s.clashes(key) {
			continue
		}
		s.used.Put(w)
		s.picked = append(s.picked, w)
		s.keys = append(s.keys, key)
		added++
	}
}

func (s *selector) clashes(key string) bool {
	for _, k := range s.keys {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			return true
		}
	}
	return false
}

// Normalize trims words, drops empties and removes exact duplicates,
// keeping first-seen order.
func Normalize(list []string) []string {
	seen := mapset.New[string]()
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.TrimSpace(w)
		if w == "" || seen.Has(w) {
			continue
		}
		seen.Put(w)
		out = append(out, w)
	}
	return out
}

// Key is the letters-only lowercase form used for the near-duplicate check.
func Key(w string) string {
	var b strings.Builder
	for _, r := range w {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Similar reports whether a and b clash under the near-duplicate rule.
func Similar(a, b string) bool {
	ka, kb := Key(a), Key(b)
	if ka == "" || kb == "" {
		return false
	}
	return strings.Contains(ka, kb) || strings.Contains(kb, ka)
}
