package words

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordsearch/internal/rng"
	"github.com/robalobadob/wordsearch/internal/viewport"
)

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		// distinct letter-only keys that never contain each other
		out[i] = fmt.Sprintf("%s%c%c", prefix, 'a'+rune(i%26), 'a'+rune(i/26))
	}
	return out
}

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" Cat ", "", "Dog", "Cat", "  ", "dog"})
	want := []string{"Cat", "Dog", "dog"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize (-want +got):\n%s", diff)
	}
}

func TestKeyAndSimilar(t *testing.T) {
	if k := Key("Ice-Cream 2"); k != "icecream" {
		t.Fatalf("Key = %q", k)
	}
	cases := []struct {
		a, b string
		want bool
	}{
		{"cat", "catalog", true},
		{"CATALOG", "cat", true},
		{"ice cream", "icecream", true},
		{"cat", "dog", false},
		{"123", "cat", false},
	}
	for _, tc := range cases {
		if got := Similar(tc.a, tc.b); got != tc.want {
			t.Errorf("Similar(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSelectForViewportQuotas(t *testing.T) {
	pools := Pools{
		Easy:   numbered("e", 20),
		Medium: numbered("m", 20),
		Hard:   numbered("h", 20),
	}
	sel := SelectForViewport(pools, viewport.Desktop, rng.New(1))
	if len(sel.Words) != 12 || sel.Target != 12 || sel.Shortfall() != 0 {
		t.Fatalf("desktop selection = %d words, target %d", len(sel.Words), sel.Target)
	}
	tiers := map[byte]int{}
	for _, w := range sel.Words {
		tiers[w[0]]++
	}
	if tiers['e'] != 6 || tiers['m'] != 4 || tiers['h'] != 2 {
		t.Fatalf("tier mix = %v", tiers)
	}

	sel = SelectForViewport(pools, viewport.Mobile, rng.New(1))
	if len(sel.Words) != 10 {
		t.Fatalf("mobile selection has %d words", len(sel.Words))
	}
	for _, w := range sel.Words {
		if w[0] == 'h' {
			t.Fatalf("mobile selection took hard word %q", w)
		}
	}
}

func TestSelectForViewportRejectsNestedWords(t *testing.T) {
	pools := Pools{
		Easy:   []string{"cat", "catalog", "concat", "dog", "doghouse", "bird", "fish", "fisher", "ant", "pant", "owl", "bowl", "eel"},
		Medium: []string{"tiger", "tigers", "lion", "lioness", "zebra", "hyena", "otter"},
		Hard:   []string{"aardvark", "pangolin"},
	}
	for seed := uint64(1); seed <= 50; seed++ {
		sel := SelectForViewport(pools, viewport.Desktop, rng.New(seed))
		for i, a := range sel.Words {
			for _, b := range sel.Words[i+1:] {
				if Similar(a, b) {
					t.Fatalf("seed %d: selected near-duplicates %q and %q", seed, a, b)
				}
			}
		}
	}
}

func TestSelectForViewportBackfill(t *testing.T) {
	pools := Pools{
		Easy:   numbered("e", 12),
		Medium: numbered("m", 2),
	}
	sel := SelectForViewport(pools, viewport.Tablet, rng.New(4))
	if len(sel.Words) != 10 {
		t.Fatalf("expected medium shortfall backfilled from easy, got %d words", len(sel.Words))
	}

	sel = SelectForViewport(Pools{Easy: numbered("e", 3)}, viewport.Desktop, rng.New(4))
	if len(sel.Words) != 3 || sel.Shortfall() != 9 {
		t.Fatalf("expected 3 words with shortfall 9, got %d (shortfall %d)", len(sel.Words), sel.Shortfall())
	}
}

func TestSelectForViewportDeterministic(t *testing.T) {
	pools := Pools{Easy: numbered("e", 30), Medium: numbered("m", 30), Hard: numbered("h", 30)}
	a := SelectForViewport(pools, viewport.Desktop, rng.New(123))
	b := SelectForViewport(pools, viewport.Desktop, rng.New(123))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed, different selection:\n%s", diff)
	}
}
