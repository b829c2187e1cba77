package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordsearch/assets"
	"github.com/robalobadob/wordsearch/internal/db"
	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/grid"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

type testEnv struct {
	t   *testing.T
	srv *Server
	mem *store.Memory
	ts  *httptest.Server
	c   *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_SECRET", "test_secret")

	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	migrations, err := assets.Migrations()
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Migrate(context.Background(), conn, migrations); err != nil {
		t.Fatal(err)
	}
	wc, err := assets.Wordcache()
	if err != nil {
		t.Fatal(err)
	}

	mem := store.NewMemoryStore()
	srv := New(mem, conn, words.NewCache(wc))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, _ := cookiejar.New(nil)
	return &testEnv{t: t, srv: srv, mem: mem, ts: ts, c: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes the response into out (when non-nil).
func (e *testEnv) do(method, path string, body, out any) int {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			e.t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, e.ts.URL+path, &buf)
	if err != nil {
		e.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := e.c.Do(req)
	if err != nil {
		e.t.Fatal(err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			e.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return res.StatusCode
}

func (e *testEnv) newPuzzle(seed uint64) game.View {
	e.t.Helper()
	var v game.View
	if code := e.do("POST", "/puzzle/new", map[string]any{"category": "animals", "viewport": "mobile", "seed": seed}, &v); code != http.StatusCreated {
		e.t.Fatalf("new puzzle status = %d", code)
	}
	return v
}

func TestHealthAndCategories(t *testing.T) {
	e := newTestEnv(t)
	var health map[string]bool
	if code := e.do("GET", "/health", nil, &health); code != 200 || !health["ok"] {
		t.Fatalf("health = %d %v", code, health)
	}

	var cats struct{ Categories []words.Category }
	if code := e.do("GET", "/categories", nil, &cats); code != 200 {
		t.Fatalf("categories status = %d", code)
	}
	var slugs []string
	for _, c := range cats.Categories {
		slugs = append(slugs, c.Slug)
	}
	if diff := cmp.Diff([]string{"animals", "food"}, slugs); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
}

func TestNewPuzzleErrors(t *testing.T) {
	e := newTestEnv(t)
	cases := []struct {
		name string
		body any
		want int
	}{
		{"missing category", map[string]any{}, http.StatusBadRequest},
		{"unknown category", map[string]any{"category": "planets"}, http.StatusNotFound},
		{"bad viewport", map[string]any{"category": "animals", "viewport": "watch"}, http.StatusBadRequest},
		{"unknown topic", map[string]any{"category": "animals", "topic": "dinosaurs"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.do("POST", "/puzzle/new", tc.body, nil); got != tc.want {
				t.Fatalf("status = %d, want %d", got, tc.want)
			}
		})
	}
	if got := e.do("GET", "/puzzle/nope", nil, nil); got != http.StatusNotFound {
		t.Fatalf("get unknown puzzle = %d", got)
	}
}

func TestSolvePuzzleAsGuest(t *testing.T) {
	e := newTestEnv(t)
	v := e.newPuzzle(42)
	if v.Rows != 10 || v.Cols != 10 || len(v.Grid) != 10 {
		t.Fatalf("mobile grid = %dx%d", v.Rows, v.Cols)
	}
	if v.State != game.StatePlaying || len(v.FoundWords) != 0 {
		t.Fatalf("fresh puzzle state = %s, found %d", v.State, len(v.FoundWords))
	}

	p, err := e.mem.Get(context.Background(), v.ID)
	if err != nil {
		t.Fatal(err)
	}

	// A drag over nothing in particular is a miss, not an error.
	var miss selectRes
	if code := e.do("POST", "/puzzle/select", dragReq{PuzzleID: v.ID}, &miss); code != 200 || miss.Found {
		t.Fatalf("single-cell select = %d %+v", code, miss)
	}

	for i, pl := range p.Placements {
		first, last := pl.Cells[0], pl.Cells[len(pl.Cells)-1]

		var pv game.SelectionPreview
		e.do("POST", "/puzzle/preview", dragReq{PuzzleID: v.ID, Anchor: first, Current: last}, &pv)
		if want := strings.Join(grid.Letters(pl.Word), ""); pv.PreviewText != want {
			t.Fatalf("preview = %q, want %q", pv.PreviewText, want)
		}

		// Alternate drag direction; reversed selections count too.
		req := dragReq{PuzzleID: v.ID, Anchor: first, Current: last}
		if i%2 == 1 {
			req.Anchor, req.Current = last, first
		}
		var res selectRes
		if code := e.do("POST", "/puzzle/select", req, &res); code != 200 {
			t.Fatalf("select %s status = %d", pl.Word, code)
		}
		if !res.Found || res.FoundWord.Word != pl.Word || res.FoundWord.ColorIndex != i%6 {
			t.Fatalf("select %s = %+v", pl.Word, res)
		}
	}

	var done game.View
	e.do("GET", "/puzzle/"+v.ID, nil, &done)
	if done.State != game.StateCompleted || len(done.FoundWords) != len(v.Words) {
		t.Fatalf("after solving: state=%s found=%d/%d", done.State, len(done.FoundWords), len(v.Words))
	}
	if code := e.do("POST", "/puzzle/select", dragReq{PuzzleID: v.ID}, nil); code != http.StatusConflict {
		t.Fatalf("select after completion = %d", code)
	}

	var status string
	var found int
	if err := e.srv.db.QueryRow(`SELECT status, words_found FROM puzzles WHERE id=?`, v.ID).Scan(&status, &found); err != nil {
		t.Fatal(err)
	}
	if status != "completed" || found != len(v.Words) {
		t.Fatalf("history row = %s/%d", status, found)
	}
}

func TestAuthFlowClaimsGuestPuzzles(t *testing.T) {
	e := newTestEnv(t)
	guest := e.newPuzzle(7)

	creds := credentials{Username: "ada_l", Password: "correct horse"}
	if code := e.do("POST", "/auth/signup", creds, nil); code != http.StatusCreated {
		t.Fatalf("signup = %d", code)
	}
	if code := e.do("POST", "/auth/signup", creds, nil); code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d", code)
	}
	if code := e.do("POST", "/auth/signup", credentials{Username: "x", Password: "short"}, nil); code != http.StatusBadRequest {
		t.Fatalf("invalid signup = %d", code)
	}

	var me authUser
	if code := e.do("GET", "/auth/me", nil, &me); code != 200 || me.Username != "ada_l" {
		t.Fatalf("me = %d %+v", code, me)
	}

	var mine []puzzleRow
	e.do("GET", "/puzzles/mine", nil, &mine)
	if len(mine) != 1 || mine[0].ID != guest.ID {
		t.Fatalf("claimed puzzles = %+v", mine)
	}

	e.newPuzzle(8)
	e.newPuzzle(9)
	var stats map[string]int
	e.do("GET", "/stats/me", nil, &stats)
	want := map[string]int{"puzzlesPlayed": 2, "puzzlesCompleted": 0, "streak": 0}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}

	e.do("POST", "/auth/logout", nil, nil)
	if code := e.do("GET", "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d", code)
	}
	if code := e.do("POST", "/auth/login", credentials{Username: "ada_l", Password: "wrong password"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", code)
	}
	if code := e.do("POST", "/auth/login", creds, nil); code != 200 {
		t.Fatalf("login = %d", code)
	}
	e.do("GET", "/puzzles/mine", nil, &mine)
	if len(mine) != 3 {
		t.Fatalf("puzzles after login = %d", len(mine))
	}
}

func TestCompletingBumpsStats(t *testing.T) {
	e := newTestEnv(t)
	e.do("POST", "/auth/signup", credentials{Username: "grace", Password: "hunter2hunter2"}, nil)

	v := e.newPuzzle(11)
	p, _ := e.mem.Get(context.Background(), v.ID)
	for _, pl := range p.Placements {
		e.do("POST", "/puzzle/select", dragReq{PuzzleID: v.ID, Anchor: pl.Cells[0], Current: pl.Cells[len(pl.Cells)-1]}, nil)
	}

	var stats map[string]int
	e.do("GET", "/stats/me", nil, &stats)
	want := map[string]int{"puzzlesPlayed": 1, "puzzlesCompleted": 1, "streak": 1}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
}

func TestDailyFlow(t *testing.T) {
	e := newTestEnv(t)

	var first, again dailyNewRes
	if code := e.do("POST", "/daily/new", dailyNewReq{Viewport: "mobile"}, &first); code != 200 || first.Puzzle == nil {
		t.Fatalf("daily new = %d %+v", code, first)
	}
	e.do("POST", "/daily/new", dailyNewReq{Viewport: "mobile"}, &again)
	if again.Puzzle == nil || again.Puzzle.ID != first.Puzzle.ID {
		t.Fatalf("daily new should reuse the session")
	}

	var fin dailyFinishRes
	if code := e.do("POST", "/daily/finish", dailyFinishReq{PuzzleID: first.Puzzle.ID}, &fin); code != 200 {
		t.Fatalf("finish = %d", code)
	}
	if fin.Date != first.Date || fin.WordsFound != 0 {
		t.Fatalf("finish = %+v", fin)
	}
	if code := e.do("POST", "/daily/finish", dailyFinishReq{PuzzleID: first.Puzzle.ID}, nil); code != http.StatusConflict {
		t.Fatalf("second finish = %d", code)
	}

	var played dailyNewRes
	e.do("POST", "/daily/new", dailyNewReq{}, &played)
	if !played.Played || played.Puzzle != nil {
		t.Fatalf("after finishing: %+v", played)
	}

	var lb lbRes
	e.do("GET", "/daily/leaderboard", nil, &lb)
	if lb.Date != first.Date || len(lb.Top) != 1 {
		t.Fatalf("leaderboard = %+v", lb)
	}
}

func TestDailySameBoardForEveryone(t *testing.T) {
	a, b := newTestEnv(t), newTestEnv(t)
	var ra, rb dailyNewRes
	a.do("POST", "/daily/new", dailyNewReq{Viewport: "tablet"}, &ra)
	b.do("POST", "/daily/new", dailyNewReq{Viewport: "tablet"}, &rb)
	if ra.Puzzle == nil || rb.Puzzle == nil {
		t.Fatal("missing daily puzzle")
	}
	if diff := cmp.Diff(ra.Puzzle.Grid, rb.Puzzle.Grid); diff != "" {
		t.Errorf("daily grids differ (-a +b):\n%s", diff)
	}
}
