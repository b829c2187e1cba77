package daily

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordsearch/assets"
	"github.com/robalobadob/wordsearch/internal/db"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "daily.db"))
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
	return NewStore(conn)
}

func TestStoreResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	const date = "2026-03-14"

	results := []Result{
		{UserID: "slow", Date: date, PuzzleID: "p1", WordsFound: 12, ElapsedMs: 90000},
		{UserID: "fast", Date: date, PuzzleID: "p2", WordsFound: 12, ElapsedMs: 45000},
		{UserID: "quitter", Date: date, PuzzleID: "p3", WordsFound: 4, ElapsedMs: 1000},
		{UserID: "fast", Date: "2026-03-13", PuzzleID: "p4", WordsFound: 12, ElapsedMs: 1},
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult(%s): %v", r.UserID, err)
		}
	}
	// Second result for the same day is ignored.
	if err := s.InsertResult(ctx, Result{UserID: "slow", Date: date, PuzzleID: "p5", WordsFound: 12, ElapsedMs: 10}); err != nil {
		t.Fatal(err)
	}

	played, err := s.AlreadyPlayed(ctx, "fast", date)
	if err != nil || !played {
		t.Fatalf("AlreadyPlayed(fast) = %v, %v", played, err)
	}
	if played, _ := s.AlreadyPlayed(ctx, "quitter", "2026-03-13"); played {
		t.Fatal("quitter did not play on the 13th")
	}

	got, err := s.Leaderboard(ctx, date, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []LBRow{
		{UserID: "fast", WordsFound: 12, ElapsedMs: 45000},
		{UserID: "slow", WordsFound: 12, ElapsedMs: 90000},
		{UserID: "quitter", WordsFound: 4, ElapsedMs: 1000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("leaderboard (-want +got):\n%s", diff)
	}

	top, _ := s.Leaderboard(ctx, date, 1)
	if len(top) != 1 || top[0].UserID != "fast" {
		t.Fatalf("limit 1 = %+v", top)
	}
}
