package db

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/wordsearch/assets"
)

func TestMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	migrations, err := assets.Migrations()
	if err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := Migrate(ctx, conn, migrations); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
	}

	var n int
	if err := conn.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", n)
	}
	for _, table := range []string{"users", "puzzles", "daily_results"} {
		if _, err := conn.Exec(`SELECT COUNT(1) FROM ` + table); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateBadSQL(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "bad.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	bad := fstest.MapFS{"001_bad.sql": {Data: []byte("CREATE TABLE (")}}
	if err := Migrate(context.Background(), conn, bad); err == nil {
		t.Fatal("expected error for invalid migration")
	}
	var n int
	_ = conn.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n)
	if n != 0 {
		t.Fatalf("failed migration was recorded")
	}
}
