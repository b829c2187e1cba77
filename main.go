package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/assets"
	"github.com/robalobadob/wordsearch/internal/db"
	"github.com/robalobadob/wordsearch/internal/httpserver"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if getEnv("APP_ENV", "development") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	conn, err := db.Open(getEnv("DB_PATH", "./data/wordsearch.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	migrations, err := assets.Migrations()
	if err != nil {
		log.Fatal().Err(err).Msg("load migrations")
	}
	if err := db.Migrate(context.Background(), conn, migrations); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	wc, err := words.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open word cache")
	}

	mem := store.NewMemoryStore()
	go sweep(mem, time.Hour)

	srv := httpserver.New(mem, conn, wc)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting wordsearch server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// sweep drops expired puzzles every interval.
func sweep(mem *store.Memory, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for range t.C {
		if n := mem.Sweep(); n > 0 {
			log.Debug().Int("evicted", n).Msg("swept expired puzzles")
		}
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
