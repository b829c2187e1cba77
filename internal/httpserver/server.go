// internal/httpserver/server.go
//
// HTTP server wiring for the word search backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/categories".
//   - Puzzle endpoints (optional auth): POST /puzzle/new, GET /puzzle/{id},
//     POST /puzzle/preview, POST /puzzle/select.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /puzzles/mine.
//
// Notes:
//   - Live puzzles sit in the Store; SQLite keeps only the history rows
//     (owner, topic, progress) and user stats.
//   - A placement is only ever sent to the client once its word is found.
//   - History writes are best effort: failures are logged, never returned.

package httpserver

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/geom"
	"github.com/robalobadob/wordsearch/internal/grid"
	"github.com/robalobadob/wordsearch/internal/rng"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/viewport"
	"github.com/robalobadob/wordsearch/internal/words"
)

// visibleCategories is how many categories GET /categories?shuffle=1 returns.
const visibleCategories = 7

// Server bundles router, live puzzle store, word cache and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	words *words.Cache
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, wc *words.Cache) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, words: wc}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // zerolog access line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordsearch-go","endpoints":["/health","/categories","POST /puzzle/new","POST /puzzle/select","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/categories", s.handleCategories)

	// Puzzle endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/puzzle/new", s.handleNewPuzzle)
		r.Get("/puzzle/{id}", s.handleGetPuzzle)
		r.Post("/puzzle/preview", s.handlePreview)
		r.Post("/puzzle/select", s.handleSelect)
	})

	// Daily Challenge: OPTIONAL AUTH (guests can play; result persisted on finish)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "not_found", http.StatusNotFound)
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ---------------------------- categories -----------------------------------

// handleCategories lists categories; ?shuffle=1 returns a random handful.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.words.Categories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load categories")
		jsonError(w, "categories_unavailable", http.StatusInternalServerError)
		return
	}
	if r.URL.Query().Get("shuffle") == "1" {
		cats = rng.Sample(rng.New(0), cats, visibleCategories)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"categories": cats})
}

// ------------------------------ PUZZLE -------------------------------------

// newPuzzleReq is the payload for POST /puzzle/new.
// Viewport wins over Width; with neither the desktop layout is used.
type newPuzzleReq struct {
	Category string `json:"category"`
	Topic    string `json:"topic"`
	Viewport string `json:"viewport"`
	Width    int    `json:"width"`
	Seed     uint64 `json:"seed"`
}

// resolveViewport picks the viewport class from an explicit name or a width.
func resolveViewport(name string, width int) (viewport.Class, error) {
	switch {
	case name != "":
		return viewport.Parse(name)
	case width > 0:
		return viewport.FromWidth(width), nil
	}
	return viewport.Desktop, nil
}

// buildError maps puzzle assembly failures onto HTTP responses.
func buildError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, words.ErrUnknownCategory):
		jsonError(w, "unknown_category", http.StatusNotFound)
	case errors.Is(err, fs.ErrNotExist):
		jsonError(w, "unknown_topic", http.StatusNotFound)
	case errors.Is(err, game.ErrNoTopics):
		jsonError(w, "no_topics", http.StatusUnprocessableEntity)
	case errors.Is(err, grid.ErrInputTooLarge), errors.Is(err, grid.ErrGenerationExhausted), errors.Is(err, grid.ErrInvalidWord):
		log.Warn().Err(err).Msg("generate puzzle")
		jsonError(w, "generation_failed", http.StatusUnprocessableEntity)
	default:
		log.Error().Err(err).Msg("build puzzle")
		jsonError(w, "build_failed", http.StatusInternalServerError)
	}
}

// handleNewPuzzle builds a puzzle, keeps it in the store and records an
// owner row (user_id or anonymous_id) for history/stats.
func (s *Server) handleNewPuzzle(w http.ResponseWriter, r *http.Request) {
	var req newPuzzleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Category == "" {
		jsonError(w, "category_required", http.StatusBadRequest)
		return
	}
	vp, err := resolveViewport(req.Viewport, req.Width)
	if err != nil {
		jsonError(w, "invalid_viewport", http.StatusBadRequest)
		return
	}
	cat, err := s.words.Category(r.Context(), req.Category)
	if err != nil {
		buildError(w, err)
		return
	}

	p, err := game.Build(r.Context(), s.words, game.BuildParams{
		Category:  cat,
		Viewport:  vp,
		TopicSlug: req.Topic,
		Seed:      req.Seed,
	})
	if err != nil {
		buildError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), p); err != nil {
		log.Error().Err(err).Msg("save puzzle")
		jsonError(w, "save_failed", http.StatusInternalServerError)
		return
	}
	s.recordNewPuzzle(w, r, p)

	log.Debug().Str("puzzleId", p.ID).Str("topic", p.TopicSlug).Int("words", len(p.Words)).Msg("puzzle built")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p.View())
}

// handleGetPuzzle returns the client view of a live puzzle.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "not_found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(p.View())
}

// dragReq carries the two ends of a drag gesture.
type dragReq struct {
	PuzzleID string    `json:"puzzleId"`
	Anchor   geom.Cell `json:"anchor"`
	Current  geom.Cell `json:"current"`
}

// handlePreview returns the straight path and text under a drag.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req dragReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "bad_json", http.StatusBadRequest)
		return
	}
	p, err := s.store.Get(r.Context(), req.PuzzleID)
	if err != nil {
		jsonError(w, "not_found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(p.Preview(req.Anchor, req.Current))
}

// selectRes is the payload for POST /puzzle/select.
type selectRes struct {
	Found      bool            `json:"found"`
	FoundWord  *game.FoundWord `json:"foundWord,omitempty"`
	State      game.State      `json:"state"`
	FoundCount int             `json:"foundCount"`
}

// handleSelect commits a drag. A match appends a found word; completing the
// puzzle finishes its history row and bumps the owner's stats.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req dragReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "bad_json", http.StatusBadRequest)
		return
	}
	p, err := s.store.Get(r.Context(), req.PuzzleID)
	if err != nil {
		jsonError(w, "not_found", http.StatusNotFound)
		return
	}
	fw, state, err := p.Commit(req.Anchor, req.Current)
	if errors.Is(err, game.ErrPuzzleComplete) {
		jsonError(w, "puzzle_complete", http.StatusConflict)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	found := len(p.Found())
	if fw != nil {
		s.recordProgress(w, r, p.ID, found, state)
	}
	_ = json.NewEncoder(w).Encode(selectRes{Found: fw != nil, FoundWord: fw, State: state, FoundCount: found})
}

// ---------------------------- history rows ---------------------------------

// owner returns the WHERE clause and argument identifying the caller's rows.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (clause string, arg any, me *authUser) {
	if me := currentUser(r); me != nil {
		return `user_id=?`, me.ID, me
	}
	return `anonymous_id=?`, s.ensureAnonID(w, r), nil
}

// recordNewPuzzle inserts the history row and, for signed-in users, counts
// the puzzle as played. Starting over before finishing resets the streak.
func (s *Server) recordNewPuzzle(w http.ResponseWriter, r *http.Request, p *game.Puzzle) {
	now := time.Now().UTC().Format(time.RFC3339)
	me := currentUser(r)

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin puzzle row")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if me != nil {
		var unfinished int
		_ = tx.QueryRow(`SELECT COUNT(1) FROM puzzles WHERE user_id=? AND status='playing'`, me.ID).Scan(&unfinished)
		if unfinished > 0 {
			if _, err := tx.Exec(`UPDATE users SET streak=0 WHERE id=?`, me.ID); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("reset streak")
			}
			if _, err := tx.Exec(`UPDATE puzzles SET status='abandoned' WHERE user_id=? AND status='playing'`, me.ID); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("abandon puzzles")
			}
		}
		if _, err := tx.Exec(`INSERT INTO puzzles (id, user_id, category, topic, word_count, started_at)
		                      VALUES (?,?,?,?,?,?)`, p.ID, me.ID, p.Category.Slug, p.TopicSlug, len(p.Words), now); err != nil {
			log.Warn().Err(err).Str("puzzleId", p.ID).Msg("insert user puzzle row")
		}
		if _, err := tx.Exec(`UPDATE users SET puzzles_played = puzzles_played + 1 WHERE id=?`, me.ID); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump played")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		if _, err := tx.Exec(`INSERT INTO puzzles (id, anonymous_id, category, topic, word_count, started_at)
		                      VALUES (?,?,?,?,?,?)`, p.ID, anon, p.Category.Slug, p.TopicSlug, len(p.Words), now); err != nil {
			log.Warn().Err(err).Str("puzzleId", p.ID).Msg("insert anon puzzle row")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit puzzle row")
	}
}

// recordProgress updates words_found and, on completion, closes the row and
// bumps the owner's stats.
func (s *Server) recordProgress(w http.ResponseWriter, r *http.Request, puzzleID string, found int, state game.State) {
	clause, arg, me := s.owner(w, r)

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin progress")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE puzzles SET words_found=? WHERE id=? AND `+clause, found, puzzleID, arg); err != nil {
		log.Warn().Err(err).Msg("update words_found")
	}
	if state == game.StateCompleted {
		res, err := tx.Exec(`UPDATE puzzles SET status='completed', finished_at=? WHERE id=? AND status='playing' AND `+clause,
			time.Now().UTC().Format(time.RFC3339), puzzleID, arg)
		if err != nil {
			log.Warn().Err(err).Msg("finish puzzle")
		}
		if n, _ := rowsAffected(res); n > 0 && me != nil {
			if err := bumpStats(tx, me.ID); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit progress")
	}
}

func rowsAffected(res sql.Result) (int64, error) {
	if res == nil {
		return 0, nil
	}
	return res.RowsAffected()
}

// bumpStats counts a completed puzzle and extends the streak (within tx).
func bumpStats(tx *sql.Tx, userID string) error {
	_, err := tx.Exec(`UPDATE users SET puzzles_completed = puzzles_completed + 1, streak = streak + 1 WHERE id=?`, userID)
	return err
}

// ------------------------------- small util --------------------------------

// jsonError writes {"error": msg} with the given status.
func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// genID creates a 22‑char URL‑safe, crypto‑random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
