// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (creates or reuses session)
//   - POST /daily/finish      → record words found + elapsed time for today
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each user can finish once per day (enforced by DB + in-memory session).
// Category and grid are derived from date + salt, so everyone on the same
// viewport gets the same board.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily puzzle.
type dailySession struct {
	PuzzleID string
	UserID   string
	Date     string
	Start    time.Time
	Finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		now:      time.Now,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/finish", dd.handleFinish)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userID returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewReq struct {
	Viewport string `json:"viewport"`
	Width    int    `json:"width"`
}

// dailyNewRes is returned by /daily/new. Puzzle is omitted once played.
type dailyNewRes struct {
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Puzzle *game.View `json:"puzzle,omitempty"`
}

// handleNew builds (or reuses) today's puzzle for the caller.
// - If the caller already has a DB row for today → Played=true.
// - Otherwise reuse a live session or build the seeded puzzle.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	var req dailyNewReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	vp, err := resolveViewport(req.Viewport, req.Width)
	if err != nil {
		jsonError(w, "invalid_viewport", http.StatusBadRequest)
		return
	}

	now := d.now().UTC()
	date := daily.DateKey(now)
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if ok {
		if p, err := d.srv.store.Get(r.Context(), sess.PuzzleID); err == nil {
			v := p.View()
			_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: sess.Finished, Puzzle: &v})
			return
		}
	}

	cats, err := d.srv.words.Categories(r.Context())
	if err != nil || len(cats) == 0 {
		log.Error().Err(err).Msg("daily categories")
		jsonError(w, "categories_unavailable", http.StatusInternalServerError)
		return
	}
	seed := daily.Seed(now, d.salt)
	p, err := game.Build(r.Context(), d.srv.words, game.BuildParams{
		Category: cats[daily.Index(seed, len(cats))],
		Viewport: vp,
		Seed:     seed,
	})
	if err != nil {
		buildError(w, err)
		return
	}
	if err := d.srv.store.Save(r.Context(), p); err != nil {
		jsonError(w, "save_failed", http.StatusInternalServerError)
		return
	}

	d.mu.Lock()
	d.sessions[key] = &dailySession{PuzzleID: p.ID, UserID: uid, Date: date, Start: d.now()}
	d.mu.Unlock()

	v := p.View()
	_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Puzzle: &v})
}

// -----------------------------------------------------------------------------
// /daily/finish

type dailyFinishReq struct {
	PuzzleID string `json:"puzzleId"`
}

type dailyFinishRes struct {
	Date       string     `json:"date"`
	WordsFound int        `json:"wordsFound"`
	ElapsedMs  int        `json:"elapsedMs"`
	State      game.State `json:"state"`
}

// handleFinish records the caller's result for today. Words are found through
// POST /puzzle/select; this only closes the session. A second call is a 409.
func (d *dailyServer) handleFinish(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	var req dailyFinishReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PuzzleID == "" {
		jsonError(w, "bad_json", http.StatusBadRequest)
		return
	}

	date := daily.DateKey(d.now().UTC())
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.PuzzleID != req.PuzzleID {
		d.mu.Unlock()
		jsonError(w, "no_session", http.StatusConflict)
		return
	}
	if sess.Finished {
		d.mu.Unlock()
		jsonError(w, "already_finished", http.StatusConflict)
		return
	}
	sess.Finished = true
	start := sess.Start
	d.mu.Unlock()

	p, err := d.srv.store.Get(r.Context(), req.PuzzleID)
	if err != nil {
		jsonError(w, "not_found", http.StatusNotFound)
		return
	}
	res := daily.Result{
		UserID:     uid,
		Date:       date,
		PuzzleID:   p.ID,
		WordsFound: len(p.Found()),
		ElapsedMs:  int(d.now().Sub(start).Milliseconds()),
	}
	if err := d.store.InsertResult(r.Context(), res); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
	}
	_ = json.NewEncoder(w).Encode(dailyFinishRes{Date: date, WordsFound: res.WordsFound, ElapsedMs: res.ElapsedMs, State: p.State()})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now().UTC())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		jsonError(w, "server_error", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
