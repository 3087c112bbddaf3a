// Package api exposes the league over HTTP: public read endpoints, HTML pages for the standings
// and the bracket, and password protected admin endpoints for entering results.
package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	corslib "github.com/rs/cors"

	"github.com/justinjudd/league/tournament"
)

// Options configures the HTTP adapter
type Options struct {
	// AdminPasswordHash is a bcrypt hash; empty disables every admin endpoint
	AdminPasswordHash string
	CORSAllowOrigins  []string
	// FailedAttempts wrong admin passwords are tolerated per client before it is throttled,
	// one more is allowed every FailedRefill
	FailedAttempts int
	FailedRefill   time.Duration
	Logger         *slog.Logger
}

// Server holds the handler dependencies
type Server struct {
	season    *tournament.Season
	playoffs  *tournament.Playoffs
	adminHash string
	origins   []string
	failures  *failureLimiter
	logger    *slog.Logger
}

// New creates the HTTP adapter over the group stage and playoff engines
func New(season *tournament.Season, playoffs *tournament.Playoffs, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.FailedAttempts <= 0 {
		opts.FailedAttempts = 5
	}
	if opts.FailedRefill <= 0 {
		opts.FailedRefill = time.Minute
	}
	return &Server{
		season:    season,
		playoffs:  playoffs,
		adminHash: opts.AdminPasswordHash,
		origins:   opts.CORSAllowOrigins,
		failures:  newFailureLimiter(opts.FailedAttempts, opts.FailedRefill),
		logger:    opts.Logger,
	}
}

// Handler builds the router with every route and middleware
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/standings", s.standingsPage).Methods(http.MethodGet)
	r.HandleFunc("/bracket", s.bracketPage).Methods(http.MethodGet)

	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/standings", s.getStandings).Methods(http.MethodGet)
	public.HandleFunc("/teams", s.getTeams).Methods(http.MethodGet)
	public.HandleFunc("/matches", s.getMatches).Methods(http.MethodGet)
	public.HandleFunc("/matches/{id}", s.getMatch).Methods(http.MethodGet)
	public.HandleFunc("/phase", s.getPhase).Methods(http.MethodGet)
	public.HandleFunc("/bracket", s.getBracket).Methods(http.MethodGet)
	public.HandleFunc("/validate", s.getValidation).Methods(http.MethodGet)

	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(s.adminOnly)
	admin.HandleFunc("/teams", s.addTeam).Methods(http.MethodPost)
	admin.HandleFunc("/matches", s.addMatch).Methods(http.MethodPost)
	admin.HandleFunc("/matches/{id}", s.deleteMatch).Methods(http.MethodDelete)
	admin.HandleFunc("/matches/{id}/result", s.recordResult).Methods(http.MethodPost)
	admin.HandleFunc("/matches/{id}/postpone", s.postpone).Methods(http.MethodPost)
	admin.HandleFunc("/matches/{id}/reschedule", s.reschedule).Methods(http.MethodPost)
	admin.HandleFunc("/fixtures/generate", s.generateFixtures).Methods(http.MethodPost)
	admin.HandleFunc("/playoffs/generate", s.generateBracket).Methods(http.MethodPost)
	admin.HandleFunc("/playoffs/semifinals/{id}", s.resolveSemifinal).Methods(http.MethodPost)
	admin.HandleFunc("/playoffs/final", s.resolveFinal).Methods(http.MethodPost)
	admin.HandleFunc("/playoffs/third-place", s.resolveThirdPlace).Methods(http.MethodPost)
	admin.HandleFunc("/playoffs/reset", s.resetBracket).Methods(http.MethodPost)
	admin.HandleFunc("/admin/recalculate", s.recalculate).Methods(http.MethodPost)

	c := corslib.New(corslib.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", AdminHeader},
		AllowCredentials: false,
	})
	return c.Handler(r)
}
