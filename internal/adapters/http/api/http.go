// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/derby/internal/app"
	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/internal/domain/types"
)

// maxBodyBytes caps request bodies; squad pastes are small.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. *app.Service satisfies it.
type Dependencies interface {
	StatsProvider

	Started() bool

	ListTeams(ctx context.Context) ([]types.TeamSummary, error)
	GetTeam(ctx context.Context, name string) (roster.Record, error)
	CreateTeam(ctx context.Context, name, squadText string) (types.TeamSummary, error)
	CreateRandomTeam(ctx context.Context, name string) (types.TeamSummary, error)
	UpdateSquad(ctx context.Context, name, squadText string) (types.TeamSummary, error)
	DeleteTeam(ctx context.Context, name string) error

	ScheduleMatch(ctx context.Context, req app.MatchRequest) (types.MatchSummary, error)
	ListMatches(ctx context.Context) ([]types.MatchSummary, error)
	GetMatch(ctx context.Context, id string) (types.MatchSummary, error)
	Events(ctx context.Context, id string, since int) ([]types.FeedLine, error)
	Report(ctx context.Context, id string) (*match.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	teamsHandler   *TeamsHandler
	matchesHandler *MatchesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps.Started),
		statsHandler:   NewStatsHandler(deps),
		teamsHandler:   NewTeamsHandler(deps),
		matchesHandler: NewMatchesHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.healthHandler.HandleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	r.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandleList, "teams")).Methods(http.MethodGet)
	r.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandleCreate, "teams")).Methods(http.MethodPost)
	r.HandleFunc("/teams/random", MetricsMiddleware(s.teamsHandler.HandleCreateRandom, "teams_random")).Methods(http.MethodPost)
	r.HandleFunc("/teams/{name}", MetricsMiddleware(s.teamsHandler.HandleGet, "team")).Methods(http.MethodGet)
	r.HandleFunc("/teams/{name}", MetricsMiddleware(s.teamsHandler.HandleUpdate, "team")).Methods(http.MethodPut)
	r.HandleFunc("/teams/{name}", MetricsMiddleware(s.teamsHandler.HandleDelete, "team")).Methods(http.MethodDelete)

	r.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleSchedule, "matches")).Methods(http.MethodPost)
	r.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleList, "matches")).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}", MetricsMiddleware(s.matchesHandler.HandleGet, "match")).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}/events", MetricsMiddleware(s.matchesHandler.HandleEvents, "match_events")).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}/report", MetricsMiddleware(s.matchesHandler.HandleReport, "match_report")).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
}

// Router returns a fresh router with every route registered.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	s.Register(r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, app.ErrInvalidTeam),
		errors.Is(err, app.ErrInvalidMode),
		errors.Is(err, app.ErrSameTeam):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, app.ErrUnknownTeam), errors.Is(err, app.ErrMatchNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, app.ErrTeamExists),
		errors.Is(err, app.ErrMatchInProgress),
		errors.Is(err, app.ErrMatchAborted):
		return http.StatusConflict, "conflict"
	case errors.Is(err, app.ErrEmptyRoster):
		return http.StatusUnprocessableEntity, "empty_roster"
	case errors.Is(err, app.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, app.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", ErrBadRequest, err)
	}
	return nil
}
