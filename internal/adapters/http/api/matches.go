package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/derby/internal/app"
	"github.com/okian/derby/internal/domain/types"
)

const idempotencyHeader = "Idempotency-Key"

// MatchesHandler schedules matches and exposes their progress.
type MatchesHandler struct {
	deps Dependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// scheduleRequest is the body of POST /matches.
type scheduleRequest struct {
	Home string  `json:"home"`
	Away string  `json:"away"`
	Mode string  `json:"mode"`
	Seed *uint64 `json:"seed,omitempty"`
}

type eventsResponse struct {
	ID     string           `json:"id"`
	Status string           `json:"status"`
	Minute int              `json:"minute"`
	Next   int              `json:"next"`
	Lines  []types.FeedLine `json:"lines"`
}

// HandleSchedule handles POST /matches. A repeated Idempotency-Key header
// answers 200 with the match the key first created.
func (h *MatchesHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	summary, err := h.deps.ScheduleMatch(r.Context(), app.MatchRequest{
		Home: req.Home,
		Away: req.Away,
		Mode: req.Mode,
		Seed: req.Seed,
		Key:  r.Header.Get(idempotencyHeader),
	})
	status := http.StatusAccepted
	switch {
	case errors.Is(err, app.ErrDuplicate):
		status = http.StatusOK
	case err != nil:
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/matches/"+summary.ID)
	writeJSON(w, status, summary)
}

// HandleList handles GET /matches.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.ListMatches(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /matches/{id}.
func (h *MatchesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	summary, err := h.deps.GetMatch(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleEvents handles GET /matches/{id}/events?since=N. The next field is
// the cursor to pass on the following poll.
func (h *MatchesHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	since := 0
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeServiceError(w, fmt.Errorf("%w: since must be a non-negative integer", ErrBadRequest))
			return
		}
		since = n
	}
	id := mux.Vars(r)["id"]
	summary, err := h.deps.GetMatch(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	lines, err := h.deps.Events(r.Context(), id, since)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	next := since
	if len(lines) > 0 {
		next = lines[len(lines)-1].Seq
	}
	writeJSON(w, http.StatusOK, eventsResponse{
		ID:     id,
		Status: string(summary.Status),
		Minute: summary.Minute,
		Next:   next,
		Lines:  lines,
	})
}

// HandleReport handles GET /matches/{id}/report.
func (h *MatchesHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Report(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
