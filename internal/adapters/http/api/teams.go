package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// TeamsHandler serves roster management.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

type createTeamRequest struct {
	Name  string `json:"name"`
	Squad string `json:"squad"`
}

type updateSquadRequest struct {
	Squad string `json:"squad"`
}

// HandleList handles GET /teams.
func (h *TeamsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teams, err := h.deps.ListTeams(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleCreate handles POST /teams.
func (h *TeamsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := decode(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeServiceError(w, fmt.Errorf("%w: missing name", ErrBadRequest))
		return
	}
	team, err := h.deps.CreateTeam(r.Context(), req.Name, req.Squad)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

// HandleCreateRandom handles POST /teams/random.
func (h *TeamsHandler) HandleCreateRandom(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := decode(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeServiceError(w, fmt.Errorf("%w: missing name", ErrBadRequest))
		return
	}
	team, err := h.deps.CreateRandomTeam(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

// HandleGet handles GET /teams/{name}.
func (h *TeamsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.deps.GetTeam(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleUpdate handles PUT /teams/{name}.
func (h *TeamsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateSquadRequest
	if err := decode(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	team, err := h.deps.UpdateSquad(r.Context(), mux.Vars(r)["name"], req.Squad)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// HandleDelete handles DELETE /teams/{name}.
func (h *TeamsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteTeam(r.Context(), mux.Vars(r)["name"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
