package api

import (
	"net/http"
	"strconv"

	"marcador/internal/models"
)

func (h *Handler) listTeams(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if raw := r.URL.Query().Get("active_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, models.InvalidArgument("invalid active_only %q", raw), h.log)
			return
		}
		activeOnly = parsed
	}

	teams, err := h.services.TeamService.ListTeams(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, teams, h.log)
}

func (h *Handler) getTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	team, err := h.services.TeamService.GetTeam(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, team, h.log)
}

func (h *Handler) createTeam(w http.ResponseWriter, r *http.Request) {
	var team models.Team
	if err := decodeJSON(w, r, &team, false); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	created, err := h.services.TeamService.CreateTeam(r.Context(), team)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusCreated, created, h.log)
}

func (h *Handler) updateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	var team models.Team
	if err := decodeJSON(w, r, &team, false); err != nil {
		writeError(w, r, err, h.log)
		return
	}
	team.ID = id

	updated, err := h.services.TeamService.UpdateTeam(r.Context(), team)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, updated, h.log)
}

func (h *Handler) deactivateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	if err := h.services.TeamService.DeactivateTeam(r.Context(), id); err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Team deactivated successfully"}, h.log)
}

func (h *Handler) activateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	if err := h.services.TeamService.ActivateTeam(r.Context(), id); err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Team activated successfully"}, h.log)
}

func (h *Handler) listTeamPlayers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	players, err := h.services.TeamService.ListTeamPlayers(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, players, h.log)
}

func (h *Handler) getPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	player, err := h.services.TeamService.GetPlayer(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, player, h.log)
}

func (h *Handler) createPlayer(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if err := decodeJSON(w, r, &player, false); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	created, err := h.services.TeamService.CreatePlayer(r.Context(), player)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusCreated, created, h.log)
}

func (h *Handler) updatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	var player models.Player
	if err := decodeJSON(w, r, &player, false); err != nil {
		writeError(w, r, err, h.log)
		return
	}
	player.ID = id

	updated, err := h.services.TeamService.UpdatePlayer(r.Context(), player)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, updated, h.log)
}

func (h *Handler) deactivatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	if err := h.services.TeamService.DeactivatePlayer(r.Context(), id); err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Player deactivated successfully"}, h.log)
}
