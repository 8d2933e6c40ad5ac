package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marcador/internal/models"
)

const dateLayout = "2006-01-02"

func (h *Handler) listMatches(w http.ResponseWriter, r *http.Request) {
	filter, err := parseMatchFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	matches, err := h.services.MatchService.ListMatches(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponses(matches), h.log)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	matches, err := h.services.MatchService.History(r.Context())
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponses(matches), h.log)
}

func (h *Handler) createMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	match, err := h.services.MatchService.CreateMatch(r.Context(), req.toInput())
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusCreated, toMatchResponse(*match), h.log)
}

func (h *Handler) getMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	match, err := h.services.MatchService.GetMatch(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(*match), h.log)
}

func (h *Handler) updateMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	var req matchRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	match, err := h.services.MatchService.UpdateMatch(r.Context(), id, req.toInput())
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(*match), h.log)
}

func (h *Handler) deleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	if err := h.services.MatchService.DeleteMatch(r.Context(), id); err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Partido y todos sus datos eliminados exitosamente", MatchID: id}, h.log)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	match, err := h.services.MatchService.SetStatusOverride(r.Context(), id, canonicalStatus(req.Status))
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Message:   "Estado actualizado exitosamente",
		MatchID:   match.ID,
		NewStatus: string(match.Status),
	}, h.log)
}

func (h *Handler) startMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	match, err := h.services.MatchService.StartMatch(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, lifecycleResponse{Message: "Partido iniciado correctamente", Match: toMatchResponse(*match)}, h.log)
}

func (h *Handler) finishMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	match, err := h.services.MatchService.FinishMatch(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, lifecycleResponse{Message: "Partido finalizado correctamente", Match: toMatchResponse(*match)}, h.log)
}

// suspendMatch takes the reason from the razon query parameter or from
// an optional JSON body.
func (h *Handler) suspendMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	reason := r.URL.Query().Get("razon")
	if reason == "" {
		var req suspendRequest
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, r, err, h.log)
			return
		}
		reason = req.Reason
	}

	match, err := h.services.MatchService.SuspendMatch(r.Context(), id, reason)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, lifecycleResponse{Message: "Partido suspendido correctamente", Match: toMatchResponse(*match)}, h.log)
}

func (h *Handler) currentScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	score, err := h.services.MatchService.CurrentScore(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{MatchID: id, Home: score.Home, Away: score.Away}, h.log)
}

func (h *Handler) adjustScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	var req adjustRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, h.log)
		return
	}
	if req.TeamID == nil || req.Points == nil {
		writeError(w, r, models.InvalidArgument("equipoId and puntos are required"), h.log)
		return
	}

	score, err := h.services.MatchService.AdjustScore(r.Context(), id, *req.TeamID, *req.Points)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{MatchID: id, Home: score.Home, Away: score.Away}, h.log)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	events, err := h.services.MatchService.ListEvents(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events), h.log)
}

func (h *Handler) getRoster(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	entries, err := h.services.RosterService.GetRoster(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toRosterPayload(entries), h.log)
}

func (h *Handler) saveRoster(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	var req rosterPayload
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	if err := h.services.RosterService.SaveRoster(r.Context(), id, req.toEntries()); err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Roster guardado exitosamente", MatchID: id}, h.log)
}

func (h *Handler) nextMatch(w http.ResponseWriter, r *http.Request) {
	match, err := h.services.MatchService.NextMatch(r.Context())
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	if match == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(*match), h.log)
}

func parseMatchFilter(q url.Values) (models.MatchFilter, error) {
	var filter models.MatchFilter

	if raw := q.Get("estado"); raw != "" {
		status, err := models.ParseStatus(canonicalStatus(raw))
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	var err error
	if filter.TeamID, err = queryInt(q, "equipoId"); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(q, "skip"); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(q, "limit"); err != nil {
		return filter, err
	}
	if filter.From, err = queryTime(q, "desde"); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(q, "hasta"); err != nil {
		return filter, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, models.InvalidArgument("hasta must not be before desde")
	}
	return filter, nil
}

func queryInt(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, models.InvalidArgument("invalid %s %q", key, raw)
	}
	return n, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(q url.Values, key string) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, models.InvalidArgument("invalid %s %q", key, raw)
}
