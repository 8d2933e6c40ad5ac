package api

import (
	"strings"
	"time"

	"marcador/internal/models"
)

// legacyStatuses maps the values the admin frontend still sends.
var legacyStatuses = map[string]models.Status{
	"programado": models.StatusScheduled,
	"en_curso":   models.StatusLive,
	"finalizado": models.StatusFinished,
	"cancelado":  models.StatusCancelled,
	"suspendido": models.StatusSuspended,
}

// canonicalStatus translates a legacy value and passes anything else
// through untouched for the domain to validate.
func canonicalStatus(candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if s, ok := legacyStatuses[strings.ToLower(trimmed)]; ok {
		return string(s)
	}
	return trimmed
}

type matchResponse struct {
	ID                int        `json:"id"`
	HomeTeamID        int        `json:"equipoLocalId"`
	AwayTeamID        int        `json:"equipoVisitanteId"`
	ScheduledAt       *time.Time `json:"fechaHoraInicio"`
	Status            string     `json:"estado"`
	MinutesPerQuarter int        `json:"minutosPorCuarto"`
	TotalQuarters     int        `json:"cuartosTotales"`
	TeamFoulLimit     int        `json:"faltasPorEquipoLimite"`
	PlayerFoulLimit   int        `json:"faltasPorJugadorLimite"`
	Venue             *string    `json:"sede"`
	CreatedAt         time.Time  `json:"fechaCreacion"`
	HomePoints        int        `json:"puntosLocal"`
	AwayPoints        int        `json:"puntosVisitante"`
}

func toMatchResponse(m models.Match) matchResponse {
	return matchResponse{
		ID:                m.ID,
		HomeTeamID:        m.HomeTeamID,
		AwayTeamID:        m.AwayTeamID,
		ScheduledAt:       m.ScheduledAt,
		Status:            string(m.Status),
		MinutesPerQuarter: m.MinutesPerQuarter,
		TotalQuarters:     m.TotalQuarters,
		TeamFoulLimit:     m.TeamFoulLimit,
		PlayerFoulLimit:   m.PlayerFoulLimit,
		Venue:             m.Venue,
		CreatedAt:         m.CreatedAt,
		HomePoints:        m.Score.Home,
		AwayPoints:        m.Score.Away,
	}
}

func toMatchResponses(matches []models.Match) []matchResponse {
	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchResponse(m))
	}
	return out
}

type matchRequest struct {
	HomeTeamID        *int       `json:"equipoLocalId"`
	AwayTeamID        *int       `json:"equipoVisitanteId"`
	ScheduledAt       *time.Time `json:"fechaHoraInicio"`
	Status            *string    `json:"estado"`
	MinutesPerQuarter *int       `json:"minutosPorCuarto"`
	TotalQuarters     *int       `json:"cuartosTotales"`
	TeamFoulLimit     *int       `json:"faltasPorEquipoLimite"`
	PlayerFoulLimit   *int       `json:"faltasPorJugadorLimite"`
	Venue             *string    `json:"sede"`
}

func (r matchRequest) toInput() models.MatchInput {
	in := models.MatchInput{
		HomeTeamID:        r.HomeTeamID,
		AwayTeamID:        r.AwayTeamID,
		ScheduledAt:       r.ScheduledAt,
		MinutesPerQuarter: r.MinutesPerQuarter,
		TotalQuarters:     r.TotalQuarters,
		TeamFoulLimit:     r.TeamFoulLimit,
		PlayerFoulLimit:   r.PlayerFoulLimit,
		Venue:             r.Venue,
	}
	if r.Status != nil {
		s := canonicalStatus(*r.Status)
		in.Status = &s
	}
	return in
}

type statusRequest struct {
	Status string `json:"estado"`
}

type suspendRequest struct {
	Reason string `json:"razon"`
}

type adjustRequest struct {
	TeamID *int `json:"equipoId"`
	Points *int `json:"puntos"`
}

type scoreResponse struct {
	MatchID int `json:"partidoId"`
	Home    int `json:"local"`
	Away    int `json:"visitante"`
}

type eventResponse struct {
	ID          int64     `json:"id"`
	MatchID     int       `json:"partidoId"`
	EventType   string    `json:"tipo"`
	Description string    `json:"descripcion"`
	CreatedAt   time.Time `json:"fechaCreacion"`
}

func toEventResponses(events []models.LifecycleEvent) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			ID:          e.ID,
			MatchID:     e.MatchID,
			EventType:   e.EventType,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

type rosterItem struct {
	MatchID   int  `json:"partidoId"`
	TeamID    int  `json:"equipoId"`
	PlayerID  int  `json:"jugadorId"`
	IsStarter bool `json:"esTitular"`
}

type rosterPayload struct {
	Items []rosterItem `json:"items"`
}

func toRosterPayload(entries []models.RosterEntry) rosterPayload {
	items := make([]rosterItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, rosterItem{
			MatchID:   e.MatchID,
			TeamID:    e.TeamID,
			PlayerID:  e.PlayerID,
			IsStarter: e.IsStarter,
		})
	}
	return rosterPayload{Items: items}
}

func (p rosterPayload) toEntries() []models.RosterEntry {
	entries := make([]models.RosterEntry, 0, len(p.Items))
	for _, item := range p.Items {
		entries = append(entries, models.RosterEntry{
			MatchID:   item.MatchID,
			TeamID:    item.TeamID,
			PlayerID:  item.PlayerID,
			IsStarter: item.IsStarter,
		})
	}
	return entries
}

type kpisResponse struct {
	Teams            int `json:"totalEquipos"`
	Players          int `json:"totalJugadores"`
	ScheduledMatches int `json:"partidosPendientes"`
}

type syncResponse struct {
	URL string `json:"url"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type lifecycleResponse struct {
	Message string        `json:"message"`
	Match   matchResponse `json:"partido"`
}

type statusResponse struct {
	Message   string `json:"message"`
	MatchID   int    `json:"partidoId"`
	NewStatus string `json:"nuevoEstado"`
}
