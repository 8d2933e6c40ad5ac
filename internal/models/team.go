package models

import "time"

type Team struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Abbreviation string    `json:"abbreviation" db:"abbreviation"`
	City         string    `json:"city" db:"city"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Player struct {
	ID           int       `json:"id" db:"id"`
	TeamID       int       `json:"team_id" db:"team_id"`
	Name         string    `json:"name" db:"name"`
	JerseyNumber int       `json:"jersey_number" db:"jersey_number"`
	Position     string    `json:"position" db:"position"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type KPIs struct {
	ActiveTeams      int `json:"active_teams"`
	ActivePlayers    int `json:"active_players"`
	ScheduledMatches int `json:"scheduled_matches"`
}

type DashboardSummary struct {
	KPIs
	TotalMatches    int            `json:"total_matches"`
	ByStatus        map[Status]int `json:"by_status"`
	LifecycleEvents int            `json:"lifecycle_events"`
	LatestMatches   []Match        `json:"latest_matches"`
}

type MonthlyStat struct {
	Month     int `json:"month"`
	Total     int `json:"total"`
	Finished  int `json:"finished"`
	Scheduled int `json:"scheduled"`
}

// MatchUpdate is published after a committed write on a match.
type MatchUpdate struct {
	Type       string    `json:"type"`
	MatchID    int       `json:"match_id"`
	HomeTeamID int       `json:"home_team_id,omitempty"`
	AwayTeamID int       `json:"away_team_id,omitempty"`
	Status     Status    `json:"status,omitempty"`
	Score      *Score    `json:"score,omitempty"`
	Message    string    `json:"message,omitempty"`
	At         time.Time `json:"at"`
}

const (
	UpdateMatchCreated   = "match_created"
	UpdateMatchUpdated   = "match_updated"
	UpdateMatchStarted   = "match_started"
	UpdateMatchFinished  = "match_finished"
	UpdateMatchSuspended = "match_suspended"
	UpdateStatusOverride = "status_override"
	UpdateScoreAdjusted  = "score_adjusted"
	UpdateRosterSaved    = "roster_saved"
	UpdateMatchDeleted   = "match_deleted"
)

// Lifecycle reports whether the update is a status change worth announcing.
func (u MatchUpdate) Lifecycle() bool {
	switch u.Type {
	case UpdateMatchStarted, UpdateMatchFinished, UpdateMatchSuspended, UpdateStatusOverride:
		return true
	}
	return false
}
