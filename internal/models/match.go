package models

import "time"

type Match struct {
	ID                int        `json:"id" db:"id"`
	HomeTeamID        int        `json:"home_team_id" db:"home_team_id"`
	AwayTeamID        int        `json:"away_team_id" db:"away_team_id"`
	ScheduledAt       *time.Time `json:"scheduled_at" db:"scheduled_at"`
	Status            Status     `json:"status" db:"status"`
	MinutesPerQuarter int        `json:"minutes_per_quarter" db:"minutes_per_quarter"`
	TotalQuarters     int        `json:"total_quarters" db:"total_quarters"`
	TeamFoulLimit     int        `json:"team_foul_limit" db:"team_foul_limit"`
	PlayerFoulLimit   int        `json:"player_foul_limit" db:"player_foul_limit"`
	Venue             *string    `json:"venue" db:"venue"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	Score             Score      `json:"score"`
}

// HasTeam reports whether teamID plays in the match.
func (m Match) HasTeam(teamID int) bool {
	return teamID == m.HomeTeamID || teamID == m.AwayTeamID
}

type MatchFilter struct {
	Status *Status
	TeamID int
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// Score is always derived from the ledger.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type ScoreEvent struct {
	ID          int64     `json:"id" db:"id"`
	MatchID     int       `json:"match_id" db:"match_id"`
	TeamID      int       `json:"team_id" db:"team_id"`
	PlayerID    *int      `json:"player_id" db:"player_id"`
	Points      int       `json:"points" db:"points"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type RosterEntry struct {
	MatchID   int  `json:"match_id" db:"match_id"`
	TeamID    int  `json:"team_id" db:"team_id"`
	PlayerID  int  `json:"player_id" db:"player_id"`
	IsStarter bool `json:"is_starter" db:"is_starter"`
}

const (
	EventGameStart      = "game_start"
	EventGameEnd        = "game_end"
	EventGameSuspended  = "game_suspended"
	EventStatusOverride = "status_override"
)

type LifecycleEvent struct {
	ID          int64     `json:"id" db:"id"`
	MatchID     int       `json:"match_id" db:"match_id"`
	EventType   string    `json:"event_type" db:"event_type"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Transition describes a status change and the log entry written with it.
// Describe receives the locked match and its ledger score.
type Transition struct {
	To        Status
	EventType string
	Checked   bool
	Describe  func(m Match, score Score) string
}

// MatchInput carries the caller-supplied fields for create and update.
// Nil fields are left unchanged on update and defaulted on create.
type MatchInput struct {
	HomeTeamID        *int
	AwayTeamID        *int
	ScheduledAt       *time.Time
	Status            *string
	MinutesPerQuarter *int
	TotalQuarters     *int
	TeamFoulLimit     *int
	PlayerFoulLimit   *int
	Venue             *string
}
