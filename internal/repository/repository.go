package repository

import (
	"context"
	"database/sql"
	"time"

	"marcador/internal/models"
)

type Match interface {
	Create(ctx context.Context, match models.Match) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error)
	Update(ctx context.Context, id int, apply func(m *models.Match) error) (*models.Match, error)
	ApplyTransition(ctx context.Context, id int, t models.Transition) (*models.Match, error)
	Reset(ctx context.Context, id int) error
	ListEvents(ctx context.Context, id int) ([]models.LifecycleEvent, error)
	NextScheduled(ctx context.Context, after time.Time) (*models.Match, error)
}

type Score interface {
	AppendAdjustment(ctx context.Context, matchID, teamID, points int, description string) (models.Score, error)
	CurrentScore(ctx context.Context, matchID int) (models.Score, error)
}

type Roster interface {
	ReplaceRoster(ctx context.Context, matchID int, entries []models.RosterEntry) error
	ListRoster(ctx context.Context, matchID int) ([]models.RosterEntry, error)
}

type Team interface {
	ListTeams(ctx context.Context, activeOnly bool) ([]models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	CreateTeam(ctx context.Context, team models.Team) (*models.Team, error)
	UpdateTeam(ctx context.Context, team models.Team) (*models.Team, error)
	SetTeamActive(ctx context.Context, id int, active bool) error
}

type Player interface {
	ListPlayersByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	CreatePlayer(ctx context.Context, player models.Player) (*models.Player, error)
	UpdatePlayer(ctx context.Context, player models.Player) (*models.Player, error)
	SetPlayerActive(ctx context.Context, id int, active bool) error
}

type Dashboard interface {
	KPIs(ctx context.Context) (models.KPIs, error)
	Summary(ctx context.Context) (models.DashboardSummary, error)
	MonthlyStats(ctx context.Context, year int) ([]models.MonthlyStat, error)
}

var (
	_ Match     = (*MatchPostgres)(nil)
	_ Score     = (*ScorePostgres)(nil)
	_ Roster    = (*RosterPostgres)(nil)
	_ Team      = (*TeamPostgres)(nil)
	_ Player    = (*PlayerPostgres)(nil)
	_ Dashboard = (*DashboardPostgres)(nil)
)

type Repository struct {
	Match
	Score
	Roster
	Team
	Player
	Dashboard
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Match:     NewMatchPostgres(db),
		Score:     NewScorePostgres(db),
		Roster:    NewRosterPostgres(db),
		Team:      NewTeamPostgres(db),
		Player:    NewPlayerPostgres(db),
		Dashboard: NewDashboardPostgres(db),
		db:        db,
	}
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
