package application

import (
	"context"
	"time"

	"marcador/internal/models"
	"marcador/internal/repository"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Notifier receives an update after the write it describes has committed.
type Notifier interface {
	Notify(ctx context.Context, update models.MatchUpdate) error
}

type MatchService interface {
	CreateMatch(ctx context.Context, in models.MatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListMatches(ctx context.Context, filter models.MatchFilter) ([]models.Match, error)
	History(ctx context.Context) ([]models.Match, error)
	NextMatch(ctx context.Context) (*models.Match, error)
	UpdateMatch(ctx context.Context, id int, in models.MatchInput) (*models.Match, error)
	DeleteMatch(ctx context.Context, id int) error

	StartMatch(ctx context.Context, id int) (*models.Match, error)
	FinishMatch(ctx context.Context, id int) (*models.Match, error)
	SuspendMatch(ctx context.Context, id int, reason string) (*models.Match, error)
	SetStatusOverride(ctx context.Context, id int, candidate string) (*models.Match, error)
	ListEvents(ctx context.Context, id int) ([]models.LifecycleEvent, error)

	AdjustScore(ctx context.Context, id, teamID, points int) (models.Score, error)
	CurrentScore(ctx context.Context, id int) (models.Score, error)
}

type RosterService interface {
	GetRoster(ctx context.Context, matchID int) ([]models.RosterEntry, error)
	SaveRoster(ctx context.Context, matchID int, entries []models.RosterEntry) error
}

type TeamService interface {
	ListTeams(ctx context.Context, activeOnly bool) ([]models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	CreateTeam(ctx context.Context, team models.Team) (*models.Team, error)
	UpdateTeam(ctx context.Context, team models.Team) (*models.Team, error)
	DeactivateTeam(ctx context.Context, id int) error
	ActivateTeam(ctx context.Context, id int) error
	ListTeamPlayers(ctx context.Context, teamID int) ([]models.Player, error)

	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	CreatePlayer(ctx context.Context, player models.Player) (*models.Player, error)
	UpdatePlayer(ctx context.Context, player models.Player) (*models.Player, error)
	DeactivatePlayer(ctx context.Context, id int) error
}

type DashboardService interface {
	KPIs(ctx context.Context) (models.KPIs, error)
	Dashboard(ctx context.Context) (models.DashboardSummary, error)
	MonthlyStats(ctx context.Context, year int) ([]models.MonthlyStat, error)
}

type ReportService interface {
	ExportHistory(ctx context.Context) ([]byte, error)
	SyncHistorySheet(ctx context.Context) (string, error)
}

// TeamNames resolves display names for reports and announcements.
type TeamNames interface {
	Name(ctx context.Context, id int) string
	Set(id int, name string)
}

type Service struct {
	MatchService     MatchService
	RosterService    RosterService
	TeamService      TeamService
	DashboardService DashboardService
	ReportService    ReportService
}

type Deps struct {
	Repos    *repository.Repository
	Names    TeamNames
	Sheets   SheetsService
	Notifier Notifier
	Logger   Logger
	Clock    func() time.Time
}

func NewService(deps Deps) *Service {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	publisher := newPublisher(deps.Notifier, deps.Logger, deps.Clock)
	matches := NewMatchServiceImpl(deps.Repos.Match, deps.Repos.Score, publisher, deps.Clock, deps.Logger)

	return &Service{
		MatchService:     matches,
		RosterService:    NewRosterServiceImpl(deps.Repos.Roster, publisher),
		TeamService:      NewTeamServiceImpl(deps.Repos.Team, deps.Repos.Player, deps.Names),
		DashboardService: NewDashboardServiceImpl(deps.Repos.Dashboard, deps.Repos.Match, deps.Clock),
		ReportService:    NewReportServiceImpl(matches, deps.Names, deps.Sheets, deps.Logger),
	}
}
