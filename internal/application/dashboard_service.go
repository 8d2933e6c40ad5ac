package application

import (
	"context"
	"time"

	"marcador/internal/models"
	"marcador/internal/repository"
)

type DashboardServiceImpl struct {
	repo    repository.Dashboard
	matches repository.Match
	clock   func() time.Time
}

func NewDashboardServiceImpl(repo repository.Dashboard, matches repository.Match, clock func() time.Time) *DashboardServiceImpl {
	return &DashboardServiceImpl{repo: repo, matches: matches, clock: clock}
}

func (s *DashboardServiceImpl) KPIs(ctx context.Context) (models.KPIs, error) {
	return s.repo.KPIs(ctx)
}

func (s *DashboardServiceImpl) Dashboard(ctx context.Context) (models.DashboardSummary, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	summary.LatestMatches, err = s.matches.List(ctx, models.MatchFilter{Limit: latestMatchesLimit})
	if err != nil {
		return models.DashboardSummary{}, err
	}
	return summary, nil
}

// MonthlyStats reports per-month match counts. Year zero means the
// current year.
func (s *DashboardServiceImpl) MonthlyStats(ctx context.Context, year int) ([]models.MonthlyStat, error) {
	if year == 0 {
		year = s.clock().Year()
	}
	if year < minStatsYear || year > maxStatsYear {
		return nil, models.InvalidArgument("year must be between %d and %d", minStatsYear, maxStatsYear)
	}
	return s.repo.MonthlyStats(ctx, year)
}
