package repository

import (
	"context"
	"database/sql"

	"marcador/internal/models"
)

type DashboardPostgres struct {
	db *sql.DB
}

func NewDashboardPostgres(db *sql.DB) *DashboardPostgres {
	return &DashboardPostgres{db: db}
}

func (r *DashboardPostgres) KPIs(ctx context.Context) (models.KPIs, error) {
	var k models.KPIs
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM teams WHERE is_active),
			(SELECT COUNT(*) FROM players WHERE is_active),
			(SELECT COUNT(*) FROM matches WHERE status = $1)`,
		models.StatusScheduled,
	).Scan(&k.ActiveTeams, &k.ActivePlayers, &k.ScheduledMatches)
	if err != nil {
		return models.KPIs{}, wrapErr("compute kpis", err)
	}
	return k, nil
}

// Summary fills every field except LatestMatches.
func (r *DashboardPostgres) Summary(ctx context.Context) (models.DashboardSummary, error) {
	var (
		s   models.DashboardSummary
		err error
	)
	if s.KPIs, err = r.KPIs(ctx); err != nil {
		return s, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM matches), (SELECT COUNT(*) FROM match_events)`,
	).Scan(&s.TotalMatches, &s.LifecycleEvents)
	if err != nil {
		return s, wrapErr("count matches", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM matches GROUP BY status`)
	if err != nil {
		return s, wrapErr("count matches by status", err)
	}
	defer rows.Close()

	s.ByStatus = make(map[models.Status]int, len(models.StatusNames()))
	for _, name := range models.StatusNames() {
		s.ByStatus[models.Status(name)] = 0
	}
	for rows.Next() {
		var (
			status models.Status
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return s, wrapErr("scan status count", err)
		}
		s.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return s, wrapErr("iterate status counts", err)
	}
	return s, nil
}

// MonthlyStats returns twelve rows for the year, including empty months.
func (r *DashboardPostgres) MonthlyStats(ctx context.Context, year int) ([]models.MonthlyStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT EXTRACT(MONTH FROM scheduled_at)::int AS month,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM matches
		WHERE scheduled_at IS NOT NULL AND EXTRACT(YEAR FROM scheduled_at)::int = $1
		GROUP BY month
		ORDER BY month`,
		year, models.StatusFinished, models.StatusScheduled)
	if err != nil {
		return nil, wrapErr("query monthly stats", err)
	}
	defer rows.Close()

	stats := make([]models.MonthlyStat, 12)
	for i := range stats {
		stats[i].Month = i + 1
	}
	for rows.Next() {
		var st models.MonthlyStat
		if err := rows.Scan(&st.Month, &st.Total, &st.Finished, &st.Scheduled); err != nil {
			return nil, wrapErr("scan monthly stat", err)
		}
		if st.Month >= 1 && st.Month <= 12 {
			stats[st.Month-1] = st
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate monthly stats", err)
	}
	return stats, nil
}
