package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"marcador/internal/models"
)

const matchColumns = `m.id, m.home_team_id, m.away_team_id, m.scheduled_at, m.status,
		m.minutes_per_quarter, m.total_quarters, m.team_foul_limit, m.player_foul_limit,
		m.venue, m.created_at`

// matchWithScore derives both sides of the score from the ledger.
const matchWithScore = `SELECT ` + matchColumns + `,
		COALESCE(SUM(CASE WHEN s.team_id = m.home_team_id THEN s.points END), 0) AS home_points,
		COALESCE(SUM(CASE WHEN s.team_id = m.away_team_id THEN s.points END), 0) AS away_points
	FROM matches m
	LEFT JOIN score_events s ON s.match_id = m.id`

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// Tables cleared by Reset, in dependency order. Auxiliary tables may be
// missing in older deployments.
var (
	resetRequiredTables  = []string{"roster_entries", "score_events"}
	resetAuxiliaryTables = []string{"fouls", "timeouts", "quarters", "match_events"}
)

type MatchPostgres struct {
	db *sql.DB
}

func NewMatchPostgres(db *sql.DB) *MatchPostgres {
	return &MatchPostgres{db: db}
}

func (r *MatchPostgres) Create(ctx context.Context, match models.Match) (*models.Match, error) {
	query := `INSERT INTO matches (home_team_id, away_team_id, scheduled_at, status,
			minutes_per_quarter, total_quarters, team_foul_limit, player_foul_limit, venue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		match.HomeTeamID, match.AwayTeamID, match.ScheduledAt, match.Status,
		match.MinutesPerQuarter, match.TotalQuarters, match.TeamFoulLimit, match.PlayerFoulLimit, match.Venue,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return nil, wrapErr("insert match", err)
	}
	match.Score = models.Score{}
	return &match, nil
}

func (r *MatchPostgres) GetByID(ctx context.Context, id int) (*models.Match, error) {
	row := r.db.QueryRowContext(ctx, matchWithScore+` WHERE m.id = $1 GROUP BY m.id`, id)
	m, err := scanMatchWithScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("match %d not found", id)
	}
	if err != nil {
		return nil, wrapErr("get match", err)
	}
	return &m, nil
}

func (r *MatchPostgres) List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		where = append(where, "m.status = "+arg(*filter.Status))
	}
	if filter.TeamID > 0 {
		p := arg(filter.TeamID)
		where = append(where, fmt.Sprintf("(m.home_team_id = %s OR m.away_team_id = %s)", p, p))
	}
	if filter.From != nil {
		where = append(where, "m.scheduled_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		where = append(where, "m.scheduled_at <= "+arg(*filter.To))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var sb strings.Builder
	sb.WriteString(matchWithScore)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" GROUP BY m.id ORDER BY m.created_at DESC, m.id DESC")
	sb.WriteString(" LIMIT " + arg(limit) + " OFFSET " + arg(offset))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, wrapErr("query matches", err)
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		m, err := scanMatchWithScore(rows)
		if err != nil {
			return nil, wrapErr("scan match", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate matches", err)
	}
	return matches, nil
}

// Update locks the match, lets apply mutate it and writes every editable
// column back. Status and creation time are never written here.
func (r *MatchPostgres) Update(ctx context.Context, id int, apply func(m *models.Match) error) (*models.Match, error) {
	var updated models.Match
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		m, err := lockMatch(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := apply(&m); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE matches SET
				home_team_id = $2,
				away_team_id = $3,
				scheduled_at = $4,
				minutes_per_quarter = $5,
				total_quarters = $6,
				team_foul_limit = $7,
				player_foul_limit = $8,
				venue = $9
			WHERE id = $1`,
			id, m.HomeTeamID, m.AwayTeamID, m.ScheduledAt, m.MinutesPerQuarter,
			m.TotalQuarters, m.TeamFoulLimit, m.PlayerFoulLimit, m.Venue)
		if err != nil {
			return wrapErr("update match", err)
		}

		m.Score, err = ledgerScore(ctx, tx, id, m.HomeTeamID, m.AwayTeamID)
		if err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ApplyTransition changes the status and appends the lifecycle log entry in
// one transaction. Checked transitions must be legal from the locked status.
func (r *MatchPostgres) ApplyTransition(ctx context.Context, id int, t models.Transition) (*models.Match, error) {
	var updated models.Match
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		m, err := lockMatch(ctx, tx, id)
		if err != nil {
			return err
		}
		if t.Checked && !m.Status.CanTransitionTo(t.To) {
			return models.InvalidTransition("match %d cannot move from %s to %s", id, m.Status, t.To)
		}

		score, err := ledgerScore(ctx, tx, id, m.HomeTeamID, m.AwayTeamID)
		if err != nil {
			return err
		}
		description := ""
		if t.Describe != nil {
			description = t.Describe(m, score)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE matches SET status = $2 WHERE id = $1`, id, t.To); err != nil {
			return wrapErr("update match status", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO match_events (match_id, event_type, description) VALUES ($1, $2, $3)`,
			id, t.EventType, description)
		if err != nil {
			return wrapErr("insert lifecycle event", err)
		}

		m.Status = t.To
		m.Score = score
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Reset removes the match and every row that references it.
func (r *MatchPostgres) Reset(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := lockMatch(ctx, tx, id); err != nil {
			return err
		}

		for _, table := range resetRequiredTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE match_id = $1", id); err != nil {
				return wrapErr("delete from "+table, err)
			}
		}
		for _, table := range resetAuxiliaryTables {
			if err := deleteAuxiliary(ctx, tx, table, id); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE id = $1", id)
		if err != nil {
			return wrapErr("delete match", err)
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return wrapErr("get rows affected", err)
		}
		if rowsAffected == 0 {
			return models.NotFound("match %d not found", id)
		}
		return nil
	})
}

// deleteAuxiliary guards the delete with a savepoint so a missing table
// does not abort the surrounding transaction.
func deleteAuxiliary(ctx context.Context, tx *sql.Tx, table string, matchID int) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT reset_aux"); err != nil {
		return wrapErr("create savepoint", err)
	}

	_, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE match_id = $1", matchID)
	if pqCode(err) == codeUndefinedTable {
		_, err = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT reset_aux")
		return wrapErr("rollback savepoint", err)
	}
	if err != nil {
		return wrapErr("delete from "+table, err)
	}

	_, err = tx.ExecContext(ctx, "RELEASE SAVEPOINT reset_aux")
	return wrapErr("release savepoint", err)
}

func (r *MatchPostgres) ListEvents(ctx context.Context, id int) ([]models.LifecycleEvent, error) {
	if err := r.ensureExists(ctx, id); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, match_id, event_type, COALESCE(description, ''), created_at
		FROM match_events
		WHERE match_id = $1
		ORDER BY created_at DESC, id DESC`, id)
	if err != nil {
		return nil, wrapErr("query lifecycle events", err)
	}
	defer rows.Close()

	events := []models.LifecycleEvent{}
	for rows.Next() {
		var e models.LifecycleEvent
		if err := rows.Scan(&e.ID, &e.MatchID, &e.EventType, &e.Description, &e.CreatedAt); err != nil {
			return nil, wrapErr("scan lifecycle event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate lifecycle events", err)
	}
	return events, nil
}

// NextScheduled returns the earliest scheduled match starting at or after
// the given time, or nil when there is none.
func (r *MatchPostgres) NextScheduled(ctx context.Context, after time.Time) (*models.Match, error) {
	row := r.db.QueryRowContext(ctx, matchWithScore+`
		WHERE m.status = $1 AND m.scheduled_at >= $2
		GROUP BY m.id
		ORDER BY m.scheduled_at ASC
		LIMIT 1`, models.StatusScheduled, after)
	m, err := scanMatchWithScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get next scheduled match", err)
	}
	return &m, nil
}

func (r *MatchPostgres) ensureExists(ctx context.Context, id int) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return wrapErr("check match existence", err)
	}
	if !exists {
		return models.NotFound("match %d not found", id)
	}
	return nil
}

func lockMatch(ctx context.Context, tx *sql.Tx, id int) (models.Match, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches m WHERE m.id = $1 FOR UPDATE`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Match{}, models.NotFound("match %d not found", id)
	}
	if err != nil {
		return models.Match{}, wrapErr("lock match", err)
	}
	return m, nil
}

func scanMatch(row scanner) (models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.ScheduledAt, &m.Status,
		&m.MinutesPerQuarter, &m.TotalQuarters, &m.TeamFoulLimit, &m.PlayerFoulLimit,
		&m.Venue, &m.CreatedAt,
	)
	return m, err
}

func scanMatchWithScore(row scanner) (models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.ScheduledAt, &m.Status,
		&m.MinutesPerQuarter, &m.TotalQuarters, &m.TeamFoulLimit, &m.PlayerFoulLimit,
		&m.Venue, &m.CreatedAt, &m.Score.Home, &m.Score.Away,
	)
	return m, err
}
