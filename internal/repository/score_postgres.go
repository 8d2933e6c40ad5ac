package repository

import (
	"context"
	"database/sql"
	"errors"

	"marcador/internal/models"
)

type ScorePostgres struct {
	db *sql.DB
}

func NewScorePostgres(db *sql.DB) *ScorePostgres {
	return &ScorePostgres{db: db}
}

// AppendAdjustment records a manual ledger entry for one team and returns
// the recomputed score. The team must play in the match.
func (r *ScorePostgres) AppendAdjustment(ctx context.Context, matchID, teamID, points int, description string) (models.Score, error) {
	var score models.Score
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		m, err := lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if !m.HasTeam(teamID) {
			return models.InvalidArgument("team %d does not play in match %d", teamID, matchID)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO score_events (match_id, team_id, player_id, points, description)
			VALUES ($1, $2, NULL, $3, $4)`,
			matchID, teamID, points, description)
		if err != nil {
			return wrapErr("insert score event", err)
		}

		score, err = ledgerScore(ctx, tx, matchID, m.HomeTeamID, m.AwayTeamID)
		return err
	})
	if err != nil {
		return models.Score{}, err
	}
	return score, nil
}

func (r *ScorePostgres) CurrentScore(ctx context.Context, matchID int) (models.Score, error) {
	var home, away int
	err := r.db.QueryRowContext(ctx,
		`SELECT home_team_id, away_team_id FROM matches WHERE id = $1`, matchID,
	).Scan(&home, &away)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Score{}, models.NotFound("match %d not found", matchID)
	}
	if err != nil {
		return models.Score{}, wrapErr("get match teams", err)
	}
	return ledgerScore(ctx, r.db, matchID, home, away)
}

// ledgerScore sums the ledger per side. Entries for teams outside the
// match are ignored.
func ledgerScore(ctx context.Context, q queryRower, matchID, homeTeamID, awayTeamID int) (models.Score, error) {
	var score models.Score
	err := q.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN team_id = $2 THEN points END), 0),
			COALESCE(SUM(CASE WHEN team_id = $3 THEN points END), 0)
		FROM score_events
		WHERE match_id = $1`,
		matchID, homeTeamID, awayTeamID,
	).Scan(&score.Home, &score.Away)
	if err != nil {
		return models.Score{}, wrapErr("sum score events", err)
	}
	return score, nil
}
