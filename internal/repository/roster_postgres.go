package repository

import (
	"context"
	"database/sql"

	"marcador/internal/models"
)

type RosterPostgres struct {
	db *sql.DB
}

func NewRosterPostgres(db *sql.DB) *RosterPostgres {
	return &RosterPostgres{db: db}
}

// ReplaceRoster swaps the whole roster of a match. Entries are stored as
// given, duplicates included; an empty slice clears the roster.
func (r *RosterPostgres) ReplaceRoster(ctx context.Context, matchID int, entries []models.RosterEntry) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := lockMatch(ctx, tx, matchID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM roster_entries WHERE match_id = $1`, matchID); err != nil {
			return wrapErr("clear roster", err)
		}

		for _, e := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO roster_entries (match_id, team_id, player_id, is_starter)
				VALUES ($1, $2, $3, $4)`,
				matchID, e.TeamID, e.PlayerID, e.IsStarter)
			if err != nil {
				return wrapErr("insert roster entry", err)
			}
		}
		return nil
	})
}

func (r *RosterPostgres) ListRoster(ctx context.Context, matchID int) ([]models.RosterEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, team_id, player_id, is_starter
		FROM roster_entries
		WHERE match_id = $1
		ORDER BY team_id, is_starter DESC, player_id, id`, matchID)
	if err != nil {
		return nil, wrapErr("query roster", err)
	}
	defer rows.Close()

	entries := []models.RosterEntry{}
	for rows.Next() {
		var e models.RosterEntry
		if err := rows.Scan(&e.MatchID, &e.TeamID, &e.PlayerID, &e.IsStarter); err != nil {
			return nil, wrapErr("scan roster entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate roster", err)
	}
	return entries, nil
}
