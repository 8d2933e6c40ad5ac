package repository

import (
	"context"
	"database/sql"

	"marcador/internal/models"
)

type PlayerPostgres struct {
	db *sql.DB
}

func NewPlayerPostgres(db *sql.DB) *PlayerPostgres {
	return &PlayerPostgres{db: db}
}

const playerColumns = `id, team_id, name, COALESCE(jersey_number, 0), COALESCE(position, ''), is_active, created_at, updated_at`

func (r *PlayerPostgres) ListPlayersByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE team_id = $1
		ORDER BY jersey_number, name`, teamID)
	if err != nil {
		return nil, wrapErr("query players", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, wrapErr("scan player", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate players", err)
	}
	return players, nil
}

func (r *PlayerPostgres) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	p, err := scanPlayer(r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, models.NotFound("player %d not found", id)
	}
	if err != nil {
		return nil, wrapErr("get player", err)
	}
	return &p, nil
}

func (r *PlayerPostgres) CreatePlayer(ctx context.Context, player models.Player) (*models.Player, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO players (team_id, name, jersey_number, position, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, is_active, created_at, updated_at`,
		player.TeamID, player.Name, player.JerseyNumber, player.Position,
	).Scan(&player.ID, &player.IsActive, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return nil, wrapErr("insert player", err)
	}
	return &player, nil
}

func (r *PlayerPostgres) UpdatePlayer(ctx context.Context, player models.Player) (*models.Player, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE players SET team_id = $2, name = $3, jersey_number = $4, position = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING is_active, created_at, updated_at`,
		player.ID, player.TeamID, player.Name, player.JerseyNumber, player.Position,
	).Scan(&player.IsActive, &player.CreatedAt, &player.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NotFound("player %d not found", player.ID)
	}
	if err != nil {
		return nil, wrapErr("update player", err)
	}
	return &player, nil
}

func (r *PlayerPostgres) SetPlayerActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return wrapErr("set player active", err)
	}
	return expectAffected(res, models.NotFound("player %d not found", id))
}

func scanPlayer(row scanner) (models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.JerseyNumber, &p.Position, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
