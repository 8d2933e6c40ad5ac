package repository

import (
	"context"
	"database/sql"

	"marcador/internal/models"
)

type TeamPostgres struct {
	db *sql.DB
}

func NewTeamPostgres(db *sql.DB) *TeamPostgres {
	return &TeamPostgres{db: db}
}

const teamColumns = `id, name, COALESCE(abbreviation, ''), COALESCE(city, ''), is_active, created_at, updated_at`

func (r *TeamPostgres) ListTeams(ctx context.Context, activeOnly bool) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("query teams", err)
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, wrapErr("scan team", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate teams", err)
	}
	return teams, nil
}

func (r *TeamPostgres) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, models.NotFound("team %d not found", id)
	}
	if err != nil {
		return nil, wrapErr("get team", err)
	}
	return &t, nil
}

func (r *TeamPostgres) CreateTeam(ctx context.Context, team models.Team) (*models.Team, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO teams (name, abbreviation, city, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, is_active, created_at, updated_at`,
		team.Name, team.Abbreviation, team.City,
	).Scan(&team.ID, &team.IsActive, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, wrapErr("insert team", err)
	}
	return &team, nil
}

func (r *TeamPostgres) UpdateTeam(ctx context.Context, team models.Team) (*models.Team, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE teams SET name = $2, abbreviation = $3, city = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING is_active, created_at, updated_at`,
		team.ID, team.Name, team.Abbreviation, team.City,
	).Scan(&team.IsActive, &team.CreatedAt, &team.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NotFound("team %d not found", team.ID)
	}
	if err != nil {
		return nil, wrapErr("update team", err)
	}
	return &team, nil
}

// SetTeamActive toggles the soft-delete flag.
func (r *TeamPostgres) SetTeamActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE teams SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return wrapErr("set team active", err)
	}
	return expectAffected(res, models.NotFound("team %d not found", id))
}

func scanTeam(row scanner) (models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.Name, &t.Abbreviation, &t.City, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("get rows affected", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
