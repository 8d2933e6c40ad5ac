package application

import (
	"context"
	"strings"

	"marcador/internal/models"
	"marcador/internal/repository"
)

type TeamServiceImpl struct {
	teams   repository.Team
	players repository.Player
	names   TeamNames
}

func NewTeamServiceImpl(teams repository.Team, players repository.Player, names TeamNames) *TeamServiceImpl {
	return &TeamServiceImpl{teams: teams, players: players, names: names}
}

func (s *TeamServiceImpl) ListTeams(ctx context.Context, activeOnly bool) ([]models.Team, error) {
	return s.teams.ListTeams(ctx, activeOnly)
}

func (s *TeamServiceImpl) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	return s.teams.GetTeam(ctx, id)
}

func (s *TeamServiceImpl) CreateTeam(ctx context.Context, team models.Team) (*models.Team, error) {
	normalizeTeam(&team)
	if err := validateTeam(team); err != nil {
		return nil, err
	}
	created, err := s.teams.CreateTeam(ctx, team)
	if err != nil {
		return nil, err
	}
	s.remember(created)
	return created, nil
}

func (s *TeamServiceImpl) UpdateTeam(ctx context.Context, team models.Team) (*models.Team, error) {
	normalizeTeam(&team)
	if err := validateTeam(team); err != nil {
		return nil, err
	}
	updated, err := s.teams.UpdateTeam(ctx, team)
	if err != nil {
		return nil, err
	}
	s.remember(updated)
	return updated, nil
}

// DeactivateTeam is a soft delete; the team keeps its history.
func (s *TeamServiceImpl) DeactivateTeam(ctx context.Context, id int) error {
	return s.teams.SetTeamActive(ctx, id, false)
}

func (s *TeamServiceImpl) ActivateTeam(ctx context.Context, id int) error {
	return s.teams.SetTeamActive(ctx, id, true)
}

func (s *TeamServiceImpl) ListTeamPlayers(ctx context.Context, teamID int) ([]models.Player, error) {
	if _, err := s.teams.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.players.ListPlayersByTeam(ctx, teamID)
}

func (s *TeamServiceImpl) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	return s.players.GetPlayer(ctx, id)
}

func (s *TeamServiceImpl) CreatePlayer(ctx context.Context, player models.Player) (*models.Player, error) {
	normalizePlayer(&player)
	if err := validatePlayer(player); err != nil {
		return nil, err
	}
	return s.players.CreatePlayer(ctx, player)
}

func (s *TeamServiceImpl) UpdatePlayer(ctx context.Context, player models.Player) (*models.Player, error) {
	normalizePlayer(&player)
	if err := validatePlayer(player); err != nil {
		return nil, err
	}
	return s.players.UpdatePlayer(ctx, player)
}

func (s *TeamServiceImpl) DeactivatePlayer(ctx context.Context, id int) error {
	return s.players.SetPlayerActive(ctx, id, false)
}

func (s *TeamServiceImpl) remember(t *models.Team) {
	if s.names != nil {
		s.names.Set(t.ID, t.Name)
	}
}

func normalizeTeam(t *models.Team) {
	t.Name = strings.TrimSpace(t.Name)
	t.Abbreviation = strings.ToUpper(strings.TrimSpace(t.Abbreviation))
	t.City = strings.TrimSpace(t.City)
}

func normalizePlayer(p *models.Player) {
	p.Name = strings.TrimSpace(p.Name)
	p.Position = strings.ToUpper(strings.TrimSpace(p.Position))
}
