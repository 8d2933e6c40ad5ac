package application

import (
	"context"
	"fmt"

	"marcador/internal/models"
	"marcador/internal/repository"
)

type RosterServiceImpl struct {
	repo repository.Roster
	pub  *publisher
}

func NewRosterServiceImpl(repo repository.Roster, pub *publisher) *RosterServiceImpl {
	return &RosterServiceImpl{repo: repo, pub: pub}
}

func (s *RosterServiceImpl) GetRoster(ctx context.Context, matchID int) ([]models.RosterEntry, error) {
	return s.repo.ListRoster(ctx, matchID)
}

// SaveRoster replaces the roster of a match with entries as given.
// Duplicates are kept and an empty list clears the roster.
func (s *RosterServiceImpl) SaveRoster(ctx context.Context, matchID int, entries []models.RosterEntry) error {
	for i, e := range entries {
		if e.MatchID != matchID {
			return models.InvalidArgument("roster entry %d belongs to match %d, expected %d", i, e.MatchID, matchID)
		}
	}
	if err := s.repo.ReplaceRoster(ctx, matchID, entries); err != nil {
		return err
	}
	s.pub.publish(ctx, models.MatchUpdate{
		Type:    models.UpdateRosterSaved,
		MatchID: matchID,
		Message: fmt.Sprintf("%d players", len(entries)),
	})
	return nil
}
