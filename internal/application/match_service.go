package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marcador/internal/models"
	"marcador/internal/repository"
)

type MatchServiceImpl struct {
	matches repository.Match
	scores  repository.Score
	pub     *publisher
	clock   func() time.Time
	logger  Logger
}

func NewMatchServiceImpl(matches repository.Match, scores repository.Score, pub *publisher, clock func() time.Time, logger Logger) *MatchServiceImpl {
	return &MatchServiceImpl{
		matches: matches,
		scores:  scores,
		pub:     pub,
		clock:   clock,
		logger:  logger,
	}
}

func (s *MatchServiceImpl) CreateMatch(ctx context.Context, in models.MatchInput) (*models.Match, error) {
	m := models.Match{
		Status:            models.StatusScheduled,
		MinutesPerQuarter: defaultMinutesPerQuarter,
		TotalQuarters:     defaultTotalQuarters,
		TeamFoulLimit:     defaultTeamFoulLimit,
		PlayerFoulLimit:   defaultPlayerFoulLimit,
	}
	if in.Status != nil {
		status, err := models.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if status != models.StatusScheduled {
			return nil, models.InvalidArgument("a new match must start as %s, got %s", models.StatusScheduled, status)
		}
	}
	applyInput(&m, in)
	if err := validateMatch(m); err != nil {
		return nil, err
	}

	created, err := s.matches.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	s.logger.Info("match %d created: team %d vs team %d", created.ID, created.HomeTeamID, created.AwayTeamID)
	s.pub.publish(ctx, matchUpdate(models.UpdateMatchCreated, created, ""))
	return created, nil
}

func (s *MatchServiceImpl) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	return s.matches.GetByID(ctx, id)
}

func (s *MatchServiceImpl) ListMatches(ctx context.Context, filter models.MatchFilter) ([]models.Match, error) {
	return s.matches.List(ctx, filter)
}

// History lists finished matches, newest first.
func (s *MatchServiceImpl) History(ctx context.Context) ([]models.Match, error) {
	finished := models.StatusFinished
	return s.matches.List(ctx, models.MatchFilter{Status: &finished, Limit: historyLimit})
}

// NextMatch returns the earliest scheduled match that has not started yet,
// or nil when nothing is scheduled.
func (s *MatchServiceImpl) NextMatch(ctx context.Context) (*models.Match, error) {
	return s.matches.NextScheduled(ctx, s.clock())
}

// UpdateMatch edits schedule and rule fields. Status only moves through
// the lifecycle operations, and teams are fixed once the match has left
// scheduled.
func (s *MatchServiceImpl) UpdateMatch(ctx context.Context, id int, in models.MatchInput) (*models.Match, error) {
	var requested models.Status
	if in.Status != nil {
		status, err := models.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		requested = status
	}

	updated, err := s.matches.Update(ctx, id, func(m *models.Match) error {
		if requested != "" && requested != m.Status {
			return models.InvalidArgument("status cannot be changed by update; use the lifecycle operations")
		}
		teamsChanged := (in.HomeTeamID != nil && *in.HomeTeamID != m.HomeTeamID) ||
			(in.AwayTeamID != nil && *in.AwayTeamID != m.AwayTeamID)
		if teamsChanged && m.Status != models.StatusScheduled {
			return models.InvalidArgument("teams can only change while the match is %s", models.StatusScheduled)
		}
		applyInput(m, in)
		return validateMatch(*m)
	})
	if err != nil {
		return nil, err
	}
	s.pub.publish(ctx, matchUpdate(models.UpdateMatchUpdated, updated, ""))
	return updated, nil
}

// DeleteMatch removes the match together with everything recorded for it.
func (s *MatchServiceImpl) DeleteMatch(ctx context.Context, id int) error {
	if err := s.matches.Reset(ctx, id); err != nil {
		return err
	}
	s.logger.Info("match %d reset", id)
	s.pub.publish(ctx, models.MatchUpdate{Type: models.UpdateMatchDeleted, MatchID: id})
	return nil
}

func (s *MatchServiceImpl) StartMatch(ctx context.Context, id int) (*models.Match, error) {
	return s.transition(ctx, id, models.UpdateMatchStarted, models.Transition{
		To:        models.StatusLive,
		EventType: models.EventGameStart,
		Checked:   true,
		Describe: func(models.Match, models.Score) string {
			return "match started"
		},
	})
}

func (s *MatchServiceImpl) FinishMatch(ctx context.Context, id int) (*models.Match, error) {
	return s.transition(ctx, id, models.UpdateMatchFinished, models.Transition{
		To:        models.StatusFinished,
		EventType: models.EventGameEnd,
		Checked:   true,
		Describe: func(_ models.Match, score models.Score) string {
			return fmt.Sprintf("final score %s", formatScore(score))
		},
	})
}

func (s *MatchServiceImpl) SuspendMatch(ctx context.Context, id int, reason string) (*models.Match, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.InvalidArgument("a suspension reason is required")
	}
	return s.transition(ctx, id, models.UpdateMatchSuspended, models.Transition{
		To:        models.StatusSuspended,
		EventType: models.EventGameSuspended,
		Checked:   true,
		Describe: func(models.Match, models.Score) string {
			return "match suspended: " + reason
		},
	})
}

// SetStatusOverride forces any valid status, skipping transition rules.
// It is an administrative escape hatch and leaves a status_override entry
// in the lifecycle log.
func (s *MatchServiceImpl) SetStatusOverride(ctx context.Context, id int, candidate string) (*models.Match, error) {
	status, err := models.ParseStatus(candidate)
	if err != nil {
		return nil, err
	}
	m, err := s.transition(ctx, id, models.UpdateStatusOverride, models.Transition{
		To:        status,
		EventType: models.EventStatusOverride,
		Describe: func(m models.Match, _ models.Score) string {
			return fmt.Sprintf("status overridden from %s to %s", m.Status, status)
		},
	})
	if err != nil {
		return nil, err
	}
	s.logger.Warn("match %d status overridden to %s", id, status)
	return m, nil
}

func (s *MatchServiceImpl) transition(ctx context.Context, id int, updateType string, t models.Transition) (*models.Match, error) {
	var message string
	describe := t.Describe
	t.Describe = func(m models.Match, score models.Score) string {
		if describe != nil {
			message = describe(m, score)
		}
		return message
	}

	m, err := s.matches.ApplyTransition(ctx, id, t)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("match %d moved to %s", id, m.Status)
	s.pub.publish(ctx, matchUpdate(updateType, m, message))
	return m, nil
}

func (s *MatchServiceImpl) ListEvents(ctx context.Context, id int) ([]models.LifecycleEvent, error) {
	return s.matches.ListEvents(ctx, id)
}

// AdjustScore appends a manual ledger entry. The team must be one of the
// two sides of the match.
func (s *MatchServiceImpl) AdjustScore(ctx context.Context, id, teamID, points int) (models.Score, error) {
	if teamID <= 0 {
		return models.Score{}, models.InvalidArgument("team id is required")
	}
	score, err := s.scores.AppendAdjustment(ctx, id, teamID, points, manualAdjustmentDescription)
	if err != nil {
		return models.Score{}, err
	}
	s.pub.publish(ctx, models.MatchUpdate{
		Type:    models.UpdateScoreAdjusted,
		MatchID: id,
		Score:   &score,
		Message: fmt.Sprintf("team %d %+d", teamID, points),
	})
	return score, nil
}

func (s *MatchServiceImpl) CurrentScore(ctx context.Context, id int) (models.Score, error) {
	return s.scores.CurrentScore(ctx, id)
}

func applyInput(m *models.Match, in models.MatchInput) {
	if in.HomeTeamID != nil {
		m.HomeTeamID = *in.HomeTeamID
	}
	if in.AwayTeamID != nil {
		m.AwayTeamID = *in.AwayTeamID
	}
	if in.ScheduledAt != nil {
		at := *in.ScheduledAt
		m.ScheduledAt = &at
	}
	if in.MinutesPerQuarter != nil {
		m.MinutesPerQuarter = *in.MinutesPerQuarter
	}
	if in.TotalQuarters != nil {
		m.TotalQuarters = *in.TotalQuarters
	}
	if in.TeamFoulLimit != nil {
		m.TeamFoulLimit = *in.TeamFoulLimit
	}
	if in.PlayerFoulLimit != nil {
		m.PlayerFoulLimit = *in.PlayerFoulLimit
	}
	if in.Venue != nil {
		venue := strings.TrimSpace(*in.Venue)
		if venue == "" {
			m.Venue = nil
		} else {
			m.Venue = &venue
		}
	}
}

func formatScore(score models.Score) string {
	return fmt.Sprintf("%d-%d", score.Home, score.Away)
}
