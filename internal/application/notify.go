package application

import (
	"context"
	"time"

	"marcador/internal/models"
)

// Notifiers fans an update out to every configured notifier.
type Notifiers []Notifier

func (n Notifiers) Notify(ctx context.Context, update models.MatchUpdate) error {
	var firstErr error
	for _, notifier := range n {
		if err := notifier.Notify(ctx, update); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// publisher stamps updates and logs delivery failures. A failed
// notification never fails the write that produced it.
type publisher struct {
	notifier Notifier
	logger   Logger
	clock    func() time.Time
}

func newPublisher(notifier Notifier, logger Logger, clock func() time.Time) *publisher {
	return &publisher{notifier: notifier, logger: logger, clock: clock}
}

func (p *publisher) publish(ctx context.Context, update models.MatchUpdate) {
	if p == nil || p.notifier == nil {
		return
	}
	update.At = p.clock()
	if err := p.notifier.Notify(ctx, update); err != nil && p.logger != nil {
		p.logger.Warn("failed to publish %s for match %d: %v", update.Type, update.MatchID, err)
	}
}

func matchUpdate(kind string, m *models.Match, message string) models.MatchUpdate {
	score := m.Score
	return models.MatchUpdate{
		Type:       kind,
		MatchID:    m.ID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		Status:     m.Status,
		Score:      &score,
		Message:    message,
	}
}
