package application

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"marcador/internal/models"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func newTestService(t *testing.T) (*Service, *memStore, *recordingNotifier) {
	t.Helper()
	store := newMemStore()
	notifier := &recordingNotifier{}
	svc := NewService(Deps{
		Repos:    store.repos(),
		Names:    staticNames{1: "Leones", 2: "Tigres"},
		Notifier: notifier,
		Logger:   nopLogger{},
		Clock:    func() time.Time { return store.now },
	})
	return svc, store, notifier
}

func createMatch(t *testing.T, svc *Service, home, away int) *models.Match {
	t.Helper()
	m, err := svc.MatchService.CreateMatch(context.Background(), models.MatchInput{
		HomeTeamID:        intPtr(home),
		AwayTeamID:        intPtr(away),
		TotalQuarters:     intPtr(4),
		MinutesPerQuarter: intPtr(10),
	})
	if err != nil {
		t.Fatalf("failed to create match: %v", err)
	}
	return m
}

func TestMatchLifecycleScenario(t *testing.T) {
	svc, store, notifier := newTestService(t)
	ctx := context.Background()
	matches := svc.MatchService

	m := createMatch(t, svc, 1, 2)
	if m.Status != models.StatusScheduled {
		t.Fatalf("expected scheduled, got %s", m.Status)
	}

	m, err := matches.StartMatch(ctx, m.ID)
	if err != nil || m.Status != models.StatusLive {
		t.Fatalf("expected live, got %v (err %v)", m, err)
	}

	score, err := matches.AdjustScore(ctx, m.ID, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != (models.Score{Home: 2, Away: 0}) {
		t.Fatalf("expected 2-0, got %+v", score)
	}

	m, err = matches.SuspendMatch(ctx, m.ID, "weather")
	if err != nil || m.Status != models.StatusSuspended {
		t.Fatalf("expected suspended, got %v (err %v)", m, err)
	}

	m, err = matches.FinishMatch(ctx, m.ID)
	if err != nil || m.Status != models.StatusFinished {
		t.Fatalf("expected finished, got %v (err %v)", m, err)
	}

	events, err := matches.ListEvents(ctx, m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 lifecycle events, got %d", len(events))
	}
	last := events[0]
	if last.EventType != models.EventGameEnd || !strings.Contains(last.Description, "2-0") {
		t.Fatalf("expected game_end embedding 2-0, got %+v", last)
	}
	if !strings.Contains(events[1].Description, "weather") {
		t.Fatalf("expected suspension reason in log, got %q", events[1].Description)
	}
	if len(store.events) != 3 {
		t.Fatalf("expected 3 stored events, got %d", len(store.events))
	}

	want := []string{
		models.UpdateMatchCreated,
		models.UpdateMatchStarted,
		models.UpdateScoreAdjusted,
		models.UpdateMatchSuspended,
		models.UpdateMatchFinished,
	}
	if got := notifier.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected updates %v, got %v", want, got)
	}
	if msg := notifier.updates[4].Message; !strings.Contains(msg, "2-0") {
		t.Fatalf("expected finish update to carry the final score, got %q", msg)
	}
	if u := notifier.updates[4]; u.HomeTeamID != 1 || u.AwayTeamID != 2 {
		t.Fatalf("expected finish update to name both teams, got %+v", u)
	}
}

func TestStartTwiceIsInvalidTransition(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	m := createMatch(t, svc, 1, 2)

	if _, err := svc.MatchService.StartMatch(ctx, m.ID); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	_, err := svc.MatchService.StartMatch(ctx, m.ID)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestFinishAllowedStates(t *testing.T) {
	tests := []struct {
		from    models.Status
		allowed bool
	}{
		{models.StatusScheduled, false},
		{models.StatusLive, true},
		{models.StatusSuspended, true},
		{models.StatusFinished, false},
		{models.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			svc, store, _ := newTestService(t)
			m := createMatch(t, svc, 1, 2)
			stored := store.matches[m.ID]
			stored.Status = tt.from
			store.matches[m.ID] = stored

			_, err := svc.MatchService.FinishMatch(context.Background(), m.ID)
			if tt.allowed && err != nil {
				t.Fatalf("expected finish from %s to succeed, got %v", tt.from, err)
			}
			if !tt.allowed && !errors.Is(err, models.ErrInvalidTransition) {
				t.Fatalf("expected invalid transition from %s, got %v", tt.from, err)
			}
		})
	}
}

func TestLifecycleOnMissingMatch(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.MatchService.StartMatch(ctx, 42); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.MatchService.AdjustScore(ctx, 42, 1, 3); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSuspendRequiresReason(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	m := createMatch(t, svc, 1, 2)
	if _, err := svc.MatchService.StartMatch(ctx, m.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	_, err := svc.MatchService.SuspendMatch(ctx, m.ID, "   ")
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if store.matches[m.ID].Status != models.StatusLive {
		t.Fatalf("expected match to stay live, got %s", store.matches[m.ID].Status)
	}
}

func TestAdjustmentsCommute(t *testing.T) {
	orders := [][]struct{ team, points int }{
		{{1, 10}, {2, 7}},
		{{2, 7}, {1, 10}},
	}

	for _, order := range orders {
		svc, _, _ := newTestService(t)
		ctx := context.Background()
		m := createMatch(t, svc, 1, 2)
		for _, adj := range order {
			if _, err := svc.MatchService.AdjustScore(ctx, m.ID, adj.team, adj.points); err != nil {
				t.Fatalf("adjustment failed: %v", err)
			}
		}
		score, err := svc.MatchService.CurrentScore(ctx, m.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if score != (models.Score{Home: 10, Away: 7}) {
			t.Fatalf("expected 10-7, got %+v", score)
		}
	}
}

func TestAdjustmentForForeignTeamLeavesLedgerUnchanged(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	m := createMatch(t, svc, 1, 2)

	_, err := svc.MatchService.AdjustScore(ctx, m.ID, 3, 5)
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if len(store.scores) != 0 {
		t.Fatalf("expected no score events, got %d", len(store.scores))
	}
}

func TestNegativeAdjustmentCorrectsScore(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	m := createMatch(t, svc, 1, 2)

	if _, err := svc.MatchService.AdjustScore(ctx, m.ID, 2, 3); err != nil {
		t.Fatalf("adjustment failed: %v", err)
	}
	score, err := svc.MatchService.AdjustScore(ctx, m.ID, 2, -1)
	if err != nil {
		t.Fatalf("correction failed: %v", err)
	}
	if score != (models.Score{Home: 0, Away: 2}) {
		t.Fatalf("expected 0-2, got %+v", score)
	}
}

func TestCreateMatchValidation(t *testing.T) {
	tests := []struct {
		name string
		in   models.MatchInput
		kind models.ErrorKind
	}{
		{"same teams", models.MatchInput{HomeTeamID: intPtr(1), AwayTeamID: intPtr(1)}, models.KindInvalidArgument},
		{"missing away", models.MatchInput{HomeTeamID: intPtr(1)}, models.KindInvalidArgument},
		{"minutes too long", models.MatchInput{HomeTeamID: intPtr(1), AwayTeamID: intPtr(2), MinutesPerQuarter: intPtr(16)}, models.KindInvalidArgument},
		{"too few quarters", models.MatchInput{HomeTeamID: intPtr(1), AwayTeamID: intPtr(2), TotalQuarters: intPtr(3)}, models.KindInvalidArgument},
		{"foul limit zero", models.MatchInput{HomeTeamID: intPtr(1), AwayTeamID: intPtr(2), TeamFoulLimit: intPtr(0)}, models.KindInvalidArgument},
		{"player foul limit high", models.MatchInput{HomeTeamID: intPtr(1), AwayTeamID: intPtr(2), PlayerFoulLimit: intPtr(256)}, models.KindInvalidArgument},
		{"venue too long", models.MatchInput{HomeTeamID: intPtr(1), AwayTeamID: intPtr(2), Venue: strPtr(strings.Repeat("x", 101))}, models.KindInvalidArgument},
		{"unknown status", models.MatchInput{HomeTeamID: intPtr(1), AwayTeamID: intPtr(2), Status: strPtr("halftime")}, models.KindInvalidStatus},
		{"starts live", models.MatchInput{HomeTeamID: intPtr(1), AwayTeamID: intPtr(2), Status: strPtr("live")}, models.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)
			_, err := svc.MatchService.CreateMatch(context.Background(), tt.in)
			if got := models.KindOf(err); got != tt.kind {
				t.Fatalf("expected %s, got %s (%v)", tt.kind, got, err)
			}
			if len(store.matches) != 0 {
				t.Fatalf("expected nothing stored, got %d matches", len(store.matches))
			}
		})
	}
}

func TestCreateMatchDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	m, err := svc.MatchService.CreateMatch(context.Background(), models.MatchInput{
		HomeTeamID: intPtr(1),
		AwayTeamID: intPtr(2),
		Status:     strPtr("scheduled"),
		Venue:      strPtr("  Gimnasio Municipal "),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MinutesPerQuarter != 10 || m.TotalQuarters != 4 || m.TeamFoulLimit != 5 || m.PlayerFoulLimit != 5 {
		t.Fatalf("unexpected defaults: %+v", m)
	}
	if m.Venue == nil || *m.Venue != "Gimnasio Municipal" {
		t.Fatalf("expected trimmed venue, got %v", m.Venue)
	}
}

func TestUpdateMatchRules(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	m := createMatch(t, svc, 1, 2)

	if _, err := svc.MatchService.UpdateMatch(ctx, m.ID, models.MatchInput{AwayTeamID: intPtr(1)}); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected equal teams to be rejected, got %v", err)
	}
	if _, err := svc.MatchService.UpdateMatch(ctx, m.ID, models.MatchInput{Status: strPtr("live")}); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected status change to be rejected, got %v", err)
	}

	updated, err := svc.MatchService.UpdateMatch(ctx, m.ID, models.MatchInput{
		AwayTeamID:  intPtr(3),
		ScheduledAt: timePtr(time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.AwayTeamID != 3 || !updated.CreatedAt.Equal(m.CreatedAt) {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if _, err := svc.MatchService.StartMatch(ctx, m.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.MatchService.UpdateMatch(ctx, m.ID, models.MatchInput{HomeTeamID: intPtr(4)}); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected team change on live match to be rejected, got %v", err)
	}
	if _, err := svc.MatchService.UpdateMatch(ctx, m.ID, models.MatchInput{Status: strPtr("live"), Venue: strPtr("Arena")}); err != nil {
		t.Fatalf("expected unchanged status to be accepted, got %v", err)
	}
}

func TestSetStatusOverrideBypassesTransitions(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()
	m := createMatch(t, svc, 1, 2)

	m, err := svc.MatchService.SetStatusOverride(ctx, m.ID, "finished")
	if err != nil || m.Status != models.StatusFinished {
		t.Fatalf("expected override to finished, got %v (err %v)", m, err)
	}
	m, err = svc.MatchService.SetStatusOverride(ctx, m.ID, "scheduled")
	if err != nil || m.Status != models.StatusScheduled {
		t.Fatalf("expected override back to scheduled, got %v (err %v)", m, err)
	}

	events, _ := svc.MatchService.ListEvents(ctx, m.ID)
	if len(events) != 2 || events[0].EventType != models.EventStatusOverride {
		t.Fatalf("expected two override entries, got %+v", events)
	}
	if events[0].Description != "status overridden from finished to scheduled" {
		t.Fatalf("unexpected description %q", events[0].Description)
	}
	if last := notifier.updates[len(notifier.updates)-1]; last.Message != events[0].Description {
		t.Fatalf("expected update message %q, got %q", events[0].Description, last.Message)
	}

	if _, err := svc.MatchService.SetStatusOverride(ctx, m.ID, "halftime"); !errors.Is(err, models.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestResetRemovesEverything(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	m := createMatch(t, svc, 1, 2)
	other := createMatch(t, svc, 2, 1)

	if err := svc.RosterService.SaveRoster(ctx, m.ID, []models.RosterEntry{{MatchID: m.ID, TeamID: 1, PlayerID: 10, IsStarter: true}}); err != nil {
		t.Fatalf("roster save failed: %v", err)
	}
	if _, err := svc.MatchService.AdjustScore(ctx, other.ID, 2, 3); err != nil {
		t.Fatalf("adjustment failed: %v", err)
	}
	if _, err := svc.MatchService.StartMatch(ctx, m.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.MatchService.AdjustScore(ctx, m.ID, 1, 2); err != nil {
		t.Fatalf("adjustment failed: %v", err)
	}

	if err := svc.MatchService.DeleteMatch(ctx, m.ID); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, err := svc.MatchService.GetMatch(ctx, m.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found after reset, got %v", err)
	}
	roster, _ := svc.RosterService.GetRoster(ctx, m.ID)
	if len(roster) != 0 {
		t.Fatalf("expected empty roster, got %v", roster)
	}
	if len(store.scores) != 1 || store.scores[0].MatchID != other.ID {
		t.Fatalf("expected only the other match's ledger to survive, got %+v", store.scores)
	}

	if err := svc.MatchService.DeleteMatch(ctx, m.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected second reset to be not found, got %v", err)
	}
}

func TestNextMatch(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	next, err := svc.MatchService.NextMatch(ctx)
	if err != nil || next != nil {
		t.Fatalf("expected no next match, got %v (err %v)", next, err)
	}

	for _, offset := range []time.Duration{48 * time.Hour, -time.Hour, 24 * time.Hour} {
		_, err := svc.MatchService.CreateMatch(ctx, models.MatchInput{
			HomeTeamID:  intPtr(1),
			AwayTeamID:  intPtr(2),
			ScheduledAt: timePtr(store.now.Add(offset)),
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	next, err = svc.MatchService.NextMatch(ctx)
	if err != nil || next == nil {
		t.Fatalf("expected a next match, got %v (err %v)", next, err)
	}
	if !next.ScheduledAt.Equal(store.now.Add(24 * time.Hour)) {
		t.Fatalf("expected the match in 24h, got %v", next.ScheduledAt)
	}
}

func TestNotifierFailureDoesNotFailWrite(t *testing.T) {
	svc, _, notifier := newTestService(t)
	notifier.err = errNotifierDown

	m := createMatch(t, svc, 1, 2)
	if _, err := svc.MatchService.StartMatch(context.Background(), m.ID); err != nil {
		t.Fatalf("expected start to succeed despite notifier failure, got %v", err)
	}
	if len(notifier.updates) != 2 {
		t.Fatalf("expected 2 attempted notifications, got %d", len(notifier.updates))
	}
}

func TestFailedWritePublishesNothing(t *testing.T) {
	svc, _, notifier := newTestService(t)
	m := createMatch(t, svc, 1, 2)

	if _, err := svc.MatchService.FinishMatch(context.Background(), m.ID); err == nil {
		t.Fatal("expected finish from scheduled to fail")
	}
	if got := notifier.types(); len(got) != 1 {
		t.Fatalf("expected only the create update, got %v", got)
	}
}
