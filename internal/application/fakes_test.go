package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"marcador/internal/models"
	"marcador/internal/repository"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// memStore is an in-memory stand-in for the Postgres repositories.
type memStore struct {
	mu      sync.Mutex
	nextID  int
	matches map[int]models.Match
	scores  []models.ScoreEvent
	events  []models.LifecycleEvent
	rosters map[int][]models.RosterEntry
	teams   map[int]models.Team
	players map[int]models.Player
	now     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		matches: make(map[int]models.Match),
		rosters: make(map[int][]models.RosterEntry),
		teams:   make(map[int]models.Team),
		players: make(map[int]models.Player),
		now:     time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) repos() *repository.Repository {
	return &repository.Repository{
		Match:     s,
		Score:     s,
		Roster:    s,
		Team:      s,
		Player:    s,
		Dashboard: s,
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *memStore) score(m models.Match) models.Score {
	var score models.Score
	for _, e := range s.scores {
		if e.MatchID != m.ID {
			continue
		}
		switch e.TeamID {
		case m.HomeTeamID:
			score.Home += e.Points
		case m.AwayTeamID:
			score.Away += e.Points
		}
	}
	return score
}

func (s *memStore) Create(_ context.Context, m models.Match) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	m.CreatedAt = s.now
	s.matches[m.ID] = m
	return &m, nil
}

func (s *memStore) GetByID(_ context.Context, id int) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, models.NotFound("match %d not found", id)
	}
	m.Score = s.score(m)
	return &m, nil
}

func (s *memStore) List(_ context.Context, filter models.MatchFilter) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Match{}
	for _, m := range s.matches {
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		m.Score = s.score(m)
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, id int, apply func(m *models.Match) error) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, models.NotFound("match %d not found", id)
	}
	if err := apply(&m); err != nil {
		return nil, err
	}
	s.matches[id] = m
	m.Score = s.score(m)
	return &m, nil
}

func (s *memStore) ApplyTransition(_ context.Context, id int, t models.Transition) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, models.NotFound("match %d not found", id)
	}
	if t.Checked && !m.Status.CanTransitionTo(t.To) {
		return nil, models.InvalidTransition("match %d cannot move from %s to %s", id, m.Status, t.To)
	}
	score := s.score(m)
	description := ""
	if t.Describe != nil {
		description = t.Describe(m, score)
	}
	m.Status = t.To
	s.matches[id] = m
	s.events = append(s.events, models.LifecycleEvent{
		ID:          int64(len(s.events) + 1),
		MatchID:     id,
		EventType:   t.EventType,
		Description: description,
		CreatedAt:   s.now,
	})
	m.Score = score
	return &m, nil
}

func (s *memStore) Reset(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return models.NotFound("match %d not found", id)
	}
	delete(s.rosters, id)
	scores := s.scores[:0]
	for _, e := range s.scores {
		if e.MatchID != id {
			scores = append(scores, e)
		}
	}
	s.scores = scores
	events := s.events[:0]
	for _, e := range s.events {
		if e.MatchID != id {
			events = append(events, e)
		}
	}
	s.events = events
	delete(s.matches, id)
	return nil
}

func (s *memStore) ListEvents(_ context.Context, id int) ([]models.LifecycleEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return nil, models.NotFound("match %d not found", id)
	}
	out := []models.LifecycleEvent{}
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].MatchID == id {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

func (s *memStore) NextScheduled(_ context.Context, after time.Time) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var next *models.Match
	for _, m := range s.matches {
		m := m
		if m.Status != models.StatusScheduled || m.ScheduledAt == nil || m.ScheduledAt.Before(after) {
			continue
		}
		if next == nil || m.ScheduledAt.Before(*next.ScheduledAt) {
			next = &m
		}
	}
	return next, nil
}

func (s *memStore) AppendAdjustment(_ context.Context, matchID, teamID, points int, description string) (models.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return models.Score{}, models.NotFound("match %d not found", matchID)
	}
	if !m.HasTeam(teamID) {
		return models.Score{}, models.InvalidArgument("team %d does not play in match %d", teamID, matchID)
	}
	s.scores = append(s.scores, models.ScoreEvent{
		ID: int64(len(s.scores) + 1), MatchID: matchID, TeamID: teamID, Points: points, Description: description,
	})
	return s.score(m), nil
}

func (s *memStore) CurrentScore(_ context.Context, matchID int) (models.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return models.Score{}, models.NotFound("match %d not found", matchID)
	}
	return s.score(m), nil
}

func (s *memStore) ReplaceRoster(_ context.Context, matchID int, entries []models.RosterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[matchID]; !ok {
		return models.NotFound("match %d not found", matchID)
	}
	s.rosters[matchID] = append([]models.RosterEntry(nil), entries...)
	return nil
}

func (s *memStore) ListRoster(_ context.Context, matchID int) ([]models.RosterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.RosterEntry{}, s.rosters[matchID]...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		if a.IsStarter != b.IsStarter {
			return a.IsStarter
		}
		return a.PlayerID < b.PlayerID
	})
	return out, nil
}

func (s *memStore) ListTeams(_ context.Context, activeOnly bool) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Team{}
	for _, t := range s.teams {
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) GetTeam(_ context.Context, id int) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, models.NotFound("team %d not found", id)
	}
	return &t, nil
}

func (s *memStore) CreateTeam(_ context.Context, t models.Team) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.teams {
		if existing.Name == t.Name {
			return nil, models.InvalidArgument("insert team: duplicate value")
		}
	}
	t.ID = s.id()
	t.IsActive = true
	s.teams[t.ID] = t
	return &t, nil
}

func (s *memStore) UpdateTeam(_ context.Context, t models.Team) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.teams[t.ID]
	if !ok {
		return nil, models.NotFound("team %d not found", t.ID)
	}
	t.IsActive = existing.IsActive
	s.teams[t.ID] = t
	return &t, nil
}

func (s *memStore) SetTeamActive(_ context.Context, id int, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return models.NotFound("team %d not found", id)
	}
	t.IsActive = active
	s.teams[id] = t
	return nil
}

func (s *memStore) ListPlayersByTeam(_ context.Context, teamID int) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Player{}
	for _, p := range s.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JerseyNumber < out[j].JerseyNumber })
	return out, nil
}

func (s *memStore) GetPlayer(_ context.Context, id int) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, models.NotFound("player %d not found", id)
	}
	return &p, nil
}

func (s *memStore) CreatePlayer(_ context.Context, p models.Player) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[p.TeamID]; !ok {
		return nil, models.InvalidArgument("insert player: referenced record does not exist")
	}
	p.ID = s.id()
	p.IsActive = true
	s.players[p.ID] = p
	return &p, nil
}

func (s *memStore) UpdatePlayer(_ context.Context, p models.Player) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.players[p.ID]
	if !ok {
		return nil, models.NotFound("player %d not found", p.ID)
	}
	p.IsActive = existing.IsActive
	s.players[p.ID] = p
	return &p, nil
}

func (s *memStore) SetPlayerActive(_ context.Context, id int, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return models.NotFound("player %d not found", id)
	}
	p.IsActive = active
	s.players[id] = p
	return nil
}

func (s *memStore) KPIs(context.Context) (models.KPIs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var k models.KPIs
	for _, t := range s.teams {
		if t.IsActive {
			k.ActiveTeams++
		}
	}
	for _, p := range s.players {
		if p.IsActive {
			k.ActivePlayers++
		}
	}
	for _, m := range s.matches {
		if m.Status == models.StatusScheduled {
			k.ScheduledMatches++
		}
	}
	return k, nil
}

func (s *memStore) Summary(ctx context.Context) (models.DashboardSummary, error) {
	k, _ := s.KPIs(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := models.DashboardSummary{KPIs: k, ByStatus: map[models.Status]int{}}
	for _, m := range s.matches {
		summary.TotalMatches++
		summary.ByStatus[m.Status]++
	}
	summary.LifecycleEvents = len(s.events)
	return summary, nil
}

func (s *memStore) MonthlyStats(_ context.Context, year int) ([]models.MonthlyStat, error) {
	stats := make([]models.MonthlyStat, 12)
	for i := range stats {
		stats[i].Month = i + 1
	}
	return stats, nil
}

// recordingNotifier keeps every update it receives.
type recordingNotifier struct {
	mu      sync.Mutex
	updates []models.MatchUpdate
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, u models.MatchUpdate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, u)
	return n.err
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.updates))
	for i, u := range n.updates {
		out[i] = u.Type
	}
	return out
}

type staticNames map[int]string

func (n staticNames) Name(_ context.Context, id int) string {
	if name, ok := n[id]; ok {
		return name
	}
	return "unknown"
}

func (n staticNames) Set(id int, name string) { n[id] = name }

var errNotifierDown = errors.New("notifier down")
