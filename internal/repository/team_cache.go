package repository

import (
	"context"
	"fmt"
	"sync"
)

// TeamCache keeps team display names in memory for reports and
// announcements. Misses fall through to the team store.
type TeamCache struct {
	mu    sync.RWMutex
	cache map[int]string // team ID -> name
	teams Team
}

func NewTeamCache(teams Team) *TeamCache {
	return &TeamCache{
		cache: make(map[int]string),
		teams: teams,
	}
}

// Name returns the team name, loading it on a miss. Unknown teams are
// rendered as "Team <id>".
func (c *TeamCache) Name(ctx context.Context, id int) string {
	c.mu.RLock()
	name, found := c.cache[id]
	c.mu.RUnlock()
	if found {
		return name
	}

	team, err := c.teams.GetTeam(ctx, id)
	if err != nil {
		return fmt.Sprintf("Team %d", id)
	}
	c.Set(team.ID, team.Name)
	return team.Name
}

func (c *TeamCache) Set(id int, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[id] = name
}

func (c *TeamCache) Delete(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, id)
}

// LoadAll warms the cache with every known team.
func (c *TeamCache) LoadAll(ctx context.Context) error {
	teams, err := c.teams.ListTeams(ctx, false)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range teams {
		c.cache[t.ID] = t.Name
	}
	return nil
}

func (c *TeamCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

