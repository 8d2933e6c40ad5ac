package application

import (
	"strings"
	"unicode/utf8"

	"marcador/internal/models"
)

func validateMatch(m models.Match) error {
	if m.HomeTeamID <= 0 || m.AwayTeamID <= 0 {
		return models.InvalidArgument("home and away team ids are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return models.InvalidArgument("home and away team must be different")
	}
	if m.MinutesPerQuarter < minMinutesPerQuarter || m.MinutesPerQuarter > maxMinutesPerQuarter {
		return models.InvalidArgument("minutes per quarter must be between %d and %d", minMinutesPerQuarter, maxMinutesPerQuarter)
	}
	if m.TotalQuarters < minTotalQuarters {
		return models.InvalidArgument("total quarters must be at least %d", minTotalQuarters)
	}
	if !inRange(m.TeamFoulLimit, minFoulLimit, maxFoulLimit) {
		return models.InvalidArgument("team foul limit must be between %d and %d", minFoulLimit, maxFoulLimit)
	}
	if !inRange(m.PlayerFoulLimit, minFoulLimit, maxFoulLimit) {
		return models.InvalidArgument("player foul limit must be between %d and %d", minFoulLimit, maxFoulLimit)
	}
	if m.Venue != nil && utf8.RuneCountInString(*m.Venue) > maxVenueLength {
		return models.InvalidArgument("venue must be at most %d characters", maxVenueLength)
	}
	return nil
}

func validateTeam(t models.Team) error {
	if strings.TrimSpace(t.Name) == "" {
		return models.InvalidArgument("team name is required")
	}
	if utf8.RuneCountInString(t.Name) > maxTeamNameLength {
		return models.InvalidArgument("team name must be at most %d characters", maxTeamNameLength)
	}
	if utf8.RuneCountInString(t.Abbreviation) > maxAbbreviationLength {
		return models.InvalidArgument("abbreviation must be at most %d characters", maxAbbreviationLength)
	}
	if utf8.RuneCountInString(t.City) > maxCityLength {
		return models.InvalidArgument("city must be at most %d characters", maxCityLength)
	}
	return nil
}

func validatePlayer(p models.Player) error {
	if p.TeamID <= 0 {
		return models.InvalidArgument("team id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return models.InvalidArgument("player name is required")
	}
	if utf8.RuneCountInString(p.Name) > maxPlayerNameLength {
		return models.InvalidArgument("player name must be at most %d characters", maxPlayerNameLength)
	}
	if !inRange(p.JerseyNumber, 0, maxJerseyNumber) {
		return models.InvalidArgument("jersey number must be between 0 and %d", maxJerseyNumber)
	}
	if p.Position != "" && !containsString(playerPositions, p.Position) {
		return models.InvalidArgument("position must be one of %s", strings.Join(playerPositions, ", "))
	}
	return nil
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
