package models

import "strings"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
	StatusSuspended Status = "suspended"
)

var allStatuses = []Status{
	StatusScheduled,
	StatusLive,
	StatusFinished,
	StatusCancelled,
	StatusSuspended,
}

// transitions lists the lifecycle moves the checked path allows.
// finished and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusLive},
	StatusLive:      {StatusFinished, StatusSuspended},
	StatusSuspended: {StatusFinished},
}

// ParseStatus validates a candidate against the closed set of match states.
func ParseStatus(candidate string) (Status, error) {
	s := Status(strings.TrimSpace(candidate))
	if s.Valid() {
		return s, nil
	}
	return "", InvalidStatus("invalid status %q: must be one of %s", candidate, strings.Join(StatusNames(), ", "))
}

func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func StatusNames() []string {
	names := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		names[i] = string(s)
	}
	return names
}
