package models

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("match %d not found", 7))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped error to match ErrNotFound")
	}
	if errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("did not expect match against ErrInvalidArgument")
	}
	if err.Error() != "wrapped: match 7 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{nil, ""},
		{InvalidArgument("x"), KindInvalidArgument},
		{InvalidTransition("x"), KindInvalidTransition},
		{InvalidStatus("x"), KindInvalidStatus},
		{fmt.Errorf("ctx: %w", NotFound("x")), KindNotFound},
		{errors.New("connection refused"), KindStorage},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v): expected %q, got %q", tc.err, tc.want, got)
		}
	}
}

func TestStorageFailureUnwraps(t *testing.T) {
	err := StorageFailure("failed to query matches", sql.ErrConnDone)
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("expected cause to be reachable")
	}
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected storage kind")
	}
}

func TestMatchHasTeam(t *testing.T) {
	m := Match{HomeTeamID: 1, AwayTeamID: 2}
	if !m.HasTeam(1) || !m.HasTeam(2) {
		t.Fatalf("expected both sides to belong to the match")
	}
	if m.HasTeam(3) {
		t.Fatalf("team 3 does not play in the match")
	}
}
