package session

import (
	"slices"
	"strings"

	"github.com/louisbranch/sadari/internal/ladder"
)

// Status is the lifecycle stage of a game.
type Status int

const (
	// StatusSetup collects players and the penalty.
	StatusSetup Status = iota
	// StatusReady has a ladder and no reveals yet.
	StatusReady
	// StatusInProgress has at least one safe reveal.
	StatusInProgress
	// StatusFinished has found the penalty column.
	StatusFinished
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSetup:
		return "SETUP"
	case StatusReady:
		return "READY"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// State is a snapshot of a game.
type State struct {
	ID          string
	Players     []string
	PenaltyText string
	Graph       ladder.Graph
	Status      Status
	// WinnerColumn is the start column whose path reached the penalty. It is
	// set once, when the game finishes.
	WinnerColumn *int
	// Seed generated the current Graph.
	Seed int64

	resolved []bool
}

// Columns returns the ladder width.
func (s State) Columns() int {
	return len(s.Players)
}

// PenaltyColumn returns the bottom column that carries the penalty.
func (s State) PenaltyColumn() int {
	return len(s.Players) - 1
}

// IsResolved reports whether col has already been revealed safe.
func (s State) IsResolved(col int) bool {
	return col >= 0 && col < len(s.resolved) && s.resolved[col]
}

// ResolvedColumns returns the columns revealed safe, in ascending order.
func (s State) ResolvedColumns() []int {
	var out []int
	for col, done := range s.resolved {
		if done {
			out = append(out, col)
		}
	}
	return out
}

// PendingColumns returns the columns still eligible for a reveal. A finished
// game has none.
func (s State) PendingColumns() []int {
	if s.Status != StatusReady && s.Status != StatusInProgress {
		return nil
	}
	var out []int
	for col := range s.Players {
		if !s.IsResolved(col) {
			out = append(out, col)
		}
	}
	return out
}

// Player returns the name of the player starting at col.
func (s State) Player(col int) (string, bool) {
	if col < 0 || col >= len(s.Players) {
		return "", false
	}
	return s.Players[col], true
}

// ColumnOf returns the start column of the named player. Names are compared
// after trimming surrounding space and are unique within a game.
func (s State) ColumnOf(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for col, player := range s.Players {
		if player == name {
			return col, true
		}
	}
	return 0, false
}

// Winner returns the name of the player who drew the penalty.
func (s State) Winner() (string, bool) {
	if s.WinnerColumn == nil {
		return "", false
	}
	return s.Player(*s.WinnerColumn)
}

// Mapping returns every start column's final column. It is only exposed once
// the game is finished.
func (s State) Mapping() ([]int, bool) {
	if s.Status != StatusFinished {
		return nil, false
	}
	mapping, err := s.Graph.Permutation()
	if err != nil {
		return nil, false
	}
	return mapping, true
}

func (s State) clone() State {
	out := s
	out.Players = slices.Clone(s.Players)
	out.resolved = slices.Clone(s.resolved)
	out.Graph.Rungs = slices.Clone(s.Graph.Rungs)
	if s.WinnerColumn != nil {
		winner := *s.WinnerColumn
		out.WinnerColumn = &winner
	}
	return out
}
