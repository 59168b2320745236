package ladder

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation indicates a graph or rung that could not have been
// produced by Generate. Encountering it points at a generator defect or a
// hand-built graph, never at user input.
var ErrInvariantViolation = errors.New("ladder invariant violation")

// Rung connects column From to column To (always From+1) on one level.
type Rung struct {
	From  int
	To    int
	Level int
}

// Graph is an immutable ladder over Columns columns and Levels levels.
//
// Rungs are ordered by level, then by From. For any fixed level no column
// appears in more than one rung.
type Graph struct {
	Columns int
	Levels  int
	Rungs   []Rung
}

// Validate checks rung shape, level range and the per-level matching invariant.
func (g Graph) Validate() error {
	_, err := g.partners()
	return err
}

// RungCount returns the number of rungs on the ladder.
func (g Graph) RungCount() int {
	return len(g.Rungs)
}

// Permutation traces every column and returns the start to final mapping.
func (g Graph) Permutation() ([]int, error) {
	partners, err := g.partners()
	if err != nil {
		return nil, err
	}
	out := make([]int, g.Columns)
	for start := range out {
		current := start
		for level := 0; level < g.Levels; level++ {
			if next := partners[level][current]; next >= 0 {
				current = next
			}
		}
		out[start] = current
	}
	return out, nil
}

// partners returns, per level, the column each column swaps with (-1 when the
// column has no rung on that level).
func (g Graph) partners() ([][]int, error) {
	if g.Columns < 2 {
		return nil, fmt.Errorf("%w: graph has %d columns", ErrInvariantViolation, g.Columns)
	}
	if g.Levels < 1 {
		return nil, fmt.Errorf("%w: graph has %d levels", ErrInvariantViolation, g.Levels)
	}

	partners := make([][]int, g.Levels)
	for level := range partners {
		row := make([]int, g.Columns)
		for col := range row {
			row[col] = -1
		}
		partners[level] = row
	}

	for _, rung := range g.Rungs {
		if rung.To != rung.From+1 {
			return nil, fmt.Errorf("%w: rung %d-%d does not join adjacent columns", ErrInvariantViolation, rung.From, rung.To)
		}
		if rung.From < 0 || rung.To >= g.Columns {
			return nil, fmt.Errorf("%w: rung %d-%d outside %d columns", ErrInvariantViolation, rung.From, rung.To, g.Columns)
		}
		if rung.Level < 0 || rung.Level >= g.Levels {
			return nil, fmt.Errorf("%w: rung level %d outside %d levels", ErrInvariantViolation, rung.Level, g.Levels)
		}
		row := partners[rung.Level]
		if row[rung.From] >= 0 || row[rung.To] >= 0 {
			return nil, fmt.Errorf("%w: columns %d-%d already joined on level %d", ErrInvariantViolation, rung.From, rung.To, rung.Level)
		}
		row[rung.From] = rung.To
		row[rung.To] = rung.From
	}
	return partners, nil
}
