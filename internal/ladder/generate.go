package ladder

import (
	"cmp"
	"errors"
	"math/rand"
	"slices"
)

const (
	// MinColumns is the smallest ladder that can be generated.
	MinColumns = 2
	// MinLevels is the level count floor used when Levels is left unset.
	MinLevels = 12
	// DefaultProbability is the per-pair connection probability.
	DefaultProbability = 0.4
)

// ErrTooFewColumns indicates a generate request for fewer than two columns.
var ErrTooFewColumns = errors.New("ladder needs at least two columns")

// ErrInvalidLevels indicates a negative level count.
var ErrInvalidLevels = errors.New("level count must be non-negative")

// ErrInvalidBand indicates a band outside the ladder levels or with First > Last.
var ErrInvalidBand = errors.New("band must lie within the ladder levels")

// ErrInvalidProbability indicates a connection probability outside (0, 1].
var ErrInvalidProbability = errors.New("probability must be within (0, 1]")

// Band restricts which levels may carry rungs. Both bounds are inclusive.
type Band struct {
	First int
	Last  int
}

// GenerateRequest describes a ladder to build.
//
// Zero values select defaults: Levels becomes max(12, 3*Columns), Band skips
// the top and bottom decile of levels, and Probability becomes 0.4.
type GenerateRequest struct {
	Columns     int
	Levels      int
	Band        *Band
	Probability float64
	Seed        int64
}

// DefaultLevels returns the level count used for columns when none is given.
func DefaultLevels(columns int) int {
	return max(MinLevels, 3*columns)
}

// DefaultBand returns the middle band of levels, skipping the top and bottom
// decile.
func DefaultBand(levels int) Band {
	margin := levels / 10
	return Band{First: margin, Last: levels - 1 - margin}
}

// Generate builds a random ladder graph.
//
// # Determinism
//
// Generate is deterministic with respect to the full request, including Seed.
// The same request always produces the same Graph.
//
// # Construction
//
// For every level in the band the N-1 adjacent column pairs are shuffled and
// scanned once. A pair whose columns are both still free on that level gets a
// rung with the request probability, and both columns are then marked used.
// No rung that would break the matching invariant is ever added, so the
// result needs no validation pass.
func Generate(request GenerateRequest) (Graph, error) {
	if request.Columns < MinColumns {
		return Graph{}, ErrTooFewColumns
	}
	if request.Levels < 0 {
		return Graph{}, ErrInvalidLevels
	}
	levels := request.Levels
	if levels == 0 {
		levels = DefaultLevels(request.Columns)
	}

	band := DefaultBand(levels)
	if request.Band != nil {
		band = *request.Band
	}
	if band.First < 0 || band.Last >= levels || band.First > band.Last {
		return Graph{}, ErrInvalidBand
	}

	probability := request.Probability
	if probability == 0 {
		probability = DefaultProbability
	}
	if probability < 0 || probability > 1 {
		return Graph{}, ErrInvalidProbability
	}

	rng := rand.New(rand.NewSource(request.Seed))
	pairs := make([]int, request.Columns-1)
	used := make([]bool, request.Columns)
	var rungs []Rung

	for level := band.First; level <= band.Last; level++ {
		for i := range pairs {
			pairs[i] = i
		}
		rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
		clear(used)

		var levelRungs []Rung
		for _, left := range pairs {
			if used[left] || used[left+1] {
				continue
			}
			if rng.Float64() >= probability {
				continue
			}
			used[left] = true
			used[left+1] = true
			levelRungs = append(levelRungs, Rung{From: left, To: left + 1, Level: level})
		}
		slices.SortFunc(levelRungs, func(a, b Rung) int { return cmp.Compare(a.From, b.From) })
		rungs = append(rungs, levelRungs...)
	}

	return Graph{
		Columns: request.Columns,
		Levels:  levels,
		Rungs:   rungs,
	}, nil
}
