package ladder

import "fmt"

// Point is a waypoint on the ladder in percent coordinates: X spans the
// columns left to right, Y spans the ladder top (0) to bottom (100).
type Point struct {
	X float64
	Y float64
}

// Path is the descent of a single token from Start to Final.
type Path struct {
	Start     int
	Waypoints []Point
	Final     int
	// Crossings counts the rungs crossed on the way down.
	Crossings int
}

// ColumnX returns the horizontal position of column col on a ladder with
// columns columns.
func ColumnX(col, columns int) float64 {
	if columns <= 1 {
		return 50
	}
	return float64(col) / float64(columns-1) * 100
}

// LevelY returns the vertical position of level on a ladder with levels
// levels. Levels are spread evenly strictly between the top and the bottom.
func LevelY(level, levels int) float64 {
	return float64(level+1) / float64(levels+1) * 100
}

// Trace computes the descent from start through g.
//
// Trace is a pure function: the same start and graph always produce an
// identical Path. It visits every level exactly once in ascending order, so
// it always terminates with len(Waypoints) == g.Levels + 2 + crossings.
//
// A malformed graph or an out-of-range start column returns an error wrapping
// ErrInvariantViolation.
func Trace(start int, g Graph) (Path, error) {
	partners, err := g.partners()
	if err != nil {
		return Path{}, err
	}
	if start < 0 || start >= g.Columns {
		return Path{}, fmt.Errorf("%w: start column %d outside %d columns", ErrInvariantViolation, start, g.Columns)
	}

	current := start
	crossings := 0
	waypoints := make([]Point, 0, g.Levels+2)
	waypoints = append(waypoints, Point{X: ColumnX(current, g.Columns), Y: 0})

	for level := 0; level < g.Levels; level++ {
		y := LevelY(level, g.Levels)
		waypoints = append(waypoints, Point{X: ColumnX(current, g.Columns), Y: y})
		if next := partners[level][current]; next >= 0 {
			current = next
			crossings++
			waypoints = append(waypoints, Point{X: ColumnX(current, g.Columns), Y: y})
		}
	}
	waypoints = append(waypoints, Point{X: ColumnX(current, g.Columns), Y: 100})

	return Path{
		Start:     start,
		Waypoints: waypoints,
		Final:     current,
		Crossings: crossings,
	}, nil
}
