// README: Grid location and Manhattan distance used by every travel estimate.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadPoint = errors.New("bad point")

// Point is an intersection on the simulation grid.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// ParsePoint reads the "x,y" form used in event descriptions.
func ParsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrBadPoint, s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrBadPoint, s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrBadPoint, s)
	}
	return Point{X: x, Y: y}, nil
}

// ManhattanDistance is the number of grid blocks between a and b.
func ManhattanDistance(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
