package maze

import (
	"errors"
	"math"
	"strings"
)

// Direction identifies one of the four cardinal tile edges.
type Direction int

// Cardinal directions. The maze uses a mathematical coordinate system:
// x grows east, y grows north, and tile (0, 0) is the bottom-left corner.
const (
	North Direction = iota
	East
	South
	West
)

// ErrInvalidDirection is returned when a direction string is not recognized.
var ErrInvalidDirection = errors.New("invalid direction")

var directionNames = [...]string{"north", "east", "south", "west"}

// Directions lists all four cardinal directions in a stable order.
var Directions = [...]Direction{North, East, South, West}

func (d Direction) String() string {
	if d < North || d > West {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection accepts full lowercase names ("north") and single
// letters ("n"), case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "north", "n":
		return North, nil
	case "east", "e":
		return East, nil
	case "south", "s":
		return South, nil
	case "west", "w":
		return West, nil
	}
	return North, ErrInvalidDirection
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Left returns the direction after a 90-degree counterclockwise turn.
func (d Direction) Left() Direction {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	default:
		return North
	}
}

// Right returns the direction after a 90-degree clockwise turn.
func (d Direction) Right() Direction {
	return d.Left().Opposite()
}

// Delta returns the tile-coordinate offset of the adjacent tile in d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	default:
		return -1, 0
	}
}

// Angle returns the heading of d in radians, with east at 0 and angles
// growing counterclockwise.
func (d Direction) Angle() float64 {
	switch d {
	case East:
		return 0
	case North:
		return math.Pi / 2
	case West:
		return math.Pi
	default:
		return 3 * math.Pi / 2
	}
}

// DirectionFromAngle returns the cardinal direction nearest to the given
// heading in radians.
func DirectionFromAngle(angle float64) Direction {
	quarter := math.Pi / 2
	n := int(math.Round(angle/quarter)) % 4
	if n < 0 {
		n += 4
	}
	switch n {
	case 0:
		return East
	case 1:
		return North
	case 2:
		return West
	default:
		return South
	}
}
