package world

import (
	"fmt"
	"strings"
)

// Direction is a compass or vertical direction an exit can point in.
type Direction int

const (
	DirNone Direction = iota
	North
	South
	East
	West
	Up
	Down
)

// Directions is every valid Direction in display order.
var Directions = []Direction{North, South, East, West, Up, Down}

// directionWords maps every word that names a direction to it. The
// single-letter forms are accepted in player input as well as world files.
var directionWords = map[string]Direction{
	"north": North,
	"n":     North,
	"south": South,
	"s":     South,
	"east":  East,
	"e":     East,
	"west":  West,
	"w":     West,
	"up":    Up,
	"u":     Up,
	"down":  Down,
	"d":     Down,
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	case Up:
		return "up"
	case Down:
		return "down"
	case DirNone:
		return "none"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses a direction name or its single-letter abbreviation.
func ParseDirection(s string) (Direction, error) {
	d, ok := directionWords[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return DirNone, fmt.Errorf("unknown direction %q", s)
	}
	return d, nil
}

// DirectionWords returns every word that names a direction, mapped to the
// direction it names.
func DirectionWords() map[string]Direction {
	words := make(map[string]Direction, len(directionWords))
	for k, v := range directionWords {
		words[k] = v
	}
	return words
}
