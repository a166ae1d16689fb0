/*
Package command models one decoded protocol request from the algorithm
process. A line of text is parsed exactly once, at the channel boundary, into
a tagged Command value; the interpreter then dispatches on the kind without
ever re-parsing text.

The wire format is one command per line, UTF-8, space-delimited fields, first
field the operation name.
*/
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beka-birhanu/mouse-sim/maze"
)

// Command-parsing errors.
var (
	ErrEmptyCommand     = errors.New("empty command")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrBadArguments     = errors.New("bad arguments")
)

// Kind identifies a protocol operation.
type Kind int

// Protocol operations.
const (
	KindSetInterfaceType Kind = iota
	KindSetInitialDirection
	KindSetTileTextRowsAndCols
	KindSetWheelSpeedFraction

	KindMazeWidth
	KindMazeHeight
	KindGetStaticOptions
	KindWasCollision

	KindWallFront
	KindWallLeft
	KindWallRight
	KindMoveForward
	KindTurnLeft
	KindTurnRight
	KindTurnAround
	KindSetTileFog
	KindClearTileFog

	KindSetWheelSpeeds
	KindReadSensor
	KindGetX
	KindGetY
	KindGetRotation

	KindDeclareWall
	KindUndeclareWall
	KindSetTileColor
	KindClearTileColor
	KindSetTileText
	KindClearTileText

	KindSetSimSpeed
	KindSetPaused
)

// IsStaticOption reports whether the operation declares a static option,
// i.e. whether it is legal only before finalization.
func (k Kind) IsStaticOption() bool {
	switch k {
	case KindSetInterfaceType, KindSetInitialDirection,
		KindSetTileTextRowsAndCols, KindSetWheelSpeedFraction:
		return true
	}
	return false
}

// Command is one decoded protocol request. Kind selects the operation; only
// the argument fields that operation uses are meaningful.
type Command struct {
	Kind Kind
	Raw  string

	X, Y      int
	N         int
	Rows      int
	Cols      int
	Index     int
	Value     float64
	Left      float64
	Right     float64
	Flag      bool
	Direction maze.Direction
	Text      string
}

// Parse decodes one protocol line into a Command.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}
	c := Command{Raw: line}
	op, args := fields[0], fields[1:]

	switch op {
	case "setInterfaceType":
		c.Kind = KindSetInterfaceType
		return c, parseText(args, &c.Text)
	case "setInitialDirection":
		c.Kind = KindSetInitialDirection
		return c, parseText(args, &c.Text)
	case "setTileTextRowsAndCols":
		c.Kind = KindSetTileTextRowsAndCols
		return c, parseInts(args, &c.Rows, &c.Cols)
	case "setWheelSpeedFraction":
		c.Kind = KindSetWheelSpeedFraction
		return c, parseFloats(args, &c.Value)

	case "mazeWidth":
		c.Kind = KindMazeWidth
		return c, parseNone(args)
	case "mazeHeight":
		c.Kind = KindMazeHeight
		return c, parseNone(args)
	case "getStaticOptions":
		c.Kind = KindGetStaticOptions
		return c, parseNone(args)
	case "wasCollision":
		c.Kind = KindWasCollision
		return c, parseNone(args)

	case "wallFront":
		c.Kind = KindWallFront
		return c, parseNone(args)
	case "wallLeft":
		c.Kind = KindWallLeft
		return c, parseNone(args)
	case "wallRight":
		c.Kind = KindWallRight
		return c, parseNone(args)
	case "moveForward":
		c.Kind = KindMoveForward
		c.N = 1
		if len(args) == 0 {
			return c, nil
		}
		return c, parseInts(args, &c.N)
	case "turnLeft":
		c.Kind = KindTurnLeft
		return c, parseNone(args)
	case "turnRight":
		c.Kind = KindTurnRight
		return c, parseNone(args)
	case "turnAround":
		c.Kind = KindTurnAround
		return c, parseNone(args)
	case "setTileFog":
		c.Kind = KindSetTileFog
		if err := parseInts(args[:min(len(args), 2)], &c.X, &c.Y); err != nil {
			return c, err
		}
		return c, parseBool(args[2:], &c.Flag)
	case "clearTileFog":
		c.Kind = KindClearTileFog
		return c, parseInts(args, &c.X, &c.Y)

	case "setWheelSpeeds":
		c.Kind = KindSetWheelSpeeds
		return c, parseFloats(args, &c.Left, &c.Right)
	case "readSensor":
		c.Kind = KindReadSensor
		return c, parseInts(args, &c.Index)
	case "getX":
		c.Kind = KindGetX
		return c, parseNone(args)
	case "getY":
		c.Kind = KindGetY
		return c, parseNone(args)
	case "getRotation":
		c.Kind = KindGetRotation
		return c, parseNone(args)

	case "declareWall":
		c.Kind = KindDeclareWall
		if len(args) != 4 {
			return c, fmt.Errorf("%w: declareWall wants x y direction isWall", ErrBadArguments)
		}
		if err := parseInts(args[:2], &c.X, &c.Y); err != nil {
			return c, err
		}
		if err := parseDirection(args[2], &c.Direction); err != nil {
			return c, err
		}
		return c, parseBool(args[3:], &c.Flag)
	case "undeclareWall":
		c.Kind = KindUndeclareWall
		if len(args) != 3 {
			return c, fmt.Errorf("%w: undeclareWall wants x y direction", ErrBadArguments)
		}
		if err := parseInts(args[:2], &c.X, &c.Y); err != nil {
			return c, err
		}
		return c, parseDirection(args[2], &c.Direction)
	case "setTileColor":
		c.Kind = KindSetTileColor
		if err := parseInts(args[:min(len(args), 2)], &c.X, &c.Y); err != nil {
			return c, err
		}
		return c, parseText(args[2:], &c.Text)
	case "clearTileColor":
		c.Kind = KindClearTileColor
		return c, parseInts(args, &c.X, &c.Y)
	case "setTileText":
		c.Kind = KindSetTileText
		if len(args) < 3 {
			return c, fmt.Errorf("%w: setTileText wants x y text", ErrBadArguments)
		}
		if err := parseInts(args[:2], &c.X, &c.Y); err != nil {
			return c, err
		}
		c.Text = strings.Join(args[2:], " ")
		return c, nil
	case "clearTileText":
		c.Kind = KindClearTileText
		return c, parseInts(args, &c.X, &c.Y)

	case "setSimSpeed":
		c.Kind = KindSetSimSpeed
		return c, parseFloats(args, &c.Value)
	case "setPaused":
		c.Kind = KindSetPaused
		return c, parseBool(args, &c.Flag)
	}

	return Command{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}

func parseNone(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments", ErrBadArguments)
	}
	return nil
}

func parseText(args []string, out *string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected one field", ErrBadArguments)
	}
	*out = args[0]
	return nil
}

func parseInts(args []string, out ...*int) error {
	if len(args) != len(out) {
		return fmt.Errorf("%w: expected %d integer fields", ErrBadArguments, len(out))
	}
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("%w: bad integer %q", ErrBadArguments, a)
		}
		*out[i] = v
	}
	return nil
}

func parseFloats(args []string, out ...*float64) error {
	if len(args) != len(out) {
		return fmt.Errorf("%w: expected %d numeric fields", ErrBadArguments, len(out))
	}
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("%w: bad number %q", ErrBadArguments, a)
		}
		*out[i] = v
	}
	return nil
}

func parseBool(args []string, out *bool) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected one boolean field", ErrBadArguments)
	}
	v, err := strconv.ParseBool(args[0])
	if err != nil {
		return fmt.Errorf("%w: bad boolean %q", ErrBadArguments, args[0])
	}
	*out = v
	return nil
}

func parseDirection(arg string, out *maze.Direction) error {
	d, err := maze.ParseDirection(arg)
	if err != nil {
		return fmt.Errorf("%w: bad direction %q", ErrBadArguments, arg)
	}
	*out = d
	return nil
}
