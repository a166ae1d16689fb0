/*
Package interpreter validates and executes protocol commands against the
simulation state. It is the only component allowed to mutate the maze, the
mouse, or the options on behalf of the algorithm, and the only source of
command responses.

Static option commands are legal only before finalization; the first
non-option command finalizes the options, validates them, and initializes
the mouse. Discrete macro moves execute synchronously: Execute blocks until
the physics loop completes the macro or a collision ends it.
*/
package interpreter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beka-birhanu/mouse-sim/command"
	"github.com/beka-birhanu/mouse-sim/logger"
	"github.com/beka-birhanu/mouse-sim/maze"
	"github.com/beka-birhanu/mouse-sim/mouse"
	"github.com/beka-birhanu/mouse-sim/options"
	"github.com/beka-birhanu/mouse-sim/world"
)

// Interpreter-related errors.
var (
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrMissingDependency = errors.New("missing interpreter dependency")
)

// Config collects the dependencies of an Interpreter.
type Config struct {
	Maze      *maze.Maze
	Mouse     *mouse.Mouse
	World     *world.World
	Static    *options.Static
	Dynamic   *options.Dynamic
	MouseFile string // path of the mouse description, consumed at finalization
	Logger    *logger.Logger
}

// Interpreter executes one decoded command at a time against the simulation.
type Interpreter struct {
	mz        *maze.Maze
	ms        *mouse.Mouse
	w         *world.World
	static    *options.Static
	dyn       *options.Dynamic
	mouseFile string
	log       *logger.Logger

	opts      options.StaticOptions // valid once finalized is closed
	finalized chan struct{}
	fatal     chan error
}

// New creates an Interpreter from its dependencies.
func New(cfg Config) (*Interpreter, error) {
	if cfg.Maze == nil || cfg.Mouse == nil || cfg.World == nil || cfg.Static == nil || cfg.Dynamic == nil {
		return nil, ErrMissingDependency
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	return &Interpreter{
		mz:        cfg.Maze,
		ms:        cfg.Mouse,
		w:         cfg.World,
		static:    cfg.Static,
		dyn:       cfg.Dynamic,
		mouseFile: cfg.MouseFile,
		log:       cfg.Logger,
		finalized: make(chan struct{}),
		fatal:     make(chan error, 1),
	}, nil
}

// Finalized is closed when the static options have been validated and the
// mouse initialized. The physics loop must not start before this.
func (i *Interpreter) Finalized() <-chan struct{} {
	return i.finalized
}

// Fatal delivers at most one configuration error. Such errors are caught at
// finalization, before the run begins, and must terminate the process.
func (i *Interpreter) Fatal() <-chan error {
	return i.fatal
}

// Execute runs one command and returns its response. An empty response means
// the command produces no line on the wire. Execute is called from a single
// worker goroutine; it is not safe for concurrent use with itself.
func (i *Interpreter) Execute(c command.Command) string {
	if c.Kind.IsStaticOption() {
		return i.executeStaticOption(c)
	}

	if !i.static.Finalized() {
		if err := i.finalize(); err != nil {
			select {
			case i.fatal <- err:
			default:
			}
			return errorResponse(err)
		}
	}

	return i.dispatch(c)
}

func (i *Interpreter) executeStaticOption(c command.Command) string {
	var err error
	switch c.Kind {
	case command.KindSetInterfaceType:
		err = i.static.SetInterfaceType(c.Text)
	case command.KindSetInitialDirection:
		err = i.static.SetInitialDirection(c.Text)
	case command.KindSetTileTextRowsAndCols:
		err = i.static.SetTileTextRowsAndCols(c.Rows, c.Cols)
	case command.KindSetWheelSpeedFraction:
		err = i.static.SetWheelSpeedFraction(c.Value)
	}
	if err != nil {
		return errorResponse(err)
	}
	return "ack"
}

// finalize freezes the static options, validates them, and initializes the
// mouse. Called exactly once, when the first non-option command arrives.
func (i *Interpreter) finalize() error {
	opts, err := i.static.Finalize()
	if err != nil {
		return err
	}

	dir := opts.ResolveInitialDirection(
		i.mz.HasWall(0, 0, maze.North),
		i.mz.HasWall(0, 0, maze.East),
	)
	if err := i.ms.Initialize(i.mouseFile, dir); err != nil {
		return err
	}

	i.opts = opts
	i.w.SetWheelSpeedFraction(opts.WheelSpeedFraction)
	i.log.Infof("static options finalized: %s interface, facing %s", opts.InterfaceType, dir)
	close(i.finalized)
	return nil
}

func (i *Interpreter) dispatch(c command.Command) string {
	switch c.Kind {
	case command.KindMazeWidth:
		return strconv.Itoa(i.mz.Width())
	case command.KindMazeHeight:
		return strconv.Itoa(i.mz.Height())
	case command.KindGetStaticOptions:
		return fmt.Sprintf("%s %s %d %d %s",
			i.opts.InterfaceType,
			i.opts.InitialDirection,
			i.opts.TileTextRows,
			i.opts.TileTextCols,
			formatFloat(i.opts.WheelSpeedFraction),
		)
	case command.KindWasCollision:
		return boolResponse(i.w.Collided())

	case command.KindWallFront, command.KindWallLeft, command.KindWallRight:
		if err := i.requireMode(options.Discrete, c); err != nil {
			return errorResponse(err)
		}
		tx, ty, heading := i.w.DiscreteState()
		d := heading
		if c.Kind == command.KindWallLeft {
			d = heading.Left()
		} else if c.Kind == command.KindWallRight {
			d = heading.Right()
		}
		return boolResponse(i.mz.HasWall(tx, ty, d))

	case command.KindMoveForward, command.KindTurnLeft, command.KindTurnRight, command.KindTurnAround:
		if err := i.requireMode(options.Discrete, c); err != nil {
			return errorResponse(err)
		}
		return i.runMacro(c)

	case command.KindSetTileFog, command.KindClearTileFog:
		if err := i.requireMode(options.Discrete, c); err != nil {
			return errorResponse(err)
		}
		foggy := c.Kind == command.KindSetTileFog && c.Flag
		return ackOrError(i.mz.SetFog(c.X, c.Y, foggy))

	case command.KindSetWheelSpeeds:
		if err := i.requireMode(options.Continuous, c); err != nil {
			return errorResponse(err)
		}
		return ackOrError(i.w.SetWheelFractions(c.Left, c.Right))
	case command.KindReadSensor:
		if err := i.requireMode(options.Continuous, c); err != nil {
			return errorResponse(err)
		}
		distance, hit, err := i.w.SensorReading(c.Index)
		if err != nil {
			return errorResponse(err)
		}
		if !hit {
			return "none"
		}
		return formatFloat(distance)
	case command.KindGetX, command.KindGetY, command.KindGetRotation:
		if err := i.requireMode(options.Continuous, c); err != nil {
			return errorResponse(err)
		}
		pose := i.w.Snapshot()
		switch c.Kind {
		case command.KindGetX:
			return formatFloat(pose.X)
		case command.KindGetY:
			return formatFloat(pose.Y)
		default:
			return formatFloat(pose.Rotation)
		}

	case command.KindDeclareWall:
		return ackOrError(i.mz.DeclareWall(c.X, c.Y, c.Direction, c.Flag))
	case command.KindUndeclareWall:
		return ackOrError(i.mz.UndeclareWall(c.X, c.Y, c.Direction))
	case command.KindSetTileColor:
		return ackOrError(i.mz.SetColor(c.X, c.Y, c.Text))
	case command.KindClearTileColor:
		return ackOrError(i.mz.ClearColor(c.X, c.Y))
	case command.KindSetTileText:
		return ackOrError(i.mz.SetText(c.X, c.Y, i.clipTileText(c.Text)))
	case command.KindClearTileText:
		return ackOrError(i.mz.ClearText(c.X, c.Y))

	case command.KindSetSimSpeed:
		return ackOrError(i.dyn.SetSimSpeed(c.Value))
	case command.KindSetPaused:
		i.dyn.SetPaused(c.Flag)
		return "ack"
	}

	return errorResponse(fmt.Errorf("%w: %q", ErrInvalidOperation, c.Raw))
}

// runMacro starts a discrete macro move and blocks until the physics loop
// finishes it.
func (i *Interpreter) runMacro(c command.Command) string {
	var kind world.MacroKind
	switch c.Kind {
	case command.KindMoveForward:
		kind = world.MacroMoveForward
	case command.KindTurnLeft:
		kind = world.MacroTurnLeft
	case command.KindTurnRight:
		kind = world.MacroTurnRight
	default:
		kind = world.MacroTurnAround
	}

	done, err := i.w.StartMacro(kind, c.N)
	if err != nil {
		if errors.Is(err, world.ErrCollided) {
			return "crash"
		}
		return errorResponse(err)
	}

	if res := <-done; res.Collided {
		return "crash"
	}
	return "ack"
}

// clipTileText truncates tile text to the grid declared in the static
// options. A zero-area grid leaves the text unrestricted.
func (i *Interpreter) clipTileText(text string) string {
	limit := i.opts.TileTextRows * i.opts.TileTextCols
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func (i *Interpreter) requireMode(m options.InterfaceType, c command.Command) error {
	if i.opts.InterfaceType != m {
		return fmt.Errorf("%w: %q requires the %s interface", ErrInvalidOperation, c.Raw, m)
	}
	return nil
}

func errorResponse(err error) string {
	return "error " + err.Error()
}

func ackOrError(err error) string {
	if err != nil {
		return errorResponse(err)
	}
	return "ack"
}

func boolResponse(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
