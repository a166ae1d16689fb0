/*
Package options holds the two configuration surfaces the algorithm process
interacts with.

Static options are declared by the algorithm before it issues its first real
command and are immutable afterwards: the arrival of any non-option command
finalizes them. Dynamic options are runtime knobs that the algorithm or the
user may toggle for the whole run.
*/
package options

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/beka-birhanu/mouse-sim/maze"
)

// Option-related errors.
var (
	ErrAlreadyFinalized          = errors.New("static options already finalized")
	ErrInvalidInterfaceType      = errors.New("interface type must be \"discrete\" or \"continuous\"")
	ErrInvalidInitialDirection   = errors.New("initial direction must be a cardinal direction, \"opening\", or \"wall\"")
	ErrInvalidTileTextDimensions = errors.New("tile text rows and cols must be non-negative")
	ErrInvalidWheelSpeedFraction = errors.New("wheel speed fraction must be in [0.0, 1.0]")
	ErrInvalidSimSpeed           = errors.New("sim speed must be positive")
)

// InterfaceType selects how the algorithm drives the mouse.
type InterfaceType int

const (
	// Discrete algorithms interact in whole-tile, whole-turn macro moves.
	Discrete InterfaceType = iota
	// Continuous algorithms set raw wheel speeds and read raw sensors.
	Continuous
)

func (t InterfaceType) String() string {
	if t == Continuous {
		return "continuous"
	}
	return "discrete"
}

// ParseInterfaceType parses the two recognized interface type strings.
func ParseInterfaceType(s string) (InterfaceType, error) {
	switch strings.ToLower(s) {
	case "discrete":
		return Discrete, nil
	case "continuous":
		return Continuous, nil
	}
	return Discrete, ErrInvalidInterfaceType
}

// Initial direction policies that resolve against the maze rather than
// naming an explicit cardinal direction.
const (
	OpeningDirection = "opening"
	WallDirection    = "wall"
)

// StaticOptions is the validated, immutable snapshot produced by
// finalization.
type StaticOptions struct {
	InterfaceType      InterfaceType
	InitialDirection   string
	TileTextRows       int
	TileTextCols       int
	WheelSpeedFraction float64
}

// ResolveInitialDirection turns the initial-direction policy into a concrete
// heading given the wall state of the two non-border edges of the origin
// tile. When both edges agree the policy is moot and the mouse faces north.
func (o StaticOptions) ResolveInitialDirection(wallNorth, wallEast bool) maze.Direction {
	if d, err := maze.ParseDirection(o.InitialDirection); err == nil {
		return d
	}
	if wallNorth == wallEast {
		return maze.North
	}
	if o.InitialDirection == OpeningDirection {
		if wallNorth {
			return maze.East
		}
		return maze.North
	}
	// WallDirection
	if wallNorth {
		return maze.North
	}
	return maze.East
}

// Static accumulates raw static option values until finalization. Raw values
// are stored as declared and validated together when Finalize runs, so a bad
// value is reported at the moment the run actually starts.
type Static struct {
	mu               sync.Mutex
	interfaceType    string
	initialDirection string
	tileTextRows     int
	tileTextCols     int
	wheelFraction    float64
	finalized        bool
	opts             StaticOptions
}

// NewStatic creates the static option set with its defaults.
func NewStatic() *Static {
	return &Static{
		interfaceType:    "discrete",
		initialDirection: OpeningDirection,
		wheelFraction:    1.0,
	}
}

// SetInterfaceType declares the interface type. Fails after finalization.
func (s *Static) SetInterfaceType(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return ErrAlreadyFinalized
	}
	s.interfaceType = v
	return nil
}

// SetInitialDirection declares the initial heading policy. Fails after
// finalization.
func (s *Static) SetInitialDirection(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return ErrAlreadyFinalized
	}
	s.initialDirection = v
	return nil
}

// SetTileTextRowsAndCols declares the tile text grid dimensions. Fails after
// finalization.
func (s *Static) SetTileTextRowsAndCols(rows, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return ErrAlreadyFinalized
	}
	s.tileTextRows = rows
	s.tileTextCols = cols
	return nil
}

// SetWheelSpeedFraction declares the wheel speed fraction. Fails after
// finalization.
func (s *Static) SetWheelSpeedFraction(f float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return ErrAlreadyFinalized
	}
	s.wheelFraction = f
	return nil
}

// Finalize validates the declared values and freezes them. It is the
// caller's signal that the first non-option command has arrived. Validation
// failures are configuration errors and fatal to the run. Finalize is
// idempotent: once frozen it returns the same snapshot.
func (s *Static) Finalize() (StaticOptions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return s.opts, nil
	}

	interfaceType, err := ParseInterfaceType(s.interfaceType)
	if err != nil {
		return StaticOptions{}, fmt.Errorf("%w: got %q", err, s.interfaceType)
	}

	dir := strings.ToLower(s.initialDirection)
	if _, err := maze.ParseDirection(dir); err != nil && dir != OpeningDirection && dir != WallDirection {
		return StaticOptions{}, fmt.Errorf("%w: got %q", ErrInvalidInitialDirection, s.initialDirection)
	}

	if s.tileTextRows < 0 || s.tileTextCols < 0 {
		return StaticOptions{}, fmt.Errorf("%w: got %d x %d", ErrInvalidTileTextDimensions, s.tileTextRows, s.tileTextCols)
	}

	if s.wheelFraction < 0.0 || s.wheelFraction > 1.0 {
		return StaticOptions{}, fmt.Errorf("%w: got %v", ErrInvalidWheelSpeedFraction, s.wheelFraction)
	}

	s.opts = StaticOptions{
		InterfaceType:      interfaceType,
		InitialDirection:   dir,
		TileTextRows:       s.tileTextRows,
		TileTextCols:       s.tileTextCols,
		WheelSpeedFraction: s.wheelFraction,
	}
	s.finalized = true
	return s.opts, nil
}

// Finalized reports whether the static options have been frozen.
func (s *Static) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}

// Snapshot returns the frozen options and whether finalization has happened.
// Before finalization the snapshot holds the zero value.
func (s *Static) Snapshot() (StaticOptions, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts, s.finalized
}

// DynamicOptions is a read-only copy of the runtime knobs.
type DynamicOptions struct {
	SimSpeed float64 `json:"simSpeed"`
	Paused   bool    `json:"paused"`
}

// Dynamic holds the runtime-mutable knobs shared by the physics loop, the
// interpreter, and the observer API.
type Dynamic struct {
	mu       sync.RWMutex
	simSpeed float64
	paused   bool
}

// NewDynamic creates the dynamic option set with its defaults.
func NewDynamic() *Dynamic {
	return &Dynamic{simSpeed: 1.0}
}

// SetSimSpeed sets the simulation speed multiplier.
func (d *Dynamic) SetSimSpeed(f float64) error {
	if f <= 0 {
		return ErrInvalidSimSpeed
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.simSpeed = f
	return nil
}

// SimSpeed returns the current simulation speed multiplier.
func (d *Dynamic) SimSpeed() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.simSpeed
}

// SetPaused sets the pause state of the physics loop.
func (d *Dynamic) SetPaused(paused bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = paused
}

// Paused reports the pause state of the physics loop.
func (d *Dynamic) Paused() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.paused
}

// Snapshot returns a read-only copy of the dynamic options.
func (d *Dynamic) Snapshot() DynamicOptions {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DynamicOptions{SimSpeed: d.simSpeed, Paused: d.paused}
}
