/*
Package world owns the simulation's physical time: a fixed-tick physics loop
that integrates the mouse's pose from its wheel speeds, tests the result
against the maze walls, keeps sensor readings current, and drives discrete
macro moves to completion.

The World's lock is the exclusion point between the physics loop and the
command interpreter. Every pose integration and every interpreter access
happens under it, so no component ever observes a half-updated pose.
*/
package world

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/beka-birhanu/mouse-sim/logger"
	"github.com/beka-birhanu/mouse-sim/maze"
	"github.com/beka-birhanu/mouse-sim/mouse"
	"github.com/beka-birhanu/mouse-sim/options"
)

// World-related errors.
var (
	ErrCollided      = errors.New("mouse has collided")
	ErrMacroActive   = errors.New("a macro move is already in progress")
	ErrNoSuchSensor  = errors.New("no such sensor")
	ErrBadWheelInput = errors.New("wheel fractions must be in [-1, 1]")
	ErrStopped       = errors.New("physics loop stopped")
)

// MacroKind identifies a discrete macro move.
type MacroKind int

// Discrete macro moves.
const (
	MacroMoveForward MacroKind = iota
	MacroTurnLeft
	MacroTurnRight
	MacroTurnAround
)

// MacroResult reports how a macro move ended.
type MacroResult struct {
	// Collided is true when the macro was terminated by a collision
	// instead of reaching its target.
	Collided bool
}

type macro struct {
	kind      MacroKind
	dirX      float64 // unit vector toward the target, move macros only
	dirY      float64
	turnSign  float64 // +1 counterclockwise, -1 clockwise, turn macros only
	remaining float64 // distance in tiles or angle in radians left
	targetX   float64
	targetY   float64
	targetRot float64
	done      chan MacroResult
}

// Pose is a consistent snapshot of the mouse's physical and discrete state.
type Pose struct {
	X        float64
	Y        float64
	Rotation float64
	TileX    int
	TileY    int
	Heading  maze.Direction
	Collided bool
}

// World binds the maze, the mouse, and the physics loop together.
type World struct {
	sync.Mutex
	mz  *maze.Maze
	ms  *mouse.Mouse
	dyn *options.Dynamic
	log *logger.Logger

	tick          time.Duration
	speedFraction float64

	collided bool
	stopped  bool
	active   *macro

	readings []float64
	hits     []bool
}

// New creates a world over the given maze and mouse. The dynamic options are
// shared with whoever toggles pause and speed at runtime.
func New(mz *maze.Maze, ms *mouse.Mouse, dyn *options.Dynamic, tick time.Duration, log *logger.Logger) *World {
	if log == nil {
		log = logger.Discard()
	}
	if tick <= 0 {
		tick = 5 * time.Millisecond
	}
	return &World{
		mz:            mz,
		ms:            ms,
		dyn:           dyn,
		log:           log,
		tick:          tick,
		speedFraction: 1.0,
	}
}

// SetWheelSpeedFraction caps the speed of discrete macro moves. Called once
// when the static options are finalized, before the loop starts.
func (w *World) SetWheelSpeedFraction(f float64) {
	w.Lock()
	defer w.Unlock()
	w.speedFraction = f
}

// Run executes fixed-duration ticks until the context is canceled. Sleep
// time is corrected by each tick's own duration so that a slow tick does not
// accumulate into a slower simulation.
func (w *World) Run(ctx context.Context) {
	w.log.Info("physics loop started")
	deadline := time.Now().Add(w.tick)
	for {
		w.step(w.tick)

		wait := time.Until(deadline)
		deadline = deadline.Add(w.tick)
		if wait < -w.tick {
			// Hopelessly behind; re-anchor instead of spinning to catch up.
			deadline = time.Now().Add(w.tick)
		}
		if wait > 0 {
			select {
			case <-ctx.Done():
				w.Shutdown()
				w.log.Info("physics loop stopped")
				return
			case <-time.After(wait):
			}
		} else {
			select {
			case <-ctx.Done():
				w.Shutdown()
				w.log.Info("physics loop stopped")
				return
			default:
			}
		}
	}
}

// Shutdown releases any worker blocked on a macro and rejects macro starts
// from then on, so cancellation never leaves a command half-applied. The
// physics loop calls it on context cancellation; the process shutdown path
// must call it directly too, because a run can end before the loop was ever
// started and nothing else would deliver the pending MacroResult.
func (w *World) Shutdown() {
	w.Lock()
	defer w.Unlock()
	w.stopped = true
	w.finishMacroLocked(MacroResult{Collided: w.collided})
}

// step advances the simulation by one tick.
func (w *World) step(dt time.Duration) {
	w.Lock()
	defer w.Unlock()

	if w.stopped {
		return
	}

	if w.dyn.Paused() {
		// No pose mutation while paused; sensors keep their last values.
		return
	}

	if w.collided {
		// Terminal state: the pose is frozen, but a macro that was in
		// flight still has a waiter to release.
		w.finishMacroLocked(MacroResult{Collided: true})
		return
	}

	delta := dt.Seconds() * w.dyn.SimSpeed()
	if w.active != nil {
		w.stepMacroLocked(delta)
	} else {
		w.integrateLocked(delta)
	}
	w.updateSensorsLocked()
}

// integrateLocked performs one forward Euler step from the wheel speeds.
func (w *World) integrateLocked(delta float64) {
	v, omega := w.ms.Velocities()
	if v == 0 && omega == 0 {
		return
	}
	x, y, rot := w.ms.Pose()
	nx := x + v*math.Cos(rot)*delta
	ny := y + v*math.Sin(rot)*delta
	nrot := normalizeAngle(rot + omega*delta)

	if collides(w.mz, nx, ny, w.ms.BodyRadius()) {
		w.collideLocked()
		return
	}
	w.ms.SetPose(nx, ny, nrot)
}

// stepMacroLocked advances the active discrete macro by one tick.
func (w *World) stepMacroLocked(delta float64) {
	m := w.active
	switch m.kind {
	case MacroMoveForward:
		speed := w.speedFraction * w.ms.MaxLinearSpeed()
		advance := math.Min(speed*delta, m.remaining)
		x, y, rot := w.ms.Pose()
		nx := x + m.dirX*advance
		ny := y + m.dirY*advance

		if collides(w.mz, nx, ny, w.ms.BodyRadius()) {
			w.collideLocked()
			w.finishMacroLocked(MacroResult{Collided: true})
			return
		}

		m.remaining -= advance
		if m.remaining <= 1e-9 {
			w.ms.SetPose(m.targetX, m.targetY, rot)
			w.finishMacroLocked(MacroResult{})
		} else {
			w.ms.SetPose(nx, ny, rot)
		}

	default: // turns
		rate := w.speedFraction * w.ms.MaxAngularSpeed()
		advance := math.Min(rate*delta, m.remaining)
		x, y, rot := w.ms.Pose()

		m.remaining -= advance
		if m.remaining <= 1e-9 {
			w.ms.SetPose(x, y, m.targetRot)
			w.finishMacroLocked(MacroResult{})
		} else {
			w.ms.SetPose(x, y, normalizeAngle(rot+m.turnSign*advance))
		}
	}
}

func (w *World) collideLocked() {
	w.collided = true
	w.ms.SetWheelSpeeds(0, 0)
	w.log.Warning("collision: mouse interpenetrated a wall; pose frozen")
}

func (w *World) finishMacroLocked(res MacroResult) {
	if w.active == nil {
		return
	}
	w.active.done <- res
	w.active = nil
	w.ms.SetWheelSpeeds(0, 0)
}

// updateSensorsLocked recomputes every sensor reading from the current pose.
func (w *World) updateSensorsLocked() {
	sensors := w.ms.Sensors()
	if len(w.readings) != len(sensors) {
		w.readings = make([]float64, len(sensors))
		w.hits = make([]bool, len(sensors))
	}
	x, y, rot := w.ms.Pose()
	cos, sin := math.Cos(rot), math.Sin(rot)
	for i, s := range sensors {
		sx := x + s.OffsetX*cos - s.OffsetY*sin
		sy := y + s.OffsetX*sin + s.OffsetY*cos
		w.readings[i], w.hits[i] = castRay(w.mz, sx, sy, rot+s.Angle, s.Range)
	}
}

// StartMacro begins a discrete macro move and returns the channel that
// reports its completion. The caller blocks on the channel; the physics loop
// advances the macro tick by tick.
func (w *World) StartMacro(kind MacroKind, n int) (<-chan MacroResult, error) {
	w.Lock()
	defer w.Unlock()

	if w.stopped {
		return nil, ErrStopped
	}
	if w.collided {
		return nil, ErrCollided
	}
	if w.active != nil {
		return nil, ErrMacroActive
	}
	if n < 1 {
		n = 1
	}

	done := make(chan MacroResult, 1)
	x, y, rot := w.ms.Pose()

	switch kind {
	case MacroMoveForward:
		heading := w.ms.Heading()
		dx, dy := heading.Delta()
		tx, ty := w.ms.CurrentTile()
		targetX := float64(tx) + 0.5 + float64(n*dx)
		targetY := float64(ty) + 0.5 + float64(n*dy)
		remaining := math.Hypot(targetX-x, targetY-y)
		if remaining <= 1e-9 {
			done <- MacroResult{}
			return done, nil
		}
		w.active = &macro{
			kind:      kind,
			dirX:      (targetX - x) / remaining,
			dirY:      (targetY - y) / remaining,
			remaining: remaining,
			targetX:   targetX,
			targetY:   targetY,
			done:      done,
		}

	case MacroTurnLeft, MacroTurnRight, MacroTurnAround:
		turn := math.Pi / 2
		sign := 1.0
		if kind == MacroTurnRight {
			sign = -1
		}
		if kind == MacroTurnAround {
			turn = math.Pi
		}
		w.active = &macro{
			kind:      kind,
			turnSign:  sign,
			remaining: turn,
			targetRot: normalizeAngle(rot + sign*turn),
			done:      done,
		}
	}

	return done, nil
}

// Collided reports whether the run has reached the terminal collision state.
func (w *World) Collided() bool {
	w.Lock()
	defer w.Unlock()
	return w.collided
}

// SensorReading returns the last computed reading of sensor i and whether it
// hit a wall within range.
func (w *World) SensorReading(i int) (distance float64, hit bool, err error) {
	w.Lock()
	defer w.Unlock()
	if i < 0 || i >= len(w.readings) {
		return 0, false, ErrNoSuchSensor
	}
	return w.readings[i], w.hits[i], nil
}

// SetWheelFractions sets the wheel-speed targets from fractions of the
// maximum wheel speed, additionally scaled by the static wheel-speed
// fraction. Used by the continuous interface.
func (w *World) SetWheelFractions(left, right float64) error {
	if math.Abs(left) > 1 || math.Abs(right) > 1 {
		return ErrBadWheelInput
	}
	w.Lock()
	defer w.Unlock()
	limit := w.speedFraction * w.ms.MaxWheelSpeed()
	w.ms.SetWheelSpeeds(left*limit, right*limit)
	return nil
}

// Snapshot returns a consistent copy of the mouse's physical and discrete
// state.
func (w *World) Snapshot() Pose {
	w.Lock()
	defer w.Unlock()
	x, y, rot := w.ms.Pose()
	tx, ty := w.ms.CurrentTile()
	return Pose{
		X:        x,
		Y:        y,
		Rotation: rot,
		TileX:    tx,
		TileY:    ty,
		Heading:  w.ms.Heading(),
		Collided: w.collided,
	}
}

// DiscreteState returns the current tile and heading.
func (w *World) DiscreteState() (tx, ty int, heading maze.Direction) {
	w.Lock()
	defer w.Unlock()
	tx, ty = w.ms.CurrentTile()
	return tx, ty, w.ms.Heading()
}
