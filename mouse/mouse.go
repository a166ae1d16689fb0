/*
Package mouse holds the robot's physical state: continuous pose, per-wheel
angular speeds, body geometry, and sensor mounts, plus the discrete state
(current tile, heading) derived from the pose.

All distances are in tile units: the side of one maze tile is 1.0. A Mouse is
constructed empty and becomes usable only after Initialize succeeds; callers
must treat an initialization failure as fatal at startup.

Mouse is not safe for concurrent use on its own. The world serializes access
between the physics loop and the command interpreter.
*/
package mouse

import (
	"errors"
	"math"

	"github.com/beka-birhanu/mouse-sim/maze"
)

// Mouse-related errors.
var (
	ErrNotInitialized     = errors.New("mouse is not initialized")
	ErrAlreadyInitialized = errors.New("mouse is already initialized")
)

// Sensor describes one distance sensor mounted on the mouse body.
// Offsets and angle are relative to the body frame.
type Sensor struct {
	OffsetX float64 // forward offset from the body center
	OffsetY float64 // leftward offset from the body center
	Angle   float64 // mount angle in radians relative to the heading
	Range   float64 // maximum reading distance
}

// Mouse is the simulated robot bound to one maze.
type Mouse struct {
	mz *maze.Maze

	x        float64
	y        float64
	rotation float64

	leftSpeed  float64 // rad/s
	rightSpeed float64 // rad/s

	bodyRadius    float64
	wheelBase     float64
	wheelRadius   float64
	maxWheelSpeed float64
	sensors       []Sensor

	initialized bool
}

// New creates an uninitialized mouse bound to the given maze.
func New(mz *maze.Maze) *Mouse {
	return &Mouse{mz: mz}
}

// Initialize loads the mouse description from path and places the mouse at
// the center of tile (0, 0) facing initialDirection. It may be called once.
func (m *Mouse) Initialize(path string, initialDirection maze.Direction) error {
	if m.initialized {
		return ErrAlreadyInitialized
	}

	desc, err := parseDescription(path)
	if err != nil {
		return err
	}

	m.bodyRadius = desc.bodyRadius
	m.wheelBase = desc.wheelBase
	m.wheelRadius = desc.wheelRadius
	m.maxWheelSpeed = desc.maxWheelSpeed
	m.sensors = desc.sensors

	m.x = 0.5
	m.y = 0.5
	m.rotation = initialDirection.Angle()
	m.initialized = true
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (m *Mouse) Initialized() bool {
	return m.initialized
}

// Pose returns the continuous position and rotation.
func (m *Mouse) Pose() (x, y, rotation float64) {
	return m.x, m.y, m.rotation
}

// SetPose overwrites the continuous position and rotation.
func (m *Mouse) SetPose(x, y, rotation float64) {
	m.x = x
	m.y = y
	m.rotation = rotation
}

// WheelSpeeds returns the current per-wheel angular speeds in rad/s.
func (m *Mouse) WheelSpeeds() (left, right float64) {
	return m.leftSpeed, m.rightSpeed
}

// SetWheelSpeeds sets the per-wheel angular speed targets, clamped to the
// maximum from the mouse description.
func (m *Mouse) SetWheelSpeeds(left, right float64) {
	m.leftSpeed = clamp(left, -m.maxWheelSpeed, m.maxWheelSpeed)
	m.rightSpeed = clamp(right, -m.maxWheelSpeed, m.maxWheelSpeed)
}

// Velocities derives the body-frame linear and angular velocity from the
// differential wheel speeds.
func (m *Mouse) Velocities() (linear, angular float64) {
	linear = m.wheelRadius * (m.leftSpeed + m.rightSpeed) / 2
	angular = m.wheelRadius * (m.rightSpeed - m.leftSpeed) / m.wheelBase
	return linear, angular
}

// MaxWheelSpeed returns the wheel speed limit in rad/s.
func (m *Mouse) MaxWheelSpeed() float64 {
	return m.maxWheelSpeed
}

// MaxLinearSpeed returns the top straight-line speed in tiles/s.
func (m *Mouse) MaxLinearSpeed() float64 {
	return m.wheelRadius * m.maxWheelSpeed
}

// MaxAngularSpeed returns the top in-place turn rate in rad/s.
func (m *Mouse) MaxAngularSpeed() float64 {
	return 2 * m.wheelRadius * m.maxWheelSpeed / m.wheelBase
}

// BodyRadius returns the collision radius of the body.
func (m *Mouse) BodyRadius() float64 {
	return m.bodyRadius
}

// Sensors returns the mounted sensors.
func (m *Mouse) Sensors() []Sensor {
	return m.sensors
}

// CurrentTile returns the tile containing the body center.
func (m *Mouse) CurrentTile() (tx, ty int) {
	return int(math.Floor(m.x)), int(math.Floor(m.y))
}

// Heading returns the cardinal direction nearest to the current rotation.
func (m *Mouse) Heading() maze.Direction {
	return maze.DirectionFromAngle(m.rotation)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
