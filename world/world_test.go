package world

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/mouse-sim/maze"
	"github.com/beka-birhanu/mouse-sim/mouse"
	"github.com/beka-birhanu/mouse-sim/options"
)

// A fast mouse keeps macro tests short: max linear speed 5 tiles/s.
const testDescription = `body 0.25
wheels 0.3 0.1 50
sensor 0.2 0.0 0.0 2.0
`

const testTick = 10 * time.Millisecond

type fixture struct {
	mz  *maze.Maze
	ms  *mouse.Mouse
	dyn *options.Dynamic
	w   *World
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mz, err := maze.NewEmpty(3, 3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mouse.txt")
	require.NoError(t, os.WriteFile(path, []byte(testDescription), 0o644))

	ms := mouse.New(mz)
	require.NoError(t, ms.Initialize(path, maze.North))

	dyn := options.NewDynamic()
	w := New(mz, ms, dyn, testTick, nil)
	return &fixture{mz: mz, ms: ms, dyn: dyn, w: w}
}

// runMacro steps the loop by hand until the macro reports completion.
func runMacro(t *testing.T, w *World, done <-chan MacroResult) MacroResult {
	t.Helper()
	for i := 0; i < 1000; i++ {
		w.step(testTick)
		select {
		case res := <-done:
			return res
		default:
		}
	}
	t.Fatal("macro did not complete within 1000 ticks")
	return MacroResult{}
}

func TestMacroMoves(t *testing.T) {
	t.Run("moveForward lands on the next tile center", func(t *testing.T) {
		f := newFixture(t)
		done, err := f.w.StartMacro(MacroMoveForward, 1)
		require.NoError(t, err)

		res := runMacro(t, f.w, done)
		assert.False(t, res.Collided)

		snap := f.w.Snapshot()
		assert.InDelta(t, 0.5, snap.X, 1e-9)
		assert.InDelta(t, 1.5, snap.Y, 1e-9)
		assert.Equal(t, 0, snap.TileX)
		assert.Equal(t, 1, snap.TileY)
		assert.Equal(t, maze.North, snap.Heading)
	})

	t.Run("moveForward spans multiple tiles", func(t *testing.T) {
		f := newFixture(t)
		done, err := f.w.StartMacro(MacroMoveForward, 2)
		require.NoError(t, err)

		res := runMacro(t, f.w, done)
		assert.False(t, res.Collided)
		snap := f.w.Snapshot()
		assert.InDelta(t, 2.5, snap.Y, 1e-9)
	})

	t.Run("moveForward into a wall is a collision", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.mz.SetWall(0, 0, maze.North, true))

		done, err := f.w.StartMacro(MacroMoveForward, 1)
		require.NoError(t, err)

		res := runMacro(t, f.w, done)
		assert.True(t, res.Collided)
		assert.True(t, f.w.Collided())

		_, err = f.w.StartMacro(MacroMoveForward, 1)
		assert.ErrorIs(t, err, ErrCollided, "collision is terminal")
	})

	t.Run("turnLeft snaps to the exact heading", func(t *testing.T) {
		f := newFixture(t)
		done, err := f.w.StartMacro(MacroTurnLeft, 1)
		require.NoError(t, err)

		res := runMacro(t, f.w, done)
		assert.False(t, res.Collided)
		snap := f.w.Snapshot()
		assert.Equal(t, maze.West, snap.Heading)
		assert.InDelta(t, math.Pi, snap.Rotation, 1e-9)
		assert.InDelta(t, 0.5, snap.X, 1e-9, "turns do not translate")
		assert.InDelta(t, 0.5, snap.Y, 1e-9)
	})

	t.Run("turnRight from north faces east", func(t *testing.T) {
		f := newFixture(t)
		done, err := f.w.StartMacro(MacroTurnRight, 1)
		require.NoError(t, err)

		runMacro(t, f.w, done)
		assert.Equal(t, maze.East, f.w.Snapshot().Heading)
	})

	t.Run("turnAround faces south", func(t *testing.T) {
		f := newFixture(t)
		done, err := f.w.StartMacro(MacroTurnAround, 1)
		require.NoError(t, err)

		runMacro(t, f.w, done)
		snap := f.w.Snapshot()
		assert.Equal(t, maze.South, snap.Heading)
		assert.InDelta(t, 3*math.Pi/2, snap.Rotation, 1e-9)
	})

	t.Run("only one macro at a time", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.w.StartMacro(MacroMoveForward, 1)
		require.NoError(t, err)

		_, err = f.w.StartMacro(MacroTurnLeft, 1)
		assert.ErrorIs(t, err, ErrMacroActive)
	})
}

func TestContinuousDrive(t *testing.T) {
	t.Run("equal fractions integrate straight ahead", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.w.SetWheelFractions(0.5, 0.5))

		// 2.5 tiles/s for 10 ticks of 10ms each.
		for i := 0; i < 10; i++ {
			f.w.step(testTick)
		}
		snap := f.w.Snapshot()
		assert.InDelta(t, 0.5, snap.X, 1e-9)
		assert.InDelta(t, 0.75, snap.Y, 1e-9)
	})

	t.Run("sim speed scales the integration", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.dyn.SetSimSpeed(2))
		require.NoError(t, f.w.SetWheelFractions(0.5, 0.5))

		f.w.step(testTick)
		assert.InDelta(t, 0.55, f.w.Snapshot().Y, 1e-9)
	})

	t.Run("fractions outside [-1, 1] are rejected", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.w.SetWheelFractions(1.5, 0), ErrBadWheelInput)
		assert.ErrorIs(t, f.w.SetWheelFractions(0, -1.01), ErrBadWheelInput)
	})

	t.Run("driving into a wall freezes the pose", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.mz.SetWall(0, 0, maze.North, true))
		require.NoError(t, f.w.SetWheelFractions(1, 1))

		for i := 0; i < 100 && !f.w.Collided(); i++ {
			f.w.step(testTick)
		}
		require.True(t, f.w.Collided())

		frozen := f.w.Snapshot()
		f.w.step(testTick)
		f.w.step(testTick)
		assert.Equal(t, frozen.X, f.w.Snapshot().X)
		assert.Equal(t, frozen.Y, f.w.Snapshot().Y)

		left, right := f.ms.WheelSpeeds()
		assert.Zero(t, left)
		assert.Zero(t, right)
	})

	t.Run("pause stops the integration", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.w.SetWheelFractions(0.5, 0.5))
		f.dyn.SetPaused(true)

		for i := 0; i < 10; i++ {
			f.w.step(testTick)
		}
		assert.InDelta(t, 0.5, f.w.Snapshot().Y, 1e-9)

		f.dyn.SetPaused(false)
		f.w.step(testTick)
		assert.Greater(t, f.w.Snapshot().Y, 0.5)
	})
}

func TestSensorReadings(t *testing.T) {
	t.Run("no readings before the first tick", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.w.SensorReading(0)
		assert.ErrorIs(t, err, ErrNoSuchSensor)
	})

	t.Run("reads the distance to the nearest wall", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.mz.SetWall(0, 1, maze.North, true))

		f.w.step(testTick)
		// Sensor sits 0.2 ahead of the body center at (0.5, 0.5), wall at y=2.
		dist, hit, err := f.w.SensorReading(0)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.InDelta(t, 1.3, dist, 1e-9)
	})

	t.Run("out of range reports max range", func(t *testing.T) {
		f := newFixture(t)
		// Nearest wall ahead is the border at y=3, beyond the 2.0 range.
		f.w.step(testTick)
		dist, hit, err := f.w.SensorReading(0)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, 2.0, dist)
	})

	t.Run("unknown sensor index", func(t *testing.T) {
		f := newFixture(t)
		f.w.step(testTick)
		_, _, err := f.w.SensorReading(7)
		assert.ErrorIs(t, err, ErrNoSuchSensor)
	})
}

func TestShutdown(t *testing.T) {
	t.Run("releases a macro waiter when the loop never ran", func(t *testing.T) {
		f := newFixture(t)

		// No step ever happens, so only Shutdown can deliver the result.
		done, err := f.w.StartMacro(MacroMoveForward, 1)
		require.NoError(t, err)

		f.w.Shutdown()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("shutdown left the macro waiter blocked")
		}
	})

	t.Run("rejects macro starts afterwards", func(t *testing.T) {
		f := newFixture(t)
		f.w.Shutdown()

		_, err := f.w.StartMacro(MacroMoveForward, 1)
		assert.ErrorIs(t, err, ErrStopped)
	})

	t.Run("freezes the pose", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.w.SetWheelFractions(0.5, 0.5))
		f.w.Shutdown()

		f.w.step(testTick)
		assert.InDelta(t, 0.5, f.w.Snapshot().Y, 1e-9)
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.w.Shutdown()
		f.w.Shutdown()
	})
}
