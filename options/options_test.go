package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/mouse-sim/maze"
)

func TestStatic(t *testing.T) {
	t.Run("defaults finalize cleanly", func(t *testing.T) {
		s := NewStatic()
		opts, err := s.Finalize()
		require.NoError(t, err)
		assert.Equal(t, Discrete, opts.InterfaceType)
		assert.Equal(t, OpeningDirection, opts.InitialDirection)
		assert.Equal(t, 0, opts.TileTextRows)
		assert.Equal(t, 0, opts.TileTextCols)
		assert.Equal(t, 1.0, opts.WheelSpeedFraction)
	})

	t.Run("declared values survive finalization", func(t *testing.T) {
		s := NewStatic()
		require.NoError(t, s.SetInterfaceType("continuous"))
		require.NoError(t, s.SetInitialDirection("East"))
		require.NoError(t, s.SetTileTextRowsAndCols(2, 4))
		require.NoError(t, s.SetWheelSpeedFraction(0.5))

		opts, err := s.Finalize()
		require.NoError(t, err)
		assert.Equal(t, Continuous, opts.InterfaceType)
		assert.Equal(t, "east", opts.InitialDirection)
		assert.Equal(t, 2, opts.TileTextRows)
		assert.Equal(t, 4, opts.TileTextCols)
		assert.Equal(t, 0.5, opts.WheelSpeedFraction)
	})

	t.Run("setters fail after finalization", func(t *testing.T) {
		s := NewStatic()
		_, err := s.Finalize()
		require.NoError(t, err)

		assert.ErrorIs(t, s.SetInterfaceType("continuous"), ErrAlreadyFinalized)
		assert.ErrorIs(t, s.SetInitialDirection("north"), ErrAlreadyFinalized)
		assert.ErrorIs(t, s.SetTileTextRowsAndCols(1, 1), ErrAlreadyFinalized)
		assert.ErrorIs(t, s.SetWheelSpeedFraction(0.1), ErrAlreadyFinalized)
	})

	t.Run("finalize is idempotent", func(t *testing.T) {
		s := NewStatic()
		require.NoError(t, s.SetWheelSpeedFraction(0.25))

		first, err := s.Finalize()
		require.NoError(t, err)
		second, err := s.Finalize()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("validation failures", func(t *testing.T) {
		for _, tc := range []struct {
			name    string
			declare func(*Static)
			want    error
		}{
			{
				"bad interface type",
				func(s *Static) { _ = s.SetInterfaceType("quantum") },
				ErrInvalidInterfaceType,
			},
			{
				"bad initial direction",
				func(s *Static) { _ = s.SetInitialDirection("up") },
				ErrInvalidInitialDirection,
			},
			{
				"negative tile text rows",
				func(s *Static) { _ = s.SetTileTextRowsAndCols(-1, 3) },
				ErrInvalidTileTextDimensions,
			},
			{
				"fraction above one",
				func(s *Static) { _ = s.SetWheelSpeedFraction(1.5) },
				ErrInvalidWheelSpeedFraction,
			},
			{
				"negative fraction",
				func(s *Static) { _ = s.SetWheelSpeedFraction(-0.1) },
				ErrInvalidWheelSpeedFraction,
			},
		} {
			t.Run(tc.name, func(t *testing.T) {
				s := NewStatic()
				tc.declare(s)
				_, err := s.Finalize()
				assert.ErrorIs(t, err, tc.want)
				assert.False(t, s.Finalized(), "a failed finalize must not freeze")
			})
		}
	})

	t.Run("fraction boundaries are inclusive", func(t *testing.T) {
		for _, f := range []float64{0.0, 1.0} {
			s := NewStatic()
			require.NoError(t, s.SetWheelSpeedFraction(f))
			_, err := s.Finalize()
			assert.NoError(t, err, "fraction %v", f)
		}
	})

	t.Run("snapshot reports finalization", func(t *testing.T) {
		s := NewStatic()
		_, finalized := s.Snapshot()
		assert.False(t, finalized)

		_, err := s.Finalize()
		require.NoError(t, err)
		opts, finalized := s.Snapshot()
		assert.True(t, finalized)
		assert.Equal(t, Discrete, opts.InterfaceType)
	})
}

func TestResolveInitialDirection(t *testing.T) {
	for _, tc := range []struct {
		name               string
		policy             string
		wallNorth, wallEast bool
		want               maze.Direction
	}{
		{"explicit direction wins", "west", true, false, maze.West},
		{"opening picks the unwalled edge", OpeningDirection, true, false, maze.East},
		{"opening prefers north", OpeningDirection, false, true, maze.North},
		{"opening ties go north", OpeningDirection, false, false, maze.North},
		{"wall picks the walled edge", WallDirection, true, false, maze.North},
		{"wall prefers east", WallDirection, false, true, maze.East},
		{"wall ties go north", WallDirection, true, true, maze.North},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opts := StaticOptions{InitialDirection: tc.policy}
			assert.Equal(t, tc.want, opts.ResolveInitialDirection(tc.wallNorth, tc.wallEast))
		})
	}
}

func TestDynamic(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		d := NewDynamic()
		assert.Equal(t, 1.0, d.SimSpeed())
		assert.False(t, d.Paused())
	})

	t.Run("sim speed must be positive", func(t *testing.T) {
		d := NewDynamic()
		assert.ErrorIs(t, d.SetSimSpeed(0), ErrInvalidSimSpeed)
		assert.ErrorIs(t, d.SetSimSpeed(-1), ErrInvalidSimSpeed)
		require.NoError(t, d.SetSimSpeed(4))
		assert.Equal(t, 4.0, d.SimSpeed())
	})

	t.Run("pause toggles", func(t *testing.T) {
		d := NewDynamic()
		d.SetPaused(true)
		assert.True(t, d.Paused())
		d.SetPaused(false)
		assert.False(t, d.Paused())
	})

	t.Run("snapshot", func(t *testing.T) {
		d := NewDynamic()
		d.SetPaused(true)
		require.NoError(t, d.SetSimSpeed(2))
		assert.Equal(t, DynamicOptions{SimSpeed: 2, Paused: true}, d.Snapshot())
	})
}
