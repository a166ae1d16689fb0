/*
Package maze provides the simulator's ground-truth maze: a dense rectangular
grid of tiles with per-edge wall state, fog flags, and rendering hints.

Ground-truth walls are kept symmetric: the shared edge of two adjacent tiles
always agrees on both sides, and mutations through SetWall update both. The
algorithm's own wall declarations are annotations with no such guarantee; they
are stored per tile-direction pair exactly as declared.

Mazes are generated with Wilson's algorithm, which produces a uniform random
perfect maze. All exported methods are safe for concurrent use.
*/
package maze

import (
	"errors"
	"strings"
	"sync"
)

// Maze-related errors.
var (
	ErrOutOfRange       = errors.New("tile coordinates out of range")
	ErrInvalidDimension = errors.New("invalid maze dimensions")
)

const (
	minDimension = 1
	maxDimension = 64
)

// Maze is a rectangular grid of tiles. Coordinates are dense and bounded:
// [0, width) x [0, height).
type Maze struct {
	width  int
	height int
	grid   [][]Tile // indexed grid[y][x]
	sync.RWMutex
}

// New creates a maze of the given dimensions with a layout generated by
// Wilson's algorithm. All tiles start foggy. A seed of zero picks a
// time-based seed.
func New(width, height int, seed int64) (*Maze, error) {
	m, err := newWalled(width, height)
	if err != nil {
		return nil, err
	}
	m.generate(seed)
	return m, nil
}

// NewEmpty creates a maze whose only walls are the outer border. All tiles
// start foggy. Intended for controlled layouts built up with SetWall.
func NewEmpty(width, height int) (*Maze, error) {
	m, err := newWalled(width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := &m.grid[y][x]
			t.Walls[North] = y == height-1
			t.Walls[South] = y == 0
			t.Walls[East] = x == width-1
			t.Walls[West] = x == 0
		}
	}
	return m, nil
}

func newWalled(width, height int) (*Maze, error) {
	if min(width, height) < minDimension || max(width, height) > maxDimension {
		return nil, ErrInvalidDimension
	}

	grid := make([][]Tile, height)
	for y := range grid {
		grid[y] = make([]Tile, width)
		for x := range grid[y] {
			grid[y][x] = Tile{
				X:     x,
				Y:     y,
				Walls: [4]bool{true, true, true, true},
				Foggy: true,
			}
		}
	}

	return &Maze{
		width:  width,
		height: height,
		grid:   grid,
	}, nil
}

// Width returns the number of tile columns.
func (m *Maze) Width() int {
	return m.width
}

// Height returns the number of tile rows.
func (m *Maze) Height() int {
	return m.height
}

// InBound reports whether (x, y) lies inside the grid.
func (m *Maze) InBound(x, y int) bool {
	return 0 <= x && x < m.width && 0 <= y && y < m.height
}

// GetTile returns a copy of the tile at (x, y), or ErrOutOfRange.
func (m *Maze) GetTile(x, y int) (Tile, error) {
	m.RLock()
	defer m.RUnlock()
	if !m.InBound(x, y) {
		return Tile{}, ErrOutOfRange
	}
	return m.grid[y][x], nil
}

// HasWall reports the ground-truth wall state of the given tile edge.
// Edges outside the grid count as walled.
func (m *Maze) HasWall(x, y int, d Direction) bool {
	m.RLock()
	defer m.RUnlock()
	if !m.InBound(x, y) {
		return true
	}
	return m.grid[y][x].Walls[d]
}

// SetWall mutates the ground-truth wall state of a tile edge. The matching
// edge of the adjacent tile, if any, is updated to agree.
func (m *Maze) SetWall(x, y int, d Direction, isWall bool) error {
	m.Lock()
	defer m.Unlock()
	if !m.InBound(x, y) {
		return ErrOutOfRange
	}
	m.setWallLocked(x, y, d, isWall)
	return nil
}

func (m *Maze) setWallLocked(x, y int, d Direction, isWall bool) {
	m.grid[y][x].Walls[d] = isWall
	dx, dy := d.Delta()
	nx, ny := x+dx, y+dy
	if m.InBound(nx, ny) {
		m.grid[ny][nx].Walls[d.Opposite()] = isWall
	}
}

// DeclareWall records the algorithm's declaration for a single
// tile-direction pair. The neighbor's matching edge is left untouched.
func (m *Maze) DeclareWall(x, y int, d Direction, isWall bool) error {
	m.Lock()
	defer m.Unlock()
	if !m.InBound(x, y) {
		return ErrOutOfRange
	}
	m.grid[y][x].Declared[d] = true
	m.grid[y][x].DeclaredWall[d] = isWall
	return nil
}

// UndeclareWall clears the algorithm's declaration for a single
// tile-direction pair, returning the edge to "unknown".
func (m *Maze) UndeclareWall(x, y int, d Direction) error {
	m.Lock()
	defer m.Unlock()
	if !m.InBound(x, y) {
		return ErrOutOfRange
	}
	m.grid[y][x].Declared[d] = false
	m.grid[y][x].DeclaredWall[d] = false
	return nil
}

// WallDeclared reports whether the edge has been declared and, if so, the
// declared value.
func (m *Maze) WallDeclared(x, y int, d Direction) (declared, isWall bool, err error) {
	m.RLock()
	defer m.RUnlock()
	if !m.InBound(x, y) {
		return false, false, ErrOutOfRange
	}
	return m.grid[y][x].Declared[d], m.grid[y][x].DeclaredWall[d], nil
}

// SetFog sets the fog flag of the tile at (x, y).
func (m *Maze) SetFog(x, y int, foggy bool) error {
	m.Lock()
	defer m.Unlock()
	if !m.InBound(x, y) {
		return ErrOutOfRange
	}
	m.grid[y][x].Foggy = foggy
	return nil
}

// Foggy reports the fog flag of the tile at (x, y).
func (m *Maze) Foggy(x, y int) (bool, error) {
	m.RLock()
	defer m.RUnlock()
	if !m.InBound(x, y) {
		return false, ErrOutOfRange
	}
	return m.grid[y][x].Foggy, nil
}

// SetColor sets the rendering color hint of the tile at (x, y).
func (m *Maze) SetColor(x, y int, color string) error {
	m.Lock()
	defer m.Unlock()
	if !m.InBound(x, y) {
		return ErrOutOfRange
	}
	m.grid[y][x].Color = color
	return nil
}

// ClearColor removes the rendering color hint of the tile at (x, y).
func (m *Maze) ClearColor(x, y int) error {
	return m.SetColor(x, y, "")
}

// SetText sets the rendering text hint of the tile at (x, y).
func (m *Maze) SetText(x, y int, text string) error {
	m.Lock()
	defer m.Unlock()
	if !m.InBound(x, y) {
		return ErrOutOfRange
	}
	m.grid[y][x].Text = text
	return nil
}

// ClearText removes the rendering text hint of the tile at (x, y).
func (m *Maze) ClearText(x, y int) error {
	return m.SetText(x, y, "")
}

// Snapshot returns a consistent copy of every tile, indexed [y][x].
func (m *Maze) Snapshot() [][]Tile {
	m.RLock()
	defer m.RUnlock()
	grid := make([][]Tile, m.height)
	for y := range grid {
		grid[y] = make([]Tile, m.width)
		copy(grid[y], m.grid[y])
	}
	return grid
}

// String renders the ground-truth walls as ASCII art, north row first.
func (m *Maze) String() string {
	m.RLock()
	defer m.RUnlock()

	var output strings.Builder

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", m.width) + "\n")

	for y := m.height - 1; y >= 0; y-- {
		// Cell row
		output.WriteString("|")
		for x := 0; x < m.width; x++ {
			if m.grid[y][x].Walls[East] {
				output.WriteString("   |")
			} else {
				output.WriteString("    ")
			}
		}
		output.WriteString("\n")

		// Wall row
		output.WriteString("+")
		for x := 0; x < m.width; x++ {
			if m.grid[y][x].Walls[South] {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
