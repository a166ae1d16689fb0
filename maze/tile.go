package maze

// Tile is one grid cell of the maze.
//
// Walls holds the simulator's ground truth for each edge. Declared and
// DeclaredWall track the algorithm's own annotations: an edge whose Declared
// flag is false is "unknown" to the algorithm, which is distinct from an edge
// declared open. Annotations are kept per tile and direction; declaring an
// edge on one tile says nothing about the matching edge of its neighbor.
type Tile struct {
	// X is the column of the tile, growing east.
	X int
	// Y is the row of the tile, growing north.
	Y int
	// Walls holds the ground-truth wall state, indexed by Direction.
	Walls [4]bool
	// Declared marks edges the algorithm has declared, indexed by Direction.
	Declared [4]bool
	// DeclaredWall is the declared value for each edge; meaningful only
	// where the corresponding Declared flag is set.
	DeclaredWall [4]bool
	// Foggy marks the tile as not yet revealed to the discrete interface.
	Foggy bool
	// Color is a rendering hint set by the algorithm; empty means unset.
	Color string
	// Text is a rendering hint set by the algorithm; empty means unset.
	Text string
}

// HasWall reports the ground-truth wall state of the given edge.
func (t Tile) HasWall(d Direction) bool {
	return t.Walls[d]
}
