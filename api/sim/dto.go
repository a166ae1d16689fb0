// Package simapi exposes read-only snapshots of the simulation state for a
// rendering layer or any other external observer.
package simapi

import "github.com/google/uuid"

// TileResponse is one tile of the maze snapshot. Wall arrays are indexed
// north, east, south, west.
type TileResponse struct {
	X            int      `json:"x"`
	Y            int      `json:"y"`
	Walls        [4]bool  `json:"walls"`
	Declared     [4]bool  `json:"declared"`
	DeclaredWall [4]bool  `json:"declared_wall"`
	Foggy        bool     `json:"foggy"`
	Color        string   `json:"color,omitempty"`
	Text         string   `json:"text,omitempty"`
}

// MazeResponse is a consistent snapshot of the whole maze.
type MazeResponse struct {
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Tiles  [][]TileResponse `json:"tiles"`
}

// MouseResponse is a snapshot of the mouse's physical and discrete state.
type MouseResponse struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	TileX    int     `json:"tile_x"`
	TileY    int     `json:"tile_y"`
	Heading  string  `json:"heading"`
	Collided bool    `json:"collided"`
}

// StaticOptionsResponse mirrors the finalized static options.
type StaticOptionsResponse struct {
	InterfaceType      string  `json:"interface_type"`
	InitialDirection   string  `json:"initial_direction"`
	TileTextRows       int     `json:"tile_text_rows"`
	TileTextCols       int     `json:"tile_text_cols"`
	WheelSpeedFraction float64 `json:"wheel_speed_fraction"`
}

// OptionsResponse carries both option surfaces. Static is nil until the
// algorithm finalizes its options.
type OptionsResponse struct {
	RunID   uuid.UUID              `json:"run_id"`
	Static  *StaticOptionsResponse `json:"static"`
	Dynamic DynamicOptionsResponse `json:"dynamic"`
}

// DynamicOptionsResponse mirrors the current dynamic options.
type DynamicOptionsResponse struct {
	SimSpeed float64 `json:"sim_speed"`
	Paused   bool    `json:"paused"`
}

// DynamicOptionsRequest updates dynamic options; nil fields are untouched.
type DynamicOptionsRequest struct {
	SimSpeed *float64 `json:"sim_speed"`
	Paused   *bool    `json:"paused"`
}
