package simapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/beka-birhanu/mouse-sim/logger"
	"github.com/beka-birhanu/mouse-sim/maze"
	"github.com/beka-birhanu/mouse-sim/options"
	"github.com/beka-birhanu/mouse-sim/world"
)

// ErrMissingDependency is returned when a controller is created without its
// required collaborators.
var ErrMissingDependency = errors.New("missing sim controller dependency")

// streamInterval is the cadence of the websocket pose stream.
const streamInterval = 50 * time.Millisecond

// Controller serves read-only simulation snapshots and the one writable
// surface a user has: the dynamic options.
type Controller struct {
	runID    uuid.UUID
	mz       *maze.Maze
	w        *world.World
	static   *options.Static
	dyn      *options.Dynamic
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// NewController initializes a Controller over the given simulation state.
func NewController(runID uuid.UUID, mz *maze.Maze, w *world.World, static *options.Static, dyn *options.Dynamic, log *logger.Logger) (*Controller, error) {
	if mz == nil || w == nil || static == nil || dyn == nil {
		return nil, ErrMissingDependency
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{
		runID:  runID,
		mz:     mz,
		w:      w,
		static: static,
		dyn:    dyn,
		log:    log,
		upgrader: websocket.Upgrader{
			// The observer API is a local diagnostic surface.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}, nil
}

// RegisterRoutes registers the observer routes.
func (c *Controller) RegisterRoutes(route *gin.RouterGroup) {
	sim := route.Group("/sim")
	{
		sim.GET("/maze", c.getMaze)
		sim.GET("/mouse", c.getMouse)
		sim.GET("/options", c.getOptions)
		sim.PUT("/options/dynamic", c.putDynamicOptions)
		sim.GET("/stream", c.streamMouse)
	}
}

// getMaze returns a consistent snapshot of every tile.
func (c *Controller) getMaze(ctx *gin.Context) {
	grid := c.mz.Snapshot()
	tiles := make([][]TileResponse, len(grid))
	for y, row := range grid {
		tiles[y] = make([]TileResponse, len(row))
		for x, t := range row {
			tiles[y][x] = TileResponse{
				X:            t.X,
				Y:            t.Y,
				Walls:        t.Walls,
				Declared:     t.Declared,
				DeclaredWall: t.DeclaredWall,
				Foggy:        t.Foggy,
				Color:        t.Color,
				Text:         t.Text,
			}
		}
	}
	ctx.JSON(http.StatusOK, MazeResponse{
		Width:  c.mz.Width(),
		Height: c.mz.Height(),
		Tiles:  tiles,
	})
}

// getMouse returns the current pose and derived discrete state.
func (c *Controller) getMouse(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, mouseResponse(c.w.Snapshot()))
}

// getOptions returns both option surfaces.
func (c *Controller) getOptions(ctx *gin.Context) {
	response := OptionsResponse{RunID: c.runID}

	if static, finalized := c.static.Snapshot(); finalized {
		response.Static = &StaticOptionsResponse{
			InterfaceType:      static.InterfaceType.String(),
			InitialDirection:   static.InitialDirection,
			TileTextRows:       static.TileTextRows,
			TileTextCols:       static.TileTextCols,
			WheelSpeedFraction: static.WheelSpeedFraction,
		}
	}

	dynamic := c.dyn.Snapshot()
	response.Dynamic = DynamicOptionsResponse{
		SimSpeed: dynamic.SimSpeed,
		Paused:   dynamic.Paused,
	}
	ctx.JSON(http.StatusOK, response)
}

// putDynamicOptions lets the user toggle pause and speed during a run.
func (c *Controller) putDynamicOptions(ctx *gin.Context) {
	var request DynamicOptionsRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.SimSpeed != nil {
		if err := c.dyn.SetSimSpeed(*request.SimSpeed); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if request.Paused != nil {
		c.dyn.SetPaused(*request.Paused)
	}

	dynamic := c.dyn.Snapshot()
	ctx.JSON(http.StatusOK, DynamicOptionsResponse{
		SimSpeed: dynamic.SimSpeed,
		Paused:   dynamic.Paused,
	})
}

// streamMouse upgrades to a websocket and pushes pose snapshots at a fixed
// cadence until the client goes away.
func (c *Controller) streamMouse(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.log.Errorf("upgrading pose stream: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(mouseResponse(c.w.Snapshot())); err != nil {
			return
		}
	}
}

func mouseResponse(p world.Pose) MouseResponse {
	return MouseResponse{
		X:        p.X,
		Y:        p.Y,
		Rotation: p.Rotation,
		TileX:    p.TileX,
		TileY:    p.TileY,
		Heading:  p.Heading.String(),
		Collided: p.Collided,
	}
}
