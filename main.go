package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/beka-birhanu/mouse-sim/algorithm"
	"github.com/beka-birhanu/mouse-sim/api"
	"github.com/beka-birhanu/mouse-sim/api/i"
	simapi "github.com/beka-birhanu/mouse-sim/api/sim"
	"github.com/beka-birhanu/mouse-sim/config"
	"github.com/beka-birhanu/mouse-sim/interpreter"
	"github.com/beka-birhanu/mouse-sim/logger"
	"github.com/beka-birhanu/mouse-sim/maze"
	"github.com/beka-birhanu/mouse-sim/mouse"
	"github.com/beka-birhanu/mouse-sim/options"
	"github.com/beka-birhanu/mouse-sim/world"
)

// Simulation dependencies, wired once at startup
var (
	cfg       config.Config
	runID     uuid.UUID
	appLogger *logger.Logger
	mz        *maze.Maze
	ms        *mouse.Mouse
	static    *options.Static
	dynamic   *options.Dynamic
	wld       *world.World
	interp    *interpreter.Interpreter
	proc      *algorithm.Process
	channel   *algorithm.Channel
	router    *api.Router
)

func initMaze() {
	var err error
	mz, err = maze.New(cfg.MazeWidth, cfg.MazeHeight, cfg.MazeSeed)
	if err != nil {
		appLogger.Errorf("Creating maze: %v", err)
		os.Exit(1)
	}
	appLogger.Infof("Maze generated: %dx%d tiles", mz.Width(), mz.Height())
}

func initWorld() {
	worldLogger, err := logger.New("WORLD", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Errorf("Creating world logger: %v", err)
		os.Exit(1)
	}

	ms = mouse.New(mz)
	static = options.NewStatic()
	dynamic = options.NewDynamic()
	wld = world.New(mz, ms, dynamic, cfg.TickDuration, worldLogger)
	appLogger.Info("World initialized")
}

func initInterpreter() {
	interpLogger, err := logger.New("MOUSE-INTERFACE", config.ColorMagenta, os.Stdout)
	if err != nil {
		appLogger.Errorf("Creating interpreter logger: %v", err)
		os.Exit(1)
	}

	interp, err = interpreter.New(interpreter.Config{
		Maze:      mz,
		Mouse:     ms,
		World:     wld,
		Static:    static,
		Dynamic:   dynamic,
		MouseFile: cfg.MouseFile,
		Logger:    interpLogger,
	})
	if err != nil {
		appLogger.Errorf("Creating interpreter: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Interpreter initialized")
}

func initAlgorithm(ctx context.Context, cancel context.CancelFunc) {
	var err error
	proc, err = algorithm.StartProcess(ctx, cfg.AlgorithmPath)
	if err != nil {
		appLogger.Errorf("Starting algorithm: %v", err)
		os.Exit(1)
	}
	appLogger.Infof("Algorithm started: %s", cfg.AlgorithmPath)

	channelLogger, err := logger.New("CHANNEL", config.ColorBlue, os.Stdout)
	if err != nil {
		appLogger.Errorf("Creating channel logger: %v", err)
		os.Exit(1)
	}
	algoLogger, err := logger.New("ALGO", config.ColorYellow, os.Stdout)
	if err != nil {
		appLogger.Errorf("Creating algorithm logger: %v", err)
		os.Exit(1)
	}

	channel, err = algorithm.NewChannel(
		proc.Stderr(),
		proc.Stdin(),
		interp,
		algorithm.WithLogger(channelLogger),
		algorithm.WithDiagnostics(proc.Stdout(), algoLogger),
		algorithm.WithExitHandler(cancel),
	)
	if err != nil {
		appLogger.Errorf("Creating command channel: %v", err)
		os.Exit(1)
	}
	appLogger.Info("Command channel initialized")
}

func initRouter() {
	apiLogger, err := logger.New("API", config.ColorGreen, os.Stdout)
	if err != nil {
		appLogger.Errorf("Creating API logger: %v", err)
		os.Exit(1)
	}

	controller, err := simapi.NewController(runID, mz, wld, static, dynamic, apiLogger)
	if err != nil {
		appLogger.Errorf("Creating sim controller: %v", err)
		os.Exit(1)
	}

	router = api.NewRouter(api.Config{
		Addr:        fmt.Sprintf("%s:%v", cfg.HostIP, cfg.RESTPort),
		BaseURL:     "/api",
		Controllers: []i.Controller{controller},
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	cfg = config.Load()
	runID = uuid.New()
	appLogger.Infof("Run %s starting", runID)

	initMaze()
	initWorld()
	initInterpreter()
	initAlgorithm(ctx, cancel)
	initRouter()

	// Forward interrupt and termination signals into the run context.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	channel.Start(ctx)

	// The algorithm declares its static options first; the physics loop and
	// the observer API wait for its first real command.
	select {
	case <-interp.Finalized():
	case err := <-interp.Fatal():
		appLogger.Errorf("Configuration error: %v", err)
		shutdown()
		os.Exit(1)
	case sig := <-signals:
		appLogger.Infof("Received %v, shutting down", sig)
		shutdown()
		return
	case <-ctx.Done():
		appLogger.Error("Algorithm exited before declaring its options")
		shutdown()
		os.Exit(1)
	}

	staticOpts, _ := static.Snapshot()
	if staticOpts.InterfaceType == options.Discrete && cfg.UnfogOnEntry {
		_ = mz.SetFog(0, 0, false)
	}

	go wld.Run(ctx)
	go func() {
		if err := router.Run(); err != nil {
			appLogger.Errorf("Observer API stopped: %v", err)
		}
	}()

	select {
	case sig := <-signals:
		appLogger.Infof("Received %v, shutting down", sig)
	case err := <-interp.Fatal():
		appLogger.Errorf("Configuration error: %v", err)
		shutdown()
		os.Exit(1)
	case <-ctx.Done():
		appLogger.Info("Run finished")
	}

	shutdown()
}

// shutdown stops the reader, discards pending commands, releases any worker
// still blocked on a macro, terminates the algorithm process, and waits for
// the channel goroutines to drain. The world must be shut down before waiting
// on the channel: a run can end before the physics loop was ever started, and
// a worker blocked on an in-flight macro would otherwise wait forever.
func shutdown() {
	channel.Stop()
	wld.Shutdown()
	proc.Terminate()
	channel.Wait()
	appLogger.Infof("Run %s stopped", runID)
}
