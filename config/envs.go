package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the simulator's configuration values.
// It is constructed once by Load and passed by value to the components
// that need it; there is no package-level instance.
type Config struct {
	HostIP        string        // Host IP for the observer API
	RESTPort      int           // Port for the observer REST API
	AlgorithmPath string        // Path to the pre-built algorithm executable
	MouseFile     string        // Path to the mouse description file
	MazeWidth     int           // Maze width in tiles
	MazeHeight    int           // Maze height in tiles
	MazeSeed      int64         // Seed for maze generation; 0 means time-based
	TickDuration  time.Duration // Duration of one physics tick
	UnfogOnEntry  bool          // Unfog the origin tile when a discrete run starts
}

// Load initializes and returns the simulator configuration.
// It loads environment variables from a .env file when one is present.
func Load() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:        getEnvWithDefault("HOST_IP", "127.0.0.1"),
		RESTPort:      getEnvAsIntWithDefault("REST_PORT", 8989),
		AlgorithmPath: mustGetEnv("ALGORITHM_PATH"),
		MouseFile:     mustGetEnv("MOUSE_FILE"),
		MazeWidth:     getEnvAsIntWithDefault("MAZE_WIDTH", 16),
		MazeHeight:    getEnvAsIntWithDefault("MAZE_HEIGHT", 16),
		MazeSeed:      int64(getEnvAsIntWithDefault("MAZE_SEED", 0)),
		TickDuration:  time.Duration(getEnvAsIntWithDefault("TICK_MICROS", 5000)) * time.Microsecond,
		UnfogOnEntry:  getEnvAsBoolWithDefault("UNFOG_ON_ENTRY", true),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves the value of an environment variable as an integer,
// or returns a default value if not set. A set but unparsable value is fatal.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvAsBoolWithDefault retrieves the value of an environment variable as a boolean,
// or returns a default value if not set. A set but unparsable value is fatal.
func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a boolean: %v", key, err)
	}
	return value
}
