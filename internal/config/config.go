// Package config provides configuration management for the Retime
// Agent. Configuration is loaded from environment variables with
// sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// Default values
	DefaultPort          = 8791
	DefaultBridgePort    = 8792
	DefaultLogLevel      = "info"
	DefaultDataDir       = ".retime"
	DefaultBridgeTimeout = 10 // seconds

	// Environment variable names
	EnvPort          = "RETIME_PORT"
	EnvBridgePort    = "RETIME_BRIDGE_PORT"
	EnvLogLevel      = "RETIME_LOG_LEVEL"
	EnvDataDir       = "RETIME_DATA_DIR"
	EnvHeadless      = "RETIME_HEADLESS"
	EnvBridgeTimeout = "RETIME_BRIDGE_TIMEOUT_S"

	// Database filename
	DBFilename = "retime.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	BridgePort() int
	LogLevel() string
	DataDir() string
	DBPath() string
	Headless() bool
	BridgeTimeout() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port           int
	bridgePort     int
	logLevel       string
	dataDir        string
	headless       bool
	bridgeTimeoutS int
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:           DefaultPort,
		bridgePort:     DefaultBridgePort,
		logLevel:       DefaultLogLevel,
		dataDir:        defaultDataDir(),
		bridgeTimeoutS: DefaultBridgeTimeout,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := parsePort(EnvPort, p)
		if err != nil {
			return nil, err
		}
		cfg.port = port
	}

	if p := os.Getenv(EnvBridgePort); p != "" {
		port, err := parsePort(EnvBridgePort, p)
		if err != nil {
			return nil, err
		}
		cfg.bridgePort = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = headless
	}

	if ts := os.Getenv(EnvBridgeTimeout); ts != "" {
		seconds, err := strconv.Atoi(ts)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvBridgeTimeout, err)
		}
		if seconds < 1 {
			return nil, fmt.Errorf("invalid %s: must be at least 1 second", EnvBridgeTimeout)
		}
		cfg.bridgeTimeoutS = seconds
	}

	return cfg, nil
}

func parsePort(name, value string) (int, error) {
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid %s: port must be between 1 and 65535", name)
	}
	return port, nil
}

// Port returns the HTTP control API port
func (c *EnvConfig) Port() int {
	return c.port
}

// BridgePort returns the panel bridge socket port
func (c *EnvConfig) BridgePort() int {
	return c.bridgePort
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// BridgeTimeout returns the per-primitive bridge call timeout
func (c *EnvConfig) BridgeTimeout() time.Duration {
	return time.Duration(c.bridgeTimeoutS) * time.Second
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
