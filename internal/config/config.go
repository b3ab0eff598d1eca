// Package config loads runtime settings from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/hailam/chesscore/internal/engine"
)

// EnvConfigPath names the environment variable consulted when no -config
// flag is given.
const EnvConfigPath = "CHESSPLAY_CONFIG"

// Config holds all runtime settings.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Engine  EngineConfig  `toml:"engine"`
	Storage StorageConfig `toml:"storage"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// Debug switches gin to debug mode.
	Debug bool `toml:"debug"`
}

// EngineConfig configures the search. A non-zero Depth overrides Difficulty.
type EngineConfig struct {
	Difficulty string `toml:"difficulty"`
	Depth      int    `toml:"depth"`
}

// StorageConfig configures the game archive. An empty Dir selects the
// platform data directory.
type StorageConfig struct {
	Dir      string `toml:"dir"`
	InMemory bool   `toml:"in_memory"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Engine: EngineConfig{Difficulty: engine.Medium.String()},
	}
}

// Load reads the TOML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Path picks the config file: the flag value if set, else $CHESSPLAY_CONFIG.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvConfigPath)
}

// Validate checks settings that would otherwise fail later at startup.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if _, err := engine.ParseDifficulty(c.Engine.Difficulty); err != nil {
		return fmt.Errorf("engine.difficulty: %w", err)
	}
	if c.Engine.Depth < 0 || c.Engine.Depth > engine.MaxDepth {
		return fmt.Errorf("engine.depth: %w: %d", engine.ErrInvalidDepth, c.Engine.Depth)
	}
	return nil
}

// SearchDepth resolves the configured depth in plies.
func (c Config) SearchDepth() int {
	if c.Engine.Depth > 0 {
		return c.Engine.Depth
	}
	d, err := engine.ParseDifficulty(c.Engine.Difficulty)
	if err != nil {
		d = engine.Medium
	}
	return engine.DifficultyDepth[d]
}

// Encode renders the settings as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
