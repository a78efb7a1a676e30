package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// defaultConfigFile is looked up in the working directory when --config
// is not given.
const defaultConfigFile = "simchain.toml"

// Config holds the application configuration loaded from a TOML file.
// Every field has a usable default; a missing config file is not an
// error.
type Config struct {
	// Realm is the game realm: 0 for Magnates, 1 for Entrepreneurs.
	Realm int `toml:"realm"`

	// AdminOverhead is the administration overhead factor applied to
	// wages in the profit computation.
	AdminOverhead float64 `toml:"admin_overhead"`

	// Graph is the path of the production-chain graph JSON file.
	Graph string `toml:"graph"`

	Canvas CanvasConfig `toml:"canvas"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Serve  ServeConfig  `toml:"serve"`
}

// CanvasConfig is the layout canvas extent in abstract screen units.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// CacheConfig selects and tunes the response cache backend.
// When RedisAddr is set the Redis backend is used; otherwise responses
// are cached as files under Dir (default: the XDG cache directory).
type CacheConfig struct {
	Dir       string `toml:"dir"`
	TTL       string `toml:"ttl"`
	RedisAddr string `toml:"redis_addr"`
}

// TTLDuration parses the configured cache TTL, falling back to the
// market ticker update period on a missing or malformed value.
func (c CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return 4 * time.Hour
	}
	return d
}

// StoreConfig enables the MongoDB snapshot archive when MongoURI is set.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServeConfig configures the HTTP API server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Realm:         0,
		AdminOverhead: 0,
		Graph:         "chain.json",
		Canvas:        CanvasConfig{Width: 480, Height: 360},
		Cache:         CacheConfig{TTL: "4h"},
		Store:         StoreConfig{Database: "simchain"},
		Serve:         ServeConfig{Addr: ":8080"},
	}
}

// LoadConfig reads configuration from path, or from simchain.toml in
// the working directory when path is empty. A missing file yields the
// defaults; a malformed file is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return Config{}, fmt.Errorf("config file %s not found", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
