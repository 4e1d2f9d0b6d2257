package server

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the API server configuration, loaded from a TOML file.
//
// Example:
//
//	listen = ":8080"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//	database = "archmap"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	ttl = "1h"
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string `toml:"listen"`

	Store StoreConfig `toml:"store"`
	Cache CacheConfig `toml:"cache"`
}

// StoreConfig selects the version store backend.
// An empty MongoURI selects the in-memory store.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// CacheConfig selects the cache backend.
// An empty RedisURL disables caching.
type CacheConfig struct {
	RedisURL string   `toml:"redis_url"`
	TTL      duration `toml:"ttl"`
}

// duration wraps time.Duration for TOML decoding of strings like "1h".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file is given:
// local listen address, in-memory store, no cache.
func DefaultConfig() Config {
	return Config{
		Listen: ":8080",
		Store:  StoreConfig{Database: "archmap"},
		Cache:  CacheConfig{TTL: duration{time.Hour}},
	}
}

// LoadConfig reads a TOML configuration file, applying defaults for
// missing fields.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = "archmap"
	}
	if cfg.Cache.TTL.Duration == 0 {
		cfg.Cache.TTL = duration{time.Hour}
	}
	return cfg, nil
}
