package config

import (
	"os"
	"time"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Query    QueryConfig    `yaml:"query"`
	Regions  []RegionConfig `yaml:"regions"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	CORSOrigins     []string `yaml:"cors_origins"`
	MaxBodyMB       int      `yaml:"max_body_mb"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// QueryConfig bounds the active-ships page size.
type QueryConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// RegionConfig describes one named area used to label positions. Either the
// box bounds or Polygon ([lat, lng] vertices) must be set.
type RegionConfig struct {
	Name    string       `yaml:"name"`
	MinLat  float64      `yaml:"min_lat"`
	MaxLat  float64      `yaml:"max_lat"`
	MinLng  float64      `yaml:"min_lng"`
	MaxLng  float64      `yaml:"max_lng"`
	Polygon [][2]float64 `yaml:"polygon"`
}

// IngestConfig holds the AIS stream ingestion configuration.
type IngestConfig struct {
	Enabled          bool             `yaml:"enabled"`
	URL              string           `yaml:"url"`
	APIKey           string           `yaml:"api_key"`
	BoundingBoxes    [][2][2]float64  `yaml:"bounding_boxes"`
	ShipTypes        []int            `yaml:"ship_types"`
	ReconnectSeconds int              `yaml:"reconnect_seconds"`
	Reconnect        time.Duration    `yaml:"-"` // Ignored by YAML parser
	WorkerPool       WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the ingestion worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// LogConfig selects the log level and output format (text or json).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultCORSOrigins are the local frontend dev servers.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:3000",
}

// DefaultBoundingBoxes cover the Singapore Strait and Japanese waters.
var DefaultBoundingBoxes = [][2][2]float64{
	{{1.15, 103.55}, {1.50, 104.10}},
	{{24.0, 122.0}, {46.0, 146.0}},
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in every unset or invalid value.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds < 0 {
		cfg.Server.CacheTTLSeconds = 0
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = DefaultCORSOrigins
	}
	if cfg.Server.MaxBodyMB <= 0 {
		cfg.Server.MaxBodyMB = 50
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Query.DefaultLimit <= 0 {
		cfg.Query.DefaultLimit = 50
	}
	if cfg.Query.MaxLimit <= 0 {
		cfg.Query.MaxLimit = 1000
	}
	if cfg.Query.MaxLimit < cfg.Query.DefaultLimit {
		log.Warnf("query.max_limit %d is below query.default_limit %d; raising it", cfg.Query.MaxLimit, cfg.Query.DefaultLimit)
		cfg.Query.MaxLimit = cfg.Query.DefaultLimit
	}

	if cfg.Ingest.URL == "" {
		cfg.Ingest.URL = "wss://stream.aisstream.io/v0/stream"
	}
	if len(cfg.Ingest.BoundingBoxes) == 0 {
		cfg.Ingest.BoundingBoxes = DefaultBoundingBoxes
	}
	if len(cfg.Ingest.ShipTypes) == 0 {
		cfg.Ingest.ShipTypes = []int{70, 80}
	}
	if cfg.Ingest.ReconnectSeconds <= 0 {
		cfg.Ingest.ReconnectSeconds = 10
	}
	cfg.Ingest.Reconnect = time.Duration(cfg.Ingest.ReconnectSeconds) * time.Second

	if cfg.Ingest.WorkerPool.Size <= 0 {
		log.Infof("ingest.worker_pool.size is not set or invalid; defaulting to 1")
		cfg.Ingest.WorkerPool.Size = 1
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
