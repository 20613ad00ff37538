package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the configuration shared by the server and the CLI.
type AppConfig struct {
	Server      ServerConfig      `toml:"server"`
	Data        DataConfig        `toml:"data"`
	Aggregation AggregationConfig `toml:"aggregation"`
	Cache       CacheConfig       `toml:"cache"`
	Batch       BatchConfig       `toml:"batch"`
}

type ServerConfig struct {
	Port         int    `toml:"port"`
	MaxUploadMB  int    `toml:"max_upload_mb"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
	Debug        bool   `toml:"debug"`
}

type DataConfig struct {
	DBPath    string `toml:"db_path"`
	OutputDir string `toml:"output_dir"`
}

// AggregationConfig holds table sizes applied when a request does not set them.
type AggregationConfig struct {
	TopN        int `toml:"top_n"`
	BottomN     int `toml:"bottom_n"`
	PreviewRows int `toml:"preview_rows"`
}

// CacheConfig selects the result cache; an empty RedisAddr keeps results in process.
type CacheConfig struct {
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTL           string `toml:"ttl"`
}

type BatchConfig struct {
	Workers int `toml:"workers"`
}

// LoadConfigInfo reports what the config file set explicitly.
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8080,
			MaxUploadMB:  32,
			ReadTimeout:  "30s",
			WriteTimeout: "2m",
		},
		Data: DataConfig{
			DBPath:    "./data/reports.db",
			OutputDir: "./output",
		},
		Aggregation: AggregationConfig{
			TopN:        10,
			BottomN:     10,
			PreviewRows: 100,
		},
		Cache: CacheConfig{
			TTL: "1h",
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

// ParseTTL returns the cache TTL, or one hour when it is unset or invalid.
func (c CacheConfig) ParseTTL() time.Duration {
	return parseDuration(c.TTL, time.Hour)
}

// Timeouts returns the server read and write timeouts.
func (s ServerConfig) Timeouts() (time.Duration, time.Duration) {
	return parseDuration(s.ReadTimeout, 30*time.Second), parseDuration(s.WriteTimeout, 2*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// DefaultPath is ECOM_REPORTS_CONFIG when set, else config.toml next to the
// executable.
func DefaultPath() string {
	if v := os.Getenv("ECOM_REPORTS_CONFIG"); v != "" {
		return v
	}
	exe, err := os.Executable()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(filepath.Dir(exe), "config.toml")
}

// LoadConfigWithInfo reads the TOML file at path (a missing file keeps the
// defaults), then applies .env and environment overrides.
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
	default:
		return nil, info, err
	}

	// A missing .env is normal; the process environment still applies.
	_ = godotenv.Load()
	applyEnv(config, &info)
	return config, info, nil
}

// LoadConfig loads DefaultPath.
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(DefaultPath())
	return config, err
}

func applyEnv(c *AppConfig, info *LoadConfigInfo) {
	if _, ok := os.LookupEnv("PORT"); ok {
		info.PortSpecified = true
	}
	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", c.Server.MaxUploadMB)
	c.Server.Debug = getEnvBool("DEBUG", c.Server.Debug)

	c.Data.DBPath = getEnv("DB_PATH", c.Data.DBPath)
	c.Data.OutputDir = getEnv("OUTPUT_DIR", c.Data.OutputDir)

	c.Aggregation.TopN = getEnvInt("TOP_N", c.Aggregation.TopN)
	c.Aggregation.BottomN = getEnvInt("BOTTOM_N", c.Aggregation.BottomN)
	c.Aggregation.PreviewRows = getEnvInt("PREVIEW_ROWS", c.Aggregation.PreviewRows)

	c.Cache.RedisAddr = getEnv("REDIS_ADDR", c.Cache.RedisAddr)
	c.Cache.RedisPassword = getEnv("REDIS_PASSWORD", c.Cache.RedisPassword)
	c.Cache.RedisDB = getEnvInt("REDIS_DB", c.Cache.RedisDB)
	c.Cache.TTL = getEnv("CACHE_TTL", c.Cache.TTL)

	c.Batch.Workers = getEnvInt("WORKERS", c.Batch.Workers)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
