package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the jobrec API configuration.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Database       DatabaseConfig       `yaml:"database"`
	Embedding      EmbeddingConfig      `yaml:"embedding"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
	Auth           AuthConfig           `yaml:"auth"`
	Logging        LoggingConfig        `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds the embedding provider and model settings.
type EmbeddingConfig struct {
	Provider            string `yaml:"provider"` // label for logs and metrics
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"` // 0 = whatever the model returns
	JobInstruction      string `yaml:"job_instruction"`
	ProfileInstruction  string `yaml:"profile_instruction"`
	MaxBatchSize        int    `yaml:"max_batch_size"`
	CacheEnabled        *bool  `yaml:"cache_enabled"`
	CacheTTLHours       int    `yaml:"cache_ttl_hours"` // 0 = no expiry
	HealthCheckDisabled bool   `yaml:"health_check_disabled"`
}

// RecommendationConfig holds ranking and prior update settings.
type RecommendationConfig struct {
	Temperature            float64 `yaml:"temperature"`
	DefaultLimit           int     `yaml:"default_limit"`
	MaxLimit               int     `yaml:"max_limit"`
	MaintenanceConcurrency int     `yaml:"maintenance_concurrency"`
}

// CacheTTL returns the embedding cache TTL.
func (e *EmbeddingConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLHours) * time.Hour
}

// CacheOn reports whether embeddings are cached in Redis (default: on).
func (e *EmbeddingConfig) CacheOn() bool {
	return e.CacheEnabled == nil || *e.CacheEnabled
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.MaxBatchSize <= 0 {
		c.Embedding.MaxBatchSize = 256
	}
	if c.Recommendation.Temperature <= 0 {
		c.Recommendation.Temperature = 2.0
	}
	if c.Recommendation.DefaultLimit <= 0 {
		c.Recommendation.DefaultLimit = 5
	}
	if c.Recommendation.MaxLimit <= 0 {
		c.Recommendation.MaxLimit = 100
	}
	if c.Recommendation.MaintenanceConcurrency <= 0 {
		c.Recommendation.MaintenanceConcurrency = 8
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return errors.New("database.addrs is required")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	if c.Embedding.CacheTTLHours < 0 {
		return fmt.Errorf("embedding.cache_ttl_hours must not be negative, got %d", c.Embedding.CacheTTLHours)
	}
	if r := c.Recommendation; r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf(
			"recommendation.default_limit (%d) exceeds recommendation.max_limit (%d)",
			r.DefaultLimit, r.MaxLimit,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests run from package directories.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
