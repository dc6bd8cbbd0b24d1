package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the millsearch API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"` // empty disables auth
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DatabaseConfig holds listing store connection settings.
type DatabaseConfig struct {
	Driver           string `yaml:"driver"` // postgres, sqlite3 (default: postgres)
	DSN              string `yaml:"dsn"`
	MaxOpenConns     int    `yaml:"max_open_conns"`
	QueryTimeoutSec  int    `yaml:"query_timeout_sec"` // 0 = caller deadline only
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
	Migrate          bool   `yaml:"migrate"`
}

// Supported cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Backend    string   `yaml:"backend"` // memory, redis, none (default: memory)
	TTLSec     int      `yaml:"ttl_sec"`
	MaxEntries int      `yaml:"max_entries"`
	Addrs      []string `yaml:"addrs"`
	Password   string   `yaml:"password"`
	KeyPrefix  string   `yaml:"key_prefix"`
}

// Supported facet modes.
const (
	FacetModeFiltered    = "filtered"
	FacetModeDisjunctive = "disjunctive"
)

// SearchConfig holds ranking, pagination and facet settings.
type SearchConfig struct {
	DefaultPageSize  int    `yaml:"default_page_size"`
	MaxPageSize      int    `yaml:"max_page_size"`
	DefaultTolerance *int   `yaml:"default_tolerance"`
	BareNumericMin   int    `yaml:"bare_numeric_min"`
	BareNumericMax   int    `yaml:"bare_numeric_max"`
	FacetLimit       int    `yaml:"facet_limit"`
	FacetMode        string `yaml:"facet_mode"`
	MaxCandidates    int    `yaml:"max_candidates"`
	SuggestionLimit  int    `yaml:"suggestion_limit"`
}

// Tolerance returns the default GSM tolerance (10 when unset).
func (s SearchConfig) Tolerance() int {
	if s.DefaultTolerance == nil {
		return 10
	}
	return *s.DefaultTolerance
}

// Load reads configuration from a YAML file by environment name (local, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheMemory
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 10000
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "millsearch:"
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 20
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
	if c.Search.DefaultTolerance == nil || *c.Search.DefaultTolerance < 0 {
		t := 10
		c.Search.DefaultTolerance = &t
	}
	if c.Search.BareNumericMin <= 0 {
		c.Search.BareNumericMin = 20
	}
	if c.Search.BareNumericMax <= 0 {
		c.Search.BareNumericMax = 2000
	}
	if c.Search.FacetLimit <= 0 {
		c.Search.FacetLimit = 30
	}
	if c.Search.FacetMode == "" {
		c.Search.FacetMode = FacetModeFiltered
	}
	if c.Search.MaxCandidates < 0 {
		c.Search.MaxCandidates = 0
	}
	if c.Search.SuggestionLimit <= 0 {
		c.Search.SuggestionLimit = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be memory, redis or none, got %q", c.Cache.Backend)
	}
	switch c.Search.FacetMode {
	case FacetModeFiltered, FacetModeDisjunctive:
	default:
		return fmt.Errorf(
			"search.facet_mode must be %q or %q, got %q",
			FacetModeFiltered, FacetModeDisjunctive, c.Search.FacetMode,
		)
	}
	if c.Search.BareNumericMin >= c.Search.BareNumericMax {
		return fmt.Errorf(
			"search.bare_numeric_min (%d) must be below bare_numeric_max (%d)",
			c.Search.BareNumericMin, c.Search.BareNumericMax,
		)
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf(
			"search.default_page_size (%d) exceeds max_page_size (%d)",
			c.Search.DefaultPageSize, c.Search.MaxPageSize,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
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
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
