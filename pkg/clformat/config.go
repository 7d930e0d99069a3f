package clformat

import (
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/text/language"
)

// Config contains all configuration options for the format engine
type Config struct {
	// CacheMaxSize is the maximum number of compiled controls to cache. 0 disables caching.
	CacheMaxSize int `yaml:"cache_max_size"`
	// CacheTTL is the time-to-live for cached controls. 0 means no expiration.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// MaxDepth bounds the nesting of bodies and indirect controls
	MaxDepth int `yaml:"max_depth"`
	// TabSize is the tab width used when computing output columns
	TabSize int `yaml:"tab_size"`
	// LineWidth is the line width used by fill justification
	LineWidth int `yaml:"line_width"`
	// Locale is a BCP 47 tag for the locale-aware directives. Empty means none.
	Locale string `yaml:"locale"`
}

// globalConfig is initialized before DefaultEngine, which depends on it.
var (
	globalConfig      = ConfigFromEnvironment()
	globalConfigMutex sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize: 100,
		CacheTTL:     0,
		LogLevel:     "info",
		MaxDepth:     DefaultMaxDepth,
		TabSize:      DefaultTabSize,
		LineWidth:    DefaultLineWidth,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("CLFORMAT_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	if val := os.Getenv("CLFORMAT_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	if val := os.Getenv("CLFORMAT_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	if val := os.Getenv("CLFORMAT_MAX_DEPTH"); val != "" {
		if depth, err := strconv.Atoi(val); err == nil {
			config.MaxDepth = depth
		}
	}

	if val := os.Getenv("CLFORMAT_TAB_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.TabSize = n
		}
	}

	if val := os.Getenv("CLFORMAT_LINE_WIDTH"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.LineWidth = n
		}
	}

	if val := os.Getenv("CLFORMAT_LOCALE"); val != "" {
		config.Locale = val
	}

	return config
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()
	if overrides == nil {
		return defaults
	}

	config := *overrides
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.MaxDepth == 0 {
		config.MaxDepth = defaults.MaxDepth
	}
	if config.TabSize == 0 {
		config.TabSize = defaults.TabSize
	}
	if config.LineWidth == 0 {
		config.LineWidth = defaults.LineWidth
	}
	return &config
}

// Validate checks if the configuration is valid. All problems are reported
// in a single ValidationError.
func (c *Config) Validate() error {
	verr := &ValidationError{}
	if c.CacheMaxSize < 0 {
		verr.add("CacheMaxSize", "cannot be negative")
	}
	if c.CacheTTL < 0 {
		verr.add("CacheTTL", "cannot be negative")
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		verr.add("LogLevel", "invalid log level: %s", c.LogLevel)
	}
	if c.MaxDepth <= 0 {
		verr.add("MaxDepth", "must be positive")
	}
	if c.TabSize <= 0 {
		verr.add("TabSize", "must be positive")
	}
	if c.LineWidth <= 0 {
		verr.add("LineWidth", "must be positive")
	}
	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			verr.add("Locale", "invalid locale %q: %v", c.Locale, err)
		}
	}
	return verr.err()
}

// LocaleTag returns the parsed locale, or language.Und when none is set or
// the tag does not parse.
func (c *Config) LocaleTag() language.Tag {
	if c.Locale == "" {
		return language.Und
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	UpdateLoggerFromConfig()
}
