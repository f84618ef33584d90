// Package config provides configuration loading, defaults, and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Google    GoogleConfig    `mapstructure:"google"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Picker    PickerConfig    `mapstructure:"picker"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	Mode              string `mapstructure:"mode"`
	ReadHeaderTimeout int    `mapstructure:"read_header_timeout"`
	IdleTimeout       int    `mapstructure:"idle_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level       string            `mapstructure:"level"`
	Format      string            `mapstructure:"format"`
	ServiceName string            `mapstructure:"service_name"`
	Environment string            `mapstructure:"env"`
	Caller      bool              `mapstructure:"caller"`
	Output      LogOutputConfig   `mapstructure:"output"`
	Rotation    LogRotationConfig `mapstructure:"rotation"`
}

type LogOutputConfig struct {
	ToStdout bool   `mapstructure:"to_stdout"`
	ToFile   bool   `mapstructure:"to_file"`
	FilePath string `mapstructure:"file_path"`
}

type LogRotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// GoogleConfig holds the OAuth client used against Google's token endpoint.
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Scopes       string `mapstructure:"scopes"`
}

// CacheConfig controls the photo cache and both byte-cache tiers.
type CacheConfig struct {
	DataDir          string `mapstructure:"data_dir"`
	TTLMinutes       int    `mapstructure:"ttl_minutes"`
	HotCacheMaxBytes int64  `mapstructure:"hot_cache_max_bytes"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

func (c CacheConfig) BlobDir() string {
	return filepath.Join(c.DataDir, "blobs")
}

// PickerConfig controls the picking API client.
type PickerConfig struct {
	BaseURL                string `mapstructure:"base_url"`
	TimeoutSeconds         int    `mapstructure:"timeout_seconds"`
	DownloadTimeoutSeconds int    `mapstructure:"download_timeout_seconds"`
	PageSize               int    `mapstructure:"page_size"`
}

func (p PickerConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func (p PickerConfig) DownloadTimeout() time.Duration {
	return time.Duration(p.DownloadTimeoutSeconds) * time.Second
}

// SchedulerConfig controls the background refresh job. An empty spec
// disables the job.
type SchedulerConfig struct {
	RefreshSpec string `mapstructure:"refresh_spec"`
}

// Load reads config.yaml (if present), applies env overrides and defaults,
// and validates the result.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if dataDir := strings.TrimSpace(os.Getenv("DATA_DIR")); dataDir != "" {
		viper.AddConfigPath(dataDir)
	}
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/photoframe")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults plus env cover the simple case.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_header_timeout", 30)
	viper.SetDefault("server.idle_timeout", 120)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.service_name", "photoframe")
	viper.SetDefault("log.env", "production")
	viper.SetDefault("log.caller", false)
	viper.SetDefault("log.output.to_stdout", true)
	viper.SetDefault("log.output.to_file", false)
	viper.SetDefault("log.output.file_path", "")
	viper.SetDefault("log.rotation.max_size_mb", 50)
	viper.SetDefault("log.rotation.max_backups", 5)
	viper.SetDefault("log.rotation.max_age_days", 7)
	viper.SetDefault("log.rotation.compress", true)

	viper.SetDefault("cors.allowed_origins", []string{})
	viper.SetDefault("cors.allow_credentials", false)

	viper.SetDefault("google.scopes", "https://www.googleapis.com/auth/photospicker.mediaitems.readonly")

	viper.SetDefault("cache.data_dir", "data")
	// Signed URLs expire roughly an hour after issue; refreshing at 50
	// minutes keeps the cache ahead of them.
	viper.SetDefault("cache.ttl_minutes", 50)
	viper.SetDefault("cache.hot_cache_max_bytes", int64(64*1024*1024))

	viper.SetDefault("picker.base_url", "https://photospicker.googleapis.com/v1")
	viper.SetDefault("picker.timeout_seconds", 30)
	viper.SetDefault("picker.download_timeout_seconds", 60)
	viper.SetDefault("picker.page_size", 100)

	viper.SetDefault("scheduler.refresh_spec", "@every 40m")
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Cache.TTLMinutes <= 0 {
		return fmt.Errorf("cache.ttl_minutes must be positive, got %d", c.Cache.TTLMinutes)
	}
	if strings.TrimSpace(c.Cache.DataDir) == "" {
		return fmt.Errorf("cache.data_dir must not be empty")
	}
	if c.Picker.TimeoutSeconds <= 0 || c.Picker.DownloadTimeoutSeconds <= 0 {
		return fmt.Errorf("picker timeouts must be positive")
	}
	if c.Picker.PageSize <= 0 || c.Picker.PageSize > 100 {
		return fmt.Errorf("picker.page_size must be in 1..100, got %d", c.Picker.PageSize)
	}
	return nil
}
