package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	API APIConfig `mapstructure:"api"`
	S3  S3Config  `mapstructure:"s3"`
	Log LogConfig `mapstructure:"log"`
	UI  UIConfig  `mapstructure:"ui"`

	userData   *UserData
	tempBucket string
}

// APIConfig points at a storage-browser API server. When Endpoint is set the
// app talks HTTP; otherwise it goes straight to S3.
type APIConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	AccessToken    string `mapstructure:"access_token"`
	MaxRetries     int    `mapstructure:"max_retries"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// S3Config holds direct S3-compatible endpoint settings.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UIConfig holds browser behavior settings.
type UIConfig struct {
	Bucket     string `mapstructure:"bucket"`
	PageSize   int    `mapstructure:"page_size"`
	Preview    bool   `mapstructure:"preview"`
	Compressed string `mapstructure:"compressed"`
}

// Load reads configuration with the usual priority: flags (handled by the
// caller), environment variables, config file, defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("DGVIEW")
	v.AutomaticEnv()
	v.BindEnv("api.endpoint", "DGVIEW_API_ENDPOINT")
	v.BindEnv("api.access_token", "DGVIEW_API_ACCESS_TOKEN")
	v.BindEnv("s3.endpoint", "DGVIEW_S3_ENDPOINT")
	v.BindEnv("s3.region", "DGVIEW_S3_REGION")
	v.BindEnv("s3.access_key_id", "DGVIEW_S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secret_access_key", "DGVIEW_S3_SECRET_ACCESS_KEY")
	v.BindEnv("ui.bucket", "DGVIEW_BUCKET")
	v.BindEnv("log.level", "DGVIEW_LOG_LEVEL")
	v.BindEnv("log.format", "DGVIEW_LOG_FORMAT")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.dgview")
		v.AddConfigPath("/etc/dgview/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults may be enough.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	userData, err := LoadUserData()
	if err != nil {
		// User data is best-effort; start with a fresh one.
		userData = createDefaultUserData()
	}
	cfg.userData = userData

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.timeout_seconds", 30)

	v.SetDefault("s3.region", "auto")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ui.page_size", 200)
	v.SetDefault("ui.preview", true)
	v.SetDefault("ui.compressed", "any")
}

// UseAPI reports whether the app should talk to the HTTP API rather than S3.
func (c *Config) UseAPI() bool {
	return c.API.Endpoint != ""
}

// UserData exposes the locally persisted user state.
func (c *Config) UserData() *UserData {
	return c.userData
}

// SetTempBucket switches buckets for this process only.
func (c *Config) SetTempBucket(bucket string) {
	c.tempBucket = bucket
}

// GetMainBucket returns the persisted main bucket, if any.
func (c *Config) GetMainBucket() string {
	if c.userData == nil {
		return ""
	}
	return c.userData.MainBucket
}

// SetMainBucket persists the main bucket choice.
func (c *Config) SetMainBucket(bucket string) error {
	if c.userData == nil {
		c.userData = createDefaultUserData()
	}
	return c.userData.SetMainBucket(bucket)
}

// GetEffectiveBucket resolves the bucket to browse: the in-process override,
// then the persisted main bucket, then the last used one, then config.
func (c *Config) GetEffectiveBucket() string {
	if c.tempBucket != "" {
		return c.tempBucket
	}
	if c.userData != nil {
		if c.userData.MainBucket != "" {
			return c.userData.MainBucket
		}
		if c.userData.LastUsed != "" {
			return c.userData.LastUsed
		}
	}
	return c.UI.Bucket
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(homeDir, ".dgview", "config.toml")
}
