package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validAPIConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:       "https://dg.example.com",
			MaxRetries:     3,
			TimeoutSeconds: 30,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		UI:  UIConfig{PageSize: 200, Compressed: "any"},
	}
}

func validS3Config() *Config {
	cfg := validAPIConfig()
	cfg.API = APIConfig{}
	cfg.S3 = S3Config{
		Endpoint:        "https://s3.example.com",
		Region:          "auto",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
	}
	return cfg
}

func TestValidateAPIConfig(t *testing.T) {
	assert.NoError(t, Validate(validAPIConfig()))
}

func TestValidateS3Config(t *testing.T) {
	assert.NoError(t, Validate(validS3Config()))
}

func TestValidateRejectsNonHTTPEndpoint(t *testing.T) {
	cfg := validAPIConfig()
	cfg.API.Endpoint = "ftp://dg.example.com"
	assert.ErrorContains(t, Validate(cfg), "api.endpoint")
}

func TestValidateRequiresS3CredentialsWithoutAPI(t *testing.T) {
	cfg := validS3Config()
	cfg.S3.AccessKeyID = ""
	assert.ErrorContains(t, Validate(cfg), "s3.access_key_id")

	cfg = validS3Config()
	cfg.S3.SecretAccessKey = "   "
	assert.ErrorContains(t, Validate(cfg), "s3.secret_access_key")
}

func TestValidateAPINumericBounds(t *testing.T) {
	cfg := validAPIConfig()
	cfg.API.MaxRetries = -1
	assert.ErrorContains(t, Validate(cfg), "max_retries")

	cfg = validAPIConfig()
	cfg.API.TimeoutSeconds = 0
	assert.ErrorContains(t, Validate(cfg), "timeout_seconds")
}

func TestValidateLogConfig(t *testing.T) {
	cfg := validAPIConfig()
	cfg.Log.Level = "verbose"
	assert.ErrorContains(t, Validate(cfg), "invalid log level")

	cfg = validAPIConfig()
	cfg.Log.Format = "yaml"
	assert.ErrorContains(t, Validate(cfg), "invalid log format")

	cfg = validAPIConfig()
	cfg.Log.Level = "DEBUG"
	cfg.Log.Format = "JSON"
	assert.NoError(t, Validate(cfg), "level and format are case-insensitive")
}

func TestValidateUIConfig(t *testing.T) {
	cfg := validAPIConfig()
	cfg.UI.PageSize = 0
	assert.ErrorContains(t, Validate(cfg), "page_size")

	cfg = validAPIConfig()
	cfg.UI.Compressed = "maybe"
	assert.ErrorContains(t, Validate(cfg), "ui.compressed")
}

func TestValidateBucketName(t *testing.T) {
	valid := []string{"my-bucket", "bucket.name", "abc", "b2-archive-2024"}
	for _, name := range valid {
		cfg := validAPIConfig()
		cfg.UI.Bucket = name
		assert.NoError(t, Validate(cfg), "bucket name %q should be accepted", name)
	}

	invalid := []string{"ab", "-leading", "trailing-", "double..dot", "dash-.dot", "has space"}
	for _, name := range invalid {
		cfg := validAPIConfig()
		cfg.UI.Bucket = name
		assert.Error(t, Validate(cfg), "bucket name %q should be rejected", name)
	}
}

func TestGetEffectiveBucket(t *testing.T) {
	cfg := validAPIConfig()
	cfg.UI.Bucket = "from-config"
	cfg.userData = &UserData{}

	assert.Equal(t, "from-config", cfg.GetEffectiveBucket())

	cfg.userData.LastUsed = "last-used"
	assert.Equal(t, "last-used", cfg.GetEffectiveBucket())

	cfg.userData.MainBucket = "main"
	assert.Equal(t, "main", cfg.GetEffectiveBucket())

	cfg.SetTempBucket("temp")
	assert.Equal(t, "temp", cfg.GetEffectiveBucket())
}
