package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration and returns an error if invalid.
func Validate(cfg *Config) error {
	if err := validateConnection(cfg); err != nil {
		return fmt.Errorf("connection config validation failed: %w", err)
	}
	if err := validateLogConfig(&cfg.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}
	if err := validateUIConfig(&cfg.UI); err != nil {
		return fmt.Errorf("ui config validation failed: %w", err)
	}
	return nil
}

// validateConnection requires either an API endpoint or full S3 credentials.
func validateConnection(cfg *Config) error {
	if cfg.UseAPI() {
		if !strings.HasPrefix(cfg.API.Endpoint, "http://") && !strings.HasPrefix(cfg.API.Endpoint, "https://") {
			return fmt.Errorf("api.endpoint must be an http(s) URL, got: %s", cfg.API.Endpoint)
		}
		if cfg.API.MaxRetries < 0 {
			return fmt.Errorf("api.max_retries must be non-negative, got: %d", cfg.API.MaxRetries)
		}
		if cfg.API.TimeoutSeconds <= 0 {
			return fmt.Errorf("api.timeout_seconds must be positive, got: %d", cfg.API.TimeoutSeconds)
		}
		return nil
	}

	if strings.TrimSpace(cfg.S3.AccessKeyID) == "" {
		return fmt.Errorf("s3.access_key_id is required when api.endpoint is unset")
	}
	if strings.TrimSpace(cfg.S3.SecretAccessKey) == "" {
		return fmt.Errorf("s3.secret_access_key is required when api.endpoint is unset")
	}
	return nil
}

func validateLogConfig(cfg *LogConfig) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}
	if !validLevels[strings.ToLower(cfg.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, fatal, panic)", cfg.Level)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[strings.ToLower(cfg.Format)] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", cfg.Format)
	}
	return nil
}

func validateUIConfig(cfg *UIConfig) error {
	if cfg.PageSize <= 0 {
		return fmt.Errorf("ui.page_size must be positive, got: %d", cfg.PageSize)
	}
	switch cfg.Compressed {
	case "any", "true", "false":
	default:
		return fmt.Errorf("invalid ui.compressed filter: %s (valid: any, true, false)", cfg.Compressed)
	}
	if cfg.Bucket != "" && !isValidBucketName(cfg.Bucket) {
		return fmt.Errorf("invalid ui.bucket format: %s", cfg.Bucket)
	}
	return nil
}

// isValidBucketName checks basic S3 bucket naming rules.
func isValidBucketName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if !isAlphaNum(name[0]) || !isAlphaNum(name[len(name)-1]) {
		return false
	}
	for i, char := range name {
		if !isAlphaNum(byte(char)) && char != '-' && char != '.' {
			return false
		}
		if i > 0 {
			prev := name[i-1]
			if char == '.' && (prev == '.' || prev == '-') {
				return false
			}
			if char == '-' && prev == '.' {
				return false
			}
		}
	}
	return true
}

func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
