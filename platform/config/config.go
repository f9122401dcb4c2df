// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides settings for the per-IP rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketImages() string
	GetMinioBucketVideos() string
	GetMinioBucketAudio() string
	GetMinioBucketAvatars() string
	IsMinIOEnabled() bool
}

// UploadConfig provides tunables for upload content verification.
type UploadConfig interface {
	GetUploadDecodeTimeout() time.Duration
	GetUploadMaxConcurrentDecodes() int64
}

// PolicyConfig provides content policy additions loaded from the policy file.
type PolicyConfig interface {
	GetCommonPasswords() []string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                        string
	HTTPAddr                   string
	CORSAllowAll               bool
	CORSOrigins                []string
	CORSAllowCreds             bool
	RateLimitRPS               float64
	RateLimitBurst             int
	MinIOEndpoint              string
	MinIOAccessKey             string
	MinIOSecretKey             string
	MinIOUseSSL                bool
	MinioBucketImages          string
	MinioBucketVideos          string
	MinioBucketAudio           string
	MinioBucketAvatars         string
	UploadDecodeTimeout        time.Duration
	UploadMaxConcurrentDecodes int64
	ContentPolicyFile          string
	CommonPasswords            []string
}

// ContentPolicy is the YAML document referenced by CONTENT_POLICY_FILE.
type ContentPolicy struct {
	CommonPasswords []string `yaml:"common_passwords"`
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketImages() string  { return c.MinioBucketImages }
func (c *Config) GetMinioBucketVideos() string  { return c.MinioBucketVideos }
func (c *Config) GetMinioBucketAudio() string   { return c.MinioBucketAudio }
func (c *Config) GetMinioBucketAvatars() string { return c.MinioBucketAvatars }
func (c *Config) IsMinIOEnabled() bool          { return c.MinIOEndpoint != "" }

// UploadConfig implementation
func (c *Config) GetUploadDecodeTimeout() time.Duration { return c.UploadDecodeTimeout }
func (c *Config) GetUploadMaxConcurrentDecodes() int64  { return c.UploadMaxConcurrentDecodes }

// PolicyConfig implementation
func (c *Config) GetCommonPasswords() []string { return c.CommonPasswords }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                        getEnv("APP_ENV", "development"),
		HTTPAddr:                   getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:               corsAllowAll,
		CORSOrigins:                corsOrigins,
		CORSAllowCreds:             strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:               mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst:             int(mustInt64(getEnv("RATE_LIMIT_BURST", "20"))),
		MinIOEndpoint:              getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:             getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:             getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketImages:          getEnv("MINIO_BUCKET_IMAGES", "post-images"),
		MinioBucketVideos:          getEnv("MINIO_BUCKET_VIDEOS", "post-videos"),
		MinioBucketAudio:           getEnv("MINIO_BUCKET_AUDIO", "post-audio"),
		MinioBucketAvatars:         getEnv("MINIO_BUCKET_AVATARS", "user-avatars"),
		UploadDecodeTimeout:        mustDuration(getEnv("UPLOAD_DECODE_TIMEOUT", "5s")),
		UploadMaxConcurrentDecodes: mustInt64(getEnv("UPLOAD_MAX_CONCURRENT_DECODES", "4")),
		ContentPolicyFile:          getEnv("CONTENT_POLICY_FILE", ""),
	}

	if cfg.ContentPolicyFile != "" {
		policy, err := LoadContentPolicy(cfg.ContentPolicyFile)
		if err != nil {
			return nil, err
		}
		cfg.CommonPasswords = policy.CommonPasswords
	}

	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.MinIOEndpoint != "" && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return cfg, nil
}

// LoadContentPolicy reads the YAML content policy file.
func LoadContentPolicy(path string) (*ContentPolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content policy %s: %w", path, err)
	}
	var policy ContentPolicy
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse content policy %s: %w", path, err)
	}
	return &policy, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
