package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jobassist/internal/flagx"
	"github.com/dmitrijs2005/jobassist/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration so
// both "24h" and integer nanoseconds are accepted. Absent fields keep the
// value from the previous layer.
type JsonConfig struct {
	HTTPAddr                *string         `json:"http_addr"`
	GRPCAddr                *string         `json:"grpc_addr"`
	StoreBackend            *string         `json:"store_backend"`
	DatabaseDSN             *string         `json:"database_dsn"`
	SQLitePath              *string         `json:"sqlite_path"`
	SecretKey               *string         `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	TransitionPolicy        *string         `json:"transition_policy"`
	StoreRetryAttempts      *int            `json:"store_retry_attempts"`
	StoreRetryBaseDelay     *timex.Duration `json:"store_retry_base_delay"`
	S3RootUser              *string         `json:"s3_root_user"`
	S3RootPassword          *string         `json:"s3_root_password"`
	S3Bucket                *string         `json:"s3_bucket"`
	S3Region                *string         `json:"s3_region"`
	S3BaseEndpoint          *string         `json:"s3_base_endpoint"`
	S3Prefix                *string         `json:"s3_prefix"`
	GeminiAPIKey            *string         `json:"gemini_api_key"`
	GeminiModel             *string         `json:"gemini_model"`
	LogLevel                *string         `json:"log_level"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// parseJson overlays the file named by -c/-config, if any. An unreadable or
// malformed file panics, as a server must not start half-configured.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SQLitePath, c.SQLitePath)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	setString(&config.TransitionPolicy, c.TransitionPolicy)
	if c.StoreRetryAttempts != nil {
		config.StoreRetryAttempts = *c.StoreRetryAttempts
	}
	if c.StoreRetryBaseDelay != nil {
		config.StoreRetryBaseDelay = c.StoreRetryBaseDelay.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3Prefix, c.S3Prefix)
	setString(&config.GeminiAPIKey, c.GeminiAPIKey)
	setString(&config.GeminiModel, c.GeminiModel)
	setString(&config.LogLevel, c.LogLevel)
}
