package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/jobassist/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "JOBASSIST_"

// parseEnv loads a dotenv file (-env-file, else ./.env when present) into the
// process environment and overlays JOBASSIST_* variables. GEMINI_API_KEY is
// honoured unprefixed as well.
func parseEnv(config *Config) {
	path := flagx.EnvFileFlag(os.Args[1:])
	if err := loadDotEnv(path); err != nil {
		panic(err)
	}
	applyEnv(config, os.LookupEnv)
}

func loadDotEnv(path string) error {
	if path == "" {
		err := godotenv.Load()
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type lookupFunc func(string) (string, bool)

func applyEnv(config *Config, lookup lookupFunc) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("GRPC_ADDR", &config.GRPCAddr)
	str("STORE_BACKEND", &config.StoreBackend)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SQLITE_PATH", &config.SQLitePath)
	str("SECRET_KEY", &config.SecretKey)
	dur("SESSION_VALIDITY", &config.SessionValidityDuration)
	str("TRANSITION_POLICY", &config.TransitionPolicy)
	if v, ok := lookup(envPrefix + "STORE_RETRY_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.StoreRetryAttempts = n
	}
	dur("STORE_RETRY_BASE_DELAY", &config.StoreRetryBaseDelay)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("S3_PREFIX", &config.S3Prefix)
	if v, ok := lookup("GEMINI_API_KEY"); ok {
		config.GeminiAPIKey = v
	}
	str("GEMINI_API_KEY", &config.GeminiAPIKey)
	str("GEMINI_MODEL", &config.GeminiModel)
	str("LOG_LEVEL", &config.LogLevel)
}
