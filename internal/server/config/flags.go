package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/jobassist/internal/flagx"
)

var serverFlags = []string{
	"-http", "-grpc", "-store", "-d", "-sqlite", "-s", "-t", "-policy",
	"-retries", "-retry-delay",
	"-s3-user", "-s3-password", "-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-prefix",
	"-gemini-key", "-gemini-model", "-log-level",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-http string         REST listen address (e.g. ":8080")
//	-grpc string         gRPC listen address (e.g. ":50051")
//	-store string        store backend: memory, postgres, sqlite, s3
//	-d string            PostgreSQL DSN
//	-sqlite string       SQLite database file
//	-s string            token HMAC secret key
//	-t duration          session validity (e.g. "24h")
//	-policy string       status transition policy: strict or permissive
//	-retries int         store retry attempts
//	-retry-delay duration
//	-s3-* string         S3 user, password, bucket, region, endpoint, prefix
//	-gemini-key string   Gemini API key
//	-gemini-model string
//	-log-level string    debug, info, warn, error
//
// os.Args is filtered through flagx.FilterArgs first so flags owned by other
// layers (-c, -env-file) do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "http", config.HTTPAddr, "REST listen address")
	fs.StringVar(&config.GRPCAddr, "grpc", config.GRPCAddr, "gRPC listen address")
	fs.StringVar(&config.StoreBackend, "store", config.StoreBackend, "store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SQLitePath, "sqlite", config.SQLitePath, "SQLite database file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionValidityDuration, "t", config.SessionValidityDuration, "session validity")
	fs.StringVar(&config.TransitionPolicy, "policy", config.TransitionPolicy, "status transition policy")
	fs.IntVar(&config.StoreRetryAttempts, "retries", config.StoreRetryAttempts, "store retry attempts")
	fs.DurationVar(&config.StoreRetryBaseDelay, "retry-delay", config.StoreRetryBaseDelay, "store retry base delay")

	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Prefix, "s3-prefix", config.S3Prefix, "S3 key prefix")

	fs.StringVar(&config.GeminiAPIKey, "gemini-key", config.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&config.GeminiModel, "gemini-model", config.GeminiModel, "Gemini model")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
