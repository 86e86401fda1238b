package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays LINKHUB_* environment variables onto the config.
func parseEnv(config *Config) {
	setString(&config.ListenAddr, os.Getenv("LINKHUB_LISTEN_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("LINKHUB_DATABASE_DSN"))
	setString(&config.SecretKey, os.Getenv("LINKHUB_SECRET_KEY"))
	setString(&config.LogLevel, os.Getenv("LINKHUB_LOG_LEVEL"))
	setString(&config.DemoUsername, os.Getenv("LINKHUB_DEMO_USERNAME"))
	setString(&config.DemoPassword, os.Getenv("LINKHUB_DEMO_PASSWORD"))
	setString(&config.SeedFile, os.Getenv("LINKHUB_SEED_FILE"))
	setString(&config.RedisAddr, os.Getenv("LINKHUB_REDIS_ADDR"))
	setString(&config.RedisPassword, os.Getenv("LINKHUB_REDIS_PASSWORD"))
	setString(&config.S3RootUser, os.Getenv("LINKHUB_S3_ROOT_USER"))
	setString(&config.S3RootPassword, os.Getenv("LINKHUB_S3_ROOT_PASSWORD"))
	setString(&config.S3Bucket, os.Getenv("LINKHUB_S3_BUCKET"))
	setString(&config.S3Region, os.Getenv("LINKHUB_S3_REGION"))
	setString(&config.S3BaseEndpoint, os.Getenv("LINKHUB_S3_BASE_ENDPOINT"))

	if v := os.Getenv("LINKHUB_PRETTY_LOG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.PrettyLog = b
		}
	}
	if v := os.Getenv("LINKHUB_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.RedisDB = n
		}
	}
	if v := os.Getenv("LINKHUB_ACCESS_TOKEN_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidity = d
		}
	}
}
