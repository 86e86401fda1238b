package config

import (
	"encoding/json"
	"os"
	"time"
)

// jsonConfig is the intermediate DTO for reading a JSON configuration file.
// Durations accept Go duration strings ("15m", "24h").
type jsonConfig struct {
	ListenAddr          string `json:"listen_addr"`
	DatabaseDSN         string `json:"database_dsn"`
	SecretKey           string `json:"secret_key"`
	AccessTokenValidity string `json:"access_token_validity"`
	LogLevel            string `json:"log_level"`
	DemoUsername        string `json:"demo_username"`
	DemoPassword        string `json:"demo_password"`
	SeedFile            string `json:"seed_file"`
	RedisAddr           string `json:"redis_addr"`
	RedisPassword       string `json:"redis_password"`
	RedisDB             *int   `json:"redis_db"`
	S3RootUser          string `json:"s3_root_user"`
	S3RootPassword      string `json:"s3_root_password"`
	S3Bucket            string `json:"s3_bucket"`
	S3Region            string `json:"s3_region"`
	S3BaseEndpoint      string `json:"s3_base_endpoint"`
}

// configFilePath is read before flag parsing so the JSON overlay stays below
// env and flags in precedence.
func configFilePath() string {
	if v := os.Getenv("LINKHUB_CONFIG"); v != "" {
		return v
	}
	return ""
}

// parseJSON loads configuration values from an optional JSON file into the
// provided Config. Empty fields in the file leave the current values alone.
func parseJSON(config *Config) {
	path := configFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.DemoUsername, c.DemoUsername)
	setString(&config.DemoPassword, c.DemoPassword)
	setString(&config.SeedFile, c.SeedFile)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.AccessTokenValidity != "" {
		d, err := time.ParseDuration(c.AccessTokenValidity)
		if err != nil {
			panic(err)
		}
		config.AccessTokenValidity = d
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
