package config

import (
	"flag"
	"os"
	"time"
)

// parseFlags overlays command-line flags onto the config. Flags win over
// defaults, JSON file, and environment.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("linkhub", flag.ExitOnError)

	addr := fs.String("a", "", "HTTP listen address, e.g. :7001")
	dsn := fs.String("d", "", "PostgreSQL DSN")
	secret := fs.String("k", "", "JWT signing secret")
	validity := fs.Duration("t", 0, "access token validity")
	seed := fs.String("seed", "", "path to the demo seed fixture")
	level := fs.String("log-level", "", "log level: debug|info|warn|error")

	_ = fs.Parse(os.Args[1:])

	setString(&config.ListenAddr, *addr)
	setString(&config.DatabaseDSN, *dsn)
	setString(&config.SecretKey, *secret)
	setString(&config.SeedFile, *seed)
	setString(&config.LogLevel, *level)
	if *validity != time.Duration(0) {
		config.AccessTokenValidity = *validity
	}
}
