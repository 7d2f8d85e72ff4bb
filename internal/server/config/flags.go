package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
	"github.com/dmitrijs2005/blogkeeper/internal/timex"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-s string   access token secret
//	-S string   refresh token secret
//	-t string   access token lifetime, Go duration (e.g., "15m")
//	-r string   refresh token lifetime in days (e.g., "7d")
//	-b int      bcrypt cost
//	-k string   housekeeping interval (e.g., "1h")
//	-w string   rate limit window (e.g., "15m")
//	-m int      requests allowed per rate limit window
//	-o string   allowed CORS origin
//	-l string   log level
//	-e string   environment name
//
// os.Args is filtered through flagx.FilterArgs first so -c/-config and
// foreign flags do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-S", "-t", "-r", "-b", "-k", "-w", "-m", "-o", "-l", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "S", config.RefreshTokenSecret, "refresh token secret")
	accessTTL := fs.String("t", "", "access token lifetime (e.g. 15m)")
	refreshTTL := fs.String("r", "", "refresh token lifetime in days (e.g. 7d)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	housekeeping := fs.String("k", "", "expired refresh token purge interval")
	rateWindow := fs.String("w", "", "rate limit window (e.g. 15m)")
	fs.IntVar(&config.RateLimitMax, "m", config.RateLimitMax, "requests allowed per rate limit window")
	fs.StringVar(&config.CORSOrigin, "o", config.CORSOrigin, "allowed CORS origin")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment name")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *accessTTL != "" {
		config.AccessTokenTTL = mustParse(timex.ParseDuration, *accessTTL)
	}
	if *refreshTTL != "" {
		config.RefreshTokenTTL = mustParse(timex.ParseDays, *refreshTTL)
	}
	if *housekeeping != "" {
		config.HousekeepingInterval = mustParse(timex.ParseDuration, *housekeeping)
	}
	if *rateWindow != "" {
		config.RateLimitWindow = mustParse(timex.ParseDuration, *rateWindow)
	}
}
