package config

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/timex"
)

// lookupFunc has the signature of os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// parseEnv overlays values from environment variables. Unset or empty
// variables are skipped. Malformed numbers and durations panic.
func parseEnv(config *Config, lookup lookupFunc) {
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return v
	}

	setString(&config.HTTPAddr, get("HTTP_ADDR"))
	setString(&config.DatabaseDSN, get("DATABASE_URL"))
	setString(&config.AccessTokenSecret, get("JWT_ACCESS_SECRET"))
	setString(&config.RefreshTokenSecret, get("JWT_REFRESH_SECRET"))
	setString(&config.LogLevel, get("LOG_LEVEL"))
	setString(&config.Environment, get("APP_ENV"))
	setString(&config.CORSOrigin, get("CORS_ORIGIN"))

	if v := get("BCRYPT_SALT_ROUNDS"); v != "" {
		config.BcryptCost = mustParse(strconv.Atoi, v)
	}
	if v := get("JWT_ACCESS_EXPIRES_IN"); v != "" {
		config.AccessTokenTTL = mustParse(timex.ParseDuration, v)
	}
	if v := get("JWT_REFRESH_EXPIRES_IN"); v != "" {
		config.RefreshTokenTTL = mustParse(timex.ParseDays, v)
	}
	if v := get("HOUSEKEEPING_INTERVAL"); v != "" {
		config.HousekeepingInterval = mustParse(timex.ParseDuration, v)
	}
	// RATE_LIMIT_WINDOW_MS is a plain millisecond count.
	if v := get("RATE_LIMIT_WINDOW_MS"); v != "" {
		config.RateLimitWindow = time.Duration(mustParse(strconv.Atoi, v)) * time.Millisecond
	}
	if v := get("RATE_LIMIT_MAX_REQUESTS"); v != "" {
		config.RateLimitMax = mustParse(strconv.Atoi, v)
	}
}
