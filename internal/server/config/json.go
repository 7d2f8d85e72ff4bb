package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
	"github.com/dmitrijs2005/blogkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations are
// strings: access TTL and housekeeping use Go duration syntax ("15m"), the
// refresh TTL uses a day count ("7d"). Empty or zero fields leave the
// current value untouched.
type JsonConfig struct {
	HTTPAddr             string `json:"http_addr"`
	DatabaseDSN          string `json:"database_dsn"`
	AccessTokenSecret    string `json:"access_token_secret"`
	RefreshTokenSecret   string `json:"refresh_token_secret"`
	AccessTokenTTL       string `json:"access_token_expires_in"`
	RefreshTokenTTL      string `json:"refresh_token_expires_in"`
	BcryptCost           int    `json:"bcrypt_cost"`
	HousekeepingInterval string `json:"housekeeping_interval"`
	RateLimitWindow      string `json:"rate_limit_window"`
	RateLimitMax         int    `json:"rate_limit_max"`
	CORSOrigin           string `json:"cors_origin"`
	LogLevel             string `json:"log_level"`
	Environment          string `json:"environment"`
}

// parseJson loads values from the file named by -c/-config, if any.
// If the file cannot be read, contains invalid JSON or a malformed duration,
// the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])

	// nothing to load
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

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.Environment, c.Environment)
	setString(&config.CORSOrigin, c.CORSOrigin)

	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.RateLimitMax != 0 {
		config.RateLimitMax = c.RateLimitMax
	}

	if c.AccessTokenTTL != "" {
		config.AccessTokenTTL = mustParse(timex.ParseDuration, c.AccessTokenTTL)
	}
	if c.RefreshTokenTTL != "" {
		config.RefreshTokenTTL = mustParse(timex.ParseDays, c.RefreshTokenTTL)
	}
	if c.HousekeepingInterval != "" {
		config.HousekeepingInterval = mustParse(timex.ParseDuration, c.HousekeepingInterval)
	}
	if c.RateLimitWindow != "" {
		config.RateLimitWindow = mustParse(timex.ParseDuration, c.RateLimitWindow)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mustParse[T any](parse func(string) (T, error), s string) T {
	v, err := parse(s)
	if err != nil {
		panic(err)
	}
	return v
}
