package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-S", "refresh",
			"-t", "1m", "-r", "3d", "-b", "10", "-k", "5m", "-w", "1m", "-m", "50", "-o", "https://blog.example", "-l", "warn", "-e", "staging",
		}, expected: &Config{
			HTTPAddr:             "127.0.0.1:9090",
			DatabaseDSN:          "db",
			AccessTokenSecret:    "secret",
			RefreshTokenSecret:   "refresh",
			AccessTokenTTL:       1 * time.Minute,
			RefreshTokenTTL:      3 * 24 * time.Hour,
			BcryptCost:           10,
			HousekeepingInterval: 5 * time.Minute,
			RateLimitWindow:      time.Minute,
			RateLimitMax:         50,
			CORSOrigin:           "https://blog.example",
			LogLevel:             "warn",
			Environment:          "staging",
		}},
		{name: "foreign flags ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "1", "-a", ":1"},
			expected: &Config{HTTPAddr: ":1"}},
		{name: "refresh ttl in hours", args: []string{"cmd", "-r", "24h"}, expectPanic: true},
		{name: "bad access ttl", args: []string{"cmd", "-t", "fast"}, expectPanic: true},
		{name: "bad rate limit window", args: []string{"cmd", "-w", "often"}, expectPanic: true},
		{name: "bad bcrypt cost", args: []string{"cmd", "-b", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
