package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" matches by prefix)
	Method string        // HTTP method
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// settings mirrors the RATE_LIMIT_* environment variables.
type settings struct {
	Enabled         bool          `envconfig:"ENABLED" default:"true"`
	DefaultLimit    int           `envconfig:"DEFAULT_LIMIT" default:"1000"`
	DefaultWindow   time.Duration `envconfig:"DEFAULT_WINDOW" default:"1m"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"5m"`
	SubmitLimit     int           `envconfig:"SUBMIT_LIMIT" default:"30"`
	SubmitWindow    time.Duration `envconfig:"SUBMIT_WINDOW" default:"1h"`
	SubmitBurst     int           `envconfig:"SUBMIT_BURST" default:"5"`
	Whitelist       string        `envconfig:"WHITELIST"`
	Blacklist       string        `envconfig:"BLACKLIST"`
}

// LoadConfig reads RATE_LIMIT_* variables. Malformed values fall back to the defaults.
func LoadConfig() *Config {
	var s settings
	if err := envconfig.Process("RATE_LIMIT", &s); err != nil {
		return DefaultConfig()
	}
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	submit := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: http.MethodPost, Limit: s.SubmitLimit, Window: s.SubmitWindow, Burst: s.SubmitBurst}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		IdleTimeout:     time.Hour,
		Whitelist:       parseIPList(s.Whitelist),
		Blacklist:       parseIPList(s.Blacklist),
		EndpointConfigs: []EndpointConfig{submit("/jobs"), submit("/jobs/upload")},
	}
}

// DefaultEndpointConfigs limits job submission, the expensive path.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/jobs", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/jobs/upload", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
	}
}

// parseIPList parses a comma-separated list of addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
