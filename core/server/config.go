package server

import "strconv"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps the size of an ingestion request body.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"8"`
}

// IsValidPort checks that the configured port is a usable TCP port number.
func (c Config) IsValidPort() bool {
	p, err := strconv.Atoi(c.Port)
	if err != nil {
		return false
	}
	return p > 0 && p < 65536
}

// BodyLimit returns the request body limit in bytes, falling back to 8 MiB.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 8 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}
