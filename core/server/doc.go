// Package server holds the HTTP server configuration.
//
// While the cmd package handles the server startup, this package defines the configuration
// structure for the listener: port, API key and the maximum accepted ingestion body size.
//
// # Usage
//
// This package is embedded by core/config and read by the start command.
package server
