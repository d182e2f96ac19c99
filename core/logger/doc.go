// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for development (console) and production (json)
// output and integrates with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, so every log line written while serving an ingestion request can be correlated.
// Component returns a named child logger used by the catalog store and merge engine.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Ingest failed", zap.Error(err))
package logger
