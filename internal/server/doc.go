// Package server provides the HTTP server for the journal-tracker.
//
// The server uses the Gin web framework and supports two modes of operation:
// development (plain HTTP, API only) and production (release-mode gin, static
// file serving, optional TLS).
//
// # Server Modes
//
// Development Mode (Mode = "dev"):
//   - HTTP only (no TLS)
//   - Gin runs in debug mode
//   - API endpoints only
//
// Production Mode (Mode = "prod"):
//   - Gin runs in release mode
//   - Static file serving from StaticsFolder when set
//   - SPA fallback: non-API routes serve index.html
//   - API 404s return JSON error response
//   - HTTPS when a TLS certificate pair is configured
//
// # Server Lifecycle
//
// Creation:
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    v1.RegisterHandlers(router, handler)
//	})
//
// The registerHandlers callback receives a RouterGroup prefixed with /api/v1.
//
// Starting:
//
//	// Blocks until error or shutdown
//	err := srv.Start(ctx)
//
// Start automatically chooses HTTP or HTTPS based on TLS configuration.
//
// Stopping:
//
//	srv.Stop(ctx)
//
// Performs graceful shutdown, waiting for in-flight requests to complete.
//
// # Middleware
//
// The server applies two middleware to all routes:
//
// Logger Middleware (middlewares.Logger):
//   - Logs method, path, query, IP, user-agent, status code, latency
//   - Errors logged separately if present
//   - Uses zap structured logging with "http" logger name
//
// Recovery Middleware (ginzap.RecoveryWithZap):
//   - Recovers from panics in handlers
//   - Logs panic details with stack trace
//   - Returns 500 Internal Server Error
package server
