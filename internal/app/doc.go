// Package app wires configuration, logging, telemetry, services and the HTTP
// router into a runnable Application.
//
// # Initialization Flow
//
//	1. Configuration is loaded by the caller (config.Load)
//	2. Logging is initialized by the caller (infrastructure.InitializeLogger)
//	3. NewApplication sets up OpenTelemetry providers
//	4. NewServices builds the normalization and health services
//	5. setupRouter installs middleware and routes
//	6. Run serves until interrupted, then shuts down gracefully
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// The CLI reuses NewServices so batch runs record the same metrics and spans
// as the server.
//
// # Graceful Shutdown
//
// SIGINT and SIGTERM stop accepting connections, let active requests finish
// within Server.ShutdownTimeout and flush telemetry providers.
package app
