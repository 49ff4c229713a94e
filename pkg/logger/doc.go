// Package logger provides structured logging with context extraction and Sentry integration.
//
// It extends log/slog with request-scoped attribute injection, an extra
// CRITICAL severity for uncaught faults, optional duplication into a log file
// and optional Sentry error reporting.
//
// # Basic Usage
//
//	log, closer, err := logger.NewFromConfig(logger.Config{
//		Level:  "info",
//		Format: "json",
//		File:   "var/log/app.log",
//	}, middlewares.RequestIDExtractor())
//	if err != nil {
//		return err
//	}
//	defer closer.Close()
//
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//	// {"level":"INFO","msg":"request processed","status":200,"request_id":"abc-123"}
//
// # Severity
//
// LevelCritical sits above slog.LevelError and is rendered as "CRITICAL":
//
//	log.Log(ctx, logger.LevelCritical, "uncaught panic", slog.String("stack", stack))
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute out of the context on every log call.
// Return false to skip the attribute for that entry. StringExtractor covers the
// common case of a string stored under a private context key.
//
// # Sentry Integration
//
// When Config.Sentry.DSN is set, records are also sent to Sentry: errors and
// critical records create Issues, warnings are kept as breadcrumbs. Without a
// DSN, or if the SDK fails to initialize, logging continues to stdout only.
package logger
