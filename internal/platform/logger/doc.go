// Package logger provides structured logging functionality for the application.
//
// It builds on log/slog: JSON records in production, colourised text via tint
// in development, and an optional rotating JSON file sink backed by lumberjack.
// Request-scoped loggers travel through context.Context.
package logger
