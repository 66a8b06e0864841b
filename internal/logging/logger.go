// Package logging defines the minimal structured-logging interface used
// across the vault. Implementations can wrap slog, zap, zerolog, etc.
// Nothing in the vault ever logs passwords, derived keys, or plaintext
// payloads through this interface.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// interpreted as key-value pairs:
//
//	log.Info(ctx, "entry added", "user_id", id)
type Logger interface {
	// Debug logs details useful only when diagnosing problems.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
