// Package logging provides slog helpers shared across the application:
// a logger constructor and attribute builders with consistent key names.
package logging
