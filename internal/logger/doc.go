// Package logger wraps a zap sugared logger. A process-wide logger is set up
// at init and can be narrowed per operation by attaching a named logger to a
// context.Context.
package logger
