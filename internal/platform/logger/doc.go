// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured logging
// with configurable log levels. Output is JSON unless stdout is an interactive
// terminal, in which case the human-readable text handler is used. A request-scoped
// logger can be carried through a context.Context.
package logger
