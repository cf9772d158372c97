package services

import (
	"context"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{logger: logger.With("service", service)}
}

// Logger returns the underlying slog logger scoped to the service.
func (l *ServiceLogger) Logger() *slog.Logger {
	return l.logger
}

// LogOperation records the outcome of one service call. Expected failures
// (validation, not found, permission) are logged below error level.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, studentID uint, duration time.Duration, err error, args ...any) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err) || IsBusinessRule(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsNotFound(err):
			status = "not_found"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		}
	}

	attrs := []any{
		"operation", operation,
		"student_id", studentID,
		"status", status,
		"duration", duration,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
		if ve, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, "validation_errors_count", len(ve))
		}
	}

	l.logger.Log(ctx, level, "Service operation", append(attrs, args...)...)
}

// ContextualLogger times one operation.
type ContextualLogger struct {
	parent    *ServiceLogger
	ctx       context.Context
	operation string
	studentID uint
	start     time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string, studentID uint) *ContextualLogger {
	return &ContextualLogger{
		parent:    l,
		ctx:       ctx,
		operation: operation,
		studentID: studentID,
		start:     time.Now(),
	}
}

// LogResult logs the operation with its elapsed time.
func (cl *ContextualLogger) LogResult(err error, args ...any) {
	cl.parent.LogOperation(cl.ctx, cl.operation, cl.studentID, time.Since(cl.start), err, args...)
}
