package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RunIDKey is the context key for the batch run ID
	RunIDKey contextKey = "run_id"
	// CompanyIDKey is the context key for the company being processed
	CompanyIDKey contextKey = "company_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if
// not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRunID adds the batch run ID to context and returns an enriched logger
func WithRunID(ctx context.Context, logger *zap.Logger, runID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RunIDKey, runID)
	enrichedLogger := logger.With(zap.String("run_id", runID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// WithCompanyID adds the company ID to context and returns an enriched logger
func WithCompanyID(ctx context.Context, logger *zap.Logger, companyID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, CompanyIDKey, companyID)
	enrichedLogger := logger.With(zap.String("company_id", companyID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// GetRunID retrieves the batch run ID from context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// GetCompanyID retrieves the company ID from context
func GetCompanyID(ctx context.Context) string {
	if companyID, ok := ctx.Value(CompanyIDKey).(string); ok {
		return companyID
	}
	return ""
}
