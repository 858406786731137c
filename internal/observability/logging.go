// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"

	"devlink/internal/models"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// RepoLogger provides structured logging for document collection operations.
type RepoLogger struct {
	collection string
	logger     *Logger
}

// NewRepoLogger creates a new RepoLogger for the given collection.
func NewRepoLogger(collection string) *RepoLogger {
	return &RepoLogger{
		collection: collection,
		logger:     GlobalLogger,
	}
}

// LogOp logs a collection operation with arbitrary fields.
func (l *RepoLogger) LogOp(ctx context.Context, operation string, fields map[string]any) {
	attrs := []any{
		slog.String("collection", l.collection),
		slog.String("operation", operation),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.InfoContext(ctx, "collection "+operation, attrs...)
}

// LogNotFound records a failed lookup, keeping the malformed-id and
// genuinely-absent cases distinguishable even though both surface as 404.
func (l *RepoLogger) LogNotFound(ctx context.Context, kind models.NotFoundKind, id string) {
	LookupMisses.WithLabelValues(l.collection, string(kind)).Inc()
	l.logger.WarnContext(ctx, "lookup miss",
		slog.String("collection", l.collection),
		slog.String("kind", string(kind)),
		slog.String("id", id),
	)
}

// LogError logs a collection operation error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "collection error",
		slog.String("collection", l.collection),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
