package fetch

import (
	"context"

	"go.uber.org/zap"
)

const (
	logMessageAlreadyPresent = "repository already present, skipping clone"
	logMessageCloned         = "repository cloned"
	logMessageCloneFailed    = "clone failed"
	logFieldRepository       = "repository"
	logFieldDirectory        = "directory"
	logFieldReference        = "reference"
)

type loggingFetcher struct {
	next   Fetcher
	logger *zap.Logger
}

// WithLogging reports the outcome of every fetch through logger.
func WithLogging(next Fetcher, logger *zap.Logger) Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &loggingFetcher{next: next, logger: logger}
}

func (fetcher *loggingFetcher) Fetch(ctx context.Context, params Params) (Result, error) {
	result, fetchError := fetcher.next.Fetch(ctx, params)
	fields := []zap.Field{
		zap.String(logFieldRepository, redactLocator(params.Repository)),
		zap.String(logFieldDirectory, params.Directory),
	}
	if params.Reference != "" {
		fields = append(fields, zap.String(logFieldReference, params.Reference))
	}
	switch {
	case fetchError != nil:
		fetcher.logger.Debug(logMessageCloneFailed, append(fields, zap.Error(fetchError))...)
	case result.AlreadyPresent:
		fetcher.logger.Info(logMessageAlreadyPresent, fields...)
	default:
		fetcher.logger.Info(logMessageCloned, fields...)
	}
	return result, fetchError
}
