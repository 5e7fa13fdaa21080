package storage

import (
	"context"
	"time"

	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/ports"
)

type loggingStore[T any] struct {
	inner      ports.Store[T]
	collection string
	logger     *logger.Logger
}

// WithLogging wraps a store so every load and save is logged
func WithLogging[T any](inner ports.Store[T], collection string, log *logger.Logger) ports.Store[T] {
	return &loggingStore[T]{inner: inner, collection: collection, logger: log}
}

func (s *loggingStore[T]) Load(ctx context.Context) ([]T, error) {
	start := time.Now()
	records, err := s.inner.Load(ctx)
	s.logger.LogStoreOperation(s.collection, "load", len(records), millis(start), err)
	return records, err
}

func (s *loggingStore[T]) Save(ctx context.Context, records []T) error {
	start := time.Now()
	err := s.inner.Save(ctx, records)
	s.logger.LogStoreOperation(s.collection, "save", len(records), millis(start), err)
	return err
}

func millis(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1000000
}
