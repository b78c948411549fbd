package repository

import (
	"context"

	"LagScan/internal/domain/models"
)

// NoopSink discards results. Used when the configured backend is "none" and
// results are served from memory over the API only.
type NoopSink struct{}

func NewNoopSink() *NoopSink { return &NoopSink{} }

func (NoopSink) Write(context.Context, models.Pair, []models.LagResult) error { return nil }

func (NoopSink) Close() error { return nil }
