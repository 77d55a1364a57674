// Package store provides the storage interface and implementations for
// assistant turn traces. The service holds no business data; traces are the
// only thing it records, and only in memory.
package store

import (
	"context"

	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

// TraceStore records completed assistant turns for operational inspection.
// Handler code depends on this interface so tests can swap implementations.
type TraceStore interface {
	CreateTrace(ctx context.Context, trace *models.Trace) error
	ListTraces(ctx context.Context, limit int) ([]models.Trace, error)
}
