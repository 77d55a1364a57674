package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

// maxTraces bounds memory use; the oldest traces are dropped past this.
const maxTraces = 500

// MemoryTraceStore is a thread-safe in-memory TraceStore.
type MemoryTraceStore struct {
	mu     sync.RWMutex
	traces []models.Trace // newest last
}

// NewMemoryTraceStore creates an empty in-memory trace store.
func NewMemoryTraceStore() *MemoryTraceStore {
	return &MemoryTraceStore{}
}

// CreateTrace appends a trace, assigning ID and timestamp when absent.
func (s *MemoryTraceStore) CreateTrace(_ context.Context, trace *models.Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trace.ID == "" {
		trace.ID = uuid.NewString()
	}
	if trace.CreatedAt.IsZero() {
		trace.CreatedAt = time.Now().UTC()
	}

	s.traces = append(s.traces, *trace)
	if len(s.traces) > maxTraces {
		s.traces = s.traces[len(s.traces)-maxTraces:]
	}
	return nil
}

// ListTraces returns up to limit traces, newest first. A non-positive limit
// returns everything retained.
func (s *MemoryTraceStore) ListTraces(_ context.Context, limit int) ([]models.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := len(s.traces)
	if limit > 0 && limit < count {
		count = limit
	}

	result := make([]models.Trace, 0, count)
	for i := len(s.traces) - 1; i >= 0 && len(result) < count; i-- {
		result = append(result, s.traces[i])
	}
	return result, nil
}
