package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

func TestCreateTrace_AssignsDefaults(t *testing.T) {
	s := NewMemoryTraceStore()
	trace := &models.Trace{Kind: models.TraceAssistantChat, Provider: "ollama-local", Model: "qwen2.5:7b"}

	if err := s.CreateTrace(context.Background(), trace); err != nil {
		t.Fatalf("CreateTrace() error = %v", err)
	}
	if trace.ID == "" {
		t.Error("ID should be assigned")
	}
	if trace.CreatedAt.IsZero() {
		t.Error("CreatedAt should be assigned")
	}
}

func TestListTraces_NewestFirst(t *testing.T) {
	s := NewMemoryTraceStore()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		err := s.CreateTrace(context.Background(), &models.Trace{
			ID:        fmt.Sprintf("t%d", i),
			Kind:      models.TraceShoppingReport,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("CreateTrace() error = %v", err)
		}
	}

	traces, err := s.ListTraces(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListTraces() error = %v", err)
	}
	if len(traces) != 3 {
		t.Fatalf("len = %d, want 3", len(traces))
	}
	if traces[0].ID != "t4" || traces[2].ID != "t2" {
		t.Errorf("order = %s, %s, %s", traces[0].ID, traces[1].ID, traces[2].ID)
	}

	all, err := s.ListTraces(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListTraces() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("len = %d, want all retained traces", len(all))
	}
}

func TestCreateTrace_BoundsRetention(t *testing.T) {
	s := NewMemoryTraceStore()
	for i := 0; i < maxTraces+10; i++ {
		if err := s.CreateTrace(context.Background(), &models.Trace{ID: fmt.Sprintf("t%d", i)}); err != nil {
			t.Fatalf("CreateTrace() error = %v", err)
		}
	}

	all, err := s.ListTraces(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListTraces() error = %v", err)
	}
	if len(all) != maxTraces {
		t.Errorf("len = %d, want %d", len(all), maxTraces)
	}
	if all[0].ID != fmt.Sprintf("t%d", maxTraces+9) {
		t.Errorf("newest = %s", all[0].ID)
	}
}
