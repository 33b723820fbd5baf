package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memoryRepository struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (m *memoryRepository) Create(_ context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memoryRepository) List(context.Context, Filter) (*ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &ListResult{Entries: append([]Entry(nil), m.entries...), Total: len(m.entries)}, nil
}

type errorCounter struct {
	mu    sync.Mutex
	count int
}

func (l *errorCounter) Error(string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count++
}

func TestAsyncRecorder_WritesAndDrainsOnShutdown(t *testing.T) {
	repo := &memoryRepository{}
	rec := NewAsyncRecorder(repo, 8, nil)

	ctx := WithSource(context.Background(), SourceMQTT)
	for i := 0; i < 5; i++ {
		if err := rec.Create(ctx, &Entry{Action: ActionCreate, EntityType: EntityPosition}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Run(runCtx)

	select {
	case <-rec.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() not closed after Run returned")
	}

	if len(repo.entries) != 5 {
		t.Fatalf("written = %d, want 5", len(repo.entries))
	}
	for _, e := range repo.entries {
		if e.Source != SourceMQTT || e.CreatedAt.IsZero() {
			t.Errorf("entry = %+v, want source captured at enqueue", e)
		}
	}
}

func TestAsyncRecorder_QueueFull(t *testing.T) {
	rec := NewAsyncRecorder(&memoryRepository{}, 1, nil)
	ctx := context.Background()

	if err := rec.Create(ctx, &Entry{Action: ActionDelete}); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if err := rec.Create(ctx, &Entry{Action: ActionDelete}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("second Create() error = %v, want ErrQueueFull", err)
	}
}

func TestAsyncRecorder_WriteFailureLogged(t *testing.T) {
	logger := &errorCounter{}
	rec := NewAsyncRecorder(&memoryRepository{err: errors.New("disk full")}, 4, logger)

	if err := rec.Create(context.Background(), &Entry{Action: ActionUpdate}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Run(ctx)

	if logger.count != 1 {
		t.Errorf("logged errors = %d, want 1", logger.count)
	}
}
