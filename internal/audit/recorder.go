package audit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultQueueSize is the buffer of an AsyncRecorder when none is given.
const DefaultQueueSize = 256

// ErrQueueFull is returned by AsyncRecorder.Create when the buffer is full
// and the entry was dropped.
var ErrQueueFull = errors.New("audit: queue full, entry dropped")

// Logger is the logging interface used by the recorder.
type Logger interface {
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

// AsyncRecorder queues entries and writes them serially on one goroutine,
// keeping audit writes off the request path and matching SQLite's single
// writer.
type AsyncRecorder struct {
	repo   Repository
	ch     chan *Entry
	logger Logger
	done   chan struct{}
	once   sync.Once
}

// NewAsyncRecorder creates a recorder over repo. Call Run to start writing.
func NewAsyncRecorder(repo Repository, size int, logger Logger) *AsyncRecorder {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &AsyncRecorder{
		repo:   repo,
		ch:     make(chan *Entry, size),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Create enqueues entry. Source and CreatedAt are captured now, since the
// write happens later on another context.
func (r *AsyncRecorder) Create(ctx context.Context, entry *Entry) error {
	if entry.Source == "" {
		entry.Source = SourceFrom(ctx)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	select {
	case r.ch <- entry:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run writes queued entries until ctx is cancelled, then drains what is left
// and returns.
func (r *AsyncRecorder) Run(ctx context.Context) {
	defer r.once.Do(func() { close(r.done) })

	for {
		select {
		case entry := <-r.ch:
			r.write(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-r.ch:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

// Done is closed once Run has returned.
func (r *AsyncRecorder) Done() <-chan struct{} {
	return r.done
}

func (r *AsyncRecorder) write(entry *Entry) {
	if err := r.repo.Create(context.Background(), entry); err != nil {
		r.logger.Error("audit write failed",
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"error", err,
		)
	}
}
