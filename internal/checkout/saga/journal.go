package saga

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"
)

type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is one state transition of a saga run. TraceID and SpanID tie it to
// the span that was active when it was written.
type Entry struct {
	SagaID    string    `json:"sagaId"`
	Status    Status    `json:"status"`
	Step      string    `json:"step,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	TraceID   string    `json:"traceId,omitempty"`
	SpanID    string    `json:"spanId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Journal is an append-only audit trail of saga transitions.
type Journal interface {
	Record(ctx context.Context, entry Entry) error
}

// NewEntry stamps the entry with the span found in ctx, if any.
func NewEntry(ctx context.Context, sagaID string, status Status, step string, errs []string) Entry {
	e := Entry{
		SagaID:    sagaID,
		Status:    status,
		Step:      step,
		Errors:    errs,
		UpdatedAt: time.Now().UTC(),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		e.TraceID = sc.TraceID().String()
		e.SpanID = sc.SpanID().String()
	}
	return e
}

var _ Journal = (*MemoryJournal)(nil)

// MemoryJournal keeps entries in process memory.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
}

func (j *MemoryJournal) Record(_ context.Context, entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

// Entries returns the entries of one saga in write order.
func (j *MemoryJournal) Entries(sagaID string) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []Entry
	for _, e := range j.entries {
		if e.SagaID == sagaID {
			out = append(out, e)
		}
	}
	return out
}

var _ Journal = (*StoreJournal)(nil)

// StoreJournal keeps each saga's entries as one record in a kvstore, so the
// trail survives restarts on the Redis and SQLite backends.
type StoreJournal struct {
	mu    sync.Mutex
	store kvstore.Store
}

func NewStoreJournal(store kvstore.Store) *StoreJournal {
	return &StoreJournal{store: store}
}

func (j *StoreJournal) Record(ctx context.Context, entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	key := journalKey(entry.SagaID)
	var entries []Entry
	if _, err := kvstore.LoadJSON(ctx, j.store, key, &entries); err != nil {
		return err
	}
	return kvstore.SaveJSON(ctx, j.store, key, append(entries, entry))
}

func (j *StoreJournal) Entries(ctx context.Context, sagaID string) ([]Entry, error) {
	var entries []Entry
	_, err := kvstore.LoadJSON(ctx, j.store, journalKey(sagaID), &entries)
	return entries, err
}

func journalKey(sagaID string) kvstore.Key {
	return kvstore.Key{Namespace: kvstore.NamespaceSagaJournal, Owner: sagaID}
}
