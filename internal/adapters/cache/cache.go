package cache

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/okian/perfscore/internal/domain/model"
)

const defaultMaxSize = 1024

// Memo remembers raw scores by record. The model is immutable, so a stored
// score stays valid for the life of the process.
type Memo interface {
	// Get returns the stored score for rec, if any.
	Get(ctx context.Context, rec model.Record) (float64, bool)

	// Put stores a successful score for rec.
	Put(ctx context.Context, rec model.Record, score float64)

	// Len returns the number of stored records.
	Len() int

	// Stats returns lookup hit and miss totals.
	Stats() Stats
}

// Stats counts memo lookups.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// lruMemo implements Memo on a fixed-size, thread-safe LRU.
type lruMemo struct {
	maxSize int
	entries *lru.Cache[model.Record, float64] // nil when disabled
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewLRU creates a memo with configuration options.
func NewLRU(opts ...Option) Memo {
	m := &lruMemo{maxSize: defaultMaxSize}

	for _, opt := range opts {
		opt(m)
	}

	if m.maxSize > 0 {
		// lru.New only fails for non-positive sizes.
		m.entries, _ = lru.New[model.Record, float64](m.maxSize)
	}
	return m
}

func (m *lruMemo) Get(_ context.Context, rec model.Record) (float64, bool) {
	if m.entries == nil {
		m.misses.Add(1)
		return 0, false
	}
	score, ok := m.entries.Get(rec)
	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return score, ok
}

func (m *lruMemo) Put(_ context.Context, rec model.Record, score float64) {
	if m.entries == nil {
		return
	}
	m.entries.Add(rec, score)
}

func (m *lruMemo) Len() int {
	if m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

func (m *lruMemo) Stats() Stats {
	return Stats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
		Size:   m.Len(),
	}
}
