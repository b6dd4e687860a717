package store

import (
	"sync"
	"sync/atomic"

	"github.com/fairyhunter13/sales-stock-service/internal/model"
)

// SaleLedger is the append-and-list store of completed sales. Appends must be
// safe under concurrent writers and ListAll must return a stable snapshot.
type SaleLedger interface {
	Save(s *model.Sale)
	ListAll() []*model.Sale
}

// Sequencer provides monotonically increasing sequence numbers.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 { return s.n.Load() }

// MemoryLedger is an append-mostly in-memory ledger. Sales are immutable, so
// the snapshot only needs to copy the slice header contents; the append order
// is stamped by a sequencer and preserved in listings.
type MemoryLedger struct {
	mu    sync.RWMutex
	sales []*model.Sale
	seq   Sequencer
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Save(s *model.Sale) {
	l.seq.Next()
	l.mu.Lock()
	l.sales = append(l.sales, s)
	l.mu.Unlock()
}

// ListAll returns a copy of the history in append order.
func (l *MemoryLedger) ListAll() []*model.Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*model.Sale, len(l.sales))
	copy(out, l.sales)
	return out
}

// Count reports how many sales were ever appended.
func (l *MemoryLedger) Count() uint64 { return l.seq.Current() }
