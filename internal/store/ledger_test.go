package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fairyhunter13/sales-stock-service/internal/model"
)

func newSale(t *testing.T, id string) *model.Sale {
	t.Helper()
	p := newProduct(t, "001", 10)
	item, err := model.NewSaleLineItem(p, 1)
	if err != nil {
		t.Fatalf("NewSaleLineItem: %v", err)
	}
	s, err := model.NewSaleBuilder().
		ID(id).
		Type(model.SaleTypeInStore).
		LineItems([]model.SaleLineItem{item}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestLedgerAppendOrder(t *testing.T) {
	l := NewMemoryLedger()
	for i := 0; i < 3; i++ {
		l.Save(newSale(t, fmt.Sprintf("s-%d", i)))
	}
	all := l.ListAll()
	if len(all) != 3 {
		t.Fatalf("expected 3 sales, got %d", len(all))
	}
	for i, s := range all {
		if s.ID() != fmt.Sprintf("s-%d", i) {
			t.Fatalf("expected append order, got %s at %d", s.ID(), i)
		}
	}
	if l.Count() != 3 {
		t.Fatalf("expected count 3, got %d", l.Count())
	}
}

func TestLedgerSnapshotStable(t *testing.T) {
	l := NewMemoryLedger()
	l.Save(newSale(t, "s-0"))
	snap := l.ListAll()
	l.Save(newSale(t, "s-1"))
	if len(snap) != 1 {
		t.Fatalf("snapshot grew after later append: %d", len(snap))
	}
	if len(l.ListAll()) != 2 {
		t.Fatalf("expected 2 sales")
	}
}

func TestLedgerConcurrentAppends(t *testing.T) {
	l := NewMemoryLedger()
	sales := make([]*model.Sale, 100)
	for i := range sales {
		sales[i] = newSale(t, fmt.Sprintf("s-%d", i))
	}
	var wg sync.WaitGroup
	for _, s := range sales {
		wg.Add(1)
		go func(s *model.Sale) {
			defer wg.Done()
			l.Save(s)
		}(s)
	}
	wg.Wait()
	if got := len(l.ListAll()); got != 100 {
		t.Fatalf("expected 100 sales, got %d", got)
	}
	if l.Count() != 100 {
		t.Fatalf("expected count 100, got %d", l.Count())
	}
}
