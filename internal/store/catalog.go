// Package store provides the in-memory product catalog and sale ledger.
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/fairyhunter13/sales-stock-service/internal/model"
)

// ProductCatalog is the keyed store of products. Lookup is case-insensitive on
// the product code. Implementations must be safe for concurrent use.
type ProductCatalog interface {
	// FindByCode returns a copy of the product, or false when unknown.
	FindByCode(code string) (model.Product, bool)

	// Save registers a new product. It fails with ErrDuplicateCode when a
	// product with the same code (ignoring case) already exists.
	Save(p model.Product) error

	// Update writes a mutated product back. Unknown codes are inserted.
	Update(p model.Product)

	// ListAll returns a snapshot of all products ordered by code.
	ListAll() []model.Product
}

// ErrDuplicateCode is returned by Save when the product code is taken.
var ErrDuplicateCode = errors.New("product code already registered")

// MemoryCatalog keeps products in a mutex-guarded map keyed by lowercased
// code. Callers receive value copies, so readers never race stock mutation.
type MemoryCatalog struct {
	mu sync.RWMutex
	m  map[string]model.Product
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{m: make(map[string]model.Product)}
}

func catalogKey(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func (c *MemoryCatalog) FindByCode(code string) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.m[catalogKey(code)]
	return p, ok
}

func (c *MemoryCatalog) Save(p model.Product) error {
	key := catalogKey(p.Code)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; exists {
		return ErrDuplicateCode
	}
	c.m[key] = p
	return nil
}

func (c *MemoryCatalog) Update(p model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[catalogKey(p.Code)] = p
}

func (c *MemoryCatalog) ListAll() []model.Product {
	c.mu.RLock()
	out := make([]model.Product, 0, len(c.m))
	for _, p := range c.m {
		out = append(out, p)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
