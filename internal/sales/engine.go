// Package sales implements sale registration and reporting on top of the
// catalog and ledger stores.
package sales

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fairyhunter13/sales-stock-service/internal/model"
	"github.com/fairyhunter13/sales-stock-service/internal/obs"
	"github.com/fairyhunter13/sales-stock-service/internal/store"
)

// RequestedItem is one (product code, quantity) pair of a registration
// request. The same code may appear more than once; quantities are summed.
type RequestedItem struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// Engine registers sales against the catalog and ledger. All stock mutation
// in the process funnels through its mutex, so a registration either debits
// every requested product or none of them, and concurrent registrations can
// never over-sell.
type Engine struct {
	catalog store.ProductCatalog
	ledger  store.SaleLedger

	// stockMu serializes the recheck-and-debit phase across all callers.
	stockMu sync.Mutex

	registered atomic.Uint64
	rejected   atomic.Uint64
	itemsSold  atomic.Uint64
}

func NewEngine(catalog store.ProductCatalog, ledger store.SaleLedger) *Engine {
	return &Engine{catalog: catalog, ledger: ledger}
}

// pendingDebit is one aggregated debit: the product as last seen plus the
// summed quantity. The slice order preserves first occurrence in the request.
type pendingDebit struct {
	product  model.Product
	quantity int
}

// RegisterSale validates the request, aggregates duplicate product codes,
// atomically debits stock across all requested products, persists the sale,
// and returns it. On any error nothing is debited and nothing is persisted.
func (e *Engine) RegisterSale(saleType model.SaleType, items []RequestedItem, address *model.DeliveryAddress) (*model.Sale, error) {
	if err := validateRequest(saleType, items, address); err != nil {
		e.rejected.Add(1)
		return nil, err
	}

	pending, err := e.resolve(items)
	if err != nil {
		e.rejected.Add(1)
		return nil, err
	}

	lineItems, err := e.debitAll(pending)
	if err != nil {
		e.rejected.Add(1)
		return nil, err
	}

	sale, err := model.NewSaleBuilder().
		Type(saleType).
		LineItems(lineItems).
		DeliveryAddress(address).
		Build()
	if err != nil {
		// Unreachable after validation, but a failed build must still
		// count as a rejection.
		e.rejected.Add(1)
		return nil, err
	}

	e.ledger.Save(sale)
	e.registered.Add(1)
	for _, it := range lineItems {
		e.itemsSold.Add(uint64(it.Quantity))
	}
	obs.Logger.Info("sale_registered",
		"sale_id", sale.ID(),
		"type", string(sale.Type()),
		"item_count", len(lineItems),
		"total", sale.Total().String(),
	)
	return sale, nil
}

func validateRequest(saleType model.SaleType, items []RequestedItem, address *model.DeliveryAddress) error {
	if saleType == "" {
		return &ValidationError{Reason: "sale type is required"}
	}
	if _, err := model.ParseSaleType(string(saleType)); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	if len(items) == 0 {
		return &ValidationError{Reason: "at least one item is required"}
	}
	for _, it := range items {
		if strings.TrimSpace(it.ProductCode) == "" {
			return &ValidationError{Reason: "product code is required"}
		}
		if it.Quantity < 1 {
			return &ValidationError{Reason: "quantity must be >= 1"}
		}
	}
	if saleType == model.SaleTypeWeb && address == nil {
		return &ValidationError{Reason: "delivery address is required for WEB sales"}
	}
	return nil
}

// resolve looks up every requested product and merges duplicate codes into a
// single pending debit, preserving the order of first occurrence. The
// availability check here is optimistic: it fails fast before locking, but
// the authoritative decision happens in debitAll.
func (e *Engine) resolve(items []RequestedItem) ([]pendingDebit, error) {
	var pending []pendingDebit
	index := make(map[string]int, len(items))
	for _, it := range items {
		key := strings.ToLower(strings.TrimSpace(it.ProductCode))
		if i, seen := index[key]; seen {
			pending[i].quantity += it.Quantity
			continue
		}
		p, ok := e.catalog.FindByCode(it.ProductCode)
		if !ok {
			return nil, &ProductNotFoundError{Code: strings.TrimSpace(it.ProductCode)}
		}
		index[key] = len(pending)
		pending = append(pending, pendingDebit{product: p, quantity: it.Quantity})
	}
	for _, pd := range pending {
		if pd.product.QuantityOnHand < pd.quantity {
			return nil, &InsufficientStockError{
				Code:      pd.product.Code,
				Requested: pd.quantity,
				Available: pd.product.QuantityOnHand,
			}
		}
	}
	return pending, nil
}

// debitAll is the critical section. It re-fetches every product, re-checks
// availability, and only then debits and writes back, so no interleaving of
// two registrations can observe a partial debit or over-sell.
func (e *Engine) debitAll(pending []pendingDebit) ([]model.SaleLineItem, error) {
	e.stockMu.Lock()
	defer e.stockMu.Unlock()

	fresh := make([]model.Product, len(pending))
	for i, pd := range pending {
		p, ok := e.catalog.FindByCode(pd.product.Code)
		if !ok {
			return nil, &ProductNotFoundError{Code: pd.product.Code}
		}
		if p.QuantityOnHand < pd.quantity {
			return nil, &InsufficientStockError{
				Code:      p.Code,
				Requested: pd.quantity,
				Available: p.QuantityOnHand,
			}
		}
		fresh[i] = p
	}

	lineItems := make([]model.SaleLineItem, 0, len(pending))
	for i, pd := range pending {
		p := fresh[i]
		if !p.Debit(pd.quantity) {
			// Cannot happen after the re-check above while all stock
			// mutation holds stockMu; kept as a guard on the invariant.
			return nil, &InsufficientStockError{
				Code:      p.Code,
				Requested: pd.quantity,
				Available: p.QuantityOnHand,
			}
		}
		e.catalog.Update(p)
		item, err := model.NewSaleLineItem(p, pd.quantity)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, item)
	}
	return lineItems, nil
}

// CreditStock adds stock to an existing product. It runs under the same
// critical section as registration so credits cannot race debits.
func (e *Engine) CreditStock(code string, amount int) (model.Product, error) {
	e.stockMu.Lock()
	defer e.stockMu.Unlock()

	p, ok := e.catalog.FindByCode(code)
	if !ok {
		return model.Product{}, &ProductNotFoundError{Code: strings.TrimSpace(code)}
	}
	if err := p.Credit(amount); err != nil {
		return model.Product{}, &ValidationError{Reason: err.Error()}
	}
	e.catalog.Update(p)
	obs.Logger.Info("stock_credited",
		"product_code", p.Code,
		"amount", amount,
		"quantity_on_hand", p.QuantityOnHand,
	)
	return p, nil
}

// Metrics returns registration counters for the metrics endpoint.
func (e *Engine) Metrics() (registered, rejected, itemsSold uint64) {
	return e.registered.Load(), e.rejected.Load(), e.itemsSold.Load()
}
