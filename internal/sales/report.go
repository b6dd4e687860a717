package sales

import (
	"sort"

	"github.com/fairyhunter13/sales-stock-service/internal/model"
	"github.com/fairyhunter13/sales-stock-service/internal/store"
	"github.com/shopspring/decimal"
)

// ProductSummary aggregates one product across the whole sale history.
type ProductSummary struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// Summary is the consolidated view over all recorded sales.
type Summary struct {
	TotalItemsSold int              `json:"total_items_sold"`
	TotalRevenue   decimal.Decimal  `json:"total_revenue"`
	PerProduct     []ProductSummary `json:"per_product"`
}

// Aggregator derives read-side reports from the ledger. It holds no state of
// its own; every call folds the full history again.
type Aggregator struct {
	ledger store.SaleLedger
}

func NewAggregator(ledger store.SaleLedger) *Aggregator {
	return &Aggregator{ledger: ledger}
}

// Summarize flattens all line items across all sales and sums quantities and
// revenue, globally and per product. Per-product entries are ordered by
// quantity sold descending; ties keep first-seen order.
func (a *Aggregator) Summarize() Summary {
	sum := Summary{TotalRevenue: decimal.Zero}
	index := make(map[string]int)
	for _, sale := range a.ledger.ListAll() {
		for _, it := range sale.LineItems() {
			sum.TotalItemsSold += it.Quantity
			sum.TotalRevenue = sum.TotalRevenue.Add(it.Subtotal)
			i, seen := index[it.ProductCode]
			if !seen {
				index[it.ProductCode] = len(sum.PerProduct)
				sum.PerProduct = append(sum.PerProduct, ProductSummary{
					Code:    it.ProductCode,
					Name:    it.ProductName,
					Revenue: decimal.Zero,
				})
				i = index[it.ProductCode]
			}
			sum.PerProduct[i].QuantitySold += it.Quantity
			sum.PerProduct[i].Revenue = sum.PerProduct[i].Revenue.Add(it.Subtotal)
		}
	}
	sort.SliceStable(sum.PerProduct, func(i, j int) bool {
		return sum.PerProduct[i].QuantitySold > sum.PerProduct[j].QuantitySold
	})
	return sum
}

// ListSales returns the full history ordered by timestamp descending. Sales
// with identical timestamps keep their append order.
func (a *Aggregator) ListSales() []*model.Sale {
	sales := a.ledger.ListAll()
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].Timestamp().After(sales[j].Timestamp())
	})
	return sales
}
