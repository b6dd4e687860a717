package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleType discriminates how a sale was made. WEB sales must carry a delivery
// address; IN_STORE sales never do.
type SaleType string

const (
	SaleTypeInStore SaleType = "IN_STORE"
	SaleTypeWeb     SaleType = "WEB"
)

// ParseSaleType maps the wire value onto a known type.
func ParseSaleType(s string) (SaleType, error) {
	switch SaleType(s) {
	case SaleTypeInStore, SaleTypeWeb:
		return SaleType(s), nil
	default:
		return "", fmt.Errorf("unknown sale type %q", s)
	}
}

// SaleLineItem is one product/quantity entry of a sale. It snapshots the
// product at sale time; the subtotal is computed once at construction.
type SaleLineItem struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewSaleLineItem snapshots the product and computes the subtotal.
func NewSaleLineItem(p Product, quantity int) (SaleLineItem, error) {
	if quantity < 1 {
		return SaleLineItem{}, errors.New("line item quantity must be >= 1")
	}
	return SaleLineItem{
		ProductCode: p.Code,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.UnitPrice,
		Subtotal:    p.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Sale is the immutable record of a completed sale. Instances are only built
// through SaleBuilder, which enforces every invariant at one point; after
// Build the sale never changes.
type Sale struct {
	id        string
	timestamp time.Time
	saleType  SaleType
	items     []SaleLineItem
	total     decimal.Decimal
	address   *DeliveryAddress
}

func (s *Sale) ID() string           { return s.id }
func (s *Sale) Timestamp() time.Time { return s.timestamp }
func (s *Sale) Type() SaleType       { return s.saleType }

// Total is the sum of all line-item subtotals.
func (s *Sale) Total() decimal.Decimal { return s.total }

// LineItems returns a copy; callers cannot mutate the sale through it.
func (s *Sale) LineItems() []SaleLineItem {
	out := make([]SaleLineItem, len(s.items))
	copy(out, s.items)
	return out
}

// DeliveryAddress returns the address and whether one is present. Present
// exactly when the sale type is WEB.
func (s *Sale) DeliveryAddress() (DeliveryAddress, bool) {
	if s.address == nil {
		return DeliveryAddress{}, false
	}
	return *s.address, true
}

// Equal compares sales by identity.
func (s *Sale) Equal(other *Sale) bool {
	return other != nil && s.id == other.id
}

type saleJSON struct {
	ID              string           `json:"id"`
	Timestamp       time.Time        `json:"timestamp"`
	Type            SaleType         `json:"type"`
	Items           []SaleLineItem   `json:"items"`
	Total           decimal.Decimal  `json:"total"`
	DeliveryAddress *DeliveryAddress `json:"delivery_address,omitempty"`
}

// MarshalJSON exposes the sale for the API while keeping the struct immutable.
func (s *Sale) MarshalJSON() ([]byte, error) {
	return json.Marshal(saleJSON{
		ID:              s.id,
		Timestamp:       s.timestamp,
		Type:            s.saleType,
		Items:           s.LineItems(),
		Total:           s.total,
		DeliveryAddress: s.address,
	})
}

// SaleBuilder stages sale fields and validates them all in Build.
type SaleBuilder struct {
	id        string
	timestamp time.Time
	saleType  SaleType
	items     []SaleLineItem
	address   *DeliveryAddress
}

func NewSaleBuilder() *SaleBuilder { return &SaleBuilder{} }

func (b *SaleBuilder) ID(id string) *SaleBuilder {
	b.id = id
	return b
}

func (b *SaleBuilder) Timestamp(ts time.Time) *SaleBuilder {
	b.timestamp = ts
	return b
}

func (b *SaleBuilder) Type(t SaleType) *SaleBuilder {
	b.saleType = t
	return b
}

func (b *SaleBuilder) LineItems(items []SaleLineItem) *SaleBuilder {
	b.items = items
	return b
}

func (b *SaleBuilder) DeliveryAddress(addr *DeliveryAddress) *SaleBuilder {
	b.address = addr
	return b
}

// Build validates every invariant and freezes the sale. A missing id or
// timestamp is filled in; an empty item list or a WEB sale without an address
// fails; an address on a non-WEB sale is dropped.
func (b *SaleBuilder) Build() (*Sale, error) {
	if _, err := ParseSaleType(string(b.saleType)); err != nil {
		return nil, err
	}
	if len(b.items) == 0 {
		return nil, errors.New("sale must have at least one line item")
	}
	var addr *DeliveryAddress
	if b.saleType == SaleTypeWeb {
		if b.address == nil {
			return nil, errors.New("delivery address is required for WEB sales")
		}
		a := *b.address
		addr = &a
	}
	id := b.id
	if id == "" {
		id = uuid.NewString()
	}
	ts := b.timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	items := make([]SaleLineItem, len(b.items))
	copy(items, b.items)
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return &Sale{
		id:        id,
		timestamp: ts,
		saleType:  b.saleType,
		items:     items,
		total:     total,
		address:   addr,
	}, nil
}
