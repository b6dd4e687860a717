package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Product represents a stock-bearing catalog entry. Identity is the code,
// compared case-insensitively; the quantity is mutated through Credit and
// Debit only and never goes negative.
type Product struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	QuantityOnHand int             `json:"quantity_on_hand"`
}

var (
	ErrProductCodeRequired = errors.New("product code is required")
	ErrProductNameRequired = errors.New("product name is required")
	ErrNegativePrice       = errors.New("unit price must not be negative")
	ErrNegativeQuantity    = errors.New("initial quantity must not be negative")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
)

// NewProduct validates and builds a product.
func NewProduct(code, name string, unitPrice decimal.Decimal, initialQuantity int) (Product, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return Product{}, ErrProductCodeRequired
	}
	if name == "" {
		return Product{}, ErrProductNameRequired
	}
	if unitPrice.IsNegative() {
		return Product{}, ErrNegativePrice
	}
	if initialQuantity < 0 {
		return Product{}, ErrNegativeQuantity
	}
	return Product{
		Code:           code,
		Name:           name,
		UnitPrice:      unitPrice,
		QuantityOnHand: initialQuantity,
	}, nil
}

// Credit adds stock. Non-positive amounts are a caller error, not a no-op.
func (p *Product) Credit(amount int) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	p.QuantityOnHand += amount
	return nil
}

// Debit removes stock. It succeeds only when the amount is positive and fully
// covered by the quantity on hand; on failure the quantity is untouched.
func (p *Product) Debit(amount int) bool {
	if amount <= 0 {
		return false
	}
	if p.QuantityOnHand < amount {
		return false
	}
	p.QuantityOnHand -= amount
	return true
}

// SameCode reports whether the product's code equals the given one, ignoring
// case, which is the identity rule of the catalog.
func (p Product) SameCode(code string) bool {
	return strings.EqualFold(p.Code, strings.TrimSpace(code))
}
