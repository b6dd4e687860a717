package sales

import "fmt"

// ValidationError reports a malformed registration request. Nothing was
// looked up, debited, or persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid sale request: " + e.Reason
}

// ProductNotFoundError reports a requested code with no catalog entry. The
// whole request is aborted before any stock mutation.
type ProductNotFoundError struct {
	Code string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.Code)
}

// InsufficientStockError reports a shortfall for one product. The decision is
// authoritative at debit time; no product in the batch was debited.
type InsufficientStockError struct {
	Code      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.Code, e.Requested, e.Available)
}
