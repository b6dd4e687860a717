package model

import (
	"fmt"
	"strings"
)

// DeliveryAddress is the value object carried by web sales. Every field is
// required; values are trimmed on construction and the zero value is invalid.
type DeliveryAddress struct {
	Recipient  string `json:"recipient"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// NewDeliveryAddress validates all seven fields and returns the trimmed
// address. Any blank field fails construction.
func NewDeliveryAddress(recipient, street, number, district, city, state, postalCode string) (DeliveryAddress, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"recipient", &recipient},
		{"street", &street},
		{"number", &number},
		{"district", &district},
		{"city", &city},
		{"state", &state},
		{"postal_code", &postalCode},
	}
	for _, f := range fields {
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return DeliveryAddress{}, fmt.Errorf("delivery address: %s is required", f.name)
		}
		*f.value = v
	}
	return DeliveryAddress{
		Recipient:  recipient,
		Street:     street,
		Number:     number,
		District:   district,
		City:       city,
		State:      state,
		PostalCode: postalCode,
	}, nil
}
