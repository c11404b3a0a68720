package testutil

import (
	"fmt"

	"phonestore/internal/inventory"
)

// Phone returns a fully populated phone with the given id.
func Phone(id int64, brand, model string) inventory.Phone {
	return inventory.Phone{
		ID:              id,
		Brand:           brand,
		Model:           model,
		StorageCapacity: "128GB",
		RAM:             "8GB",
		SalePrice:       "499.99",
		Quantity:        "3",
		Color:           "Negro",
	}
}

// Phones returns n phones with ids 1..n and distinct models.
func Phones(n int) []inventory.Phone {
	phones := make([]inventory.Phone, n)
	for i := range phones {
		phones[i] = Phone(int64(i+1), "Brand", fmt.Sprintf("Model %d", i+1))
	}
	return phones
}

// NewPhone returns an unsaved phone, as a client would submit it.
func NewPhone() inventory.Phone {
	return inventory.Phone{
		Brand:           "Samsung",
		Model:           "Galaxy A54",
		StorageCapacity: "128GB",
		RAM:             "8GB",
		SalePrice:       "449.99",
		Quantity:        "11",
		Color:           "Lima",
	}
}

// Str returns a pointer to s, for building patches.
func Str(s string) *string {
	return &s
}

// Num returns a pointer to a NumericText, for building patches.
func Num(s string) *inventory.NumericText {
	n := inventory.NumericText(s)
	return &n
}
