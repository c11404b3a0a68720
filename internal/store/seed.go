package store

import (
	"fmt"
	"os"
	"path/filepath"

	"phonestore/internal/inventory"
)

// DefaultPhones returns the built-in collection used when no seed file can be read.
// Each call returns a fresh slice.
func DefaultPhones() []inventory.Phone {
	return []inventory.Phone{
		{ID: 1, Brand: "Samsung", Model: "Galaxy S23 Ultra", StorageCapacity: "256GB", RAM: "12GB", SalePrice: "1299.99", Quantity: "15", Color: "Negro Fantasma"},
		{ID: 2, Brand: "Apple", Model: "iPhone 15 Pro Max", StorageCapacity: "512GB", RAM: "8GB", SalePrice: "1499.99", Quantity: "10", Color: "Titanio Natural"},
		{ID: 3, Brand: "Xiaomi", Model: "Redmi Note 13 Pro", StorageCapacity: "128GB", RAM: "8GB", SalePrice: "349.99", Quantity: "25", Color: "Azul Océano"},
		{ID: 4, Brand: "Motorola", Model: "Edge 40 Pro", StorageCapacity: "256GB", RAM: "12GB", SalePrice: "799.99", Quantity: "8", Color: "Blanco Lunar"},
		{ID: 5, Brand: "Google", Model: "Pixel 8 Pro", StorageCapacity: "256GB", RAM: "12GB", SalePrice: "999.99", Quantity: "12", Color: "Obsidiana"},
		{ID: 6, Brand: "OnePlus", Model: "12 Pro", StorageCapacity: "512GB", RAM: "16GB", SalePrice: "899.99", Quantity: "7", Color: "Verde Glaciar"},
		{ID: 7, Brand: "Oppo", Model: "Find X6 Pro", StorageCapacity: "256GB", RAM: "12GB", SalePrice: "849.99", Quantity: "9", Color: "Marrón Desierto"},
		{ID: 8, Brand: "Realme", Model: "GT 3 Neo", StorageCapacity: "256GB", RAM: "8GB", SalePrice: "449.99", Quantity: "20", Color: "Blanco Nitro"},
		{ID: 9, Brand: "Huawei", Model: "P60 Pro", StorageCapacity: "512GB", RAM: "12GB", SalePrice: "1099.99", Quantity: "6", Color: "Negro Rocío"},
		{ID: 10, Brand: "Nothing", Model: "Phone 2", StorageCapacity: "256GB", RAM: "12GB", SalePrice: "699.99", Quantity: "14", Color: "Blanco"},
	}
}

// LoadSeed reads a JSON array of phones from path.
func LoadSeed(path string) ([]inventory.Phone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	phones, err := inventory.DecodePhones(data)
	if err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	return phones, nil
}

// SeedOrDefault loads the seed file at path, falling back to DefaultPhones
// when path is empty or the file cannot be read or parsed.
func SeedOrDefault(path string, logger inventory.Logger) []inventory.Phone {
	if path == "" {
		return DefaultPhones()
	}
	phones, err := LoadSeed(path)
	if err != nil {
		logger.Warn("seed file unusable, using default phones", "path", path, "error", err)
		return DefaultPhones()
	}
	return phones
}

// indexOf returns the position of the first phone with the given id, or -1.
func indexOf(phones []inventory.Phone, id int64) int {
	for i := range phones {
		if phones[i].ID == id {
			return i
		}
	}
	return -1
}

// idTaken returns an exists func for inventory.NextID over a collection.
func idTaken(phones []inventory.Phone) func(int64) bool {
	return func(id int64) bool { return indexOf(phones, id) >= 0 }
}

// WritePhonesFile writes phones to path in the persisted file format,
// replacing any existing file atomically.
func WritePhonesFile(path string, phones []inventory.Phone) error {
	data, err := inventory.EncodePhones(phones)
	if err != nil {
		return fmt.Errorf("encoding phones: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return writeFileAtomic(path, data)
}
