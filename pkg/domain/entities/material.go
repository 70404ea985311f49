package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Material is a warehouse catalog entry. Stock is the shared mutable
// quantity that concurrent editing sessions draw from.
type Material struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Unit  string          `json:"unit"`
	Stock decimal.Decimal `json:"stock"`
	Price decimal.Decimal `json:"price"`
}

// NewMaterial creates a validated Material
func NewMaterial(id, name, unit string, stock, price decimal.Decimal) (*Material, error) {
	if id == "" {
		return nil, fmt.Errorf("material id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("material name cannot be empty")
	}
	if unit == "" {
		return nil, fmt.Errorf("material unit cannot be empty")
	}
	if stock.IsNegative() {
		return nil, fmt.Errorf("material stock cannot be negative, got %s", stock)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("material price cannot be negative, got %s", price)
	}

	return &Material{
		ID:    id,
		Name:  name,
		Unit:  unit,
		Stock: stock,
		Price: price,
	}, nil
}
