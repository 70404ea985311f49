package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BomItemType represents the kind of a BOM line
type BomItemType int

const (
	RawMaterial BomItemType = iota
	FinishedComponent
	Service
)

// String method for BomItemType enum
func (t BomItemType) String() string {
	switch t {
	case RawMaterial:
		return "RawMaterial"
	case FinishedComponent:
		return "FinishedComponent"
	case Service:
		return "Service"
	default:
		return "Unknown"
	}
}

// ParseBomItemType resolves a BOM line type label.
func ParseBomItemType(s string) (BomItemType, error) {
	switch s {
	case "RawMaterial":
		return RawMaterial, nil
	case "FinishedComponent":
		return FinishedComponent, nil
	case "Service":
		return Service, nil
	default:
		return 0, fmt.Errorf("unknown BOM item type: %q", s)
	}
}

// MarshalJSON writes the type label.
func (t BomItemType) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

// UnmarshalJSON reads a type label.
func (t *BomItemType) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBomItemType(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// BomItemStatus represents the procurement status of a BOM line
type BomItemStatus int

const (
	InStock BomItemStatus = iota
	ToOrder
	Ordered
)

// String method for BomItemStatus enum
func (s BomItemStatus) String() string {
	switch s {
	case InStock:
		return "InStock"
	case ToOrder:
		return "ToOrder"
	case Ordered:
		return "Ordered"
	default:
		return "Unknown"
	}
}

// ParseBomItemStatus resolves a BOM line status label.
func ParseBomItemStatus(s string) (BomItemStatus, error) {
	switch s {
	case "InStock":
		return InStock, nil
	case "ToOrder":
		return ToOrder, nil
	case "Ordered":
		return Ordered, nil
	default:
		return 0, fmt.Errorf("unknown BOM item status: %q", s)
	}
}

// MarshalJSON writes the status label.
func (s BomItemStatus) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// UnmarshalJSON reads a status label.
func (s *BomItemStatus) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBomItemStatus(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// BomItem represents a single line in a tile's bill of materials
type BomItem struct {
	ID         string          `json:"id"`
	Type       BomItemType     `json:"type"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	Status     BomItemStatus   `json:"status"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	MaterialID string          `json:"materialId,omitempty"`
}

// NewBomItem creates a validated BomItem
func NewBomItem(id, name string, itemType BomItemType, quantity decimal.Decimal, unit string) (*BomItem, error) {
	if id == "" {
		return nil, fmt.Errorf("BOM item id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("BOM item name cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("BOM item quantity cannot be negative, got %s", quantity)
	}

	return &BomItem{
		ID:       id,
		Type:     itemType,
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
		Status:   ToOrder,
	}, nil
}

// IsSheetUnit reports whether a unit of measure denotes sheet material.
// Matches the local word for "sheet" as a case-insensitive substring, so
// "arkusz", "Arkusze" and "arkusz 18mm" all count.
func IsSheetUnit(unit string) bool {
	return strings.Contains(strings.ToLower(unit), "arkusz")
}

// ReservesStock reports whether edits to this line participate in stock
// reservation: the line must link a catalog material and be measured in
// sheet units.
func (b BomItem) ReservesStock() bool {
	return b.MaterialID != "" && IsSheetUnit(b.Unit)
}

// LineCost returns quantity times unit cost.
func (b BomItem) LineCost() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}
