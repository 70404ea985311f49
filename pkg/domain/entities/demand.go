package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DemandStatus represents the purchasing state of a demand
type DemandStatus int

const (
	DemandPending DemandStatus = iota
	DemandOrdered
	DemandFulfilled
)

// String method for DemandStatus enum
func (s DemandStatus) String() string {
	switch s {
	case DemandPending:
		return "pending"
	case DemandOrdered:
		return "ordered"
	case DemandFulfilled:
		return "fulfilled"
	default:
		return "Unknown"
	}
}

// ParseDemandStatus resolves a demand status label.
func ParseDemandStatus(s string) (DemandStatus, bool) {
	switch s {
	case "pending":
		return DemandPending, true
	case "ordered":
		return DemandOrdered, true
	case "fulfilled":
		return DemandFulfilled, true
	default:
		return DemandPending, false
	}
}

// MarshalJSON writes the status label.
func (s DemandStatus) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// UnmarshalJSON reads a status label.
func (s *DemandStatus) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"pending"`:
		*s = DemandPending
	case `"ordered"`:
		*s = DemandOrdered
	case `"fulfilled"`:
		*s = DemandFulfilled
	default:
		return fmt.Errorf("unknown demand status: %s", data)
	}
	return nil
}

// Demand is a purchasing requisition generated from a BOM line.
type Demand struct {
	ID          string          `json:"id"`
	TileID      string          `json:"tileId"`
	ProjectID   string          `json:"projectId,omitempty"`
	MaterialID  string          `json:"materialId"`
	Name        string          `json:"name,omitempty"`
	RequiredQty decimal.Decimal `json:"requiredQty"`
	Status      DemandStatus    `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewDemand creates a validated Demand
func NewDemand(id, tileID, materialID string, requiredQty decimal.Decimal) (*Demand, error) {
	if id == "" {
		return nil, fmt.Errorf("demand id cannot be empty")
	}
	if tileID == "" {
		return nil, fmt.Errorf("demand tile id cannot be empty")
	}
	if materialID == "" {
		return nil, fmt.Errorf("demand material id cannot be empty")
	}
	if !requiredQty.IsPositive() {
		return nil, fmt.Errorf("demand quantity must be positive, got %s", requiredQty)
	}

	return &Demand{
		ID:          id,
		TileID:      tileID,
		MaterialID:  materialID,
		RequiredQty: requiredQty,
		Status:      DemandPending,
		CreatedAt:   time.Now(),
	}, nil
}
