package repositories

import (
	"github.com/shopspring/decimal"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
)

// MaterialRepository is the shared material store. AdjustStock mutates
// the shared quantity synchronously and in place; there is no version
// check, so concurrent sessions touching the same material can lose
// updates.
type MaterialRepository interface {
	All() []*entities.Material
	Get(id string) (*entities.Material, error)
	AdjustStock(id string, delta decimal.Decimal) error
}
