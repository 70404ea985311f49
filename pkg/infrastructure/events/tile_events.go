package events

import (
	"github.com/shopspring/decimal"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
)

const (
	TileCreatedEvent            = "tile.created"
	TileStatusChangedEvent      = "tile.status_changed"
	TileUpdatedEvent            = "tile.updated"
	TileCollectionReloadedEvent = "tile.collection_reloaded"

	StockAdjustedEvent = "stock.adjusted"

	DemandCreatedEvent = "demand.created"
)

type TileCreated struct {
	Tile *entities.Tile `json:"tile"`
}

type TileStatusChanged struct {
	TileID   string         `json:"tile_id"`
	From     entities.Stage `json:"from"`
	To       entities.Stage `json:"to"`
	Source   entities.View  `json:"-"`
	Progress int            `json:"progress"`
}

type TileUpdated struct {
	Tile  *entities.Tile     `json:"tile"`
	Patch entities.TilePatch `json:"patch"`
}

type TileCollectionReloaded struct {
	Count int `json:"count"`
}

type StockAdjusted struct {
	MaterialID string          `json:"material_id"`
	Delta      decimal.Decimal `json:"delta"`
}

type DemandCreated struct {
	Demand *entities.Demand `json:"demand"`
}
