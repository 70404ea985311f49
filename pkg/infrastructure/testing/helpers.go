package testing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/infrastructure/repositories/memory"
)

// BuildWorkshopTestData builds a small scenography workshop scenario:
// one project mid-production with tiles spread across the pipeline and
// a sheet-material catalog for the reservation paths.
func BuildWorkshopTestData() (*memory.TileRepository, *memory.MaterialRepository, *memory.DemandRepository) {
	tileRepo := memory.NewTileRepository()
	materialRepo := memory.NewMaterialRepository()
	demandRepo := memory.NewDemandRepository()

	materials := []*entities.Material{
		{
			ID:    "M-001",
			Name:  "Płyta MDF 18mm",
			Unit:  "arkusz",
			Stock: decimal.NewFromInt(24),
			Price: decimal.RequireFromString("145.50"),
		},
		{
			ID:    "M-002",
			Name:  "Sklejka brzozowa 12mm",
			Unit:  "arkusz",
			Stock: decimal.NewFromInt(10),
			Price: decimal.RequireFromString("210.00"),
		},
		{
			ID:    "M-003",
			Name:  "Farba akrylowa biała",
			Unit:  "litr",
			Stock: decimal.NewFromInt(40),
			Price: decimal.RequireFromString("38.90"),
		},
	}
	if err := materialRepo.LoadMaterials(materials); err != nil {
		panic(err)
	}

	seeds := []struct {
		id, name, zone string
		stage          entities.Stage
		priority       entities.Priority
		bom            []entities.BomItem
	}{
		{
			id: "T-001", name: "Panel frontowy sceny", zone: "Strefa A",
			stage: entities.StageCncQueue, priority: entities.PriorityHigh,
			bom: []entities.BomItem{
				{
					ID: "b1", Type: entities.RawMaterial, Name: "Płyta MDF 18mm",
					Quantity: decimal.NewFromInt(4), Unit: "arkusz",
					Status: entities.ToOrder, MaterialID: "M-001",
				},
			},
		},
		{
			id: "T-002", name: "Panel boczny lewy", zone: "Strefa A",
			stage: entities.StageCncProduction, priority: entities.PriorityMedium,
			bom: []entities.BomItem{
				{
					ID: "b1", Type: entities.RawMaterial, Name: "Sklejka brzozowa 12mm",
					Quantity: decimal.NewFromInt(2), Unit: "arkusz",
					Status: entities.InStock, MaterialID: "M-002",
				},
			},
		},
		{
			id: "T-003", name: "Podest obrotowy", zone: "Strefa B",
			stage: entities.StagePendingApproval, priority: entities.PriorityMedium,
		},
		{
			id: "T-004", name: "Rama ekranu LED", zone: "Strefa B",
			stage: entities.StageDesigning, priority: entities.PriorityLow,
		},
	}
	ctx := context.Background()
	for _, seed := range seeds {
		tile, err := entities.NewTile(seed.id, seed.name, "P-001", seed.stage)
		if err != nil {
			panic(err)
		}
		tile.ProjectName = "Stoisko targowe Gamma"
		tile.Zone = seed.zone
		tile.Priority = seed.priority
		tile.BOM = seed.bom
		if err := tileRepo.Create(ctx, tile); err != nil {
			panic(err)
		}
	}

	return tileRepo, materialRepo, demandRepo
}
