package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
)

func mustTile(t *testing.T, id string, stage entities.Stage) *entities.Tile {
	t.Helper()
	tile, err := entities.NewTile(id, "Panel "+id, "P-001", stage)
	if err != nil {
		t.Fatalf("new tile: %v", err)
	}
	return tile
}

func TestTileRepository_CreateAndFetchAll(t *testing.T) {
	repo := NewTileRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, mustTile(t, "T-002", entities.StageDesigning)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, mustTile(t, "T-001", entities.StageCncQueue)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, mustTile(t, "T-001", entities.StageCncQueue)); err == nil {
		t.Error("expected error for duplicate id")
	}

	tiles, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(tiles) != 2 {
		t.Fatalf("fetched %d tiles, want 2", len(tiles))
	}
	if tiles[0].ID != "T-001" || tiles[1].ID != "T-002" {
		t.Errorf("order = %s, %s, want id order", tiles[0].ID, tiles[1].ID)
	}

	// Returned tiles are copies, not the stored instances.
	tiles[0].Name = "mutated"
	again, _ := repo.FetchAll(ctx)
	if again[0].Name == "mutated" {
		t.Error("FetchAll leaked internal state")
	}
}

func TestTileRepository_SaveAllOverwrites(t *testing.T) {
	repo := NewTileRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, mustTile(t, "T-001", entities.StageDesigning)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SaveAll(ctx, []*entities.Tile{mustTile(t, "T-002", entities.StageDesigning)}); err != nil {
		t.Fatalf("saveAll: %v", err)
	}

	tiles, _ := repo.FetchAll(ctx)
	if len(tiles) != 1 || tiles[0].ID != "T-002" {
		t.Errorf("collection after overwrite = %v", tiles)
	}
}

func TestTileRepository_UpdateStatusStampsLifecycle(t *testing.T) {
	repo := NewTileRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, mustTile(t, "T-001", entities.StageCncQueue)); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateStatus(ctx, "T-001", entities.StageCncProduction, entities.ViewCNC)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Progress != 60 {
		t.Errorf("progress = %d, want 60", updated.Progress)
	}
	if updated.StartTime == nil {
		t.Error("startTime not stamped entering production")
	}

	updated, err = repo.UpdateStatus(ctx, "T-001", entities.StageReadyForAssembly, entities.ViewCNC)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.CompletedTime == nil {
		t.Error("completedTime not stamped leaving production")
	}

	if _, err := repo.UpdateStatus(ctx, "T-404", entities.StageDone, entities.ViewCNC); err == nil {
		t.Error("expected error for unknown tile")
	}
}

func TestTileRepository_UpdateMergesPatch(t *testing.T) {
	repo := NewTileRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, mustTile(t, "T-001", entities.StageDesigning)); err != nil {
		t.Fatalf("create: %v", err)
	}

	zone := "Strefa A"
	updated, err := repo.Update(ctx, "T-001", entities.TilePatch{Zone: &zone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Zone != "Strefa A" {
		t.Errorf("zone = %q, want %q", updated.Zone, "Strefa A")
	}
}

func TestMaterialRepository_AdjustStock(t *testing.T) {
	repo := NewMaterialRepository()
	mat, err := entities.NewMaterial("M-001", "Płyta MDF 18mm", "arkusz", decimal.NewFromInt(10), decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("new material: %v", err)
	}
	if err := repo.LoadMaterials([]*entities.Material{mat}); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := repo.AdjustStock("M-001", decimal.NewFromInt(-4)); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	got, err := repo.Get("M-001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Stock.Equal(decimal.NewFromInt(6)) {
		t.Errorf("stock = %s, want 6", got.Stock)
	}

	// No clamping: overdrawing and reversing restores the exact value.
	if err := repo.AdjustStock("M-001", decimal.NewFromInt(-10)); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := repo.AdjustStock("M-001", decimal.NewFromInt(10)); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	got, _ = repo.Get("M-001")
	if !got.Stock.Equal(decimal.NewFromInt(6)) {
		t.Errorf("stock after overdraw+reversal = %s, want 6", got.Stock)
	}

	if err := repo.AdjustStock("M-404", decimal.NewFromInt(1)); err == nil {
		t.Error("expected error for unknown material")
	}
}

func TestDemandRepository_ListFilters(t *testing.T) {
	repo := NewDemandRepository()
	ctx := context.Background()

	seed := []struct {
		id, tileID, projectID string
	}{
		{"d1", "T-001", "P-001"},
		{"d2", "T-001", "P-001"},
		{"d3", "T-002", "P-002"},
	}
	for _, s := range seed {
		d, err := entities.NewDemand(s.id, s.tileID, "M-001", decimal.NewFromInt(2))
		if err != nil {
			t.Fatalf("new demand: %v", err)
		}
		d.ProjectID = s.projectID
		if _, err := repo.Create(ctx, d); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	byTile, err := repo.List(ctx, repositories.DemandFilter{TileID: "T-001"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byTile) != 2 {
		t.Errorf("by tile = %d demands, want 2", len(byTile))
	}

	byProject, _ := repo.List(ctx, repositories.DemandFilter{ProjectID: "P-002"})
	if len(byProject) != 1 || byProject[0].ID != "d3" {
		t.Errorf("by project = %v", byProject)
	}

	all, _ := repo.List(ctx, repositories.DemandFilter{})
	if len(all) != 3 {
		t.Errorf("unfiltered = %d demands, want 3", len(all))
	}
}
