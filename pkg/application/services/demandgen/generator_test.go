package demandgen

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kamilarndt/fabmanage/pkg/application/notify"
	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
)

type stubDemands struct {
	created []*entities.Demand
	failAt  int // 1-based call index that fails, 0 = never
	calls   int
}

var _ repositories.DemandRepository = (*stubDemands)(nil)

func (s *stubDemands) Create(ctx context.Context, demand *entities.Demand) (*entities.Demand, error) {
	s.calls++
	if s.failAt != 0 && s.calls == s.failAt {
		return nil, fmt.Errorf("backend unavailable")
	}
	s.created = append(s.created, demand)
	return demand, nil
}

func (s *stubDemands) List(ctx context.Context, filter repositories.DemandFilter) ([]*entities.Demand, error) {
	return s.created, nil
}

func bomLine(id, materialID string, qty int64) entities.BomItem {
	item, err := entities.NewBomItem(id, "Płyta "+id, entities.RawMaterial, decimal.NewFromInt(qty), "arkusz")
	if err != nil {
		panic(err)
	}
	item.MaterialID = materialID
	return *item
}

func tileWithBOM(lines ...entities.BomItem) *entities.Tile {
	tile, err := entities.NewTile("T-001", "Panel frontowy", "P-001", entities.StageDesigning)
	if err != nil {
		panic(err)
	}
	tile.BOM = lines
	return tile
}

func TestGenerate_OneDemandPerEligibleLine(t *testing.T) {
	repo := &stubDemands{}
	recorder := notify.NewRecorder()
	gen := NewGenerator(repo, recorder, nil, zerolog.Nop())

	unlinked := bomLine("b3", "", 2)
	zeroQty := bomLine("b4", "M-009", 0)
	tile := tileWithBOM(bomLine("b1", "M-001", 4), bomLine("b2", "M-002", 1), unlinked, zeroQty)

	count, err := gen.Generate(context.Background(), tile)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if count != 2 {
		t.Errorf("created = %d, want 2", count)
	}
	if len(repo.created) != 2 {
		t.Fatalf("repo holds %d demands, want 2", len(repo.created))
	}
	if repo.created[0].MaterialID != "M-001" || repo.created[1].MaterialID != "M-002" {
		t.Errorf("demands out of BOM order: %s, %s", repo.created[0].MaterialID, repo.created[1].MaterialID)
	}
	if repo.created[0].ProjectID != "P-001" || repo.created[0].TileID != "T-001" {
		t.Errorf("demand not linked to tile/project: %+v", repo.created[0])
	}

	successes := recorder.ByLevel(notify.LevelSuccess)
	if len(successes) != 1 {
		t.Fatalf("expected one aggregate success notification, got %d", len(successes))
	}
}

func TestGenerate_AbortsOnFirstFailure(t *testing.T) {
	repo := &stubDemands{failAt: 2}
	recorder := notify.NewRecorder()
	gen := NewGenerator(repo, recorder, nil, zerolog.Nop())

	tile := tileWithBOM(bomLine("b1", "M-001", 4), bomLine("b2", "M-002", 1), bomLine("b3", "M-003", 2))

	count, err := gen.Generate(context.Background(), tile)
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if count != 1 {
		t.Errorf("created = %d, want exactly 1", count)
	}
	if repo.calls != 2 {
		t.Errorf("create calls = %d, the third line must never be attempted", repo.calls)
	}
	if len(recorder.ByLevel(notify.LevelError)) != 1 {
		t.Error("expected a single generic failure notification")
	}
	if len(recorder.ByLevel(notify.LevelSuccess)) != 0 {
		t.Error("aborted batch must not report success")
	}
}

func TestGenerate_EmptyBOM(t *testing.T) {
	repo := &stubDemands{}
	recorder := notify.NewRecorder()
	gen := NewGenerator(repo, recorder, nil, zerolog.Nop())

	count, err := gen.Generate(context.Background(), tileWithBOM())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if count != 0 {
		t.Errorf("created = %d, want 0", count)
	}
	if repo.calls != 0 {
		t.Errorf("create calls = %d, want 0", repo.calls)
	}
}
