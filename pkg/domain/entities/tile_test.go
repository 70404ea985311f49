package entities

import (
	"encoding/json"
	"testing"
)

func TestNewTile_Validation(t *testing.T) {
	tile, err := NewTile("T-001", "Panel główny recepcji", "P-001", StageDesigning)
	if err != nil {
		t.Fatalf("expected valid tile creation to succeed: %v", err)
	}
	if tile.Progress != 10 {
		t.Errorf("new tile progress = %d, want 10", tile.Progress)
	}
	if tile.Priority != PriorityMedium {
		t.Errorf("new tile priority = %v, want %v", tile.Priority, PriorityMedium)
	}

	if _, err := NewTile("", "name", "P-001", StageDesigning); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := NewTile("T-001", "", "P-001", StageDesigning); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestTile_ViewStatus(t *testing.T) {
	testCases := []struct {
		name    string
		stage   Stage
		view    View
		display string
	}{
		{"cnc queue on cnc board", StageCncQueue, ViewCNC, "W KOLEJCE"},
		{"cnc queue on project board", StageCncQueue, ViewProject, "W kolejce CNC"},
		{"cutting on cnc board", StageCncProduction, ViewCNC, "W TRAKCIE CIĘCIA"},
		{"designing passes through on cnc board", StageDesigning, ViewCNC, "Projektowanie"},
		{"done passes through on cnc board", StageDone, ViewCNC, "Zakończony"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tile := &Tile{ID: "T-001", Stage: tc.stage}
			if got := tile.ViewStatus(tc.view); got != tc.display {
				t.Errorf("ViewStatus(%v) = %q, want %q", tc.view, got, tc.display)
			}
		})
	}
}

func TestTile_ApplyKeepsProgressInvariant(t *testing.T) {
	tile, _ := NewTile("T-001", "Blat recepcji", "P-001", StageDesigning)

	stage := StageCncQueue
	zone := "Strefa A"
	tile.Apply(TilePatch{Stage: &stage, Zone: &zone})

	if tile.Stage != StageCncQueue {
		t.Errorf("stage = %v, want %v", tile.Stage, StageCncQueue)
	}
	if tile.Progress != StageCncQueue.Progress() {
		t.Errorf("progress = %d, want %d", tile.Progress, StageCncQueue.Progress())
	}
	if tile.Zone != "Strefa A" {
		t.Errorf("zone = %q, want %q", tile.Zone, "Strefa A")
	}
}

func TestTile_CloneIsIndependent(t *testing.T) {
	tile, _ := NewTile("T-001", "Panel", "P-001", StageCncQueue)
	tile.BOM = []BomItem{{ID: "B-1", Name: "MDF", Unit: "arkusz"}}

	clone := tile.Clone()
	clone.BOM[0].Name = "HDF"
	clone.Stage = StageDone

	if tile.BOM[0].Name != "MDF" {
		t.Error("mutating clone BOM affected the original")
	}
	if tile.Stage != StageCncQueue {
		t.Error("mutating clone stage affected the original")
	}
}

func TestTile_JSONUsesProjectVocabulary(t *testing.T) {
	tile, _ := NewTile("T-001", "Panel", "P-001", StageCncProduction)
	data, err := json.Marshal(tile)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal wire map: %v", err)
	}
	if wire["status"] != "W produkcji CNC" {
		t.Errorf("wire status = %v, want %q", wire["status"], "W produkcji CNC")
	}
	if wire["priority"] != "Średni" {
		t.Errorf("wire priority = %v, want %q", wire["priority"], "Średni")
	}
}
