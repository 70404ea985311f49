package entities

import (
	"encoding/json"
	"testing"
)

func TestStage_Progress(t *testing.T) {
	testCases := []struct {
		stage    Stage
		expected int
	}{
		{StageDesigning, 10},
		{StagePendingApproval, 25},
		{StageCncQueue, 40},
		{StageCncProduction, 60},
		{StageReadyForAssembly, 80},
		{StageAssembling, 95},
		{StageDone, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.stage.String(), func(t *testing.T) {
			if got := tc.stage.Progress(); got != tc.expected {
				t.Errorf("Progress(%v) = %d, want %d", tc.stage, got, tc.expected)
			}
			// Deterministic: a second derivation yields the same value
			if got := tc.stage.Progress(); got != tc.expected {
				t.Errorf("second Progress(%v) = %d, want %d", tc.stage, got, tc.expected)
			}
		})
	}
}

func TestStage_ProgressMonotonic(t *testing.T) {
	prev := -1
	for _, stage := range AllStages {
		p := stage.Progress()
		if p <= prev {
			t.Errorf("progress not increasing at %v: %d after %d", stage, p, prev)
		}
		prev = p
	}
}

func TestStage_CncStatus(t *testing.T) {
	cncStages := map[Stage]CncStatus{
		StageCncQueue:         CncQueued,
		StageCncProduction:    CncCutting,
		StageReadyForAssembly: CncCut,
	}

	for _, stage := range AllStages {
		cnc, ok := stage.CncStatus()
		want, inTable := cncStages[stage]
		if ok != inTable {
			t.Errorf("CncStatus(%v) ok = %v, want %v", stage, ok, inTable)
		}
		if inTable && cnc != want {
			t.Errorf("CncStatus(%v) = %q, want %q", stage, cnc, want)
		}
	}
}

func TestParseStatus_BothVocabularies(t *testing.T) {
	testCases := []struct {
		label    string
		expected Stage
	}{
		{"Projektowanie", StageDesigning},
		{"Do akceptacji", StagePendingApproval},
		{"W kolejce CNC", StageCncQueue},
		{"W produkcji CNC", StageCncProduction},
		{"Gotowy do montażu", StageReadyForAssembly},
		{"W montażu", StageAssembling},
		{"Zakończony", StageDone},
		{"W KOLEJCE", StageCncQueue},
		{"W TRAKCIE CIĘCIA", StageCncProduction},
		{"WYCIĘTE", StageReadyForAssembly},
	}

	for _, tc := range testCases {
		stage, err := ParseStatus(tc.label)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", tc.label, err)
			continue
		}
		if stage != tc.expected {
			t.Errorf("ParseStatus(%q) = %v, want %v", tc.label, stage, tc.expected)
		}
	}

	if _, err := ParseStatus("Nieznany"); err == nil {
		t.Error("expected error for unknown status label")
	}
}

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name  string
		from  Stage
		to    Stage
		legal bool
	}{
		{"forward step", StageCncQueue, StageCncProduction, true},
		{"rollback step", StageCncProduction, StageCncQueue, true},
		{"same stage", StageDesigning, StageDesigning, true},
		{"skip ahead", StageCncQueue, StageReadyForAssembly, false},
		{"done to designing", StageDone, StageDesigning, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.legal {
				t.Errorf("CanTransition(%v, %v) = %v, want %v", tc.from, tc.to, got, tc.legal)
			}
		})
	}
}

func TestStage_JSONRoundTrip(t *testing.T) {
	for _, stage := range AllStages {
		data, err := json.Marshal(stage)
		if err != nil {
			t.Fatalf("marshal %v: %v", stage, err)
		}
		var back Stage
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != stage {
			t.Errorf("round trip changed stage: %v -> %v", stage, back)
		}
	}

	// CNC spellings unmarshal to the canonical stage
	var stage Stage
	if err := json.Unmarshal([]byte(`"W KOLEJCE"`), &stage); err != nil {
		t.Fatalf("unmarshal CNC label: %v", err)
	}
	if stage != StageCncQueue {
		t.Errorf("unmarshal CNC label = %v, want %v", stage, StageCncQueue)
	}
}
