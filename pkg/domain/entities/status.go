package entities

import (
	"encoding/json"
	"fmt"
)

// View identifies which board vocabulary a status string belongs to.
type View int

const (
	ViewProject View = iota
	ViewCNC
)

// String method for View enum
func (v View) String() string {
	switch v {
	case ViewProject:
		return "project"
	case ViewCNC:
		return "cnc"
	default:
		return "Unknown"
	}
}

// ParseView parses the wire spelling of a view identifier.
func ParseView(s string) (View, error) {
	switch s {
	case "project":
		return ViewProject, nil
	case "cnc":
		return ViewCNC, nil
	default:
		return ViewProject, fmt.Errorf("unknown view: %q", s)
	}
}

// Stage is the canonical lifecycle stage of a tile, independent of the
// board it is displayed on.
type Stage int

const (
	StageDesigning Stage = iota
	StagePendingApproval
	StageCncQueue
	StageCncProduction
	StageReadyForAssembly
	StageAssembling
	StageDone
)

// AllStages lists the canonical stages in pipeline order.
var AllStages = []Stage{
	StageDesigning,
	StagePendingApproval,
	StageCncQueue,
	StageCncProduction,
	StageReadyForAssembly,
	StageAssembling,
	StageDone,
}

// ProjectStatus is the project-board spelling of a stage.
type ProjectStatus string

const (
	ProjectDesigning        ProjectStatus = "Projektowanie"
	ProjectPendingApproval  ProjectStatus = "Do akceptacji"
	ProjectCncQueue         ProjectStatus = "W kolejce CNC"
	ProjectCncProduction    ProjectStatus = "W produkcji CNC"
	ProjectReadyForAssembly ProjectStatus = "Gotowy do montażu"
	ProjectAssembling       ProjectStatus = "W montażu"
	ProjectDone             ProjectStatus = "Zakończony"
)

// CncStatus is the CNC-board spelling of a stage. Only the three stages
// that cross the CNC board have a CNC spelling.
type CncStatus string

const (
	CncQueued  CncStatus = "W KOLEJCE"
	CncCutting CncStatus = "W TRAKCIE CIĘCIA"
	CncCut     CncStatus = "WYCIĘTE"
)

// ProjectStatus returns the project-board spelling of the stage.
func (s Stage) ProjectStatus() ProjectStatus {
	switch s {
	case StageDesigning:
		return ProjectDesigning
	case StagePendingApproval:
		return ProjectPendingApproval
	case StageCncQueue:
		return ProjectCncQueue
	case StageCncProduction:
		return ProjectCncProduction
	case StageReadyForAssembly:
		return ProjectReadyForAssembly
	case StageAssembling:
		return ProjectAssembling
	case StageDone:
		return ProjectDone
	default:
		return ProjectStatus(fmt.Sprintf("Stage(%d)", int(s)))
	}
}

// CncStatus returns the CNC-board spelling of the stage. The second
// return value is false for stages outside the CNC bijection.
func (s Stage) CncStatus() (CncStatus, bool) {
	switch s {
	case StageCncQueue:
		return CncQueued, true
	case StageCncProduction:
		return CncCutting, true
	case StageReadyForAssembly:
		return CncCut, true
	default:
		return "", false
	}
}

// String method for Stage enum
func (s Stage) String() string {
	return string(s.ProjectStatus())
}

// Progress returns the fixed milestone value for the stage. Progress is
// always derived from the stage, never authored independently.
func (s Stage) Progress() int {
	switch s {
	case StageDesigning:
		return 10
	case StagePendingApproval:
		return 25
	case StageCncQueue:
		return 40
	case StageCncProduction:
		return 60
	case StageReadyForAssembly:
		return 80
	case StageAssembling:
		return 95
	case StageDone:
		return 100
	default:
		return 0
	}
}

// ParseProjectStatus resolves a project-board status label to its stage.
func ParseProjectStatus(s string) (Stage, bool) {
	switch ProjectStatus(s) {
	case ProjectDesigning:
		return StageDesigning, true
	case ProjectPendingApproval:
		return StagePendingApproval, true
	case ProjectCncQueue:
		return StageCncQueue, true
	case ProjectCncProduction:
		return StageCncProduction, true
	case ProjectReadyForAssembly:
		return StageReadyForAssembly, true
	case ProjectAssembling:
		return StageAssembling, true
	case ProjectDone:
		return StageDone, true
	default:
		return 0, false
	}
}

// ParseCncStatus resolves a CNC-board status label to its stage.
func ParseCncStatus(s string) (Stage, bool) {
	switch CncStatus(s) {
	case CncQueued:
		return StageCncQueue, true
	case CncCutting:
		return StageCncProduction, true
	case CncCut:
		return StageReadyForAssembly, true
	default:
		return 0, false
	}
}

// ParseStatus resolves a status label from either vocabulary.
func ParseStatus(s string) (Stage, error) {
	if stage, ok := ParseProjectStatus(s); ok {
		return stage, nil
	}
	if stage, ok := ParseCncStatus(s); ok {
		return stage, nil
	}
	return 0, fmt.Errorf("unknown tile status: %q", s)
}

// CanTransition reports whether the transition is legal in the directed
// stage graph: one step forward along the pipeline, or one step back.
// The lifecycle store applies any transition regardless and only flags
// illegal jumps.
func CanTransition(from, to Stage) bool {
	if from == to {
		return true
	}
	return to == from+1 || to == from-1
}

// MarshalJSON writes the stage in the project-board vocabulary, which is
// what the persistence collaborator stores.
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s.ProjectStatus()))
}

// UnmarshalJSON accepts a status from either vocabulary.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	stage, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = stage
	return nil
}
