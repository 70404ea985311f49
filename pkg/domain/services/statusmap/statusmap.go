// Package statusmap translates tile statuses between the two board
// vocabularies. The CNC board and the project board show the same
// physical part through differently-spelled status labels; three stages
// (queued, in-cut, finished) form a bijection between the vocabularies,
// and every other stage passes through unchanged.
package statusmap

import (
	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
)

// ToCanonical resolves a view-local status label into its canonical
// stage. Labels from either vocabulary are accepted regardless of the
// claimed source view: the vocabularies do not overlap, so the label
// itself is unambiguous.
func ToCanonical(status string, source entities.View) (entities.Stage, bool) {
	switch source {
	case entities.ViewCNC:
		if stage, ok := entities.ParseCncStatus(status); ok {
			return stage, true
		}
		// Pass-through: the CNC board hands back project spellings for
		// stages outside its three columns.
		if stage, ok := entities.ParseProjectStatus(status); ok {
			return stage, true
		}
	case entities.ViewProject:
		if stage, ok := entities.ParseProjectStatus(status); ok {
			return stage, true
		}
		if stage, ok := entities.ParseCncStatus(status); ok {
			return stage, true
		}
	}
	return 0, false
}

// ToView renders a status label in the target view's vocabulary. Labels
// outside the CNC↔Project bijection are returned unchanged.
func ToView(status string, target entities.View) string {
	stage, err := entities.ParseStatus(status)
	if err != nil {
		return status
	}
	return ViewLabel(stage, target)
}

// ViewLabel renders a canonical stage in the given view's vocabulary.
func ViewLabel(stage entities.Stage, v entities.View) string {
	if v == entities.ViewCNC {
		if cnc, ok := stage.CncStatus(); ok {
			return string(cnc)
		}
	}
	return string(stage.ProjectStatus())
}

// OtherView returns the opposite board.
func OtherView(v entities.View) entities.View {
	if v == entities.ViewCNC {
		return entities.ViewProject
	}
	return entities.ViewCNC
}
