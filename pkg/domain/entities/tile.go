package entities

import (
	"fmt"
	"time"
)

// Priority represents the production priority of a tile
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// String method for Priority enum
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "Wysoki"
	case PriorityMedium:
		return "Średni"
	case PriorityLow:
		return "Niski"
	default:
		return "Unknown"
	}
}

// ParsePriority resolves a priority label.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "Wysoki":
		return PriorityHigh, nil
	case "Średni":
		return PriorityMedium, nil
	case "Niski":
		return PriorityLow, nil
	default:
		return 0, fmt.Errorf("unknown priority: %q", s)
	}
}

// MarshalJSON writes the priority label.
func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", p.String())), nil
}

// UnmarshalJSON reads a priority label.
func (p *Priority) UnmarshalJSON(data []byte) error {
	label := string(data)
	if len(label) >= 2 && label[0] == '"' {
		label = label[1 : len(label)-1]
	}
	parsed, err := ParsePriority(label)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Tile is the unit of production work: a physical part tracked through
// its lifecycle. Stage is canonical; each board renders it through its
// own vocabulary.
type Tile struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Stage           Stage      `json:"status"`
	Project         string     `json:"project,omitempty"`
	ProjectName     string     `json:"projectName,omitempty"`
	Zone            string     `json:"zone,omitempty"`
	AssignedTo      string     `json:"assignedTo,omitempty"`
	Priority        Priority   `json:"priority"`
	EstimatedTime   string     `json:"estimatedTime,omitempty"`
	Progress        int        `json:"progress"`
	BOM             []BomItem  `json:"bom,omitempty"`
	DxfFile         string     `json:"dxfFile,omitempty"`
	AssemblyDrawing string     `json:"assemblyDrawing,omitempty"`
	Machine         string     `json:"machine,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	StartTime       *time.Time `json:"startTime,omitempty"`
	CompletedTime   *time.Time `json:"completedTime,omitempty"`
}

// NewTile creates a validated Tile with progress derived from the stage.
func NewTile(id, name, project string, stage Stage) (*Tile, error) {
	if id == "" {
		return nil, fmt.Errorf("tile id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("tile name cannot be empty")
	}

	return &Tile{
		ID:       id,
		Name:     name,
		Project:  project,
		Stage:    stage,
		Priority: PriorityMedium,
		Progress: stage.Progress(),
	}, nil
}

// ViewStatus returns the status label the given board displays for this
// tile. Stages outside the CNC bijection keep their project spelling on
// either board.
func (t *Tile) ViewStatus(v View) string {
	if v == ViewCNC {
		if cnc, ok := t.Stage.CncStatus(); ok {
			return string(cnc)
		}
	}
	return string(t.Stage.ProjectStatus())
}

// Clone returns a deep copy of the tile.
func (t *Tile) Clone() *Tile {
	c := *t
	if t.BOM != nil {
		c.BOM = make([]BomItem, len(t.BOM))
		copy(c.BOM, t.BOM)
	}
	if t.StartTime != nil {
		st := *t.StartTime
		c.StartTime = &st
	}
	if t.CompletedTime != nil {
		ct := *t.CompletedTime
		c.CompletedTime = &ct
	}
	return &c
}

// TilePatch carries a partial field update. Nil fields are left as-is.
type TilePatch struct {
	Name            *string    `json:"name,omitempty"`
	Stage           *Stage     `json:"status,omitempty"`
	Zone            *string    `json:"zone,omitempty"`
	AssignedTo      *string    `json:"assignedTo,omitempty"`
	Priority        *Priority  `json:"priority,omitempty"`
	EstimatedTime   *string    `json:"estimatedTime,omitempty"`
	BOM             *[]BomItem `json:"bom,omitempty"`
	DxfFile         *string    `json:"dxfFile,omitempty"`
	AssemblyDrawing *string    `json:"assemblyDrawing,omitempty"`
	Machine         *string    `json:"machine,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// Apply merges the patch into the tile. A stage change re-derives
// progress so the progress invariant holds.
func (t *Tile) Apply(p TilePatch) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Stage != nil {
		t.Stage = *p.Stage
		t.Progress = t.Stage.Progress()
	}
	if p.Zone != nil {
		t.Zone = *p.Zone
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.EstimatedTime != nil {
		t.EstimatedTime = *p.EstimatedTime
	}
	if p.BOM != nil {
		t.BOM = *p.BOM
	}
	if p.DxfFile != nil {
		t.DxfFile = *p.DxfFile
	}
	if p.AssemblyDrawing != nil {
		t.AssemblyDrawing = *p.AssemblyDrawing
	}
	if p.Machine != nil {
		t.Machine = *p.Machine
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
}
