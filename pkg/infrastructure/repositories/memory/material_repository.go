package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
)

// MaterialRepository provides in-memory material storage
type MaterialRepository struct {
	mu        sync.RWMutex
	materials map[string]*entities.Material
}

// NewMaterialRepository creates a new in-memory material repository
func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{
		materials: make(map[string]*entities.Material),
	}
}

// Verify interface compliance
var _ repositories.MaterialRepository = (*MaterialRepository)(nil)

// LoadMaterials loads materials into the repository
func (r *MaterialRepository) LoadMaterials(materials []*entities.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range materials {
		cp := *m
		r.materials[m.ID] = &cp
	}
	return nil
}

// All returns every material, ordered by id.
func (r *MaterialRepository) All() []*entities.Material {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Material, 0, len(r.materials))
	for _, m := range r.materials {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Get returns one material by id
func (r *MaterialRepository) Get(id string) (*entities.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.materials[id]
	if !ok {
		return nil, fmt.Errorf("material not found: %s", id)
	}
	cp := *m
	return &cp, nil
}

// AdjustStock applies a signed delta to the material's shared quantity.
// The quantity is not clamped: a negative delta larger than the current
// stock drives it negative, and the matching positive reversal restores
// it exactly.
func (r *MaterialRepository) AdjustStock(id string, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.materials[id]
	if !ok {
		return fmt.Errorf("material not found: %s", id)
	}
	m.Stock = m.Stock.Add(delta)
	return nil
}
