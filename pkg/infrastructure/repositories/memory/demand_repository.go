package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
)

// DemandRepository provides in-memory demand storage
type DemandRepository struct {
	mu      sync.RWMutex
	demands map[string]*entities.Demand
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{
		demands: make(map[string]*entities.Demand),
	}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// Create stores a new demand
func (r *DemandRepository) Create(ctx context.Context, demand *entities.Demand) (*entities.Demand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.demands[demand.ID]; exists {
		return nil, fmt.Errorf("demand already exists: %s", demand.ID)
	}
	cp := *demand
	r.demands[demand.ID] = &cp
	out := cp
	return &out, nil
}

// List returns demands matching the filter, ordered by creation time.
func (r *DemandRepository) List(ctx context.Context, filter repositories.DemandFilter) ([]*entities.Demand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.Demand
	for _, d := range r.demands {
		if filter.ProjectID != "" && d.ProjectID != filter.ProjectID {
			continue
		}
		if filter.TileID != "" && d.TileID != filter.TileID {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
