// Package demandgen turns a tile's saved BOM into purchasing demands.
package demandgen

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kamilarndt/fabmanage/pkg/application/notify"
	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
	"github.com/kamilarndt/fabmanage/pkg/infrastructure/events"
)

// Generator issues one purchasing demand per eligible BOM line. A line
// is eligible when it names a material and carries a positive quantity.
type Generator struct {
	demands  repositories.DemandRepository
	notifier notify.Notifier
	bus      *events.Bus
	log      zerolog.Logger

	newID func() string
}

// NewGenerator creates a Generator.
func NewGenerator(demands repositories.DemandRepository, notifier notify.Notifier, bus *events.Bus, log zerolog.Logger) *Generator {
	return &Generator{
		demands:  demands,
		notifier: notifier,
		bus:      bus,
		log:      log.With().Str("component", "demandgen").Logger(),
		newID:    func() string { return uuid.New().String() },
	}
}

// Generate walks the tile's BOM in order and creates a demand for each
// eligible line, sequentially. The first failing create aborts the rest
// of the batch; it returns the number of demands created before the
// failure. Earlier creations are not rolled back.
func (g *Generator) Generate(ctx context.Context, tile *entities.Tile) (int, error) {
	created := 0
	for _, line := range tile.BOM {
		if line.MaterialID == "" || !line.Quantity.IsPositive() {
			continue
		}

		demand, err := entities.NewDemand(g.newID(), tile.ID, line.MaterialID, line.Quantity)
		if err != nil {
			g.fail(created, err)
			return created, err
		}
		demand.ProjectID = tile.Project
		demand.Name = line.Name

		stored, err := g.demands.Create(ctx, demand)
		if err != nil {
			g.fail(created, err)
			return created, fmt.Errorf("creating demand for material %s: %w", line.MaterialID, err)
		}
		created++

		g.log.Debug().
			Str("tile", tile.ID).
			Str("material", line.MaterialID).
			Str("qty", line.Quantity.String()).
			Msg("demand created")
		if g.bus != nil {
			g.bus.Publish(events.NewEvent(events.DemandCreatedEvent, tile.ID, events.DemandCreated{Demand: stored}))
		}
	}

	g.notifier.Success(fmt.Sprintf("Utworzono %d zapotrzebowań", created))
	return created, nil
}

func (g *Generator) fail(created int, err error) {
	g.log.Error().Err(err).Int("created", created).Msg("demand batch aborted")
	g.notifier.Error("Nie udało się wygenerować zapotrzebowań")
}
