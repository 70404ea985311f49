// Package reservation tracks the stock movements one BOM editing session
// makes against the shared material store, so an abandoned session can be
// rolled back exactly.
package reservation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kamilarndt/fabmanage/pkg/application/notify"
	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
	"github.com/kamilarndt/fabmanage/pkg/infrastructure/events"
)

// InsufficientStockError reports a reservation that would overdraw a
// material. Available and Required name the amounts at decision time.
type InsufficientStockError struct {
	MaterialID string
	Available  decimal.Decimal
	Required   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for material %s: available %s, required %s",
		e.MaterialID, e.Available, e.Required)
}

// Ledger accumulates the net stock delta per material applied by one
// editing session. A negative total means the session is holding stock;
// RevertAll returns every held quantity to the store.
type Ledger struct {
	sessionID string
	materials repositories.MaterialRepository
	notifier  notify.Notifier
	bus       *events.Bus
	log       zerolog.Logger

	totals map[string]decimal.Decimal
}

// NewLedger opens a ledger for one editing session.
func NewLedger(materials repositories.MaterialRepository, notifier notify.Notifier, bus *events.Bus, log zerolog.Logger) *Ledger {
	sessionID := uuid.New().String()
	return &Ledger{
		sessionID: sessionID,
		materials: materials,
		notifier:  notifier,
		bus:       bus,
		log:       log.With().Str("component", "reservation").Str("session", sessionID).Logger(),
		totals:    make(map[string]decimal.Decimal),
	}
}

// SessionID returns the ledger's session identifier.
func (l *Ledger) SessionID() string {
	return l.sessionID
}

// Total returns the session's net delta for one material. Zero means the
// session holds nothing.
func (l *Ledger) Total(materialID string) decimal.Decimal {
	return l.totals[materialID]
}

// ApplyDelta moves stock and records the movement. Negative deltas
// consume from the store, positive deltas return to it. A zero delta is
// a no-op.
func (l *Ledger) ApplyDelta(materialID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	if err := l.materials.AdjustStock(materialID, delta); err != nil {
		return fmt.Errorf("adjusting stock for %s: %w", materialID, err)
	}
	l.totals[materialID] = l.totals[materialID].Add(delta)

	l.log.Debug().
		Str("material", materialID).
		Str("delta", delta.String()).
		Str("total", l.totals[materialID].String()).
		Msg("reservation delta applied")
	l.publish(materialID, delta)
	return nil
}

// ChangeQuantity reserves or releases the difference between a line's
// old and new quantity. Increases are guarded against the material's
// current stock and leave everything untouched when it cannot cover the
// increase; decreases always go through.
func (l *Ledger) ChangeQuantity(item entities.BomItem, oldQty, newQty decimal.Decimal) error {
	if !item.ReservesStock() {
		return nil
	}
	need := newQty.Sub(oldQty)
	if need.IsPositive() {
		mat, err := l.materials.Get(item.MaterialID)
		if err != nil {
			return fmt.Errorf("loading material %s: %w", item.MaterialID, err)
		}
		if need.GreaterThan(mat.Stock) {
			l.notifier.Error(fmt.Sprintf(
				"Za mało materiału %s na magazynie: dostępne %s, wymagane %s",
				mat.Name, mat.Stock, need))
			return &InsufficientStockError{
				MaterialID: item.MaterialID,
				Available:  mat.Stock,
				Required:   need,
			}
		}
	}
	return l.ApplyDelta(item.MaterialID, need.Neg())
}

// AddLine reserves stock for a freshly added line.
func (l *Ledger) AddLine(item entities.BomItem) error {
	return l.ChangeQuantity(item, decimal.Zero, item.Quantity)
}

// RemoveLine returns a removed line's full quantity to the store.
func (l *Ledger) RemoveLine(item entities.BomItem) error {
	if !item.ReservesStock() {
		return nil
	}
	return l.ApplyDelta(item.MaterialID, item.Quantity)
}

// RevertAll undoes every recorded movement, returning the store to its
// pre-session quantities. Calling it again after a full revert is a
// no-op. Failed reversals are reported together; the materials they
// cover stay recorded so a later retry can finish the rollback.
func (l *Ledger) RevertAll() error {
	var errs []error
	for materialID, total := range l.totals {
		if total.IsZero() {
			delete(l.totals, materialID)
			continue
		}
		if err := l.materials.AdjustStock(materialID, total.Neg()); err != nil {
			errs = append(errs, fmt.Errorf("reverting %s: %w", materialID, err))
			continue
		}
		l.publish(materialID, total.Neg())
		delete(l.totals, materialID)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	l.log.Debug().Msg("reservation session reverted")
	return nil
}

// Commit keeps the session's movements and clears the ledger, so a
// later RevertAll no longer touches them.
func (l *Ledger) Commit() {
	l.totals = make(map[string]decimal.Decimal)
	l.log.Debug().Msg("reservation session committed")
}

func (l *Ledger) publish(materialID string, delta decimal.Decimal) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(events.NewEvent(events.StockAdjustedEvent, materialID, events.StockAdjusted{
		MaterialID: materialID,
		Delta:      delta,
	}))
}
