package inventory

import (
	"context"

	"github.com/eletroerp/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLedger is the single entry point for on-hand quantity changes. Every
// adjustment applies the delta to the material and appends exactly one
// movement record in the same repository set, so the movement history always
// accounts for the current on-hand quantity.
type StockLedger struct{}

// NewStockLedger creates a new StockLedger
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// Adjust shifts the material's on-hand quantity by the signed delta and
// records the movement. Both writes go through the given repository set, so
// callers running inside a transaction scope get atomicity for free.
func (l *StockLedger) Adjust(ctx context.Context, repos TransactionalRepositories, materialID uuid.UUID, delta decimal.Decimal, reason inventory.MovementReason, referenceID, note string) (*inventory.StockMovement, error) {
	material, err := repos.Materials().FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if err := material.ApplyStockDelta(delta); err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(materialID, delta, reason, referenceID, note)
	if err != nil {
		return nil, err
	}

	if err := repos.Materials().Save(ctx, material); err != nil {
		return nil, err
	}
	if err := repos.Movements().Append(ctx, movement); err != nil {
		return nil, err
	}

	return movement, nil
}

// Refraction swaps a package-denominated credit for its unit-denominated
// equivalent: on-hand goes down by the package quantity and up by the unit
// quantity, while a single movement carrying the net delta is recorded.
func (l *StockLedger) Refraction(ctx context.Context, repos TransactionalRepositories, materialID uuid.UUID, packageQty, targetUnits decimal.Decimal, referenceID, note string) (*inventory.StockMovement, error) {
	material, err := repos.Materials().FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if err := material.ApplyStockDelta(packageQty.Neg()); err != nil {
		return nil, err
	}
	if err := material.ApplyStockDelta(targetUnits); err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(materialID, targetUnits.Sub(packageQty), inventory.ReasonFractioningAdjustment, referenceID, note)
	if err != nil {
		return nil, err
	}

	if err := repos.Materials().Save(ctx, material); err != nil {
		return nil, err
	}
	if err := repos.Movements().Append(ctx, movement); err != nil {
		return nil, err
	}

	return movement, nil
}
