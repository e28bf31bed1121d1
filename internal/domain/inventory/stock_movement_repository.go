package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockMovementRepository defines the append-only interface for movement
// persistence. Movements are never updated or deleted.
type StockMovementRepository interface {
	// Append persists a new movement record
	Append(ctx context.Context, movement *StockMovement) error

	// FindByReference finds all movements carrying the given reference id
	FindByReference(ctx context.Context, referenceID string) ([]StockMovement, error)

	// SumByMaterialAndReference sums the signed quantities of all movements
	// with the given reason for one material and one reference id
	SumByMaterialAndReference(ctx context.Context, materialID uuid.UUID, referenceID string, reason MovementReason) (decimal.Decimal, error)
}
