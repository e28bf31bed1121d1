package inventory

import (
	"time"

	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementReason identifies why stock moved
type MovementReason string

const (
	// ReasonPurchaseReceipt is stock credited by receiving a purchase
	ReasonPurchaseReceipt MovementReason = "PURCHASE_RECEIPT"
	// ReasonFractioningAdjustment is the package-to-unit correction applied
	// by the fractioning reconciliation run
	ReasonFractioningAdjustment MovementReason = "FRACTIONING_ADJUSTMENT"
	// ReasonManualAdjustment is an operator-initiated correction
	ReasonManualAdjustment MovementReason = "MANUAL_ADJUSTMENT"
)

// String returns the string representation of MovementReason
func (r MovementReason) String() string {
	return string(r)
}

// IsValid returns true if the reason is part of the known vocabulary
func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonPurchaseReceipt, ReasonFractioningAdjustment, ReasonManualAdjustment:
		return true
	}
	return false
}

// StockMovement is an immutable record of a stock quantity change. Once
// created, movements are never updated or deleted - corrections are new
// movements. The movement history is the sole audit trail the fractioning
// reconciliation uses to infer what was already applied to a purchase.
type StockMovement struct {
	shared.BaseEntity
	MaterialID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_material_ref,priority:1"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // signed: positive credits, negative debits
	Reason      MovementReason  `gorm:"type:varchar(40);not null;index:idx_movement_reason"`
	ReferenceID string          `gorm:"type:varchar(50);not null;index:idx_movement_material_ref,priority:2"`
	Note        string          `gorm:"type:varchar(500)"`
	MovedAt     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record
func NewStockMovement(materialID uuid.UUID, quantity decimal.Decimal, reason MovementReason, referenceID, note string) (*StockMovement, error) {
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material ID cannot be empty")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid movement reason")
	}
	if referenceID == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Movement reference cannot be empty")
	}

	return &StockMovement{
		BaseEntity:  shared.NewBaseEntity(),
		MaterialID:  materialID,
		Quantity:    quantity,
		Reason:      reason,
		ReferenceID: referenceID,
		Note:        note,
		MovedAt:     time.Now(),
	}, nil
}

// IsCredit returns true if the movement increases on-hand quantity
func (m *StockMovement) IsCredit() bool {
	return m.Quantity.IsPositive()
}

// IsDebit returns true if the movement decreases on-hand quantity
func (m *StockMovement) IsDebit() bool {
	return m.Quantity.IsNegative()
}
