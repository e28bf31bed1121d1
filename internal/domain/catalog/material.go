package catalog

import (
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialCategory classifies a catalog entry for reporting and budgeting
type MaterialCategory string

const (
	CategoryElectricalMaterial MaterialCategory = "ELECTRICAL_MATERIAL"
	CategoryTool               MaterialCategory = "TOOL"
	CategoryConsumable         MaterialCategory = "CONSUMABLE"
)

// IsValid checks if the category is a known MaterialCategory
func (c MaterialCategory) IsValid() bool {
	switch c {
	case CategoryElectricalMaterial, CategoryTool, CategoryConsumable:
		return true
	}
	return false
}

// String returns the string representation of MaterialCategory
func (c MaterialCategory) String() string {
	return string(c)
}

// DefaultMinimumQuantity is the stocking floor assigned to materials created
// automatically from purchase line items.
var DefaultMinimumQuantity = decimal.NewFromInt(1)

// Material is the stock-keeping catalog entry a purchase line item resolves to.
// On-hand quantity is mutated only through the stock ledger.
type Material struct {
	shared.BaseAggregateRoot
	Name            string           `gorm:"type:varchar(255);not null;index:idx_material_name"`
	Code            string           `gorm:"type:varchar(60);not null;uniqueIndex:idx_material_code"`
	Category        MaterialCategory `gorm:"type:varchar(30);not null"`
	TaxCode         string           `gorm:"type:varchar(60);index:idx_material_tax_code"`
	Unit            string           `gorm:"type:varchar(20);not null;default:'UN'"`
	UnitPrice       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityOnHand  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SupplierID      *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new catalog entry with zero stock
func NewMaterial(name, code string, category MaterialCategory, taxCode string, unitPrice valueobject.Money, supplierID *uuid.UUID) (*Material, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL_NAME", "Material name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL_CODE", "Material code cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Invalid material category")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Material{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Category:          category,
		TaxCode:           taxCode,
		Unit:              "UN",
		UnitPrice:         unitPrice.Amount(),
		QuantityOnHand:    decimal.Zero,
		MinimumQuantity:   DefaultMinimumQuantity,
		SupplierID:        supplierID,
	}, nil
}

// RefreshPricing updates the unit price and supplier reference when a newer
// purchase quotes a different price.
func (m *Material) RefreshPricing(unitPrice valueobject.Money, supplierID *uuid.UUID) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	m.UnitPrice = unitPrice.Amount()
	if supplierID != nil {
		m.SupplierID = supplierID
	}
	m.Touch()
	m.IncrementVersion()
	return nil
}

// NeedsPriceRefresh reports whether a newly quoted price should overwrite the
// stored one (differing price, or no price recorded yet).
func (m *Material) NeedsPriceRefresh(unitPrice valueobject.Money) bool {
	if m.UnitPrice.IsZero() {
		return true
	}
	return !m.UnitPrice.Equal(unitPrice.Amount())
}

// ApplyStockDelta shifts the on-hand quantity by the signed delta. Only the
// stock ledger calls this; it records the matching movement alongside.
func (m *Material) ApplyStockDelta(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock delta cannot be zero")
	}
	next := m.QuantityOnHand.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Adjustment would drive on-hand quantity negative")
	}
	m.QuantityOnHand = next
	m.Touch()
	m.IncrementVersion()
	return nil
}

// IsBelowMinimum reports whether on-hand stock is under the stocking floor
func (m *Material) IsBelowMinimum() bool {
	return m.QuantityOnHand.LessThan(m.MinimumQuantity)
}

// GetUnitPriceMoney returns the unit price as Money value object
func (m *Material) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(m.UnitPrice)
}
