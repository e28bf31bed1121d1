package purchasing

import (
	"fmt"
	"time"

	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseStatus represents the lifecycle state of a purchase
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "PENDING"
	PurchaseStatusReceived  PurchaseStatus = "RECEIVED"
	PurchaseStatusCancelled PurchaseStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusReceived, PurchaseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	switch s {
	case PurchaseStatusPending:
		return target == PurchaseStatusReceived || target == PurchaseStatusCancelled
	case PurchaseStatusReceived, PurchaseStatusCancelled:
		return false // Terminal states
	}
	return false
}

// FractioningSpec declares that a line item was bought in sealed packages
// that are stocked in smaller units.
type FractioningSpec struct {
	UnitsPerPackage decimal.Decimal
	PackageType     string // e.g. "caixa", "rolo"
	PackageUnit     string // e.g. "UN", "m"
}

// PurchaseItem represents one product/quantity/price row within a purchase
type PurchaseItem struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key"`
	PurchaseID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName        string           `gorm:"type:varchar(255);not null"`
	TaxCode            string           `gorm:"type:varchar(60)"`
	Quantity           decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitPrice          decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	LineTotal          decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	MaterialID         *uuid.UUID       `gorm:"type:uuid;index"`
	UnitsPerPackage    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PackageType        string           `gorm:"type:varchar(40)"`
	PackageUnit        string           `gorm:"type:varchar(20)"`
	FractioningApplied bool             `gorm:"not null;default:false"`
	ReceivedAt         *time.Time
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// NewPurchaseItem creates a new purchase line item
func NewPurchaseItem(purchaseID uuid.UUID, productName, taxCode string, quantity decimal.Decimal, unitPrice valueobject.Money, fractioning *FractioningSpec) (*PurchaseItem, error) {
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	item := &PurchaseItem{
		ID:          uuid.New(),
		PurchaseID:  purchaseID,
		ProductName: productName,
		TaxCode:     taxCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		LineTotal:   quantity.Mul(unitPrice.Amount()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if fractioning != nil {
		if fractioning.UnitsPerPackage.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_FRACTIONING", "Units per package must be positive")
		}
		factor := fractioning.UnitsPerPackage
		item.UnitsPerPackage = &factor
		item.PackageType = fractioning.PackageType
		item.PackageUnit = fractioning.PackageUnit
	}

	return item, nil
}

// BindMaterial links the line item to a catalog entry. The link, once set,
// is never cleared or repointed.
func (i *PurchaseItem) BindMaterial(materialID uuid.UUID) error {
	if materialID == uuid.Nil {
		return shared.NewDomainError("INVALID_MATERIAL", "Material ID cannot be empty")
	}
	if i.MaterialID != nil && *i.MaterialID != materialID {
		return shared.NewDomainError("MATERIAL_ALREADY_BOUND", "Line item is already bound to a different material")
	}
	i.MaterialID = &materialID
	i.UpdatedAt = time.Now()
	return nil
}

// HasMaterial reports whether the item is linked to a catalog entry
func (i *PurchaseItem) HasMaterial() bool {
	return i.MaterialID != nil && *i.MaterialID != uuid.Nil
}

// IsReceived reports whether stock has already been credited for this item
func (i *PurchaseItem) IsReceived() bool {
	return i.ReceivedAt != nil
}

// MarkReceived records the moment stock was credited for this item
func (i *PurchaseItem) MarkReceived(at time.Time) {
	if i.ReceivedAt != nil {
		return
	}
	received := at
	i.ReceivedAt = &received
	i.UpdatedAt = time.Now()
}

// HasFractioning reports whether the item declares a package-to-unit factor
func (i *PurchaseItem) HasFractioning() bool {
	return i.UnitsPerPackage != nil && i.UnitsPerPackage.GreaterThan(decimal.Zero)
}

// NeedsFractioning reports whether the item still awaits the package-to-unit
// correction
func (i *PurchaseItem) NeedsFractioning() bool {
	return i.HasFractioning() && !i.FractioningApplied
}

// TargetUnits returns the unit-denominated quantity (packages x factor)
func (i *PurchaseItem) TargetUnits() decimal.Decimal {
	if !i.HasFractioning() {
		return i.Quantity
	}
	return i.Quantity.Mul(*i.UnitsPerPackage)
}

// MarkFractioningApplied flips the applied flag. The transition happens
// exactly once; a second call is rejected.
func (i *PurchaseItem) MarkFractioningApplied() error {
	if i.FractioningApplied {
		return shared.NewDomainError("FRACTIONING_ALREADY_APPLIED", "Fractioning was already applied to this line item")
	}
	i.FractioningApplied = true
	i.UpdatedAt = time.Now()
	return nil
}

// GetUnitPriceMoney returns the unit price as Money value object
func (i *PurchaseItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.UnitPrice)
}

// Purchase is the aggregate root for a supplier invoice recorded in the
// system. Its lifecycle is independent of stock effects: registration
// persists it PENDING with no inventory or payable side effects; receiving
// credits stock and triggers payable generation.
type Purchase struct {
	shared.BaseAggregateRoot
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_supplier_invoice,priority:1"`
	SupplierName  string          `gorm:"type:varchar(200);not null"`
	SupplierTaxID string          `gorm:"type:varchar(20)"`
	SupplierPhone string          `gorm:"type:varchar(30)"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_supplier_invoice,priority:2"`
	IssueDate     time.Time       `gorm:"type:date"`
	PurchaseDate  time.Time       `gorm:"type:date;not null"`
	ReceivedDate  *time.Time      `gorm:"type:date"`
	FreightAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OtherExpenses decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IPIAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        PurchaseStatus  `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Notes         string          `gorm:"type:text"`
	PaymentTerms  PaymentTerms    `gorm:"type:jsonb"`
	Items         []PurchaseItem  `gorm:"foreignKey:PurchaseID;references:ID"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a new purchase with status PENDING
func NewPurchase(supplierID uuid.UUID, supplierName, supplierTaxID, supplierPhone, invoiceNumber string, issueDate, purchaseDate time.Time) (*Purchase, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("VALIDATION", "Invoice number is required")
	}

	purchase := &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		SupplierTaxID:     supplierTaxID,
		SupplierPhone:     supplierPhone,
		InvoiceNumber:     invoiceNumber,
		IssueDate:         issueDate,
		PurchaseDate:      purchaseDate,
		FreightAmount:     decimal.Zero,
		OtherExpenses:     decimal.Zero,
		IPIAmount:         decimal.Zero,
		Subtotal:          decimal.Zero,
		Total:             decimal.Zero,
		Status:            PurchaseStatusPending,
		PaymentTerms:      NoPaymentTerms(),
		Items:             make([]PurchaseItem, 0),
	}

	purchase.AddDomainEvent(NewPurchaseRegisteredEvent(purchase))

	return purchase, nil
}

// AddItem adds a new line item. Only allowed while PENDING.
func (p *Purchase) AddItem(productName, taxCode string, quantity decimal.Decimal, unitPrice valueobject.Money, fractioning *FractioningSpec) (*PurchaseItem, error) {
	if p.Status != PurchaseStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending purchase")
	}

	item, err := NewPurchaseItem(p.ID, productName, taxCode, quantity, unitPrice, fractioning)
	if err != nil {
		return nil, err
	}

	p.Items = append(p.Items, *item)
	p.Touch()
	p.IncrementVersion()

	return item, nil
}

// SetExpenses records the freight, other-expenses and IPI amounts
func (p *Purchase) SetExpenses(freight, otherExpenses, ipi decimal.Decimal) error {
	if p.Status != PurchaseStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot update expenses of a non-pending purchase")
	}
	if freight.IsNegative() || otherExpenses.IsNegative() || ipi.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amounts cannot be negative")
	}
	p.FreightAmount = freight
	p.OtherExpenses = otherExpenses
	p.IPIAmount = ipi
	p.Touch()
	return nil
}

// SetPaymentTerms records the payment metadata captured from the invoice
func (p *Purchase) SetPaymentTerms(terms PaymentTerms) {
	p.PaymentTerms = terms
	p.Touch()
}

// SetNotes sets the free-text notes
func (p *Purchase) SetNotes(notes string) {
	p.Notes = notes
	p.Touch()
}

// FinalizeTotals computes the subtotal from the line items and fixes the
// total: the supplier-declared total when positive, otherwise
// subtotal+freight+other+IPI. Called once at registration; totals are never
// recomputed afterwards.
func (p *Purchase) FinalizeTotals(declaredTotal decimal.Decimal) error {
	if p.Status != PurchaseStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Totals are fixed once the purchase leaves pending")
	}
	if len(p.Items) == 0 {
		return shared.NewDomainError("VALIDATION", "Purchase must have at least one line item")
	}

	subtotal := decimal.Zero
	for _, item := range p.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	p.Subtotal = subtotal

	if declaredTotal.GreaterThan(decimal.Zero) {
		p.Total = declaredTotal
	} else {
		p.Total = subtotal.Add(p.FreightAmount).Add(p.OtherExpenses).Add(p.IPIAmount)
	}

	p.Touch()
	p.IncrementVersion()
	return nil
}

// GetItem returns a line item by its ID
func (p *Purchase) GetItem(itemID uuid.UUID) *PurchaseItem {
	for idx := range p.Items {
		if p.Items[idx].ID == itemID {
			return &p.Items[idx]
		}
	}
	return nil
}

// PendingItems returns the line items whose stock has not been credited yet
func (p *Purchase) PendingItems() []*PurchaseItem {
	pending := make([]*PurchaseItem, 0)
	for idx := range p.Items {
		if !p.Items[idx].IsReceived() {
			pending = append(pending, &p.Items[idx])
		}
	}
	return pending
}

// AllItemsReceived reports whether every line item has had stock credited
func (p *Purchase) AllItemsReceived() bool {
	for idx := range p.Items {
		if !p.Items[idx].IsReceived() {
			return false
		}
	}
	return len(p.Items) > 0
}

// HasFractioningPending reports whether any line item still awaits the
// package-to-unit correction
func (p *Purchase) HasFractioningPending() bool {
	for idx := range p.Items {
		if p.Items[idx].NeedsFractioning() {
			return true
		}
	}
	return false
}

// MarkReceived transitions the purchase to RECEIVED, recording the received
// date and emitting the received event. Idempotent: a purchase that is
// already RECEIVED is left untouched.
func (p *Purchase) MarkReceived(receivedDate time.Time) {
	if p.Status == PurchaseStatusReceived {
		return
	}
	received := receivedDate
	p.Status = PurchaseStatusReceived
	p.ReceivedDate = &received
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPurchaseReceivedEvent(p))
}

// TouchReceivedDate records the date of a partial delivery without changing
// the overall status
func (p *Purchase) TouchReceivedDate(receivedDate time.Time) {
	received := receivedDate
	p.ReceivedDate = &received
	p.Touch()
}

// Cancel transitions the purchase to CANCELLED. A purchase that was already
// received must be reversed through a return process instead.
func (p *Purchase) Cancel(reason string) error {
	if p.Status == PurchaseStatusReceived {
		return shared.NewDomainError("ALREADY_RECEIVED", "Cannot cancel a received purchase; use a return instead")
	}
	if !p.Status.CanTransitionTo(PurchaseStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel purchase in %s status", p.Status))
	}

	p.Status = PurchaseStatusCancelled
	if reason != "" {
		if p.Notes != "" {
			p.Notes += "\n"
		}
		p.Notes += "Cancelled: " + reason
	}
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPurchaseCancelledEvent(p, reason))

	return nil
}

// IsPending returns true if the purchase is still pending
func (p *Purchase) IsPending() bool {
	return p.Status == PurchaseStatusPending
}

// IsReceived returns true if the purchase was received
func (p *Purchase) IsReceived() bool {
	return p.Status == PurchaseStatusReceived
}

// IsCancelled returns true if the purchase was cancelled
func (p *Purchase) IsCancelled() bool {
	return p.Status == PurchaseStatusCancelled
}

// GetTotalMoney returns the purchase total as Money
func (p *Purchase) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.Total)
}

// ItemCount returns the number of line items
func (p *Purchase) ItemCount() int {
	return len(p.Items)
}
