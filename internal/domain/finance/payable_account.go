package finance

import (
	"fmt"
	"time"

	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableStatus represents the status of a payable account
type PayableStatus string

const (
	PayableStatusOpen      PayableStatus = "OPEN"
	PayableStatusPaid      PayableStatus = "PAID"
	PayableStatusCancelled PayableStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PayableStatus
func (s PayableStatus) IsValid() bool {
	switch s {
	case PayableStatusOpen, PayableStatusPaid, PayableStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PayableStatus
func (s PayableStatus) String() string {
	return string(s)
}

// PayableAccount is one installment owed to a supplier. Receiving a purchase
// generates one payable per installment of its payment terms.
type PayableAccount struct {
	shared.BaseAggregateRoot
	SupplierID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierName      string          `gorm:"type:varchar(200);not null"`
	PurchaseID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_payable_purchase"`
	InvoiceNumber     string          `gorm:"type:varchar(50);not null"`
	Description       string          `gorm:"type:varchar(255);not null"`
	InstallmentNumber int             `gorm:"not null;default:1"`
	InstallmentCount  int             `gorm:"not null;default:1"`
	DueDate           time.Time       `gorm:"type:date;not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status            PayableStatus   `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Notes             string          `gorm:"type:text"`
	PaidAt            *time.Time
}

// TableName returns the table name for GORM
func (PayableAccount) TableName() string {
	return "payable_accounts"
}

// NewPayableAccount creates a single open installment for a received purchase
func NewPayableAccount(supplierID uuid.UUID, supplierName string, purchaseID uuid.UUID, invoiceNumber string, installmentNumber, installmentCount int, dueDate time.Time, amount valueobject.Money) (*PayableAccount, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if purchaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PURCHASE", "Purchase ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice number cannot be empty")
	}
	if installmentNumber < 1 || installmentCount < 1 || installmentNumber > installmentCount {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT", "Installment number must be within the installment count")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payable amount must be positive")
	}

	payable := &PayableAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		PurchaseID:        purchaseID,
		InvoiceNumber:     invoiceNumber,
		Description:       fmt.Sprintf("NF %s - %s (%d/%d)", invoiceNumber, supplierName, installmentNumber, installmentCount),
		InstallmentNumber: installmentNumber,
		InstallmentCount:  installmentCount,
		DueDate:           dueDate,
		Amount:            amount.Amount(),
		Status:            PayableStatusOpen,
	}

	payable.AddDomainEvent(NewPayableCreatedEvent(payable))

	return payable, nil
}

// MarkPaid settles the installment
func (pa *PayableAccount) MarkPaid(paidAt time.Time) error {
	if pa.Status != PayableStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay a payable in %s status", pa.Status))
	}
	paid := paidAt
	pa.Status = PayableStatusPaid
	pa.PaidAt = &paid
	pa.Touch()
	pa.IncrementVersion()

	pa.AddDomainEvent(NewPayablePaidEvent(pa))

	return nil
}

// Cancel voids an open installment
func (pa *PayableAccount) Cancel(reason string) error {
	if pa.Status != PayableStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a payable in %s status", pa.Status))
	}
	pa.Status = PayableStatusCancelled
	if reason != "" {
		if pa.Notes != "" {
			pa.Notes += "\n"
		}
		pa.Notes += "Cancelled: " + reason
	}
	pa.Touch()
	pa.IncrementVersion()
	return nil
}

// IsOpen returns true if the installment is still outstanding
func (pa *PayableAccount) IsOpen() bool {
	return pa.Status == PayableStatusOpen
}

// IsOverdue returns true if the installment is open past its due date
func (pa *PayableAccount) IsOverdue(now time.Time) bool {
	return pa.Status == PayableStatusOpen && pa.DueDate.Before(now)
}

// GetAmountMoney returns the installment amount as Money
func (pa *PayableAccount) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(pa.Amount)
}
