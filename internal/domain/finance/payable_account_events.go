package finance

import (
	"time"

	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePayableAccount = "PayableAccount"

// Event type constants
const (
	EventTypePayableCreated = "PayableCreated"
	EventTypePayablePaid    = "PayablePaid"
)

// PayableCreatedEvent is raised when a payable installment is generated
type PayableCreatedEvent struct {
	shared.BaseDomainEvent
	PayableID         uuid.UUID       `json:"payable_id"`
	PurchaseID        uuid.UUID       `json:"purchase_id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	InstallmentNumber int             `json:"installment_number"`
	InstallmentCount  int             `json:"installment_count"`
	DueDate           time.Time       `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
}

// NewPayableCreatedEvent creates a new PayableCreatedEvent
func NewPayableCreatedEvent(payable *PayableAccount) *PayableCreatedEvent {
	return &PayableCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePayableCreated, AggregateTypePayableAccount, payable.ID),
		PayableID:         payable.ID,
		PurchaseID:        payable.PurchaseID,
		SupplierID:        payable.SupplierID,
		InstallmentNumber: payable.InstallmentNumber,
		InstallmentCount:  payable.InstallmentCount,
		DueDate:           payable.DueDate,
		Amount:            payable.Amount,
	}
}

// EventType returns the event type name
func (e *PayableCreatedEvent) EventType() string {
	return EventTypePayableCreated
}

// PayablePaidEvent is raised when a payable installment is settled
type PayablePaidEvent struct {
	shared.BaseDomainEvent
	PayableID  uuid.UUID       `json:"payable_id"`
	PurchaseID uuid.UUID       `json:"purchase_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paid_at"`
}

// NewPayablePaidEvent creates a new PayablePaidEvent
func NewPayablePaidEvent(payable *PayableAccount) *PayablePaidEvent {
	paidAt := time.Now()
	if payable.PaidAt != nil {
		paidAt = *payable.PaidAt
	}
	return &PayablePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayablePaid, AggregateTypePayableAccount, payable.ID),
		PayableID:       payable.ID,
		PurchaseID:      payable.PurchaseID,
		Amount:          payable.Amount,
		PaidAt:          paidAt,
	}
}

// EventType returns the event type name
func (e *PayablePaidEvent) EventType() string {
	return EventTypePayablePaid
}
