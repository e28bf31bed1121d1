package purchasing

import (
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchase = "Purchase"

// Event type constants
const (
	EventTypePurchaseRegistered = "PurchaseRegistered"
	EventTypePurchaseReceived   = "PurchaseReceived"
	EventTypePurchaseCancelled  = "PurchaseCancelled"
)

// PurchaseRegisteredEvent is raised when a purchase is registered
type PurchaseRegisteredEvent struct {
	shared.BaseDomainEvent
	PurchaseID    uuid.UUID `json:"purchase_id"`
	InvoiceNumber string    `json:"invoice_number"`
	SupplierID    uuid.UUID `json:"supplier_id"`
	SupplierName  string    `json:"supplier_name"`
}

// NewPurchaseRegisteredEvent creates a new PurchaseRegisteredEvent
func NewPurchaseRegisteredEvent(purchase *Purchase) *PurchaseRegisteredEvent {
	return &PurchaseRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRegistered, AggregateTypePurchase, purchase.ID),
		PurchaseID:      purchase.ID,
		InvoiceNumber:   purchase.InvoiceNumber,
		SupplierID:      purchase.SupplierID,
		SupplierName:    purchase.SupplierName,
	}
}

// EventType returns the event type name
func (e *PurchaseRegisteredEvent) EventType() string {
	return EventTypePurchaseRegistered
}

// PurchaseReceivedEvent is raised when a purchase transitions to RECEIVED.
// It carries everything the payable generation needs so the finance handler
// never has to load the aggregate.
type PurchaseReceivedEvent struct {
	shared.BaseDomainEvent
	PurchaseID    uuid.UUID       `json:"purchase_id"`
	InvoiceNumber string          `json:"invoice_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	Total         decimal.Decimal `json:"total"`
	PaymentTerms  PaymentTerms    `json:"payment_terms"`
}

// NewPurchaseReceivedEvent creates a new PurchaseReceivedEvent
func NewPurchaseReceivedEvent(purchase *Purchase) *PurchaseReceivedEvent {
	return &PurchaseReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseReceived, AggregateTypePurchase, purchase.ID),
		PurchaseID:      purchase.ID,
		InvoiceNumber:   purchase.InvoiceNumber,
		SupplierID:      purchase.SupplierID,
		SupplierName:    purchase.SupplierName,
		Total:           purchase.Total,
		PaymentTerms:    purchase.PaymentTerms,
	}
}

// EventType returns the event type name
func (e *PurchaseReceivedEvent) EventType() string {
	return EventTypePurchaseReceived
}

// PurchaseCancelledEvent is raised when a purchase is cancelled
type PurchaseCancelledEvent struct {
	shared.BaseDomainEvent
	PurchaseID    uuid.UUID `json:"purchase_id"`
	InvoiceNumber string    `json:"invoice_number"`
	SupplierID    uuid.UUID `json:"supplier_id"`
	Reason        string    `json:"reason"`
}

// NewPurchaseCancelledEvent creates a new PurchaseCancelledEvent
func NewPurchaseCancelledEvent(purchase *Purchase, reason string) *PurchaseCancelledEvent {
	return &PurchaseCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCancelled, AggregateTypePurchase, purchase.ID),
		PurchaseID:      purchase.ID,
		InvoiceNumber:   purchase.InvoiceNumber,
		SupplierID:      purchase.SupplierID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *PurchaseCancelledEvent) EventType() string {
	return EventTypePurchaseCancelled
}
