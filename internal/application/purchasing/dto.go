package purchasing

import (
	"time"

	"github.com/eletroerp/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Registration DTOs ====================

// RegisterPurchaseRequest is the normalized payload of a supplier invoice,
// entered manually or produced by an invoice parser.
type RegisterPurchaseRequest struct {
	SupplierTaxID    string                      `json:"supplier_tax_id" binding:"required,taxid"`
	SupplierName     string                      `json:"supplier_name" binding:"required,min=1,max=200"`
	SupplierPhone    string                      `json:"supplier_phone" binding:"omitempty,max=30"`
	InvoiceNumber    string                      `json:"invoice_number" binding:"required,min=1,max=50"`
	IssueDate        time.Time                   `json:"issue_date"`
	PurchaseDate     time.Time                   `json:"purchase_date" binding:"required"`
	FreightAmount    decimal.Decimal             `json:"freight_amount"`
	OtherExpenses    decimal.Decimal             `json:"other_expenses"`
	IPIAmount        decimal.Decimal             `json:"ipi_amount"`
	DeclaredTotal    decimal.Decimal             `json:"declared_total"`
	Notes            string                      `json:"notes" binding:"omitempty,max=2000"`
	Items            []RegisterPurchaseItemInput `json:"items" binding:"required,min=1,dive"`
	Installments     []InstallmentInput          `json:"installments" binding:"omitempty,dive"`
	ParcelCount      int                         `json:"parcel_count" binding:"omitempty,min=1,max=120"`
	FirstDueDate     *time.Time                  `json:"first_due_date"`
	PaymentCondition string                      `json:"payment_condition" binding:"omitempty,max=100"`
}

// RegisterPurchaseItemInput is one invoice line
type RegisterPurchaseItemInput struct {
	ProductName     string           `json:"product_name" binding:"required,min=1,max=255"`
	TaxCode         string           `json:"tax_code" binding:"omitempty,max=60"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal  `json:"unit_price" binding:"required"`
	UnitsPerPackage *decimal.Decimal `json:"units_per_package"`
	PackageType     string           `json:"package_type" binding:"omitempty,max=40"`
	PackageUnit     string           `json:"package_unit" binding:"omitempty,max=20"`
}

// InstallmentInput is one entry of an explicit payment schedule
type InstallmentInput struct {
	Number  int             `json:"number" binding:"required,min=1"`
	DueDate time.Time       `json:"due_date" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// ==================== Receiving DTOs ====================

// ReceiveRequest optionally overrides the receiving date
type ReceiveRequest struct {
	ReceivedDate *time.Time `json:"received_date"`
}

// ReceivePartialRequest lists the line items of one physical delivery
type ReceivePartialRequest struct {
	ItemIDs      []uuid.UUID `json:"item_ids" binding:"required,min=1"`
	ReceivedDate *time.Time  `json:"received_date"`
}

// ItemAssociationInput resolves one line item by operator choice: either an
// existing material id or a name for a material to be created.
type ItemAssociationInput struct {
	ItemID          uuid.UUID  `json:"item_id" binding:"required"`
	MaterialID      *uuid.UUID `json:"material_id"`
	NewMaterialName string     `json:"new_material_name" binding:"omitempty,max=255"`
}

// ReceiveWithAssociationsRequest receives a purchase with operator-supplied
// material associations, bypassing fuzzy matching.
type ReceiveWithAssociationsRequest struct {
	Associations []ItemAssociationInput `json:"associations" binding:"required,min=1,dive"`
	ReceivedDate *time.Time             `json:"received_date"`
}

// CancelPurchaseRequest carries the cancellation reason
type CancelPurchaseRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ==================== Responses ====================

// PurchaseItemResponse represents a line item in API responses
type PurchaseItemResponse struct {
	ID                 uuid.UUID        `json:"id"`
	ProductName        string           `json:"product_name"`
	TaxCode            string           `json:"tax_code,omitempty"`
	Quantity           decimal.Decimal  `json:"quantity"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	LineTotal          decimal.Decimal  `json:"line_total"`
	MaterialID         *uuid.UUID       `json:"material_id,omitempty"`
	UnitsPerPackage    *decimal.Decimal `json:"units_per_package,omitempty"`
	PackageType        string           `json:"package_type,omitempty"`
	PackageUnit        string           `json:"package_unit,omitempty"`
	FractioningApplied bool             `json:"fractioning_applied"`
	ReceivedAt         *time.Time       `json:"received_at,omitempty"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID            uuid.UUID               `json:"id"`
	SupplierID    uuid.UUID               `json:"supplier_id"`
	SupplierName  string                  `json:"supplier_name"`
	SupplierTaxID string                  `json:"supplier_tax_id,omitempty"`
	InvoiceNumber string                  `json:"invoice_number"`
	IssueDate     time.Time               `json:"issue_date"`
	PurchaseDate  time.Time               `json:"purchase_date"`
	ReceivedDate  *time.Time              `json:"received_date,omitempty"`
	FreightAmount decimal.Decimal         `json:"freight_amount"`
	OtherExpenses decimal.Decimal         `json:"other_expenses"`
	IPIAmount     decimal.Decimal         `json:"ipi_amount"`
	Subtotal      decimal.Decimal         `json:"subtotal"`
	Total         decimal.Decimal         `json:"total"`
	Status        string                  `json:"status"`
	Notes         string                  `json:"notes,omitempty"`
	PaymentTerms  purchasing.PaymentTerms `json:"payment_terms"`
	Items         []PurchaseItemResponse  `json:"items"`
	ItemCount     int                     `json:"item_count"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ToPurchaseResponse converts a Purchase to its response shape
func ToPurchaseResponse(purchase *purchasing.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, len(purchase.Items))
	for i, item := range purchase.Items {
		items[i] = PurchaseItemResponse{
			ID:                 item.ID,
			ProductName:        item.ProductName,
			TaxCode:            item.TaxCode,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			LineTotal:          item.LineTotal,
			MaterialID:         item.MaterialID,
			UnitsPerPackage:    item.UnitsPerPackage,
			PackageType:        item.PackageType,
			PackageUnit:        item.PackageUnit,
			FractioningApplied: item.FractioningApplied,
			ReceivedAt:         item.ReceivedAt,
		}
	}

	return PurchaseResponse{
		ID:            purchase.ID,
		SupplierID:    purchase.SupplierID,
		SupplierName:  purchase.SupplierName,
		SupplierTaxID: purchase.SupplierTaxID,
		InvoiceNumber: purchase.InvoiceNumber,
		IssueDate:     purchase.IssueDate,
		PurchaseDate:  purchase.PurchaseDate,
		ReceivedDate:  purchase.ReceivedDate,
		FreightAmount: purchase.FreightAmount,
		OtherExpenses: purchase.OtherExpenses,
		IPIAmount:     purchase.IPIAmount,
		Subtotal:      purchase.Subtotal,
		Total:         purchase.Total,
		Status:        purchase.Status.String(),
		Notes:         purchase.Notes,
		PaymentTerms:  purchase.PaymentTerms,
		Items:         items,
		ItemCount:     len(items),
		CreatedAt:     purchase.CreatedAt,
		UpdatedAt:     purchase.UpdatedAt,
	}
}
