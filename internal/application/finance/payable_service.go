package finance

import (
	"context"
	"time"

	"github.com/eletroerp/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayableResponse represents a payable installment in API responses
type PayableResponse struct {
	ID                uuid.UUID       `json:"id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	SupplierName      string          `json:"supplier_name"`
	PurchaseID        uuid.UUID       `json:"purchase_id"`
	InvoiceNumber     string          `json:"invoice_number"`
	Description       string          `json:"description"`
	InstallmentNumber int             `json:"installment_number"`
	InstallmentCount  int             `json:"installment_count"`
	DueDate           time.Time       `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	Overdue           bool            `json:"overdue"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
}

// MarkPaidRequest carries the settlement date of an installment
type MarkPaidRequest struct {
	PaidAt *time.Time `json:"paid_at"`
}

// ToPayableResponse converts a PayableAccount to its response shape
func ToPayableResponse(payable *finance.PayableAccount) PayableResponse {
	return PayableResponse{
		ID:                payable.ID,
		SupplierID:        payable.SupplierID,
		SupplierName:      payable.SupplierName,
		PurchaseID:        payable.PurchaseID,
		InvoiceNumber:     payable.InvoiceNumber,
		Description:       payable.Description,
		InstallmentNumber: payable.InstallmentNumber,
		InstallmentCount:  payable.InstallmentCount,
		DueDate:           payable.DueDate,
		Amount:            payable.Amount,
		Status:            payable.Status.String(),
		Overdue:           payable.IsOverdue(time.Now()),
		PaidAt:            payable.PaidAt,
	}
}

// PayableService exposes the payable ledger: listing open installments,
// tracing a purchase's installments and settling them.
type PayableService struct {
	payableRepo finance.PayableRepository
	logger      *zap.Logger
}

// NewPayableService creates a new PayableService
func NewPayableService(payableRepo finance.PayableRepository, logger *zap.Logger) *PayableService {
	return &PayableService{
		payableRepo: payableRepo,
		logger:      logger,
	}
}

// ListOpen returns all open installments ordered by due date
func (s *PayableService) ListOpen(ctx context.Context) ([]PayableResponse, error) {
	payables, err := s.payableRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]PayableResponse, len(payables))
	for i, payable := range payables {
		responses[i] = ToPayableResponse(payable)
	}
	return responses, nil
}

// GetByPurchase returns the installments generated for a purchase
func (s *PayableService) GetByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]PayableResponse, error) {
	payables, err := s.payableRepo.FindByPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	responses := make([]PayableResponse, len(payables))
	for i, payable := range payables {
		responses[i] = ToPayableResponse(payable)
	}
	return responses, nil
}

// MarkPaid settles an open installment
func (s *PayableService) MarkPaid(ctx context.Context, payableID uuid.UUID, paidAt *time.Time) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByID(ctx, payableID)
	if err != nil {
		return nil, err
	}

	when := time.Now()
	if paidAt != nil {
		when = *paidAt
	}
	if err := payable.MarkPaid(when); err != nil {
		return nil, err
	}
	if err := s.payableRepo.Save(ctx, payable); err != nil {
		return nil, err
	}

	s.logger.Info("payable installment settled",
		zap.String("payable_id", payable.ID.String()),
		zap.String("purchase_id", payable.PurchaseID.String()),
		zap.Int("installment", payable.InstallmentNumber))

	response := ToPayableResponse(payable)
	return &response, nil
}
