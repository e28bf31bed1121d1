package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/eletroerp/backend/internal/domain/finance"
	"github.com/eletroerp/backend/internal/domain/purchasing"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// parcelIntervalDays is the spacing between generated equal installments
const parcelIntervalDays = 30

// PurchaseReceivedHandler generates payable installments when a purchase is
// received. Generation is at-most-once per purchase: a second delivery of the
// same event finds the existing installments and does nothing. Failures here
// never affect the receiving that triggered them.
type PurchaseReceivedHandler struct {
	payableRepo finance.PayableRepository
	logger      *zap.Logger
}

// NewPurchaseReceivedHandler creates a new handler for purchase received events
func NewPurchaseReceivedHandler(payableRepo finance.PayableRepository, logger *zap.Logger) *PurchaseReceivedHandler {
	return &PurchaseReceivedHandler{
		payableRepo: payableRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseReceivedHandler) EventTypes() []string {
	return []string{purchasing.EventTypePurchaseReceived}
}

// Handle processes a PurchaseReceivedEvent
func (h *PurchaseReceivedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	receivedEvent, ok := event.(*purchasing.PurchaseReceivedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", purchasing.EventTypePurchaseReceived),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			purchasing.EventTypePurchaseReceived, event.EventType())
	}

	exists, err := h.payableRepo.ExistsByPurchase(ctx, receivedEvent.PurchaseID)
	if err != nil {
		return err
	}
	if exists {
		h.logger.Info("payables already generated for purchase, skipping",
			zap.String("purchase_id", receivedEvent.PurchaseID.String()),
			zap.String("invoice_number", receivedEvent.InvoiceNumber),
		)
		return nil
	}

	terms := receivedEvent.PaymentTerms
	switch terms.Kind {
	case purchasing.PaymentTermsSchedule:
		return h.generateFromSchedule(ctx, receivedEvent, terms.Installments)
	case purchasing.PaymentTermsParcels:
		return h.generateEqualInstallments(ctx, receivedEvent, terms.ParcelCount, terms.FirstDueDate)
	default:
		h.logger.Warn("purchase received without payment terms, no payables generated",
			zap.String("purchase_id", receivedEvent.PurchaseID.String()),
			zap.String("invoice_number", receivedEvent.InvoiceNumber),
		)
		return nil
	}
}

// generateFromSchedule creates one payable per declared installment
func (h *PurchaseReceivedHandler) generateFromSchedule(ctx context.Context, event *purchasing.PurchaseReceivedEvent, installments []purchasing.Installment) error {
	for _, inst := range installments {
		payable, err := finance.NewPayableAccount(
			event.SupplierID,
			event.SupplierName,
			event.PurchaseID,
			event.InvoiceNumber,
			inst.Number,
			len(installments),
			inst.DueDate,
			valueobject.NewMoneyBRL(inst.Amount),
		)
		if err != nil {
			return err
		}
		if err := h.payableRepo.Save(ctx, payable); err != nil {
			return err
		}
	}

	h.logger.Info("payables generated from installment schedule",
		zap.String("purchase_id", event.PurchaseID.String()),
		zap.Int("installments", len(installments)),
	)
	return nil
}

// generateEqualInstallments splits the purchase total into equal parcels. The
// last parcel absorbs the rounding remainder so the parcels sum to the total.
func (h *PurchaseReceivedHandler) generateEqualInstallments(ctx context.Context, event *purchasing.PurchaseReceivedEvent, count int, firstDueDate *time.Time) error {
	if count <= 0 || firstDueDate == nil {
		h.logger.Warn("parcel plan is incomplete, no payables generated",
			zap.String("purchase_id", event.PurchaseID.String()),
			zap.Int("parcel_count", count),
		)
		return nil
	}

	parcel := event.Total.Div(decimal.NewFromInt(int64(count))).Round(2)
	for i := 1; i <= count; i++ {
		amount := parcel
		if i == count {
			amount = event.Total.Sub(parcel.Mul(decimal.NewFromInt(int64(count - 1))))
		}
		dueDate := firstDueDate.AddDate(0, 0, (i-1)*parcelIntervalDays)

		payable, err := finance.NewPayableAccount(
			event.SupplierID,
			event.SupplierName,
			event.PurchaseID,
			event.InvoiceNumber,
			i,
			count,
			dueDate,
			valueobject.NewMoneyBRL(amount),
		)
		if err != nil {
			return err
		}
		if err := h.payableRepo.Save(ctx, payable); err != nil {
			return err
		}
	}

	h.logger.Info("payables generated from parcel plan",
		zap.String("purchase_id", event.PurchaseID.String()),
		zap.Int("parcels", count),
		zap.String("total", event.Total.String()),
	)
	return nil
}
