package purchasing

import (
	"context"
	"fmt"
	"time"

	catalogapp "github.com/eletroerp/backend/internal/application/catalog"
	inventoryapp "github.com/eletroerp/backend/internal/application/inventory"
	"github.com/eletroerp/backend/internal/domain/inventory"
	"github.com/eletroerp/backend/internal/domain/purchasing"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceivingService drives the purchase lifecycle after registration: full,
// partial and operator-associated receiving, plus cancellation. Receiving is
// where inventory truth is established; every stock credit goes through the
// ledger inside the purchase's transaction, and payable generation is
// triggered by the received event after commit.
type ReceivingService struct {
	txScope        inventoryapp.TransactionScope
	ledger         *inventoryapp.StockLedger
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(txScope inventoryapp.TransactionScope, ledger *inventoryapp.StockLedger, logger *zap.Logger) *ReceivingService {
	return &ReceivingService{
		txScope: txScope,
		ledger:  ledger,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceivingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID retrieves a purchase by ID
func (s *ReceivingService) GetByID(ctx context.Context, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	var response PurchaseResponse
	err := s.txScope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		purchase, err := repos.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		response = ToPurchaseResponse(purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves purchases matching the filter
func (s *ReceivingService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PurchaseResponse], error) {
	var result *shared.Paginated[PurchaseResponse]
	err := s.txScope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		page, err := repos.Purchases().List(ctx, filter)
		if err != nil {
			return err
		}
		responses := make([]PurchaseResponse, len(page.Items))
		for i, purchase := range page.Items {
			responses[i] = ToPurchaseResponse(purchase)
		}
		converted := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
		result = &converted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Receive credits stock for every pending line item and transitions the
// purchase to RECEIVED. Idempotent: an already-received purchase is returned
// unchanged with no further stock credit.
func (s *ReceivingService) Receive(ctx context.Context, purchaseID uuid.UUID, receivedDate *time.Time) (*PurchaseResponse, error) {
	var purchase *purchasing.Purchase
	err := s.txScope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Cannot receive a cancelled purchase")
		}
		if purchase.IsReceived() {
			return nil
		}

		for _, item := range purchase.PendingItems() {
			if err := s.creditItem(ctx, repos, purchase, item, effectiveDate(receivedDate)); err != nil {
				return err
			}
		}

		purchase.MarkReceived(effectiveDate(receivedDate))
		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, purchase)

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// ReceivePartial credits stock only for the listed line items. The purchase
// becomes RECEIVED when this call completes the last pending item; otherwise
// it stays PENDING with its received date touched. Items already received are
// skipped, so repeating a delivery never double-credits stock.
func (s *ReceivingService) ReceivePartial(ctx context.Context, purchaseID uuid.UUID, req ReceivePartialRequest) (*PurchaseResponse, error) {
	var purchase *purchasing.Purchase
	err := s.txScope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Cannot receive a cancelled purchase")
		}
		if purchase.IsReceived() {
			return nil
		}

		credited := false
		for _, itemID := range req.ItemIDs {
			item := purchase.GetItem(itemID)
			if item == nil {
				return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Line item %s not found in purchase", itemID))
			}
			if item.IsReceived() {
				continue
			}
			if err := s.creditItem(ctx, repos, purchase, item, effectiveDate(req.ReceivedDate)); err != nil {
				return err
			}
			credited = true
		}

		if purchase.AllItemsReceived() {
			purchase.MarkReceived(effectiveDate(req.ReceivedDate))
		} else if credited {
			purchase.TouchReceivedDate(effectiveDate(req.ReceivedDate))
		}

		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, purchase)

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// ReceiveWithAssociations receives the purchase using operator-supplied
// material choices instead of fuzzy matching: each association either names
// an existing material or asks for a new one to be created. The purchase is
// unconditionally transitioned to RECEIVED.
func (s *ReceivingService) ReceiveWithAssociations(ctx context.Context, purchaseID uuid.UUID, req ReceiveWithAssociationsRequest) (*PurchaseResponse, error) {
	var purchase *purchasing.Purchase
	err := s.txScope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Cannot receive a cancelled purchase")
		}
		if purchase.IsReceived() {
			return nil
		}

		if err := s.applyAssociations(ctx, repos, purchase, req.Associations); err != nil {
			return err
		}

		for _, item := range purchase.PendingItems() {
			if err := s.creditItem(ctx, repos, purchase, item, effectiveDate(req.ReceivedDate)); err != nil {
				return err
			}
		}

		purchase.MarkReceived(effectiveDate(req.ReceivedDate))
		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, purchase)

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// Cancel transitions a pending purchase to CANCELLED, leaving stock and
// payables untouched. A received purchase cannot be cancelled.
func (s *ReceivingService) Cancel(ctx context.Context, purchaseID uuid.UUID, reason string) (*PurchaseResponse, error) {
	var purchase *purchasing.Purchase
	err := s.txScope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		if err := purchase.Cancel(reason); err != nil {
			return err
		}
		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, purchase)

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// creditItem resolves the item's material if it is still unbound, credits
// stock by the purchase quantity and marks the item received.
func (s *ReceivingService) creditItem(ctx context.Context, repos inventoryapp.TransactionalRepositories, purchase *purchasing.Purchase, item *purchasing.PurchaseItem, receivedAt time.Time) error {
	if !item.HasMaterial() {
		resolver := catalogapp.NewMaterialResolver(repos.Materials(), s.logger)
		supplierID := purchase.SupplierID
		material, err := resolver.Resolve(ctx, item.ProductName, item.TaxCode, item.GetUnitPriceMoney(), &supplierID)
		if err != nil {
			return err
		}
		if err := item.BindMaterial(material.ID); err != nil {
			return err
		}
	}

	note := fmt.Sprintf("Receipt NF %s", purchase.InvoiceNumber)
	if item.HasFractioning() {
		note = fmt.Sprintf("Receipt NF %s (%s x %s)", purchase.InvoiceNumber, item.Quantity.String(), item.UnitsPerPackage.String())
	}

	_, err := s.ledger.Adjust(ctx, repos, *item.MaterialID, item.Quantity, inventory.ReasonPurchaseReceipt, purchase.ID.String(), note)
	if err != nil {
		return err
	}

	item.MarkReceived(receivedAt)
	return nil
}

// applyAssociations binds operator-chosen materials to line items, creating
// materials on demand and refreshing price/supplier on existing ones.
func (s *ReceivingService) applyAssociations(ctx context.Context, repos inventoryapp.TransactionalRepositories, purchase *purchasing.Purchase, associations []ItemAssociationInput) error {
	resolver := catalogapp.NewMaterialResolver(repos.Materials(), s.logger)
	supplierID := purchase.SupplierID

	for _, assoc := range associations {
		item := purchase.GetItem(assoc.ItemID)
		if item == nil {
			return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Line item %s not found in purchase", assoc.ItemID))
		}
		if item.IsReceived() {
			continue
		}

		switch {
		case assoc.MaterialID != nil:
			material, err := repos.Materials().FindByID(ctx, *assoc.MaterialID)
			if err != nil {
				return err
			}
			if material.NeedsPriceRefresh(item.GetUnitPriceMoney()) {
				if err := material.RefreshPricing(item.GetUnitPriceMoney(), &supplierID); err != nil {
					return err
				}
				if err := repos.Materials().Save(ctx, material); err != nil {
					return err
				}
			}
			if err := item.BindMaterial(material.ID); err != nil {
				return err
			}

		case assoc.NewMaterialName != "":
			material, err := resolver.Resolve(ctx, assoc.NewMaterialName, item.TaxCode, item.GetUnitPriceMoney(), &supplierID)
			if err != nil {
				return err
			}
			if err := item.BindMaterial(material.ID); err != nil {
				return err
			}

		default:
			return shared.NewDomainError("VALIDATION", "Association must name an existing material or a new material name")
		}
	}

	return nil
}

func effectiveDate(d *time.Time) time.Time {
	if d != nil {
		return *d
	}
	return time.Now()
}

// publishEvents publishes the purchase's domain events after commit. Failures
// are logged only; the receiving transaction has already succeeded.
func (s *ReceivingService) publishEvents(ctx context.Context, purchase *purchasing.Purchase) {
	if s.eventPublisher == nil || purchase == nil {
		return
	}
	events := purchase.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish purchase events",
			zap.String("purchase_id", purchase.ID.String()),
			zap.Error(err))
	}
	purchase.ClearDomainEvents()
}
