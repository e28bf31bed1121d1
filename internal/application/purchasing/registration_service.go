package purchasing

import (
	"context"

	catalogapp "github.com/eletroerp/backend/internal/application/catalog"
	inventoryapp "github.com/eletroerp/backend/internal/application/inventory"
	"github.com/eletroerp/backend/internal/domain/partner"
	"github.com/eletroerp/backend/internal/domain/purchasing"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RegistrationService turns a normalized invoice payload into a persisted
// pending purchase. Registration establishes no inventory or financial
// truth: no stock moves and no payable is generated until the purchase is
// received.
type RegistrationService struct {
	txScope        inventoryapp.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(txScope inventoryapp.TransactionScope, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RegistrationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a pending purchase from the payload: the supplier is
// resolved or created by tax id, every line is bound to a catalog material,
// and totals are fixed. Everything runs in one transaction; a failed attempt
// leaves no purchase, material, or supplier row behind.
func (s *RegistrationService) Register(ctx context.Context, req RegisterPurchaseRequest) (*PurchaseResponse, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	var purchase *purchasing.Purchase
	err := s.txScope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		supplier, err := s.resolveSupplier(ctx, repos, req)
		if err != nil {
			return err
		}

		existing, err := repos.Purchases().FindBySupplierAndInvoice(ctx, supplier.ID, req.InvoiceNumber)
		if err != nil && !shared.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_INVOICE", "Invoice number already registered for this supplier")
		}

		purchase, err = purchasing.NewPurchase(supplier.ID, supplier.Name, supplier.TaxID, supplier.Phone, req.InvoiceNumber, req.IssueDate, req.PurchaseDate)
		if err != nil {
			return err
		}

		if err := purchase.SetExpenses(req.FreightAmount, req.OtherExpenses, req.IPIAmount); err != nil {
			return err
		}

		resolver := catalogapp.NewMaterialResolver(repos.Materials(), s.logger)
		supplierID := supplier.ID
		for _, line := range req.Items {
			unitPrice := valueobject.NewMoneyBRL(line.UnitPrice)

			material, err := resolver.Resolve(ctx, line.ProductName, line.TaxCode, unitPrice, &supplierID)
			if err != nil {
				return err
			}

			var fractioning *purchasing.FractioningSpec
			if line.UnitsPerPackage != nil && line.UnitsPerPackage.GreaterThan(decimal.Zero) {
				fractioning = &purchasing.FractioningSpec{
					UnitsPerPackage: *line.UnitsPerPackage,
					PackageType:     line.PackageType,
					PackageUnit:     line.PackageUnit,
				}
			}

			item, err := purchase.AddItem(line.ProductName, line.TaxCode, line.Quantity, unitPrice, fractioning)
			if err != nil {
				return err
			}
			if err := item.BindMaterial(material.ID); err != nil {
				return err
			}
			purchase.Items[len(purchase.Items)-1] = *item
		}

		purchase.SetPaymentTerms(buildPaymentTerms(req))
		if req.Notes != "" {
			purchase.SetNotes(req.Notes)
		}

		if err := purchase.FinalizeTotals(req.DeclaredTotal); err != nil {
			return err
		}

		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, purchase)

	s.logger.Info("purchase registered",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("invoice_number", purchase.InvoiceNumber),
		zap.String("supplier", purchase.SupplierName),
		zap.Int("items", purchase.ItemCount()))

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// resolveSupplier finds the supplier by tax id, creating it on first contact
func (s *RegistrationService) resolveSupplier(ctx context.Context, repos inventoryapp.TransactionalRepositories, req RegisterPurchaseRequest) (*partner.Supplier, error) {
	supplier, err := repos.Suppliers().FindByTaxID(ctx, req.SupplierTaxID)
	if err == nil {
		return supplier, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	supplier, err = partner.NewSupplier(req.SupplierName, req.SupplierTaxID, req.SupplierPhone)
	if err != nil {
		return nil, err
	}
	if err := repos.Suppliers().Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("created supplier from invoice",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("tax_id", supplier.TaxID))

	return supplier, nil
}

// validateRegisterRequest rejects invalid payloads before any transaction opens
func validateRegisterRequest(req RegisterPurchaseRequest) error {
	if req.InvoiceNumber == "" {
		return shared.NewDomainError("VALIDATION", "Invoice number is required")
	}
	if len(req.Items) == 0 {
		return shared.NewDomainError("VALIDATION", "Purchase must have at least one line item")
	}
	for _, line := range req.Items {
		if line.ProductName == "" {
			return shared.NewDomainError("VALIDATION", "Line item product name is required")
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("VALIDATION", "Line item quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return shared.NewDomainError("VALIDATION", "Line item unit price cannot be negative")
		}
	}
	if req.FreightAmount.IsNegative() || req.OtherExpenses.IsNegative() || req.IPIAmount.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Expense amounts cannot be negative")
	}
	return nil
}

// buildPaymentTerms maps the payload's payment fields onto the tagged
// variant: explicit schedule wins, parcel plan is the fallback.
func buildPaymentTerms(req RegisterPurchaseRequest) purchasing.PaymentTerms {
	if len(req.Installments) > 0 {
		installments := make([]purchasing.Installment, len(req.Installments))
		for i, in := range req.Installments {
			installments[i] = purchasing.Installment{
				Number:  in.Number,
				DueDate: in.DueDate,
				Amount:  in.Amount,
			}
		}
		return purchasing.NewScheduleTerms(installments, req.PaymentCondition)
	}
	if req.ParcelCount > 0 && req.FirstDueDate != nil {
		return purchasing.NewParcelTerms(req.ParcelCount, *req.FirstDueDate, req.PaymentCondition)
	}
	return purchasing.NoPaymentTerms()
}

// publishEvents publishes the purchase's domain events after commit. Failures
// are logged only.
func (s *RegistrationService) publishEvents(ctx context.Context, purchase *purchasing.Purchase) {
	if s.eventPublisher == nil {
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
